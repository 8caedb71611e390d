package predictor

// BranchPredictorConfig holds configuration for the branch predictor.
type BranchPredictorConfig struct {
	// TableSize is the number of entries in the table.
	// Must be a power of 2. Default is 8.
	TableSize uint64
}

// DefaultBranchPredictorConfig returns a default configuration.
func DefaultBranchPredictorConfig() BranchPredictorConfig {
	return BranchPredictorConfig{
		TableSize: 8,
	}
}

// BranchPredictorStats holds statistics for the branch predictor.
type BranchPredictorStats struct {
	// Seen is the total number of branches observed.
	Seen uint64
	// Taken is the number of taken branches.
	Taken uint64
	// Correct is the number of correct predictions.
	Correct uint64
	// Replaced is the number of inserts that evicted a valid entry.
	Replaced uint64
}

// Accuracy returns the prediction accuracy as a percentage.
func (s BranchPredictorStats) Accuracy() float64 {
	if s.Seen == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Seen) * 100
}

// MispredictionRate returns the misprediction rate as a percentage.
func (s BranchPredictorStats) MispredictionRate() float64 {
	if s.Seen == 0 {
		return 0
	}
	return float64(s.Seen-s.Correct) / float64(s.Seen) * 100
}

const (
	// bhrContexts is the number of branch history contexts the table is
	// dimensioned for. Only context 0 is reached: the history register is
	// never shifted.
	bhrContexts = 2

	branchPredictThreshold = 0
	branchCounterMax       = 1
	branchCounterInit      = 1
)

// branchEntry is one direct-mapped slot.
type branchEntry struct {
	valid        bool
	tag          uint64
	counter      SaturatingCounter
	replaceCount uint64
}

// BranchPredictor is a direct-mapped table of saturating counters with a
// not-taken bias for branches it has never seen taken.
type BranchPredictor struct {
	table [bhrContexts][]branchEntry
	size  uint64

	// Branch history register. Selects the table context.
	bhr uint8

	stats BranchPredictorStats
}

// NewBranchPredictor creates a new branch predictor with the given configuration.
func NewBranchPredictor(config BranchPredictorConfig) *BranchPredictor {
	size := config.TableSize
	if size == 0 {
		size = 8
	}

	bp := &BranchPredictor{size: size}
	for i := range bp.table {
		bp.table[i] = make([]branchEntry, size)
	}
	bp.Reset()

	return bp
}

// index computes the table index for a given address.
func (bp *BranchPredictor) index(addr uint64) uint64 {
	return addr & (bp.size - 1)
}

func (bp *BranchPredictor) entry(addr uint64) *branchEntry {
	return &bp.table[bp.bhr][bp.index(addr)]
}

// Lookup reports whether the table holds an entry tagged with addr.
func (bp *BranchPredictor) Lookup(addr uint64) bool {
	e := bp.entry(addr)
	return e.valid && e.tag == addr
}

// Predict returns the taken prediction of the slot addr maps to.
func (bp *BranchPredictor) Predict(addr uint64) bool {
	return bp.entry(addr).counter.Value() > branchPredictThreshold
}

// Update moves the slot counter towards the actual outcome.
func (bp *BranchPredictor) Update(addr uint64, taken bool) {
	e := bp.entry(addr)
	if taken {
		e.counter.Increment()
	} else {
		e.counter.Decrement()
	}
}

// Insert claims the slot for addr, counting a replacement if the slot
// was holding another branch.
func (bp *BranchPredictor) Insert(addr uint64) {
	e := bp.entry(addr)
	if e.valid {
		e.replaceCount++
		bp.stats.Replaced++
	}

	e.valid = true
	e.tag = addr
	e.counter.Set(branchCounterInit)
}

// Observe runs one branch through the predictor and returns whether it
// was predicted correctly. Branches missing from the table are predicted
// not taken and are only inserted once they are seen taken.
func (bp *BranchPredictor) Observe(addr uint64, taken bool) bool {
	bp.stats.Seen++
	if taken {
		bp.stats.Taken++
	}

	var correct bool
	if bp.Lookup(addr) {
		correct = bp.Predict(addr) == taken
		bp.Update(addr, taken)
	} else {
		correct = !taken
		if taken {
			bp.Insert(addr)
		}
	}

	if correct {
		bp.stats.Correct++
	}
	return correct
}

// ReplaceCount returns how many times the slot addr maps to was replaced.
func (bp *BranchPredictor) ReplaceCount(addr uint64) uint64 {
	return bp.entry(addr).replaceCount
}

// TableSize returns the number of entries per context.
func (bp *BranchPredictor) TableSize() uint64 {
	return bp.size
}

// BHR returns the branch history register.
func (bp *BranchPredictor) BHR() uint8 {
	return bp.bhr
}

// Stats returns the branch predictor statistics.
func (bp *BranchPredictor) Stats() BranchPredictorStats {
	return bp.stats
}

// Reset clears all predictor state and statistics.
func (bp *BranchPredictor) Reset() {
	for ctx := range bp.table {
		for i := range bp.table[ctx] {
			bp.table[ctx][i] = branchEntry{
				counter: NewSaturatingCounter(branchCounterMax, branchCounterInit),
			}
		}
	}

	bp.bhr = 0
	bp.stats = BranchPredictorStats{}
}
