package predictor

// Thresholds are the confidence constants derived from the counter width.
type Thresholds struct {
	// CounterBits is the configured counter width.
	CounterBits uint
	// Max is the saturation value of a counter.
	Max uint32
	// Predict is the count at which the history is trusted.
	Predict uint32
	// Replace is the count at which the history stops being replaced.
	Replace uint32
}

// Perfect reports whether the thresholds describe the perfect classifier,
// which always trusts and always updates the history.
func (t Thresholds) Perfect() bool {
	return t.CounterBits == 0
}

// ThresholdsFor derives the confidence constants for a counter width.
func ThresholdsFor(counterBits uint) Thresholds {
	t := Thresholds{CounterBits: counterBits}

	switch counterBits {
	case 0:
		// Perfect classifier: no counters.
	case 1:
		t.Max, t.Predict, t.Replace = 1, 1, 1
	case 2:
		t.Max, t.Predict, t.Replace = 3, 2, 3
	case 3:
		t.Max, t.Predict, t.Replace = 7, 2, 5
	default:
		t.Max = uint32(1)<<counterBits - 1
		t.Predict = uint32(1) << (counterBits - 1)
		t.Replace = t.Max
	}

	return t
}

// Outcome is the prediction result recorded for one value event.
type Outcome uint8

// Prediction outcomes.
const (
	// OutcomeNone means no prediction took place (first sighting of a slot).
	OutcomeNone Outcome = iota
	// OutcomeSuccess is a trusted history that contained the value.
	OutcomeSuccess
	// OutcomeFailed is a trusted history that did not contain the value.
	OutcomeFailed
	// OutcomeMissedSuccess is an untrusted history that contained the value.
	OutcomeMissedSuccess
	// OutcomeUnscoredMiss is a history miss that does not count as a failure:
	// the history was untrusted, or the classifier is perfect.
	OutcomeUnscoredMiss
)

var outcomeNames = [...]string{
	OutcomeNone:          "none",
	OutcomeSuccess:       "success",
	OutcomeFailed:        "failed",
	OutcomeMissedSuccess: "missed_success",
	OutcomeUnscoredMiss: "unscored_miss",
}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// ClassificationTable is a direct-mapped table of confidence counters. It
// decides whether a Value History Table slot is trusted for prediction and
// whether it may still be modified.
type ClassificationTable struct {
	counters   []SaturatingCounter
	present    []bool
	mask       uint64
	thresholds Thresholds
}

// NewClassificationTable creates a table with 2^indexBits counters of
// counterBits bits each.
func NewClassificationTable(indexBits, counterBits uint) *ClassificationTable {
	size := uint64(1) << indexBits
	ct := &ClassificationTable{
		counters:   make([]SaturatingCounter, size),
		present:    make([]bool, size),
		mask:       size - 1,
		thresholds: ThresholdsFor(counterBits),
	}
	for i := range ct.counters {
		ct.counters[i] = NewSaturatingCounter(ct.thresholds.Max, 0)
	}
	return ct
}

// Index returns the slot addr maps to.
func (ct *ClassificationTable) Index(addr uint64) uint64 {
	return addr & ct.mask
}

// Size returns the number of counters.
func (ct *ClassificationTable) Size() uint64 {
	return uint64(len(ct.counters))
}

// Thresholds returns the confidence constants in use.
func (ct *ClassificationTable) Thresholds() Thresholds {
	return ct.thresholds
}

// Touch claims the counter addr maps to, zeroing it if no address has
// claimed it before. A counter already claimed through an alias is kept.
func (ct *ClassificationTable) Touch(addr uint64) {
	idx := ct.Index(addr)
	if !ct.present[idx] {
		ct.present[idx] = true
		ct.counters[idx].Set(0)
	}
}

// Counter returns the confidence count of the slot addr maps to.
func (ct *ClassificationTable) Counter(addr uint64) uint32 {
	return ct.counters[ct.Index(addr)].Value()
}

// Trusted reports whether the history for addr is used as a prediction.
func (ct *ClassificationTable) Trusted(addr uint64) bool {
	if ct.thresholds.Perfect() {
		return true
	}
	return ct.Counter(addr) >= ct.thresholds.Predict
}

// Frozen reports whether the history for addr must not be replaced.
func (ct *ClassificationTable) Frozen(addr uint64) bool {
	if ct.thresholds.Perfect() {
		return false
	}
	return ct.Counter(addr) >= ct.thresholds.Replace
}

// Record scores a history lookup for addr and trains the counter. It
// returns the prediction outcome and whether the history is frozen after
// training.
func (ct *ClassificationTable) Record(addr uint64, hit bool) (Outcome, bool) {
	counter := &ct.counters[ct.Index(addr)]
	trusted := ct.Trusted(addr)

	var outcome Outcome
	switch {
	case hit && trusted:
		outcome = OutcomeSuccess
	case hit:
		outcome = OutcomeMissedSuccess
	case trusted && !ct.thresholds.Perfect():
		outcome = OutcomeFailed
	default:
		outcome = OutcomeUnscoredMiss
	}

	if hit {
		counter.Increment()
	} else {
		counter.Decrement()
	}

	return outcome, ct.Frozen(addr)
}
