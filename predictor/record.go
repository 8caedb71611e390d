package predictor

import (
	"github.com/sarchlab/vpsim/insts"
	"github.com/sarchlab/vpsim/values"
)

// InstructionRecord holds the metadata and running statistics of one
// tracked instruction address.
type InstructionRecord struct {
	Addr     uint64
	Class    values.Class
	Category insts.Category

	// HitCount is the number of times the instruction was observed.
	HitCount uint64
	// PrevSeen counts writes that repeated the immediately preceding value.
	PrevSeen uint64
	// PredSuccess counts trusted predictions that were correct.
	PredSuccess uint64
	// PredFailed counts trusted predictions that were wrong.
	PredFailed uint64
	// MissedSuccess counts untrusted histories that held the value.
	MissedSuccess uint64

	// LastValue is the most recent value written.
	LastValue values.Value
}

func newInstructionRecord(addr uint64, v values.Value, shape insts.Shape) *InstructionRecord {
	shape.Class = v.Class()
	return &InstructionRecord{
		Addr:      addr,
		Class:     v.Class(),
		Category:  insts.Classify(shape),
		LastValue: v,
	}
}

// observe updates the hit and repeat counters with a new value.
func (r *InstructionRecord) observe(v values.Value, first bool) {
	r.HitCount++
	if !first && r.LastValue.Equal(v) {
		r.PrevSeen++
	}
	r.LastValue = v
}

// score adds a prediction outcome to the record.
func (r *InstructionRecord) score(o Outcome) {
	switch o {
	case OutcomeSuccess:
		r.PredSuccess++
	case OutcomeFailed:
		r.PredFailed++
	case OutcomeMissedSuccess:
		r.MissedSuccess++
	}
}
