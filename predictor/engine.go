package predictor

import (
	"fmt"

	"github.com/sarchlab/vpsim/insts"
	"github.com/sarchlab/vpsim/values"
)

// ValueEvent is one retired instruction that wrote a register.
type ValueEvent struct {
	Addr  uint64
	Value values.Value
	// Shape is used once, to categorize the instruction on first sighting.
	// Its Class is taken from Value.
	Shape insts.Shape
}

// Engine is the value predictor. It owns the instruction records, the
// Value History Table and the Classification Table of one instruction
// stream. It is not safe for concurrent use.
type Engine struct {
	config Config

	records map[uint64]*InstructionRecord
	order   []uint64

	vpt *ValueHistoryTable
	ct  *ClassificationTable

	observed     uint64
	limitReached bool
}

// NewEngine creates an engine sized by config. The config must be valid.
func NewEngine(config Config) *Engine {
	return &Engine{
		config:  config,
		records: make(map[uint64]*InstructionRecord),
		vpt:     NewValueHistoryTable(config.VPTBits, config.HistoryDepth),
		ct:      NewClassificationTable(config.CTBits, config.CTCounterBits),
	}
}

// Observe runs one value event through the predictor and returns the
// prediction outcome. Once the instruction limit is reached further events
// are ignored and OutcomeNone is returned.
//
// An event whose value class differs from the class already recorded for
// its address panics.
func (e *Engine) Observe(ev ValueEvent) Outcome {
	if e.limitReached {
		return OutcomeNone
	}
	e.observed++

	rec, ok := e.records[ev.Addr]
	if !ok {
		rec = newInstructionRecord(ev.Addr, ev.Value, ev.Shape)
		e.records[ev.Addr] = rec
		e.order = append(e.order, ev.Addr)
	} else if rec.Class != ev.Value.Class() {
		panic(fmt.Sprintf("predictor: instruction 0x%x wrote a %s value, recorded as %s",
			ev.Addr, ev.Value.Class(), rec.Class))
	}
	rec.observe(ev.Value, !ok)

	outcome := e.predict(ev.Addr, ev.Value)
	rec.score(outcome)

	if e.config.InstructionLimit > 0 && e.observed >= e.config.InstructionLimit {
		e.limitReached = true
	}

	return outcome
}

// predict looks v up in the history of addr, trains the confidence counter
// and updates the history.
func (e *Engine) predict(addr uint64, v values.Value) Outcome {
	if e.vpt.Claim(addr, v) {
		e.ct.Touch(addr)
		return OutcomeNone
	}

	hit := e.vpt.Contains(addr, v)
	outcome, frozen := e.ct.Record(addr, hit)

	switch {
	case hit:
		e.vpt.Promote(addr, v)
	case !frozen:
		e.vpt.Push(addr, v)
	}

	return outcome
}

// Done reports whether the instruction limit has been reached.
func (e *Engine) Done() bool {
	return e.limitReached
}

// Observed returns the number of events processed.
func (e *Engine) Observed() uint64 {
	return e.observed
}

// Record returns the record of addr, if the address has been observed.
func (e *Engine) Record(addr uint64) (*InstructionRecord, bool) {
	rec, ok := e.records[addr]
	return rec, ok
}

// Records returns all records in first-seen order.
func (e *Engine) Records() []*InstructionRecord {
	recs := make([]*InstructionRecord, 0, len(e.order))
	for _, addr := range e.order {
		recs = append(recs, e.records[addr])
	}
	return recs
}

// ValueHistoryTable returns the engine's history table.
func (e *Engine) ValueHistoryTable() *ValueHistoryTable {
	return e.vpt
}

// ClassificationTable returns the engine's confidence table.
func (e *Engine) ClassificationTable() *ClassificationTable {
	return e.ct
}
