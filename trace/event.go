// Package trace provides the instruction event stream consumed by the
// simulator, in a compact binary form and a line-oriented text form.
package trace

import (
	"io"

	"github.com/sarchlab/vpsim/insts"
	"github.com/sarchlab/vpsim/values"
)

// Kind represents the type of a trace event.
type Kind uint8

// Event kinds.
const (
	KindUnknown Kind = iota
	KindValue        // A retired instruction and the value it wrote
	KindBranch       // A retired branch and its direction
)

// Event is one retired instruction as reported by the instrumentation.
type Event struct {
	Kind Kind
	Addr uint64

	// Value events
	WritesRegister bool
	Value          values.Value
	MemoryRead     bool
	DataMove       bool
	Arithmetic     bool
	ReadOperands   int

	// Branch events
	Taken bool
}

// Shape returns the classification inputs of a value event.
func (e Event) Shape() insts.Shape {
	return insts.Shape{
		MemoryRead:   e.MemoryRead,
		Class:        e.Value.Class(),
		DataMove:     e.DataMove,
		Arithmetic:   e.Arithmetic,
		ReadOperands: e.ReadOperands,
	}
}

// Reader is a source of trace events. Next returns io.EOF after the last
// event.
type Reader interface {
	Next() (Event, error)
}

// Writer is a sink of trace events.
type Writer interface {
	Write(ev Event) error
	Close() error
}

// ReadAll drains r into a slice.
func ReadAll(r Reader) ([]Event, error) {
	var events []Event
	for {
		ev, err := r.Next()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
}

// SliceReader replays a fixed list of events.
type SliceReader struct {
	events []Event
	pos    int
}

// NewSliceReader creates a reader over events.
func NewSliceReader(events []Event) *SliceReader {
	return &SliceReader{events: events}
}

// Next returns the next event.
func (r *SliceReader) Next() (Event, error) {
	if r.pos >= len(r.events) {
		return Event{}, io.EOF
	}
	ev := r.events[r.pos]
	r.pos++
	return ev, nil
}
