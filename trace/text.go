package trace

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sarchlab/vpsim/values"
)

// Text traces hold one event per line:
//
//	V <addr> <class> <value> [flags] [read-operands]
//	B <addr> <0|1>
//
// Flags is a combination of m (memory read), d (data move), a (arithmetic)
// and n (no register written); "-" means none. Integer values accept any
// base prefix understood by strconv; float values are decimal or 0x bit
// patterns. Blank lines and lines starting with # are skipped.

// TextReader parses a text trace.
type TextReader struct {
	scanner *bufio.Scanner
	line    int
}

// NewTextReader creates a reader over r.
func NewTextReader(r io.Reader) *TextReader {
	return &TextReader{scanner: bufio.NewScanner(r)}
}

// Next parses the next event.
func (tr *TextReader) Next() (Event, error) {
	for tr.scanner.Scan() {
		tr.line++
		line := strings.TrimSpace(tr.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		ev, err := parseLine(strings.Fields(line))
		if err != nil {
			return Event{}, errors.Wrapf(err, "trace line %d", tr.line)
		}
		return ev, nil
	}

	if err := tr.scanner.Err(); err != nil {
		return Event{}, errors.Wrap(err, "failed to read text trace")
	}
	return Event{}, io.EOF
}

func parseLine(fields []string) (Event, error) {
	switch fields[0] {
	case "V", "v":
		return parseValue(fields[1:])
	case "B", "b":
		return parseBranch(fields[1:])
	default:
		return Event{}, errors.Errorf("unknown event kind %q", fields[0])
	}
}

func parseValue(fields []string) (Event, error) {
	if len(fields) < 3 || len(fields) > 5 {
		return Event{}, errors.New("value event needs <addr> <class> <value> [flags] [ops]")
	}

	addr, err := strconv.ParseUint(fields[0], 0, 64)
	if err != nil {
		return Event{}, errors.Wrap(err, "bad address")
	}
	class, err := values.ParseClass(fields[1])
	if err != nil {
		return Event{}, err
	}
	v, err := parseRegisterValue(class, fields[2])
	if err != nil {
		return Event{}, err
	}

	ev := Event{Kind: KindValue, Addr: addr, WritesRegister: true, Value: v}

	if len(fields) > 3 && fields[3] != "-" {
		for _, f := range fields[3] {
			switch f {
			case 'm':
				ev.MemoryRead = true
			case 'd':
				ev.DataMove = true
			case 'a':
				ev.Arithmetic = true
			case 'n':
				ev.WritesRegister = false
			default:
				return Event{}, errors.Errorf("unknown flag %q", f)
			}
		}
	}

	if len(fields) > 4 {
		ops, err := strconv.Atoi(fields[4])
		if err != nil || ops < 0 {
			return Event{}, errors.Errorf("bad read operand count %q", fields[4])
		}
		ev.ReadOperands = ops
	}

	return ev, nil
}

func parseRegisterValue(class values.Class, s string) (values.Value, error) {
	if class.IsFloat() && !strings.HasPrefix(s, "0x") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return values.Value{}, errors.Wrap(err, "bad float value")
		}
		return values.FromFloat64(f), nil
	}

	u, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return values.Value{}, errors.Wrap(err, "bad value")
	}
	return values.FromUint64(class, u), nil
}

func parseBranch(fields []string) (Event, error) {
	if len(fields) != 2 {
		return Event{}, errors.New("branch event needs <addr> <0|1>")
	}

	addr, err := strconv.ParseUint(fields[0], 0, 64)
	if err != nil {
		return Event{}, errors.Wrap(err, "bad address")
	}
	taken, err := strconv.ParseBool(fields[1])
	if err != nil {
		return Event{}, errors.Wrap(err, "bad branch direction")
	}

	return Event{Kind: KindBranch, Addr: addr, Taken: taken}, nil
}

// TextWriter writes events in the text trace format.
type TextWriter struct {
	w *bufio.Writer
}

// NewTextWriter creates a writer over w. Close flushes but does not close w.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w)}
}

// Write formats one event.
func (tw *TextWriter) Write(ev Event) error {
	var err error
	switch ev.Kind {
	case KindValue:
		_, err = fmt.Fprintf(tw.w, "V 0x%x %s %s %s %d\n",
			ev.Addr, ev.Value.Class(), formatValue(ev.Value), formatFlags(ev), ev.ReadOperands)
	case KindBranch:
		taken := 0
		if ev.Taken {
			taken = 1
		}
		_, err = fmt.Fprintf(tw.w, "B 0x%x %d\n", ev.Addr, taken)
	default:
		return errors.Errorf("cannot encode event kind %d", ev.Kind)
	}
	return errors.Wrap(err, "failed to write trace event")
}

// Close flushes buffered output.
func (tw *TextWriter) Close() error {
	return errors.Wrap(tw.w.Flush(), "failed to flush trace")
}

func formatValue(v values.Value) string {
	if v.Class().IsFloat() {
		raw := v.Bytes()
		bits := uint64(0)
		for i := 7; i >= 0; i-- {
			bits = bits<<8 | uint64(raw[i])
		}
		if f := math.Float64frombits(bits); !math.IsNaN(f) && !math.IsInf(f, 0) {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		return fmt.Sprintf("0x%x", bits)
	}
	return fmt.Sprintf("0x%x", v.Uint64())
}

func formatFlags(ev Event) string {
	var sb strings.Builder
	if ev.MemoryRead {
		sb.WriteByte('m')
	}
	if ev.DataMove {
		sb.WriteByte('d')
	}
	if ev.Arithmetic {
		sb.WriteByte('a')
	}
	if !ev.WritesRegister {
		sb.WriteByte('n')
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}
