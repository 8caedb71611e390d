package trace

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"

	"github.com/golang/snappy"
	"github.com/pkg/errors"

	"github.com/sarchlab/vpsim/values"
)

// Magic identifies a binary trace stream.
var Magic = [4]byte{'V', 'P', 'T', 'R'}

// Version is the binary format version written by BinaryWriter.
const Version = 1

const (
	flagWritesRegister = 1 << iota
	flagMemoryRead
	flagDataMove
	flagArithmetic
)

// BinaryWriter writes events as a snappy-framed stream of little-endian
// records behind an uncompressed header.
type BinaryWriter struct {
	w   *snappy.Writer
	buf []byte
}

// NewBinaryWriter writes the header to w and returns a writer for events.
// Close flushes the stream but does not close w.
func NewBinaryWriter(w io.Writer) (*BinaryWriter, error) {
	header := append(Magic[:], Version)
	if _, err := w.Write(header); err != nil {
		return nil, errors.Wrap(err, "failed to write trace header")
	}

	return &BinaryWriter{
		w:   snappy.NewBufferedWriter(w),
		buf: make([]byte, 0, 32),
	}, nil
}

// Write encodes one event.
func (bw *BinaryWriter) Write(ev Event) error {
	buf := bw.buf[:0]
	buf = append(buf, byte(ev.Kind))
	buf = binary.LittleEndian.AppendUint64(buf, ev.Addr)

	switch ev.Kind {
	case KindValue:
		var flags byte
		if ev.WritesRegister {
			flags |= flagWritesRegister
		}
		if ev.MemoryRead {
			flags |= flagMemoryRead
		}
		if ev.DataMove {
			flags |= flagDataMove
		}
		if ev.Arithmetic {
			flags |= flagArithmetic
		}
		if ev.ReadOperands < 0 || ev.ReadOperands > 0xFF {
			return errors.Errorf("read operand count %d out of range", ev.ReadOperands)
		}

		class := ev.Value.Class()
		width := class.Width()
		raw := ev.Value.Bytes()
		buf = append(buf, flags, byte(class), byte(ev.ReadOperands), byte(width))
		buf = append(buf, raw[:width]...)
	case KindBranch:
		var taken byte
		if ev.Taken {
			taken = 1
		}
		buf = append(buf, taken)
	default:
		return errors.Errorf("cannot encode event kind %d", ev.Kind)
	}

	bw.buf = buf
	if _, err := bw.w.Write(buf); err != nil {
		return errors.Wrap(err, "failed to write trace event")
	}
	return nil
}

// Close flushes buffered events.
func (bw *BinaryWriter) Close() error {
	return errors.Wrap(bw.w.Close(), "failed to flush trace")
}

// BinaryReader decodes a stream written by BinaryWriter.
type BinaryReader struct {
	r *bufio.Reader
}

// NewBinaryReader checks the header of r and returns a reader for its events.
func NewBinaryReader(r io.Reader) (*BinaryReader, error) {
	header := make([]byte, len(Magic)+1)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, errors.Wrap(err, "failed to read trace header")
	}
	if !bytes.Equal(header[:len(Magic)], Magic[:]) {
		return nil, errors.New("not a binary trace")
	}
	if header[len(Magic)] != Version {
		return nil, errors.Errorf("unsupported trace version %d", header[len(Magic)])
	}

	return &BinaryReader{r: bufio.NewReader(snappy.NewReader(r))}, nil
}

// Next decodes the next event.
func (br *BinaryReader) Next() (Event, error) {
	kind, err := br.r.ReadByte()
	if err == io.EOF {
		return Event{}, io.EOF
	}
	if err != nil {
		return Event{}, errors.Wrap(err, "failed to read trace event")
	}

	var addr [8]byte
	if _, err := io.ReadFull(br.r, addr[:]); err != nil {
		return Event{}, errors.Wrap(err, "truncated trace event")
	}
	ev := Event{Kind: Kind(kind), Addr: binary.LittleEndian.Uint64(addr[:])}

	switch ev.Kind {
	case KindValue:
		var fields [4]byte
		if _, err := io.ReadFull(br.r, fields[:]); err != nil {
			return Event{}, errors.Wrap(err, "truncated value event")
		}
		flags, class, width := fields[0], values.Class(fields[1]), int(fields[3])
		if !class.Valid() || width > values.MaxWidth {
			return Event{}, errors.Errorf("corrupt value event at 0x%x", ev.Addr)
		}

		payload := make([]byte, width)
		if _, err := io.ReadFull(br.r, payload); err != nil {
			return Event{}, errors.Wrap(err, "truncated value payload")
		}

		ev.WritesRegister = flags&flagWritesRegister != 0
		ev.MemoryRead = flags&flagMemoryRead != 0
		ev.DataMove = flags&flagDataMove != 0
		ev.Arithmetic = flags&flagArithmetic != 0
		ev.ReadOperands = int(fields[2])
		ev.Value = values.FromBytes(class, payload)
	case KindBranch:
		taken, err := br.r.ReadByte()
		if err != nil {
			return Event{}, errors.Wrap(err, "truncated branch event")
		}
		ev.Taken = taken != 0
	default:
		return Event{}, errors.Errorf("unknown trace event kind %d", kind)
	}

	return ev, nil
}
