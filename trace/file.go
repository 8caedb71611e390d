package trace

import (
	"bufio"
	"bytes"
	"os"

	"github.com/pkg/errors"
)

// FileReader is a Reader backed by an open file.
type FileReader struct {
	Reader
	f *os.File
}

// Close closes the underlying file.
func (fr *FileReader) Close() error {
	return fr.f.Close()
}

// Open opens a trace file, detecting the binary format by its magic and
// falling back to the text format.
func Open(path string) (*FileReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open trace")
	}

	br := bufio.NewReader(f)
	head, _ := br.Peek(len(Magic))

	var r Reader
	if bytes.Equal(head, Magic[:]) {
		r, err = NewBinaryReader(br)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
	} else {
		r = NewTextReader(br)
	}

	return &FileReader{Reader: r, f: f}, nil
}

// FileWriter is a Writer backed by a created file.
type FileWriter struct {
	Writer
	f *os.File
}

// Close flushes the writer and closes the file.
func (fw *FileWriter) Close() error {
	err := fw.Writer.Close()
	if cerr := fw.f.Close(); err == nil {
		err = errors.Wrap(cerr, "failed to close trace")
	}
	return err
}

// Create creates a trace file in the binary or text format.
func Create(path string, binaryFormat bool) (*FileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create trace")
	}

	var w Writer
	if binaryFormat {
		w, err = NewBinaryWriter(f)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
	} else {
		w = NewTextWriter(f)
	}

	return &FileWriter{Writer: w, f: f}, nil
}
