package main

import (
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sarchlab/vpsim/trace"
)

func newConvertCmd() *cobra.Command {
	var text bool

	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Convert a trace to the binary format (or to text with --text)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := convertTrace(args[0], args[1], !text)
			if err != nil {
				return err
			}
			newLogger().Info("trace converted", "events", n, "out", args[1])
			return nil
		},
	}

	cmd.Flags().BoolVar(&text, "text", false, "Write the text format")
	return cmd
}

func convertTrace(in, out string, binaryFormat bool) (int, error) {
	r, err := trace.Open(in)
	if err != nil {
		return 0, err
	}
	defer func() { _ = r.Close() }()

	w, err := trace.Create(out, binaryFormat)
	if err != nil {
		return 0, err
	}

	n := 0
	for {
		ev, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = w.Close()
			return n, errors.Wrap(err, "failed to read input trace")
		}
		if err := w.Write(ev); err != nil {
			_ = w.Close()
			return n, err
		}
		n++
	}

	return n, w.Close()
}
