package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/vpsim/report"
	"github.com/sarchlab/vpsim/sim"
	"github.com/sarchlab/vpsim/store"
)

func newReportsCmd() *cobra.Command {
	var dbDir string

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Inspect stored results",
	}
	cmd.PersistentFlags().StringVar(&dbDir, "db", "vpsim.db", "Results store directory")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stored results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(dbDir)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			names, err := db.List()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	var format string
	show := &cobra.Command{
		Use:   "show <name>...",
		Short: "Print stored results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			db, err := store.Open(dbDir)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			results := make([]sim.Result, 0, len(args))
			for _, name := range args {
				r, err := db.Get(name)
				if err != nil {
					return err
				}
				results = append(results, r)
			}
			return report.Write(cmd.OutOrStdout(), f, results)
		},
	}
	show.Flags().StringVar(&format, "format", string(report.FormatText), "Output format: text or json")

	cmd.AddCommand(list, show)
	return cmd
}
