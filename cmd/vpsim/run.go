package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sarchlab/vpsim/predictor"
	"github.com/sarchlab/vpsim/report"
	"github.com/sarchlab/vpsim/sim"
	"github.com/sarchlab/vpsim/store"
)

type runOptions struct {
	configPath string
	format     string
	save       string
	dbDir      string

	vptBits       uint
	ctBits        uint
	ctCounterBits uint
	historyDepth  int
	limit         uint64
	branchSize    uint64
	branchLimit   uint64
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	defaults := predictor.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "run <trace>...",
		Short: "Run traces through the predictors and print the report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraces(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "Path to a JSON or YAML predictor config")
	f.StringVar(&opts.format, "format", string(report.FormatText), "Output format: text or json")
	f.StringVar(&opts.save, "save", "", "Store the result under this name (single trace only)")
	f.StringVar(&opts.dbDir, "db", "vpsim.db", "Results store directory")
	f.UintVar(&opts.vptBits, "vpt-bits", defaults.VPTBits, "VPT index bits")
	f.UintVar(&opts.ctBits, "ct-bits", defaults.CTBits, "CT index bits")
	f.UintVar(&opts.ctCounterBits, "ct-counter-bits", defaults.CTCounterBits,
		"CT confidence counter bits (0 = perfect classifier)")
	f.IntVar(&opts.historyDepth, "history", defaults.HistoryDepth, "Values kept per VPT entry")
	f.Uint64Var(&opts.limit, "limit", defaults.InstructionLimit, "Stop after this many instructions (0 = no limit)")
	f.Uint64Var(&opts.branchSize, "branch-size", defaults.BranchTableSize, "Branch predictor entries")
	f.Uint64Var(&opts.branchLimit, "branch-limit", defaults.BranchLimit, "Stop after this many branches (0 = no limit)")

	return cmd
}

// resolveConfig loads the config file, if any, and applies flags the user set.
func resolveConfig(cmd *cobra.Command, opts *runOptions) (*predictor.Config, error) {
	config := predictor.DefaultConfig()
	if opts.configPath != "" {
		var err error
		config, err = predictor.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
	}

	f := cmd.Flags()
	if f.Changed("vpt-bits") {
		config.VPTBits = opts.vptBits
	}
	if f.Changed("ct-bits") {
		config.CTBits = opts.ctBits
	}
	if f.Changed("ct-counter-bits") {
		config.CTCounterBits = opts.ctCounterBits
	}
	if f.Changed("history") {
		config.HistoryDepth = opts.historyDepth
	}
	if f.Changed("limit") {
		config.InstructionLimit = opts.limit
	}
	if f.Changed("branch-size") {
		config.BranchTableSize = opts.branchSize
	}
	if f.Changed("branch-limit") {
		config.BranchLimit = opts.branchLimit
	}

	return config, config.Validate()
}

func runTraces(cmd *cobra.Command, opts *runOptions, paths []string) error {
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.save != "" && len(paths) != 1 {
		return errors.New("--save needs exactly one trace")
	}

	config, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger := newLogger()
	logger.Info("simulating", "traces", len(paths),
		"vpt_bits", config.VPTBits, "ct_counter_bits", config.CTCounterBits,
		"history", config.HistoryDepth)

	results, err := sim.RunFiles(cmd.Context(), config, paths, sim.WithLogger(logger))
	if err != nil {
		return err
	}

	if opts.save != "" {
		db, err := store.Open(opts.dbDir)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if err := db.Put(opts.save, results[0]); err != nil {
			return err
		}
		logger.Info("result saved", "name", opts.save, "db", opts.dbDir)
	}

	return report.Write(cmd.OutOrStdout(), format, results)
}
