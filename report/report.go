// Package report renders simulation results for people and for tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"github.com/sarchlab/vpsim/predictor"
	"github.com/sarchlab/vpsim/sim"
)

// Format selects how results are rendered.
type Format string

// Output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON:
		return Format(s), nil
	default:
		return "", errors.Errorf("unknown output format %q", s)
	}
}

// Write renders results to w in the given format.
func Write(w io.Writer, format Format, results []sim.Result) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, results)
	default:
		for _, r := range results {
			if err := WriteText(w, r); err != nil {
				return err
			}
		}
		return nil
	}
}

// WriteJSON writes results as an indented JSON array.
func WriteJSON(w io.Writer, results []sim.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(results), "failed to encode results")
}

func u(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func totalsRow(name string, t predictor.Totals) []string {
	return []string{
		name,
		u(t.Instructions),
		u(t.HitCount),
		u(t.PrevSeen),
		u(t.PredSuccess),
		u(t.PredFailed),
		u(t.MissedSuccess),
		pct(t.Accuracy()),
	}
}

// WriteText writes one result as a set of tables.
func WriteText(w io.Writer, r sim.Result) error {
	v := r.Value
	if _, err := fmt.Fprintf(w, "Run: %s\nReason: %s\n\n", r.Name, v.Reason); err != nil {
		return errors.Wrap(err, "failed to write report")
	}

	sizing := tablewriter.NewWriter(w)
	sizing.SetHeader([]string{"Table", "Value"})
	sizing.AppendBulk([][]string{
		{"VPT entries", u(v.Tables.VPTSize)},
		{"VPT index bits", u(uint64(v.Tables.VPTBits))},
		{"History depth", strconv.Itoa(v.Tables.HistoryDepth)},
		{"CT entries", u(v.Tables.CTSize)},
		{"CT index bits", u(uint64(v.Tables.CTBits))},
		{"CT counter bits", u(uint64(v.Tables.CTCounterBits))},
		{"CT max", u(uint64(v.Tables.CTMax))},
		{"Predict threshold", u(uint64(v.Tables.PredictThreshold))},
		{"Replace threshold", u(uint64(v.Tables.ReplaceThreshold))},
		{"Instruction limit", u(v.Tables.InstructionLimit)},
	})
	sizing.Render()

	stats := tablewriter.NewWriter(w)
	stats.SetHeader([]string{
		"Category", "Insts", "Hits", "Prev seen", "Success", "Failed", "Missed", "Accuracy %",
	})
	for _, c := range v.Categories {
		stats.Append(totalsRow(c.Category, c.Totals))
	}
	stats.SetFooter(totalsRow("TOTAL", v.Total))
	stats.Render()

	b := r.Branch
	branch := tablewriter.NewWriter(w)
	branch.SetHeader([]string{"Branch predictor", "Value"})
	branch.AppendBulk([][]string{
		{"Reason", b.Reason},
		{"Table size", u(b.TableSize)},
		{"Count seen", u(b.Seen)},
		{"Count taken", u(b.Taken)},
		{"Count correct", u(b.Correct)},
		{"Count replaced", u(b.Replaced)},
		{"Percent correct", pct(b.Accuracy)},
		{"Last branch history reg", u(uint64(b.LastBHR))},
	})
	branch.Render()

	_, err := fmt.Fprintln(w)
	return errors.Wrap(err, "failed to write report")
}
