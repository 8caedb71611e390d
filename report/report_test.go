package report_test

import (
	"bytes"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vpsim/predictor"
	"github.com/sarchlab/vpsim/report"
	"github.com/sarchlab/vpsim/sim"
)

func sampleResult() sim.Result {
	return sim.Result{
		Name: "sample",
		Value: predictor.Report{
			Reason: predictor.ReasonLimitReached, LimitReached: true,
			Tables: predictor.TableSizing{VPTSize: 1024, CTCounterBits: 2, CTMax: 3},
			Total: predictor.Totals{
				Instructions: 2, HitCount: 10, PrevSeen: 4, PredSuccess: 3, PredFailed: 1,
			},
			Categories: []predictor.CategoryTotals{
				{Category: "PURE_LOAD", Totals: predictor.Totals{Instructions: 2, HitCount: 10}},
			},
		},
		Branch: predictor.BranchReport{Reason: predictor.ReasonFini, TableSize: 8, Seen: 12},
	}
}

var _ = Describe("Report", func() {
	It("should parse formats", func() {
		f, err := report.ParseFormat("json")
		Expect(err).NotTo(HaveOccurred())
		Expect(f).To(Equal(report.FormatJSON))

		_, err = report.ParseFormat("xml")
		Expect(err).To(HaveOccurred())
	})

	It("should render text tables", func() {
		var buf bytes.Buffer
		Expect(report.Write(&buf, report.FormatText, []sim.Result{sampleResult()})).To(Succeed())

		out := buf.String()
		Expect(out).To(ContainSubstring("Run: sample"))
		Expect(out).To(ContainSubstring("Reason: limit reached"))
		Expect(out).To(ContainSubstring("PURE_LOAD"))
		Expect(out).To(ContainSubstring("TOTAL"))
		Expect(out).To(ContainSubstring("75.00"))
		Expect(out).To(ContainSubstring("1024"))
	})

	It("should render JSON", func() {
		var buf bytes.Buffer
		Expect(report.Write(&buf, report.FormatJSON, []sim.Result{sampleResult()})).To(Succeed())

		var decoded []sim.Result
		Expect(json.Unmarshal(buf.Bytes(), &decoded)).To(Succeed())
		Expect(decoded).To(HaveLen(1))
		Expect(decoded[0].Value.LimitReached).To(BeTrue())
		Expect(decoded[0].Value.Total.PredSuccess).To(Equal(uint64(3)))
		Expect(decoded[0].Branch.Seen).To(Equal(uint64(12)))
	})
})
