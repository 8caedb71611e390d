package predictor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vpsim/predictor"
)

var _ = Describe("BranchPredictor", func() {
	var bp *predictor.BranchPredictor

	BeforeEach(func() {
		bp = predictor.NewBranchPredictor(predictor.BranchPredictorConfig{TableSize: 8})
	})

	Describe("Lookup and Insert", func() {
		It("should miss on an empty table", func() {
			Expect(bp.Lookup(0x1000)).To(BeFalse())
		})

		It("should hit after insert", func() {
			bp.Insert(0x1000)
			Expect(bp.Lookup(0x1000)).To(BeTrue())
			Expect(bp.Predict(0x1000)).To(BeTrue())
		})

		It("should count a replacement when the slot is taken", func() {
			pc1 := uint64(0x1000)
			pc2 := uint64(0x1008) // same index with 8 entries

			bp.Insert(pc1)
			bp.Insert(pc2)

			Expect(bp.Lookup(pc1)).To(BeFalse())
			Expect(bp.Lookup(pc2)).To(BeTrue())
			Expect(bp.Stats().Replaced).To(Equal(uint64(1)))
			Expect(bp.ReplaceCount(pc2)).To(Equal(uint64(1)))
		})

		It("should not count a replacement for a fresh slot", func() {
			bp.Insert(0x1000)
			bp.Insert(0x1001)
			Expect(bp.Stats().Replaced).To(Equal(uint64(0)))
		})
	})

	Describe("saturating counter", func() {
		It("should flip after one not-taken", func() {
			pc := uint64(0x2000)
			bp.Insert(pc)

			bp.Update(pc, true)
			Expect(bp.Predict(pc)).To(BeTrue())

			bp.Update(pc, false)
			Expect(bp.Predict(pc)).To(BeFalse())

			bp.Update(pc, false)
			Expect(bp.Predict(pc)).To(BeFalse())

			bp.Update(pc, true)
			Expect(bp.Predict(pc)).To(BeTrue())
		})
	})

	Describe("Observe", func() {
		It("should predict unseen branches not taken", func() {
			Expect(bp.Observe(0x3000, false)).To(BeTrue())
			Expect(bp.Lookup(0x3000)).To(BeFalse())
		})

		It("should insert a missed taken branch", func() {
			Expect(bp.Observe(0x3000, true)).To(BeFalse())
			Expect(bp.Lookup(0x3000)).To(BeTrue())
			Expect(bp.Observe(0x3000, true)).To(BeTrue())
		})

		It("should count seen, taken and correct", func() {
			pc := uint64(0x4000)
			outcomes := []bool{true, true, false, true, false, false}
			for _, taken := range outcomes {
				bp.Observe(pc, taken)
			}

			// miss+insert(x), hit T(ok), hit N(x), hit T(x), hit N(x), hit N(ok)
			stats := bp.Stats()
			Expect(stats.Seen).To(Equal(uint64(6)))
			Expect(stats.Taken).To(Equal(uint64(3)))
			Expect(stats.Correct).To(Equal(uint64(2)))
			Expect(stats.Accuracy()).To(BeNumerically("~", 33.33, 0.01))
			Expect(stats.MispredictionRate()).To(BeNumerically("~", 66.67, 0.01))
		})
	})

	Describe("Report", func() {
		It("should carry the reason and table size", func() {
			bp.Observe(0x10, true)
			r := bp.Report(true)
			Expect(r.Reason).To(Equal(predictor.ReasonLimitReached))
			Expect(r.TableSize).To(Equal(uint64(8)))
			Expect(r.Seen).To(Equal(uint64(1)))
			Expect(r.LastBHR).To(Equal(uint8(0)))

			Expect(bp.Report(false).Reason).To(Equal(predictor.ReasonFini))
		})
	})

	Describe("Reset", func() {
		It("should clear state and statistics", func() {
			bp.Observe(0x10, true)
			bp.Reset()
			Expect(bp.Lookup(0x10)).To(BeFalse())
			Expect(bp.Stats()).To(Equal(predictor.BranchPredictorStats{}))
		})
	})

	It("should default the table size", func() {
		bp = predictor.NewBranchPredictor(predictor.BranchPredictorConfig{})
		Expect(bp.TableSize()).To(Equal(predictor.DefaultBranchPredictorConfig().TableSize))
	})
})
