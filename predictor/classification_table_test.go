package predictor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vpsim/predictor"
)

var _ = Describe("ClassificationTable", func() {
	DescribeTable("ThresholdsFor",
		func(bits uint, max, pred, rep uint32) {
			t := predictor.ThresholdsFor(bits)
			Expect(t.Max).To(Equal(max))
			Expect(t.Predict).To(Equal(pred))
			Expect(t.Replace).To(Equal(rep))
			Expect(t.Perfect()).To(Equal(bits == 0))
		},
		Entry("perfect", uint(0), uint32(0), uint32(0), uint32(0)),
		Entry("1 bit", uint(1), uint32(1), uint32(1), uint32(1)),
		Entry("2 bits", uint(2), uint32(3), uint32(2), uint32(3)),
		Entry("3 bits", uint(3), uint32(7), uint32(2), uint32(5)),
		Entry("4 bits", uint(4), uint32(15), uint32(8), uint32(15)),
		Entry("6 bits", uint(6), uint32(63), uint32(32), uint32(63)),
	)

	Describe("Record with 2-bit counters", func() {
		var ct *predictor.ClassificationTable
		const addr = uint64(0x40)

		BeforeEach(func() {
			ct = predictor.NewClassificationTable(4, 2)
			ct.Touch(addr)
		})

		It("should walk 0->1->2->3 on hits and freeze at 3", func() {
			o, frozen := ct.Record(addr, true)
			Expect(o).To(Equal(predictor.OutcomeMissedSuccess))
			Expect(ct.Counter(addr)).To(Equal(uint32(1)))
			Expect(frozen).To(BeFalse())

			o, frozen = ct.Record(addr, true)
			Expect(o).To(Equal(predictor.OutcomeMissedSuccess))
			Expect(ct.Counter(addr)).To(Equal(uint32(2)))
			Expect(ct.Trusted(addr)).To(BeTrue())
			Expect(frozen).To(BeFalse())

			o, frozen = ct.Record(addr, true)
			Expect(o).To(Equal(predictor.OutcomeSuccess))
			Expect(ct.Counter(addr)).To(Equal(uint32(3)))
			Expect(frozen).To(BeTrue())

			o, _ = ct.Record(addr, true)
			Expect(o).To(Equal(predictor.OutcomeSuccess))
			Expect(ct.Counter(addr)).To(Equal(uint32(3)))
		})

		It("should score a trusted miss as a failure", func() {
			ct.Record(addr, true)
			ct.Record(addr, true)

			o, frozen := ct.Record(addr, false)
			Expect(o).To(Equal(predictor.OutcomeFailed))
			Expect(ct.Counter(addr)).To(Equal(uint32(1)))
			Expect(frozen).To(BeFalse())
		})

		It("should not score an untrusted miss", func() {
			o, _ := ct.Record(addr, false)
			Expect(o).To(Equal(predictor.OutcomeUnscoredMiss))
			Expect(ct.Counter(addr)).To(Equal(uint32(0)))
		})
	})

	Describe("perfect mode", func() {
		It("should always trust and never freeze or fail", func() {
			ct := predictor.NewClassificationTable(4, 0)
			ct.Touch(0x1)

			o, frozen := ct.Record(0x1, true)
			Expect(o).To(Equal(predictor.OutcomeSuccess))
			Expect(frozen).To(BeFalse())

			o, frozen = ct.Record(0x1, false)
			Expect(o).To(Equal(predictor.OutcomeUnscoredMiss))
			Expect(frozen).To(BeFalse())
			Expect(ct.Counter(0x1)).To(Equal(uint32(0)))
		})
	})

	Describe("Touch", func() {
		It("should keep a counter already claimed by an alias", func() {
			ct := predictor.NewClassificationTable(2, 2)
			ct.Touch(0x1)
			ct.Record(0x1, true)

			ct.Touch(0x5) // same index as 0x1
			Expect(ct.Counter(0x5)).To(Equal(uint32(1)))
			Expect(ct.Size()).To(Equal(uint64(4)))
		})
	})
})
