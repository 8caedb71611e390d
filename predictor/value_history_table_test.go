package predictor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vpsim/predictor"
	"github.com/sarchlab/vpsim/values"
)

func i64(v uint64) values.Value {
	return values.FromUint64(values.Int64, v)
}

var _ = Describe("ValueHistoryTable", func() {
	var vpt *predictor.ValueHistoryTable

	BeforeEach(func() {
		vpt = predictor.NewValueHistoryTable(4, 3)
	})

	It("should create and seed a slot on first claim", func() {
		Expect(vpt.Claim(0x100, i64(5))).To(BeTrue())
		Expect(vpt.History(0x100)).To(Equal([]values.Value{i64(5)}))
		Expect(vpt.Claim(0x100, i64(6))).To(BeFalse())
		Expect(vpt.Stats().Allocations).To(Equal(uint64(1)))

		tag, ok := vpt.Tag(0x100)
		Expect(ok).To(BeTrue())
		Expect(tag).To(Equal(uint64(0x100)))
	})

	It("should keep values most recent first and drop the oldest", func() {
		vpt.Claim(0x100, i64(1))
		vpt.Push(0x100, i64(2))
		vpt.Push(0x100, i64(3))
		Expect(vpt.History(0x100)).To(Equal([]values.Value{i64(3), i64(2), i64(1)}))

		vpt.Push(0x100, i64(4))
		Expect(vpt.History(0x100)).To(Equal([]values.Value{i64(4), i64(3), i64(2)}))
		Expect(vpt.Stats().Drops).To(Equal(uint64(1)))
	})

	It("should promote a hit to the front", func() {
		vpt.Claim(0x100, i64(1))
		vpt.Push(0x100, i64(2))
		vpt.Push(0x100, i64(3))

		Expect(vpt.Contains(0x100, i64(1))).To(BeTrue())
		vpt.Promote(0x100, i64(1))
		Expect(vpt.History(0x100)).To(Equal([]values.Value{i64(1), i64(3), i64(2)}))
	})

	It("should evict the incumbent on a tag conflict", func() {
		a := uint64(0x101)
		b := uint64(0x111) // a & 0xF == b & 0xF

		vpt.Claim(a, i64(7))
		Expect(vpt.Claim(b, i64(9))).To(BeTrue())

		tag, _ := vpt.Tag(a)
		Expect(tag).To(Equal(b))
		Expect(vpt.History(a)).To(BeNil())
		Expect(vpt.Contains(a, i64(7))).To(BeFalse())
		Expect(vpt.Stats().Evictions).To(Equal(uint64(1)))

		Expect(vpt.Claim(a, i64(7))).To(BeTrue())
		Expect(vpt.History(a)).To(Equal([]values.Value{i64(7)}))
	})

	It("should match values by width-masked equality", func() {
		vpt.Claim(0x100, values.FromUint64(values.Int32, 0x1_0000_0002))
		Expect(vpt.Contains(0x100, values.FromUint64(values.Int32, 0x2))).To(BeTrue())
	})

	It("should forget everything on reset", func() {
		vpt.Claim(0x100, i64(1))
		vpt.Reset()
		_, ok := vpt.Tag(0x100)
		Expect(ok).To(BeFalse())
		Expect(vpt.Stats()).To(Equal(predictor.ValueHistoryStats{}))
	})

	It("should reject an empty history depth", func() {
		Expect(func() { predictor.NewValueHistoryTable(4, 0) }).To(Panic())
	})
})
