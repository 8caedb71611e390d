package store_test

import (
	"errors"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vpsim/predictor"
	"github.com/sarchlab/vpsim/sim"
	"github.com/sarchlab/vpsim/store"
)

var _ = Describe("Store", func() {
	var s *store.Store

	BeforeEach(func() {
		var err error
		s, err = store.OpenMemory()
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(s.Close()).To(Succeed())
	})

	It("should put and get results", func() {
		r := sim.Result{
			Name:   "gcc",
			Config: *predictor.DefaultConfig(),
			Value:  predictor.Report{Reason: predictor.ReasonFini, Observed: 42},
		}
		Expect(s.Put("gcc", r)).To(Succeed())

		got, err := s.Get("gcc")
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(r))
	})

	It("should report missing results", func() {
		_, err := s.Get("nope")
		Expect(errors.Is(err, store.ErrNotFound)).To(BeTrue())
	})

	It("should list names in order and delete", func() {
		for _, name := range []string{"mcf", "gcc", "bzip2"} {
			Expect(s.Put(name, sim.Result{Name: name})).To(Succeed())
		}

		names, err := s.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(names).To(Equal([]string{"bzip2", "gcc", "mcf"}))

		Expect(s.Delete("gcc")).To(Succeed())
		names, err = s.List()
		Expect(err).NotTo(HaveOccurred())
		Expect(names).To(Equal([]string{"bzip2", "mcf"}))
	})

	It("should reject empty names", func() {
		Expect(s.Put("", sim.Result{})).NotTo(Succeed())
	})

	It("should persist on disk", func() {
		dir, err := os.MkdirTemp("", "vpsim-store")
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = os.RemoveAll(dir) }()

		disk, err := store.Open(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(disk.Put("run", sim.Result{Name: "run"})).To(Succeed())
		Expect(disk.Close()).To(Succeed())

		disk, err = store.Open(dir)
		Expect(err).NotTo(HaveOccurred())
		defer func() { _ = disk.Close() }()
		got, err := disk.Get("run")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Name).To(Equal("run"))
	})
})
