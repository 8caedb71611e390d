package predictor_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/vpsim/predictor"
)

var _ = Describe("Config", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "vpsim-config")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tmpDir)
	})

	It("should provide valid defaults", func() {
		config := predictor.DefaultConfig()
		Expect(config.Validate()).To(Succeed())
		Expect(config.CTCounterBits).To(Equal(uint(2)))
		Expect(config.BranchTableSize).To(Equal(uint64(8)))
	})

	It("should round-trip through JSON", func() {
		path := filepath.Join(tmpDir, "config.json")
		config := predictor.DefaultConfig()
		config.HistoryDepth = 8
		config.InstructionLimit = 1000
		Expect(config.SaveConfig(path)).To(Succeed())

		loaded, err := predictor.LoadConfig(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(Equal(config))
	})

	It("should load YAML and keep defaults for missing fields", func() {
		path := filepath.Join(tmpDir, "config.yaml")
		Expect(os.WriteFile(path, []byte("ct_counter_bits: 0\nhistory_depth: 2\n"), 0644)).To(Succeed())

		loaded, err := predictor.LoadConfig(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.CTCounterBits).To(Equal(uint(0)))
		Expect(loaded.HistoryDepth).To(Equal(2))
		Expect(loaded.VPTBits).To(Equal(uint(10)))
	})

	It("should report unreadable and malformed files", func() {
		_, err := predictor.LoadConfig(filepath.Join(tmpDir, "missing.json"))
		Expect(err).To(MatchError(ContainSubstring("failed to read")))

		path := filepath.Join(tmpDir, "bad.json")
		Expect(os.WriteFile(path, []byte("{"), 0644)).To(Succeed())
		_, err = predictor.LoadConfig(path)
		Expect(err).To(MatchError(ContainSubstring("failed to parse")))
	})

	DescribeTable("Validate",
		func(mutate func(c *predictor.Config)) {
			config := predictor.DefaultConfig()
			mutate(config)
			Expect(config.Validate()).NotTo(Succeed())
		},
		Entry("zero history", func(c *predictor.Config) { c.HistoryDepth = 0 }),
		Entry("huge VPT", func(c *predictor.Config) { c.VPTBits = 30 }),
		Entry("huge CT", func(c *predictor.Config) { c.CTBits = 30 }),
		Entry("wide counters", func(c *predictor.Config) { c.CTCounterBits = 32 }),
		Entry("branch table not a power of 2", func(c *predictor.Config) { c.BranchTableSize = 6 }),
		Entry("branch table too large", func(c *predictor.Config) { c.BranchTableSize = 8192 }),
	)

	It("should clone independently", func() {
		config := predictor.DefaultConfig()
		clone := config.Clone()
		clone.VPTBits = 3
		Expect(config.VPTBits).To(Equal(uint(10)))
	})
})
