package config_test

import (
	"os"
	"path/filepath"
	"time"

	"github.com/agentbid/auction/config"
	"github.com/agentbid/auction/policy"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Load", func() {
	var dir string

	setenv := func(key, value string) {
		Ω(os.Setenv(key, value)).Should(Succeed())
		DeferCleanup(os.Unsetenv, key)
	}

	writeConfig := func(body string) string {
		path := filepath.Join(dir, "auctioneer.yaml")
		Ω(os.WriteFile(path, []byte(body), 0o644)).Should(Succeed())
		return path
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("falls back to defaults when no file exists", func() {
		wd, err := os.Getwd()
		Ω(err).ShouldNot(HaveOccurred())
		Ω(os.Chdir(dir)).Should(Succeed())
		DeferCleanup(os.Chdir, wd)

		c, err := config.Load("")
		Ω(err).ShouldNot(HaveOccurred())
		Ω(c.Listen).Should(Equal(":5000"))
		Ω(c.RoundInterval).Should(Equal(4 * time.Second))
		Ω(c.Models.Backend).Should(Equal(config.BackendFile))
		Ω(c.Policy).Should(Equal(policy.DefaultConfig()))
		Ω(c.Database.URL).Should(BeEmpty())
	})

	It("reads a yaml file", func() {
		path := writeConfig(`
listen: ":8080"
round_interval: 2s
database:
  url: postgres://localhost/auctions
auth:
  static_tokens:
    secret: u1
models:
  backend: s3
  s3:
    bucket: policies
policy:
  batch_size: 16
`)

		c, err := config.Load(path)
		Ω(err).ShouldNot(HaveOccurred())
		Ω(c.Listen).Should(Equal(":8080"))
		Ω(c.RoundInterval).Should(Equal(2 * time.Second))
		Ω(c.Database.URL).Should(Equal("postgres://localhost/auctions"))
		Ω(c.Auth.StaticTokens).Should(HaveKeyWithValue("secret", "u1"))
		Ω(c.Models.S3.Bucket).Should(Equal("policies"))
		Ω(c.Policy.BatchSize).Should(Equal(16))
		Ω(c.Policy.HiddenSize).Should(Equal(policy.DefaultConfig().HiddenSize))
	})

	It("lets the environment win over the file", func() {
		path := writeConfig("round_interval: 2s\n")
		setenv("AUCTIONEER_ROUND_INTERVAL", "500ms")
		setenv("AUCTIONEER_POLICY_BATCH_SIZE", "64")
		setenv("AUCTIONEER_MODELS_DIR", "/var/models")

		c, err := config.Load(path)
		Ω(err).ShouldNot(HaveOccurred())
		Ω(c.RoundInterval).Should(Equal(500 * time.Millisecond))
		Ω(c.Policy.BatchSize).Should(Equal(64))
		Ω(c.Models.Dir).Should(Equal("/var/models"))
	})

	DescribeTable("rejecting invalid settings",
		func(body string) {
			_, err := config.Load(writeConfig(body))
			Ω(err).Should(HaveOccurred())
		},
		Entry("unknown log level", "log_level: loud\n"),
		Entry("non-positive interval", "round_interval: 0s\n"),
		Entry("unknown backend", "models:\n  backend: tape\n"),
		Entry("s3 without a bucket", "models:\n  backend: s3\n"),
		Entry("batch larger than the buffer", "policy:\n  batch_size: 100000\n"),
	)

	It("surfaces a missing explicit file", func() {
		_, err := config.Load(filepath.Join(dir, "missing.yaml"))
		Ω(err).Should(HaveOccurred())
	})
})
