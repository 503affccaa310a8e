package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/zalando/go-keyring"

	"github.com/papercomputeco/switchboard/pkg/config"
)

var _ = Describe("Configer", func() {
	var tmpDir string

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
	})

	Describe("LoadConfig", func() {
		It("returns default config when no config file exists", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(config.NewDefaultConfig()))
		})

		It("loads a valid config file", func() {
			data := `version = 0

[sync]
webdav_url = "https://dav.example.com/remote.php/dav"
username = "alice"
auth_type = "digest"
remote_dir = "ai"

[log]
debug = true
`
			Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.Sync.WebDAVURL).To(Equal("https://dav.example.com/remote.php/dav"))
			Expect(cfg.Sync.Username).To(Equal("alice"))
			Expect(cfg.Sync.AuthType).To(Equal(config.AuthDigest))
			Expect(cfg.Sync.RemoteDir).To(Equal("ai"))
			Expect(cfg.Log.Debug).To(BeTrue())
		})

		It("fills missing fields from defaults", func() {
			data := "[sync]\nusername = \"bob\"\n"
			Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.Sync.AuthType).To(Equal(config.AuthBasic))
			Expect(cfg.Sync.RemoteDir).To(Equal("switchboard"))
			Expect(cfg.Sync.PasswordStore).To(Equal(config.StoreConfig))
			Expect(cfg.Sync.TimeoutSeconds).To(Equal(uint(30)))
		})

		It("rejects an unsupported version", func() {
			Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("version = 9\n"), 0o600)).To(Succeed())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			_, err = c.LoadConfig()
			Expect(err).To(MatchError(ContainSubstring("unsupported config version 9")))
		})

		It("returns an error for invalid TOML", func() {
			Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[sync\n"), 0o600)).To(Succeed())

			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			_, err = c.LoadConfig()
			Expect(err).To(MatchError(ContainSubstring("parsing config TOML")))
		})
	})

	Describe("SaveConfig", func() {
		It("writes an owner-only file that round trips", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg := config.NewDefaultConfig()
			cfg.Sync.WebDAVURL = "https://dav.example.com"
			Expect(c.SaveConfig(cfg)).To(Succeed())

			info, err := os.Stat(c.GetTarget())
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))

			loaded, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(cfg))
		})

		It("rejects a nil config", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.SaveConfig(nil)).To(HaveOccurred())
		})
	})

	Describe("SetConfigValue and GetConfigValue", func() {
		var c *config.Configer

		BeforeEach(func() {
			var err error
			c, err = config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
		})

		It("round trips every key", func() {
			values := map[string]string{
				"sync.webdav_url":      "https://dav.example.com",
				"sync.username":        "alice",
				"sync.password":        "hunter2",
				"sync.auth_type":       "digest",
				"sync.remote_dir":      "team",
				"sync.sync_password":   "s3cret",
				"sync.password_store":  "config",
				"sync.timeout_seconds": "45",
				"log.debug":            "true",
				"log.file":             "/var/log/switchboard.jsonl",
			}
			for _, key := range config.ValidConfigKeys() {
				Expect(c.SetConfigValue(key, values[key])).To(Succeed(), key)
			}
			for _, key := range config.ValidConfigKeys() {
				Expect(c.GetConfigValue(key)).To(Equal(values[key]), key)
			}
		})

		It("normalizes the remote dir", func() {
			Expect(c.SetConfigValue("sync.remote_dir", " /team/ai/ ")).To(Succeed())
			Expect(c.GetConfigValue("sync.remote_dir")).To(Equal("team/ai"))
		})

		DescribeTable("rejects invalid values",
			func(key, value string) {
				Expect(c.SetConfigValue(key, value)).To(HaveOccurred())
			},
			Entry("auth type", "sync.auth_type", "ntlm"),
			Entry("password store", "sync.password_store", "vault"),
			Entry("timeout", "sync.timeout_seconds", "soon"),
			Entry("debug", "log.debug", "maybe"),
		)

		It("rejects unknown keys", func() {
			Expect(c.SetConfigValue("sync.nope", "x")).To(MatchError(ContainSubstring("unknown config key")))
			_, err := c.GetConfigValue("sync.nope")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("keyring secrets", func() {
		var c *config.Configer

		BeforeEach(func() {
			keyring.MockInit()

			var err error
			c, err = config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.SetConfigValue("sync.password_store", "keyring")).To(Succeed())
		})

		It("keeps secrets out of config.toml", func() {
			Expect(c.SetConfigValue("sync.sync_password", "s3cret")).To(Succeed())
			Expect(c.SetConfigValue("sync.password", "hunter2")).To(Succeed())

			data, err := os.ReadFile(c.GetTarget())
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).NotTo(ContainSubstring("s3cret"))
			Expect(string(data)).NotTo(ContainSubstring("hunter2"))

			Expect(c.GetConfigValue("sync.sync_password")).To(Equal("s3cret"))

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			resolved, err := c.ResolveSync(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(resolved.SyncPassword).To(Equal("s3cret"))
			Expect(resolved.Password).To(Equal("hunter2"))
		})

		It("returns empty for unset secrets", func() {
			Expect(c.GetConfigValue("sync.password")).To(BeEmpty())
		})

		It("removes an entry when set to empty", func() {
			Expect(c.SetConfigValue("sync.password", "hunter2")).To(Succeed())
			Expect(c.SetConfigValue("sync.password", "")).To(Succeed())
			Expect(c.GetConfigValue("sync.password")).To(BeEmpty())
		})
	})

	Describe("RecordSync", func() {
		It("stores the time in Unix milliseconds", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			at := time.UnixMilli(1_700_000_000_123)
			Expect(c.RecordSync(at)).To(Succeed())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Sync.LastSyncAt).To(Equal(int64(1_700_000_000_123)))
		})
	})

	Describe("ValidConfigKeys", func() {
		It("lists every registered key", func() {
			for _, k := range config.ValidConfigKeys() {
				Expect(config.IsValidConfigKey(k)).To(BeTrue())
			}
			Expect(config.IsValidConfigKey("proxy.listen")).To(BeFalse())
		})

		It("marks credentials as secret", func() {
			Expect(config.IsSecretKey("sync.password")).To(BeTrue())
			Expect(config.IsSecretKey("sync.sync_password")).To(BeTrue())
			Expect(config.IsSecretKey("sync.username")).To(BeFalse())
		})
	})
})
