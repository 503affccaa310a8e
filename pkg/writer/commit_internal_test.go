package writer

import (
	"os"
	"path/filepath"

	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = ginkgo.Describe("committer", func() {
	var dir string

	ginkgo.BeforeEach(func() {
		dir = ginkgo.GinkgoT().TempDir()
	})

	ginkgo.It("puts earlier files back when a later one fails", func() {
		config := filepath.Join(dir, "config.toml")
		created := filepath.Join(dir, "new.json")
		auth := filepath.Join(dir, "auth.json")
		Expect(os.WriteFile(config, []byte("model = \"old\"\n"), 0o600)).To(Succeed())
		Expect(os.Mkdir(auth, 0o700)).To(Succeed())

		var c committer
		err := c.commit(
			pendingWrite{path: config, content: []byte("model = \"new\"\n")},
			pendingWrite{path: created, content: []byte("{}\n")},
			pendingWrite{path: auth, content: []byte("{}\n"), secondary: true},
		)
		Expect(err).To(MatchError(ContainSubstring("auth.json")))

		data, err := os.ReadFile(config)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("model = \"old\"\n"))
		Expect(created).NotTo(BeAnExistingFile())
	})

	ginkgo.It("skips files whose content is unchanged", func() {
		path := filepath.Join(dir, "settings.json")
		Expect(os.WriteFile(path, []byte("{}\n"), 0o600)).To(Succeed())

		var c committer
		Expect(c.commit(pendingWrite{path: path, content: []byte("{}\n"), secondary: true})).To(Succeed())
		Expect(path + ".bak").NotTo(BeAnExistingFile())
	})
})
