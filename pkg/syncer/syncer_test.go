package syncer_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/switchboard/pkg/crypto"
	"github.com/papercomputeco/switchboard/pkg/dotdir"
	"github.com/papercomputeco/switchboard/pkg/provider"
	"github.com/papercomputeco/switchboard/pkg/store"
	"github.com/papercomputeco/switchboard/pkg/syncer"
	"github.com/papercomputeco/switchboard/pkg/tool"
	"github.com/papercomputeco/switchboard/pkg/writer"
)

const password = "sync-pass"

var testTools = []tool.Tool{tool.Codex, tool.Claude, tool.Gemini}

// memRemote is an in-memory Remote.
type memRemote struct {
	docs    map[tool.Tool][]byte
	uploads int
}

func newMemRemote() *memRemote {
	return &memRemote{docs: map[tool.Tool][]byte{}}
}

func (m *memRemote) Exists(_ context.Context, t tool.Tool) (bool, error) {
	_, ok := m.docs[t]
	return ok, nil
}

func (m *memRemote) Download(_ context.Context, t tool.Tool) ([]byte, error) {
	return m.docs[t], nil
}

func (m *memRemote) Upload(_ context.Context, t tool.Tool, data []byte) error {
	m.uploads++
	m.docs[t] = data
	return nil
}

func (m *memRemote) decode(t tool.Tool) map[string]any {
	var doc map[string]any
	Expect(json.Unmarshal(m.docs[t], &doc)).To(Succeed())
	return doc
}

// failingUploadRemote serves downloads but rejects every upload.
type failingUploadRemote struct {
	*memRemote
}

func (f *failingUploadRemote) Upload(context.Context, tool.Tool, []byte) error {
	return errors.New("503 service unavailable")
}

// failingSaveStore fails Save for one tool.
type failingSaveStore struct {
	*store.Store
	failOn tool.Tool
}

func (f *failingSaveStore) Save(t tool.Tool, doc provider.ToolStorage) error {
	if t == f.failOn {
		return errors.New("disk full")
	}
	return f.Store.Save(t, doc)
}

type machine struct {
	home  string
	paths dotdir.Paths
	store *store.Store
}

func newMachine() *machine {
	home := GinkgoT().TempDir()
	paths, err := dotdir.NewPaths(filepath.Join(home, ".switchboard"), home)
	Expect(err).NotTo(HaveOccurred())
	return &machine{home: home, paths: paths, store: store.New(paths, writer.NewRegistry(paths))}
}

func (m *machine) add(t tool.Tool, name, baseURL, key string) provider.Provider {
	p, err := m.store.Add(t, store.Input{Name: name, BaseURL: baseURL, APIKey: key})
	Expect(err).NotTo(HaveOccurred())
	return p
}

func (m *machine) engine(remote syncer.Remote, opts ...func(*syncer.Options)) *syncer.Engine {
	o := syncer.Options{Store: m.store, Remote: remote, Password: password, Tools: testTools}
	for _, fn := range opts {
		fn(&o)
	}
	e, err := syncer.New(o)
	Expect(err).NotTo(HaveOccurred())
	return e
}

// backupFiles lists every backup file under the machine's home.
func (m *machine) backupFiles() []string {
	var found []string
	Expect(filepath.WalkDir(m.home, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.Contains(d.Name(), ".backup.") {
			found = append(found, path)
		}
		return nil
	})).To(Succeed())
	return found
}

func names(ps []provider.Provider) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

var _ = Describe("Engine", func() {
	var (
		ctx    context.Context
		remote *memRemote
		a      *machine
	)

	BeforeEach(func() {
		ctx = context.Background()
		remote = newMemRemote()
		a = newMachine()
	})

	Describe("New", func() {
		It("requires a sync password", func() {
			_, err := syncer.New(syncer.Options{Store: a.store, Remote: remote})
			Expect(err).To(BeAssignableToTypeOf(&provider.ValidationError{}))
		})
	})

	Describe("Upload", func() {
		It("encrypts keys and keeps every other field", func() {
			p := a.add(tool.Codex, "OpenAI", "https://api.openai.com/v1/", "sk-plain")
			doc, err := a.store.Load(tool.Codex)
			Expect(err).NotTo(HaveOccurred())
			doc.Extra = map[string]json.RawMessage{"schemaVersion": json.RawMessage(`2`)}
			Expect(a.store.Save(tool.Codex, doc)).To(Succeed())

			var recorded *syncer.Result
			res, err := a.engine(remote, func(o *syncer.Options) {
				o.Now = func() time.Time { return time.UnixMilli(42) }
				o.OnSuccess = func(r *syncer.Result) error {
					recorded = r
					return nil
				}
			}).Upload(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(recorded).To(BeIdenticalTo(res))
			Expect(res.At).To(Equal(time.UnixMilli(42)))

			Expect(string(remote.docs[tool.Codex])).NotTo(ContainSubstring("sk-plain"))
			up := remote.decode(tool.Codex)
			Expect(up).To(HaveKeyWithValue("schemaVersion", BeNumerically("==", 2)))
			providers := up["providers"].([]any)
			Expect(providers[0]).To(HaveKeyWithValue("id", p.ID))
			Expect(providers[0]).To(HaveKeyWithValue("baseUrl", "https://api.openai.com/v1/"))
			Expect(providers[0].(map[string]any)["apiKey"]).To(HavePrefix(crypto.Prefix))

			local, err := a.store.Get(tool.Codex, "OpenAI")
			Expect(err).NotTo(HaveOccurred())
			Expect(local.APIKey).To(Equal("sk-plain"))
		})

		It("skips tools without a local store", func() {
			a.add(tool.Claude, "A", "https://a.dev", "k")
			res, err := a.engine(remote).Upload(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(remote.docs).To(HaveLen(1))
			Expect(res.Skipped).To(ConsistOf(
				syncer.Skipped{Tool: tool.Codex, Reason: "no local data"},
				syncer.Skipped{Tool: tool.Gemini, Reason: "no local data"},
			))
		})
	})

	Describe("Download", func() {
		It("fails with ErrNoRemoteData when the remote is empty", func() {
			_, err := a.engine(remote).Download(ctx)
			Expect(err).To(MatchError(syncer.ErrNoRemoteData))
		})

		It("replaces local data and applies the active provider", func() {
			a.add(tool.Claude, "Team", "https://team.dev/", "sk-team")
			_, err := a.store.Apply(tool.Claude, "Team")
			Expect(err).NotTo(HaveOccurred())
			_, err = a.engine(remote).Upload(ctx)
			Expect(err).NotTo(HaveOccurred())

			b := newMachine()
			b.add(tool.Claude, "Stale", "https://stale.dev", "sk-stale")
			res, err := b.engine(remote).Download(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Tools).To(HaveLen(1))
			Expect(res.Tools[0].Backups).To(HaveLen(1))
			Expect(res.Skipped).To(HaveLen(2))

			list, err := b.store.List(tool.Claude)
			Expect(err).NotTo(HaveOccurred())
			Expect(names(list)).To(Equal([]string{"Team"}))
			Expect(list[0].APIKey).To(Equal("sk-team"))

			settings, err := os.ReadFile(filepath.Join(b.home, ".claude", "settings.json"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(settings)).To(ContainSubstring(`"ANTHROPIC_BASE_URL": "https://team.dev/"`))
		})

		It("does not touch local files when the password is wrong", func() {
			a.add(tool.Codex, "A", "https://a.dev", "k")
			_, err := a.engine(remote).Upload(ctx)
			Expect(err).NotTo(HaveOccurred())

			b := newMachine()
			b.add(tool.Codex, "Mine", "https://mine.dev", "m")
			before, err := os.ReadFile(b.store.Path(tool.Codex))
			Expect(err).NotTo(HaveOccurred())

			_, err = b.engine(remote, func(o *syncer.Options) { o.Password = "nope" }).Download(ctx)
			var derr *crypto.DecryptionError
			Expect(errors.As(err, &derr)).To(BeTrue())

			after, err := os.ReadFile(b.store.Path(tool.Codex))
			Expect(err).NotTo(HaveOccurred())
			Expect(after).To(Equal(before))
			Expect(b.backupFiles()).To(BeEmpty())
		})

		It("restores earlier tools when a later tool fails", func() {
			for _, t := range testTools {
				a.add(t, "Remote "+t.String(), "https://remote.dev", "r")
			}
			_, err := a.engine(remote).Upload(ctx)
			Expect(err).NotTo(HaveOccurred())

			b := newMachine()
			b.add(tool.Codex, "Local codex", "https://local.dev", "l")
			codexBefore, err := os.ReadFile(b.store.Path(tool.Codex))
			Expect(err).NotTo(HaveOccurred())

			failing := &failingSaveStore{Store: b.store, failOn: tool.Claude}
			e, err := syncer.New(syncer.Options{Store: failing, Remote: remote, Password: password, Tools: testTools})
			Expect(err).NotTo(HaveOccurred())

			_, err = e.Download(ctx)
			Expect(err).To(MatchError("disk full"))

			codexAfter, err := os.ReadFile(b.store.Path(tool.Codex))
			Expect(err).NotTo(HaveOccurred())
			Expect(codexAfter).To(Equal(codexBefore))
			Expect(b.store.Path(tool.Claude)).NotTo(BeAnExistingFile())
			Expect(b.store.Path(tool.Gemini)).NotTo(BeAnExistingFile())
		})
	})

	Describe("Merge", func() {
		It("degrades to an upload when the remote is empty", func() {
			a.add(tool.Gemini, "G", "https://g.dev", "k")
			res, err := a.engine(remote).Merge(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Degraded).To(BeTrue())
			Expect(remote.docs).To(HaveKey(tool.Gemini))
		})

		It("is a no-op when both sides already agree", func() {
			a.add(tool.Codex, "A", "https://a.dev", "k1")
			a.add(tool.Claude, "B", "https://b.dev", "k2")
			_, err := a.store.Apply(tool.Claude, "B")
			Expect(err).NotTo(HaveOccurred())
			_, err = a.engine(remote).Upload(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(remote.uploads).To(Equal(2))

			storeBefore, err := os.ReadFile(a.store.Path(tool.Claude))
			Expect(err).NotTo(HaveOccurred())

			res, err := a.engine(remote).Merge(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.AlreadyInSync).To(BeTrue())
			Expect(res.Uploads()).To(BeZero())
			Expect(remote.uploads).To(Equal(2))
			Expect(a.backupFiles()).To(BeEmpty())

			storeAfter, err := os.ReadFile(a.store.Path(tool.Claude))
			Expect(err).NotTo(HaveOccurred())
			Expect(storeAfter).To(Equal(storeBefore))
		})

		It("combines both sides and pushes the result", func() {
			a.add(tool.Codex, "Shared name", "https://a.dev", "ka")
			_, err := a.engine(remote).Upload(ctx)
			Expect(err).NotTo(HaveOccurred())

			b := newMachine()
			mine := b.add(tool.Codex, "Shared name", "https://b.dev", "kb")
			_, err = b.store.Apply(tool.Codex, "Shared name")
			Expect(err).NotTo(HaveOccurred())

			res, err := b.engine(remote).Merge(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.AlreadyInSync).To(BeFalse())
			Expect(res.Tools[0].Action).To(Equal(syncer.ActionMerged))
			Expect(res.Tools[0].Uploaded).To(BeTrue())
			Expect(res.Tools[0].Backups).NotTo(BeEmpty())

			doc, err := b.store.Load(tool.Codex)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Providers).To(HaveLen(2))
			Expect(doc.Providers[0].ID).To(Equal(mine.ID))
			Expect(doc.CurrentProviderID).To(Equal(mine.ID))

			// The record with the greater id gives up the name.
			renamed, kept := doc.Providers[0], doc.Providers[1]
			if kept.ID > renamed.ID {
				renamed, kept = kept, renamed
			}
			Expect(kept.Name).To(Equal("Shared name"))
			Expect(renamed.Name).To(MatchRegexp(`^Shared name \([0-9a-f]{6}\)$`))

			// a now pulls b's record without further uploads.
			uploads := remote.uploads
			res, err = a.engine(remote).Merge(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Uploads()).To(BeZero())
			Expect(remote.uploads).To(Equal(uploads))
			list, err := a.store.List(tool.Codex)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))
		})

		It("settles when two machines share providers but use different ones", func() {
			p1 := a.add(tool.Claude, "P1", "https://one.dev", "k1")
			a.add(tool.Claude, "P2", "https://two.dev", "k2")
			_, err := a.engine(remote).Upload(ctx)
			Expect(err).NotTo(HaveOccurred())

			b := newMachine()
			_, err = b.engine(remote).Download(ctx)
			Expect(err).NotTo(HaveOccurred())

			_, err = a.store.Apply(tool.Claude, "P1")
			Expect(err).NotTo(HaveOccurred())
			p2, err := b.store.Apply(tool.Claude, "P2")
			Expect(err).NotTo(HaveOccurred())

			// Applying bumps updatedAt; the first rounds carry that across.
			for range 2 {
				_, err = a.engine(remote).Merge(ctx)
				Expect(err).NotTo(HaveOccurred())
				_, err = b.engine(remote).Merge(ctx)
				Expect(err).NotTo(HaveOccurred())
			}

			uploads := remote.uploads
			ra, err := a.engine(remote).Merge(ctx)
			Expect(err).NotTo(HaveOccurred())
			rb, err := b.engine(remote).Merge(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(ra.AlreadyInSync).To(BeTrue())
			Expect(rb.AlreadyInSync).To(BeTrue())
			Expect(remote.uploads).To(Equal(uploads))

			current, _, err := a.store.Current(tool.Claude)
			Expect(err).NotTo(HaveOccurred())
			Expect(current.ID).To(Equal(p1.ID))
			current, _, err = b.store.Current(tool.Claude)
			Expect(err).NotTo(HaveOccurred())
			Expect(current.ID).To(Equal(p2.ID))
		})

		It("does not record a sync when there was nothing to do", func() {
			a.add(tool.Codex, "A", "https://a.dev", "k1")
			_, err := a.engine(remote).Upload(ctx)
			Expect(err).NotTo(HaveOccurred())

			called := false
			res, err := a.engine(remote, func(o *syncer.Options) {
				o.OnSuccess = func(*syncer.Result) error {
					called = true
					return nil
				}
			}).Merge(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.AlreadyInSync).To(BeTrue())
			Expect(called).To(BeFalse())
		})

		It("restores local files when the upload fails", func() {
			a.add(tool.Codex, "Theirs", "https://a.dev", "ka")
			_, err := a.engine(remote).Upload(ctx)
			Expect(err).NotTo(HaveOccurred())

			b := newMachine()
			b.add(tool.Codex, "Mine", "https://b.dev", "kb")
			_, err = b.store.Apply(tool.Codex, "Mine")
			Expect(err).NotTo(HaveOccurred())

			storeBefore, err := os.ReadFile(b.store.Path(tool.Codex))
			Expect(err).NotTo(HaveOccurred())
			native, err := b.store.NativePaths(tool.Codex)
			Expect(err).NotTo(HaveOccurred())
			configBefore, err := os.ReadFile(native[0])
			Expect(err).NotTo(HaveOccurred())

			_, err = b.engine(&failingUploadRemote{remote}).Merge(ctx)
			Expect(err).To(MatchError(ContainSubstring("503")))

			storeAfter, err := os.ReadFile(b.store.Path(tool.Codex))
			Expect(err).NotTo(HaveOccurred())
			Expect(storeAfter).To(Equal(storeBefore))
			configAfter, err := os.ReadFile(native[0])
			Expect(err).NotTo(HaveOccurred())
			Expect(configAfter).To(Equal(configBefore))

			list, err := b.store.List(tool.Codex)
			Expect(err).NotTo(HaveOccurred())
			Expect(names(list)).To(Equal([]string{"Mine"}))
		})

		It("follows a dedup replacement for the active pointer", func() {
			old := a.add(tool.Claude, "Mine", "https://same.dev", "same-key")
			_, err := a.store.Apply(tool.Claude, "Mine")
			Expect(err).NotTo(HaveOccurred())

			newer := provider.Provider{
				ID: "claude-9999999999999-abcdef", Name: "Theirs", BaseURL: "https://same.dev", APIKey: "same-key",
				CreatedAt: 1, UpdatedAt: 9_999_999_999_999,
			}
			enc, err := crypto.EncryptProviders([]provider.Provider{newer}, password)
			Expect(err).NotTo(HaveOccurred())
			data, err := json.Marshal(provider.ToolStorage{Providers: enc})
			Expect(err).NotTo(HaveOccurred())
			remote.docs[tool.Claude] = data

			_, err = a.engine(remote).Merge(ctx)
			Expect(err).NotTo(HaveOccurred())

			current, ok, err := a.store.Current(tool.Claude)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(current.ID).To(Equal(newer.ID))
			Expect(current.ID).NotTo(Equal(old.ID))
		})
	})
})
