package writer

import (
	"bytes"
	"strings"

	"github.com/joho/godotenv"

	"github.com/papercomputeco/switchboard/pkg/fsutil"
	"github.com/papercomputeco/switchboard/pkg/provider"
	"github.com/papercomputeco/switchboard/pkg/tool"
)

const geminiAuthType = "gemini-api-key"

// Gemini writes ~/.gemini/.env and selects API-key auth in
// ~/.gemini/settings.json.
type Gemini struct {
	envPath      string
	settingsPath string
	committer
}

func NewGemini(envPath, settingsPath string) *Gemini {
	return &Gemini{envPath: envPath, settingsPath: settingsPath}
}

func (g *Gemini) Tool() tool.Tool { return tool.Gemini }

func (g *Gemini) Paths() []string { return []string{g.envPath, g.settingsPath} }

func (g *Gemini) Write(p provider.Provider) error {
	envOut, err := g.renderEnv(p)
	if err != nil {
		return err
	}

	settings, err := readJSONObject(g.settingsPath, false)
	if err != nil {
		return err
	}
	auth, err := tablePath(settings, "security", "auth")
	if err != nil {
		return &ParseError{Path: g.settingsPath, Err: err}
	}
	auth["selectedType"] = geminiAuthType

	settingsOut, err := encodeJSON(settings)
	if err != nil {
		return err
	}

	return g.commit(
		pendingWrite{path: g.envPath, content: envOut},
		pendingWrite{path: g.settingsPath, content: settingsOut, secondary: true},
	)
}

// geminiEnvKeys are the .env keys the writer owns, in the order missing ones
// are appended.
var geminiEnvKeys = []string{"GOOGLE_GEMINI_BASE_URL", "GEMINI_API_KEY", "GEMINI_MODEL"}

// renderEnv rewrites only the managed assignments of the .env file. Every
// other line, comments and quoting included, is copied as is.
func (g *Gemini) renderEnv(p provider.Provider) ([]byte, error) {
	data, _, err := fsutil.ReadIfExists(g.envPath)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) > 0 {
		if _, err := godotenv.UnmarshalBytes(data); err != nil {
			return nil, &ParseError{Path: g.envPath, Err: err}
		}
	}

	values := map[string]string{
		"GOOGLE_GEMINI_BASE_URL": p.BaseURL,
		"GEMINI_API_KEY":         p.APIKey,
	}
	if p.Model != "" {
		values["GEMINI_MODEL"] = p.Model
	}
	return patchEnv(data, values)
}

func patchEnv(data []byte, values map[string]string) ([]byte, error) {
	var lines []string
	if len(data) > 0 {
		lines = strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	}

	out := make([]string, 0, len(lines)+len(values))
	done := map[string]bool{}

	// quote is set while inside a multi-line quoted value; drop is set when
	// that value belongs to a managed key being replaced.
	var quote byte
	drop := false
	for _, line := range lines {
		if quote != 0 {
			if !drop {
				out = append(out, line)
			}
			if closesQuote(line, quote) {
				quote, drop = 0, false
			}
			continue
		}

		key, value, ok := envAssignment(line)
		v, managed := values[key]
		switch {
		case !ok || !managed:
			out = append(out, line)
		case !done[key]:
			rendered, err := godotenv.Marshal(map[string]string{key: v})
			if err != nil {
				return nil, err
			}
			out = append(out, rendered)
			done[key] = true
			drop = true
		default:
			// Later duplicates would shadow the new value.
			drop = true
		}
		if ok {
			quote = openQuote(value)
		}
		if quote == 0 {
			drop = false
		}
	}

	for _, key := range geminiEnvKeys {
		v, managed := values[key]
		if !managed || done[key] {
			continue
		}
		rendered, err := godotenv.Marshal(map[string]string{key: v})
		if err != nil {
			return nil, err
		}
		out = append(out, rendered)
	}
	return []byte(strings.Join(out, "\n") + "\n"), nil
}

// envAssignment splits a KEY=value (or "export KEY=value", or KEY: value)
// line. Blank lines and comments are not assignments.
func envAssignment(line string) (string, string, bool) {
	t := strings.TrimSpace(line)
	if t == "" || t[0] == '#' {
		return "", "", false
	}
	t = strings.TrimPrefix(t, "export ")
	i := strings.IndexAny(t, "=:")
	if i <= 0 {
		return "", "", false
	}
	return strings.TrimSpace(t[:i]), t[i+1:], true
}

// openQuote returns the quote character of a value that continues on the
// next line, or 0.
func openQuote(value string) byte {
	v := strings.TrimSpace(value)
	if v == "" || (v[0] != '"' && v[0] != '\'') {
		return 0
	}
	if closesQuote(v[1:], v[0]) {
		return 0
	}
	return v[0]
}

func closesQuote(s string, q byte) bool {
	for i := 0; i < len(s); i++ {
		if q == '"' && s[i] == '\\' {
			i++
			continue
		}
		if s[i] == q {
			return true
		}
	}
	return false
}
