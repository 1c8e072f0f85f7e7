package sandbox

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/syssam/sqlcraft"
)

// Policy is the execution policy a Sandbox enforces before any statement
// reaches the engine: an ordered allow-list of leading verbs and a set of
// banned text fragments checked regardless of verb.
type Policy struct {
	// AllowedVerbs are the permitted leading verbs, matched
	// case-insensitively against the first whitespace-delimited token.
	AllowedVerbs []string `yaml:"allow"`
	// BannedFragments are substrings that deny a statement wherever they
	// appear in its uppercased text. A defense-in-depth check independent
	// of the allow-list.
	BannedFragments []string `yaml:"banned"`
}

// DefaultPolicy returns the default execution policy. It covers the seven
// plain statement verbs only; a policy allowing WITH is needed to execute
// statements from the CTE composer.
func DefaultPolicy() Policy {
	return Policy{
		AllowedVerbs: []string{
			"SELECT", "INSERT", "UPDATE", "DELETE", "CREATE", "DROP", "ALTER",
		},
		BannedFragments: []string{
			"DROP DATABASE", "DROP SCHEMA", "GRANT ", "REVOKE ",
			"ATTACH DATABASE", "DETACH DATABASE",
		},
	}
}

// Validate checks a statement against the policy. It returns a
// PermissionError when the leading verb is not allow-listed or a banned
// fragment appears anywhere in the text, and nil otherwise.
func (p Policy) Validate(statement string) error {
	fields := strings.Fields(strings.ToUpper(statement))
	if len(fields) == 0 {
		return sqlcraft.NewPermissionError("", "empty statement")
	}
	verb := fields[0]
	if !p.allows(verb) {
		return sqlcraft.NewPermissionError(verb, "verb is not allow-listed")
	}
	// Runs of whitespace collapse to single spaces so a banned fragment
	// cannot be split with tabs or newlines.
	normalized := strings.Join(fields, " ")
	for _, banned := range p.BannedFragments {
		if banned == "" {
			continue
		}
		if strings.Contains(normalized, strings.ToUpper(banned)) {
			return sqlcraft.NewPermissionError("", fmt.Sprintf("statement contains banned fragment %q", strings.TrimSpace(banned)))
		}
	}
	return nil
}

// allows reports whether the verb is in the allow-list.
func (p Policy) allows(verb string) bool {
	for _, v := range p.AllowedVerbs {
		if strings.EqualFold(v, verb) {
			return true
		}
	}
	return false
}

// LoadPolicy reads a policy from a YAML file. Omitted fields fall back to
// the defaults, so a file may override just the allow-list or just the
// banned fragments.
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("sandbox: read policy: %w", err)
	}
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("sandbox: parse policy: %w", err)
	}
	def := DefaultPolicy()
	if p.AllowedVerbs == nil {
		p.AllowedVerbs = def.AllowedVerbs
	}
	if p.BannedFragments == nil {
		p.BannedFragments = def.BannedFragments
	}
	return p, nil
}

// PolicyWatcher reloads a policy file on change and pushes the new policy
// to a callback.
type PolicyWatcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// WatchPolicy watches the policy file at path and invokes onChange with the
// reloaded policy whenever the file is written. Reload failures are logged
// and the previous policy stays in effect.
func WatchPolicy(path string, log *slog.Logger, onChange func(Policy)) (*PolicyWatcher, error) {
	if log == nil {
		log = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("sandbox: watch policy: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("sandbox: watch policy: %w", err)
	}
	w := &PolicyWatcher{watcher: watcher, done: make(chan struct{})}
	go func() {
		defer close(w.done)
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				p, err := LoadPolicy(path)
				if err != nil {
					log.Error("policy reload failed", "path", path, "error", err)
					continue
				}
				log.Info("policy reloaded", "path", path, "verbs", p.AllowedVerbs)
				onChange(p)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error("policy watcher error", "path", path, "error", err)
			}
		}
	}()
	return w, nil
}

// Close stops watching the policy file.
func (w *PolicyWatcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
