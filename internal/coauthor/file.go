package coauthor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopasspw/gitconfig"
)

// ErrUnsupportedIdentity is returned by FileRepository.Add for identities
// the config file format cannot hold without changing them.
var ErrUnsupportedIdentity = errors.New("identity cannot be stored in a config file")

// FileRepository keeps co-authors in a git-config formatted file without
// running git. The file is re-read on every call and written back on every
// mutation. Like git, it folds keys to lower case.
type FileRepository struct {
	path      string
	namespace string
}

// NewFileRepository creates a repository backed by the file at path. The
// file and its directory are created on first use.
func NewFileRepository(path, namespace string) *FileRepository {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &FileRepository{
		path:      path,
		namespace: strings.ToLower(namespace),
	}
}

// Path returns the backing file.
func (r *FileRepository) Path() string {
	return r.path
}

func (r *FileRepository) configKey(key string) string {
	return r.namespace + "." + strings.ToLower(key)
}

func (r *FileRepository) load() (*gitconfig.Config, error) {
	if _, err := os.Stat(r.path); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(r.path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", r.path, err)
		}
		if err := os.WriteFile(r.path, nil, 0600); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", r.path, err)
		}
	}

	cfg, err := gitconfig.LoadConfig(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", r.path, err)
	}
	return cfg, nil
}

func (r *FileRepository) Get(_ context.Context, key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}

	cfg, err := r.load()
	if err != nil {
		return "", false, err
	}

	identity, ok := cfg.Get(r.configKey(key))
	if !ok || identity == "" {
		return "", false, nil
	}
	return identity, true, nil
}

func (r *FileRepository) Add(_ context.Context, key, identity string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	cfg, err := r.load()
	if err != nil {
		return err
	}

	value, err := encodeFileValue(identity)
	if err != nil {
		return err
	}

	if err := cfg.Set(r.configKey(key), value); err != nil {
		return &StoreError{Op: "add", Key: key, Stderr: err.Error()}
	}
	return nil
}

func (r *FileRepository) Remove(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	cfg, err := r.load()
	if err != nil {
		return err
	}

	if err := cfg.Unset(r.configKey(key)); err != nil {
		return &StoreError{Op: "remove", Key: key, Stderr: err.Error()}
	}
	return nil
}

// List returns entries sorted by key.
func (r *FileRepository) List(_ context.Context, full bool) ([]string, error) {
	cfg, err := r.load()
	if err != nil {
		return nil, err
	}

	// Configs only exposes key enumeration, so wrap the single file as its preset scope.
	cs := &gitconfig.Configs{Name: "git-mob", Preset: cfg}
	prefix := r.namespace + "."

	entries := make([]Entry, 0)
	for _, name := range cs.List(prefix) {
		identity, ok := cfg.Get(name)
		if !ok || identity == "" {
			continue
		}
		entries = append(entries, Entry{Key: strings.TrimPrefix(name, prefix), Identity: identity})
	}

	return renderEntries(entries, full), nil
}

// encodeFileValue quotes and escapes identity when the config parser would
// otherwise read back a different value: comment characters, surrounding
// whitespace, quotes, backslashes and control characters.
func encodeFileValue(identity string) (string, error) {
	if !strings.ContainsAny(identity, "#;\"\\\n\t\b") && strings.TrimSpace(identity) == identity {
		return identity, nil
	}

	// The parser ends a quoted value at any quote and unescapes \\ before
	// \n, \t and \b, so these forms cannot round-trip.
	switch {
	case strings.Contains(identity, `"`) && strings.ContainsAny(identity, "#;"):
		return "", fmt.Errorf("%w: quotes combined with '#' or ';'", ErrUnsupportedIdentity)
	case strings.HasPrefix(identity, `"`) || strings.HasSuffix(identity, `"`):
		return "", fmt.Errorf("%w: leading or trailing quote", ErrUnsupportedIdentity)
	case strings.Contains(identity, `\n`), strings.Contains(identity, `\t`), strings.Contains(identity, `\b`):
		return "", fmt.Errorf("%w: backslash before n, t or b", ErrUnsupportedIdentity)
	}

	escaped := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\t", `\t`,
		"\b", `\b`,
	).Replace(identity)

	return `"` + escaped + `"`, nil
}
