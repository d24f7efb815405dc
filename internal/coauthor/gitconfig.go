package coauthor

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gitmob/internal/logger"
	"gitmob/internal/process"
)

// Git config scopes understood by GitConfigRepository.
const (
	ScopeGlobal = "global"
	ScopeLocal  = "local"
	ScopeSystem = "system"
	ScopeFile   = "file"
)

// GitConfigOptions configures a GitConfigRepository.
type GitConfigOptions struct {
	// Program is the git executable; defaults to "git".
	Program string
	// Scope is one of the Scope constants; defaults to ScopeGlobal.
	Scope string
	// File is the config file used with ScopeFile.
	File string
	// Namespace is the config section; defaults to DefaultNamespace.
	Namespace string
}

// GitConfigRepository stores co-authors as "<namespace>.<key>" entries in
// git config. Every call runs one git process.
type GitConfigRepository struct {
	exec      process.Executor
	program   string
	scopeArgs []string
	namespace string
}

// NewGitConfigRepository creates a repository running git through exec.
func NewGitConfigRepository(exec process.Executor, opts GitConfigOptions) (*GitConfigRepository, error) {
	program := opts.Program
	if program == "" {
		program = "git"
	}
	// git folds section names to lower case when it prints or matches them.
	namespace := strings.ToLower(opts.Namespace)
	if namespace == "" {
		namespace = DefaultNamespace
	}

	scopeArgs, err := scopeFlags(opts.Scope, opts.File)
	if err != nil {
		return nil, err
	}

	return &GitConfigRepository{
		exec:      exec,
		program:   program,
		scopeArgs: scopeArgs,
		namespace: namespace,
	}, nil
}

func scopeFlags(scope, file string) ([]string, error) {
	switch scope {
	case "", ScopeGlobal:
		return []string{"--global"}, nil
	case ScopeLocal:
		return []string{"--local"}, nil
	case ScopeSystem:
		return []string{"--system"}, nil
	case ScopeFile:
		if file == "" {
			return nil, fmt.Errorf("git config scope %q requires a file path", scope)
		}
		return []string{"--file", file}, nil
	default:
		return nil, fmt.Errorf("unknown git config scope: %s", scope)
	}
}

func (r *GitConfigRepository) configKey(key string) string {
	return r.namespace + "." + key
}

func (r *GitConfigRepository) run(ctx context.Context, args ...string) (*process.Result, error) {
	argv := make([]string, 0, 1+len(r.scopeArgs)+len(args))
	argv = append(argv, "config")
	argv = append(argv, r.scopeArgs...)
	argv = append(argv, args...)
	return r.exec.Execute(ctx, r.program, argv...)
}

// Get returns the identity stored under key. A non-zero exit or empty
// output from git means the key is absent. Only the newline git appends is
// stripped, so whitespace inside the value survives.
func (r *GitConfigRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}

	result, err := r.run(ctx, "--get", r.configKey(key))
	if err != nil {
		return "", false, err
	}
	if !result.Success() {
		logger.Debugf("co-author %q not found (exit %d): %s", key, result.ExitCode, result.StderrString())
		return "", false, nil
	}

	identity := strings.TrimSuffix(string(result.Stdout), "\n")
	if identity == "" {
		return "", false, nil
	}
	return identity, true, nil
}

// Add writes identity under key, replacing every existing value.
func (r *GitConfigRepository) Add(ctx context.Context, key, identity string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	result, err := r.run(ctx, "--replace-all", r.configKey(key), identity)
	if err != nil {
		return err
	}
	if !result.Success() {
		return &StoreError{Op: "add", Key: key, ExitCode: result.ExitCode, Stderr: result.StderrString()}
	}
	return nil
}

// Remove deletes every value stored under key.
func (r *GitConfigRepository) Remove(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	result, err := r.run(ctx, "--unset-all", r.configKey(key))
	if err != nil {
		return err
	}
	if !result.Success() {
		return &StoreError{Op: "remove", Key: key, ExitCode: result.ExitCode, Stderr: result.StderrString()}
	}
	return nil
}

// List returns every entry in the order git reports them.
func (r *GitConfigRepository) List(ctx context.Context, full bool) ([]string, error) {
	pattern := "^" + regexp.QuoteMeta(r.namespace+".")
	result, err := r.run(ctx, "-z", "--get-regexp", pattern)
	if err != nil {
		return nil, err
	}

	// git exits 1 when nothing matches.
	if result.ExitCode == 1 {
		return []string{}, nil
	}
	if !result.Success() {
		return nil, &StoreError{Op: "list", ExitCode: result.ExitCode, Stderr: result.StderrString()}
	}

	return renderEntries(parseEntryRecords(r.namespace, string(result.Stdout)), full), nil
}

// parseEntryRecords reads the output of git config -z --get-regexp: records
// end with NUL and hold "<namespace>.<key>", a newline, then the value.
func parseEntryRecords(namespace, output string) []Entry {
	prefix := namespace + "."
	entries := make([]Entry, 0)

	for _, record := range strings.Split(output, "\x00") {
		if record == "" {
			continue
		}
		name, identity, hasValue := strings.Cut(record, "\n")
		if !hasValue || identity == "" {
			logger.Debugf("skipping co-author without identity: %q", name)
			continue
		}
		if len(name) <= len(prefix) || !strings.EqualFold(name[:len(prefix)], prefix) {
			logger.Debugf("skipping unexpected git config record: %q", record)
			continue
		}
		entries = append(entries, Entry{Key: name[len(prefix):], Identity: identity})
	}

	return entries
}
