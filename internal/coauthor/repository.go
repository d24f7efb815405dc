// Package coauthor stores the personal directory of co-authors, a mapping
// from a short key (e.g. "lm") to an identity string ("Name <email>").
//
// Repository is the storage capability. GitConfigRepository keeps entries
// in git config by shelling out to git; FileRepository edits a git-config
// formatted file directly; SQLiteRepository keeps them in a SQLite table;
// MemoryRepository is an in-process map for tests.
package coauthor

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultNamespace is the git config section holding co-author entries.
const DefaultNamespace = "coauthors"

// ErrEmptyKey is returned when a repository call receives an empty key.
var ErrEmptyKey = errors.New("co-author key must not be empty")

// Repository is the set of operations the coauthor command needs from a
// storage backend. Get reports absence through found rather than an error.
// List renders "<key> <identity>" when full is true and "<key>" otherwise,
// in the backend's native order.
type Repository interface {
	Get(ctx context.Context, key string) (identity string, found bool, err error)
	Add(ctx context.Context, key, identity string) error
	Remove(ctx context.Context, key string) error
	List(ctx context.Context, full bool) ([]string, error)
}

// StoreError describes a store operation that ran but failed.
type StoreError struct {
	Op       string
	Key      string
	ExitCode int
	Stderr   string
}

func (e *StoreError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "failed to %s co-author", e.Op)
	if e.Key != "" {
		fmt.Fprintf(&b, " %q", e.Key)
	}
	if e.ExitCode != 0 {
		fmt.Fprintf(&b, " (exit status %d)", e.ExitCode)
	}
	if e.Stderr != "" {
		b.WriteString(": ")
		b.WriteString(e.Stderr)
	}
	return b.String()
}

// FormatIdentity renders a name and email as "Name <email>".
func FormatIdentity(name, email string) string {
	return fmt.Sprintf("%s <%s>", name, email)
}

// Entry is a single stored co-author.
type Entry struct {
	Key      string
	Identity string
}

// Render returns the display form used by List.
func (e Entry) Render(full bool) string {
	if !full {
		return e.Key
	}
	return e.Key + " " + e.Identity
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}

func renderEntries(entries []Entry, full bool) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Render(full))
	}
	return out
}
