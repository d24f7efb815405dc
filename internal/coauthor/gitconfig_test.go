package coauthor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitmob/internal/process"
	"gitmob/internal/testutil"
	"gitmob/internal/testutil/mocks"
)

func newRecordedRepo(t *testing.T, opts GitConfigOptions, responses ...mocks.Response) (*GitConfigRepository, *mocks.RecordingExecutor) {
	t.Helper()
	exec := mocks.NewRecordingExecutor(responses...)
	repo, err := NewGitConfigRepository(exec, opts)
	require.NoError(t, err)
	return repo, exec
}

func TestGitConfigRepositoryInvocations(t *testing.T) {
	ctx := context.Background()
	repo, exec := newRecordedRepo(t, GitConfigOptions{},
		mocks.Response{Stdout: "Leo Messi <leo.messi@example.com>\n"},
		mocks.Response{},
		mocks.Response{},
		mocks.Response{Stdout: "coauthors.lm\nLeo Messi <leo.messi@example.com>\x00"},
	)

	_, _, err := repo.Get(ctx, "lm")
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, "lm", "Leo Messi <leo.messi@example.com>"))
	require.NoError(t, repo.Remove(ctx, "lm"))
	_, err = repo.List(ctx, true)
	require.NoError(t, err)

	calls := exec.Calls()
	require.Len(t, calls, 4)
	for _, c := range calls {
		assert.Equal(t, "git", c.Program)
	}
	assert.Equal(t, []string{"config", "--global", "--get", "coauthors.lm"}, calls[0].Args)
	assert.Equal(t, []string{"config", "--global", "--replace-all", "coauthors.lm", "Leo Messi <leo.messi@example.com>"}, calls[1].Args)
	assert.Equal(t, []string{"config", "--global", "--unset-all", "coauthors.lm"}, calls[2].Args)
	assert.Equal(t, []string{"config", "--global", "-z", "--get-regexp", `^coauthors\.`}, calls[3].Args)
}

func TestGitConfigRepositoryScopes(t *testing.T) {
	tests := []struct {
		name    string
		opts    GitConfigOptions
		want    []string
		wantErr string
	}{
		{name: "default is global", opts: GitConfigOptions{}, want: []string{"config", "--global"}},
		{name: "local", opts: GitConfigOptions{Scope: ScopeLocal}, want: []string{"config", "--local"}},
		{name: "system", opts: GitConfigOptions{Scope: ScopeSystem}, want: []string{"config", "--system"}},
		{name: "file", opts: GitConfigOptions{Scope: ScopeFile, File: "/tmp/mob"}, want: []string{"config", "--file", "/tmp/mob"}},
		{name: "file without path", opts: GitConfigOptions{Scope: ScopeFile}, wantErr: "requires a file path"},
		{name: "unknown", opts: GitConfigOptions{Scope: "worktree"}, wantErr: "unknown git config scope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := mocks.NewRecordingExecutor()
			repo, err := NewGitConfigRepository(exec, tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			_, _, err = repo.Get(context.Background(), "lm")
			require.NoError(t, err)
			calls := exec.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, append(tt.want, "--get", "coauthors.lm"), calls[0].Args)
		})
	}
}

func TestGitConfigRepositoryCustomProgramAndNamespace(t *testing.T) {
	repo, exec := newRecordedRepo(t, GitConfigOptions{Program: "/usr/local/bin/git", Namespace: "mob"})

	require.NoError(t, repo.Add(context.Background(), "lm", "Leo Messi <leo.messi@example.com>"))
	_, err := repo.List(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/usr/local/bin/git config --global --replace-all mob.lm Leo Messi <leo.messi@example.com>",
		`/usr/local/bin/git config --global -z --get-regexp ^mob\.`,
	}, exec.CallStrings())
}

func TestGitConfigRepositoryFoldsNamespaceCase(t *testing.T) {
	repo, exec := newRecordedRepo(t, GitConfigOptions{Namespace: "Mob"},
		mocks.Response{},
		mocks.Response{Stdout: "mob.lm\nLeo Messi <leo.messi@example.com>\x00"},
	)

	require.NoError(t, repo.Add(context.Background(), "lm", "Leo Messi <leo.messi@example.com>"))
	entries, err := repo.List(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, []string{"lm Leo Messi <leo.messi@example.com>"}, entries)
	assert.Equal(t, []string{
		"git config --global --replace-all mob.lm Leo Messi <leo.messi@example.com>",
		`git config --global -z --get-regexp ^mob\.`,
	}, exec.CallStrings())
}

func TestGitConfigRepositoryGet(t *testing.T) {
	tests := []struct {
		name      string
		response  mocks.Response
		wantFound bool
		want      string
	}{
		{name: "found", response: mocks.Response{Stdout: "Leo Messi <leo.messi@example.com>\n"}, wantFound: true, want: "Leo Messi <leo.messi@example.com>"},
		{name: "missing key exits 1", response: mocks.Response{ExitCode: 1}},
		{name: "other failure is treated as absent", response: mocks.Response{ExitCode: 3, Stderr: "fatal: bad config line 1"}},
		{name: "empty output", response: mocks.Response{Stdout: "\n"}},
		{name: "surrounding whitespace is kept", response: mocks.Response{Stdout: " Leo Messi <leo.messi@example.com> \n"}, wantFound: true, want: " Leo Messi <leo.messi@example.com> "},
		{name: "embedded newline is kept", response: mocks.Response{Stdout: "Leo\nMessi <leo.messi@example.com>\n"}, wantFound: true, want: "Leo\nMessi <leo.messi@example.com>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _ := newRecordedRepo(t, GitConfigOptions{}, tt.response)

			identity, found, err := repo.Get(context.Background(), "lm")
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.want, identity)
		})
	}
}

func TestGitConfigRepositoryMutationFailuresAreSurfaced(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRecordedRepo(t, GitConfigOptions{},
		mocks.Response{ExitCode: 4, Stderr: "error: could not lock config file /home/leo/.gitconfig: File exists\n"},
		mocks.Response{ExitCode: 5},
	)

	err := repo.Add(ctx, "lm", "Leo Messi <leo.messi@example.com>")
	var storeErr *StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "add", storeErr.Op)
	assert.Equal(t, "lm", storeErr.Key)
	assert.Equal(t, 4, storeErr.ExitCode)
	assert.Equal(t, "error: could not lock config file /home/leo/.gitconfig: File exists", storeErr.Stderr)

	err = repo.Remove(ctx, "lm")
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "remove", storeErr.Op)
	assert.Equal(t, 5, storeErr.ExitCode)
}

func TestGitConfigRepositoryList(t *testing.T) {
	tests := []struct {
		name     string
		response mocks.Response
		full     bool
		want     []string
		wantErr  bool
	}{
		{
			name:     "no matches",
			response: mocks.Response{ExitCode: 1},
			full:     true,
			want:     []string{},
		},
		{
			name: "full rendering keeps git order",
			response: mocks.Response{Stdout: "coauthors.lm\nLeo Messi <leo.messi@example.com>\x00" +
				"coauthors.em\nEmi Martinez <emi.martinez@example.com>\x00"},
			full: true,
			want: []string{
				"lm Leo Messi <leo.messi@example.com>",
				"em Emi Martinez <emi.martinez@example.com>",
			},
		},
		{
			name: "keys only",
			response: mocks.Response{Stdout: "coauthors.lm\nLeo Messi <leo.messi@example.com>\x00" +
				"coauthors.em\nEmi Martinez <emi.martinez@example.com>\x00"},
			full: false,
			want: []string{"lm", "em"},
		},
		{
			name:     "unexpected records are skipped",
			response: mocks.Response{Stdout: "coauthors.\nbroken\x00user.name\nLeo\x00coauthors.jd\x00coauthors.lm\nLeo Messi <leo.messi@example.com>\x00"},
			full:     true,
			want:     []string{"lm Leo Messi <leo.messi@example.com>"},
		},
		{
			name:     "values spanning lines stay whole",
			response: mocks.Response{Stdout: "coauthors.lm\nLeo\nMessi <leo.messi@example.com>\x00coauthors.em\nEmi <emi@example.com>\x00"},
			full:     true,
			want:     []string{"lm Leo\nMessi <leo.messi@example.com>", "em Emi <emi@example.com>"},
		},
		{
			name:     "store failure",
			response: mocks.Response{ExitCode: 128, Stderr: "fatal: not in a git directory"},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _ := newRecordedRepo(t, GitConfigOptions{}, tt.response)

			got, err := repo.List(context.Background(), tt.full)
			if tt.wantErr {
				var storeErr *StoreError
				require.True(t, errors.As(err, &storeErr))
				assert.Equal(t, 128, storeErr.ExitCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGitConfigRepositoryProgramNotFound(t *testing.T) {
	repo, _ := newRecordedRepo(t, GitConfigOptions{}, mocks.Response{Err: process.ErrProgramNotFound})

	_, _, err := repo.Get(context.Background(), "lm")
	require.Error(t, err)
	assert.True(t, errors.Is(err, process.ErrProgramNotFound))
}

func TestGitConfigRepositoryRealGitGlobalScope(t *testing.T) {
	testutil.RequireGit(t)
	testutil.IsolatedGitConfig(t)

	ctx := context.Background()
	repo, err := NewGitConfigRepository(process.NewCommandExecutor(), GitConfigOptions{})
	require.NoError(t, err)

	require.NoError(t, repo.Add(ctx, "lm", "Leo Messi <leo.messi@example.com>"))

	identity, found, err := repo.Get(ctx, "lm")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Leo Messi <leo.messi@example.com>", identity)

	require.NoError(t, repo.Remove(ctx, "lm"))
	_, found, err = repo.Get(ctx, "lm")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGitConfigRepositoryRealGitMultiValuedKey(t *testing.T) {
	testutil.RequireGit(t)
	testutil.IsolatedGitConfig(t)

	ctx := context.Background()
	exec := process.NewCommandExecutor()
	_, err := exec.Execute(ctx, "git", "config", "--global", "--add", "coauthors.lm", "Leo Messi <leo.messi@example.com>")
	require.NoError(t, err)
	_, err = exec.Execute(ctx, "git", "config", "--global", "--add", "coauthors.lm", "Lionel Messi <lionel@example.com>")
	require.NoError(t, err)

	repo, err := NewGitConfigRepository(exec, GitConfigOptions{})
	require.NoError(t, err)

	entries, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	require.NoError(t, repo.Add(ctx, "lm", "Leo Messi <leo@example.com>"))
	entries, err = repo.List(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"lm Leo Messi <leo@example.com>"}, entries)

	require.NoError(t, repo.Remove(ctx, "lm"))
	entries, err = repo.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGitConfigRepositoryRealGitKeepsValuesIntact(t *testing.T) {
	testutil.RequireGit(t)
	testutil.IsolatedGitConfig(t)

	ctx := context.Background()
	repo, err := NewGitConfigRepository(process.NewCommandExecutor(), GitConfigOptions{})
	require.NoError(t, err)

	multiline := FormatIdentity("Leo\nMessi", "leo@example.com")
	padded := FormatIdentity(" Emi", "emi@example.com")
	require.NoError(t, repo.Add(ctx, "lm", multiline))
	require.NoError(t, repo.Add(ctx, "em", padded))

	identity, found, err := repo.Get(ctx, "lm")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, multiline, identity)

	identity, found, err = repo.Get(ctx, "em")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, padded, identity)

	entries, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"lm " + multiline, "em " + padded}, entries)
}

func TestGitConfigRepositoryRealGitMixedCaseNamespace(t *testing.T) {
	testutil.RequireGit(t)
	testutil.IsolatedGitConfig(t)

	ctx := context.Background()
	repo, err := NewGitConfigRepository(process.NewCommandExecutor(), GitConfigOptions{Namespace: "Mob"})
	require.NoError(t, err)

	require.NoError(t, repo.Add(ctx, "lm", "Leo Messi <leo.messi@example.com>"))

	_, found, err := repo.Get(ctx, "lm")
	require.NoError(t, err)
	assert.True(t, found)

	entries, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"lm Leo Messi <leo.messi@example.com>"}, entries)
}
