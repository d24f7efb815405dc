package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"gitmob/internal/process"
)

// Call is a single recorded invocation.
type Call struct {
	Program string
	Args    []string
}

// String renders the call the way it would be typed in a shell.
func (c Call) String() string {
	return strings.TrimSpace(c.Program + " " + strings.Join(c.Args, " "))
}

// RecordingExecutor implements process.Executor by recording every call and
// answering from a queue of canned responses.
type RecordingExecutor struct {
	mu        sync.Mutex
	calls     []Call
	responses []Response
	// Fallback is returned when the queue is empty.
	Fallback Response
}

// Response is a canned answer for one invocation.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// NewRecordingExecutor creates a RecordingExecutor answering with the given
// responses in order.
func NewRecordingExecutor(responses ...Response) *RecordingExecutor {
	return &RecordingExecutor{responses: responses}
}

// Execute records the call and returns the next canned response.
func (m *RecordingExecutor) Execute(_ context.Context, program string, args ...string) (*process.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Call{Program: program, Args: append([]string(nil), args...)})

	resp := m.Fallback
	if len(m.responses) > 0 {
		resp = m.responses[0]
		m.responses = m.responses[1:]
	}

	if resp.Err != nil {
		return nil, fmt.Errorf("%w: %s", resp.Err, program)
	}

	return &process.Result{
		Stdout:   []byte(resp.Stdout),
		Stderr:   []byte(resp.Stderr),
		ExitCode: resp.ExitCode,
	}, nil
}

// Calls returns a copy of the recorded calls.
func (m *RecordingExecutor) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// CallStrings returns the recorded calls rendered with Call.String.
func (m *RecordingExecutor) CallStrings() []string {
	calls := m.Calls()
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.String())
	}
	return out
}
