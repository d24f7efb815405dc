// Package logger provides the leveled loggers used across git-mob.
//
// Command output goes to stdout/stderr through cobra; these loggers are for
// diagnostics only. Debug output is discarded unless it was enabled with
// --verbose or GIT_MOB_DEBUG, so the command output stays exact.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

var (
	WarnLog  *log.Logger
	DebugLog *log.Logger
)

var (
	mu           sync.Mutex
	debugEnabled = envDebug()
)

func envDebug() bool {
	v := os.Getenv("GIT_MOB_DEBUG")
	return v == "1" || v == "true"
}

func init() {
	Initialize(os.Stderr, debugEnabled)
}

// Initialize points all loggers at w. Debug output is only written when
// debug is true; otherwise it goes to io.Discard.
func Initialize(w io.Writer, debug bool) {
	mu.Lock()
	defer mu.Unlock()

	flags := log.Ldate | log.Ltime | log.Lshortfile
	WarnLog = log.New(w, "WARNING: ", flags)
	if debug {
		DebugLog = log.New(w, "DEBUG: ", flags)
	} else {
		DebugLog = log.New(io.Discard, "", 0)
	}
	debugEnabled = debug
}

// SetVerbose turns debug output on. The GIT_MOB_DEBUG environment
// variable is honoured regardless of the flag.
func SetVerbose(verbose bool) {
	Initialize(os.Stderr, verbose || envDebug())
}

// IsDebugEnabled returns true if debug logging is enabled.
func IsDebugEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return debugEnabled
}

// Debugf logs to the debug logger.
func Debugf(format string, args ...any) {
	mu.Lock()
	l := DebugLog
	mu.Unlock()
	_ = l.Output(2, fmt.Sprintf(format, args...))
}

// Warnf logs to the warning logger.
func Warnf(format string, args ...any) {
	mu.Lock()
	l := WarnLog
	mu.Unlock()
	_ = l.Output(2, fmt.Sprintf(format, args...))
}
