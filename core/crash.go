package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
)

// Finalizer restores the terminal; tcell.Screen satisfies it
type Finalizer interface {
	Fini()
}

var (
	crashMu     sync.Mutex
	crashScreen Finalizer
	crashLogger = zap.NewNop()

	// Replaced in tests
	exit             = os.Exit
	stderr io.Writer = os.Stderr
)

// SetCrashScreen registers the screen finalized before a crash report is printed
func SetCrashScreen(s Finalizer) {
	crashMu.Lock()
	crashScreen = s
	crashMu.Unlock()
}

// SetCrashLogger registers the logger that records the crash before exit
func SetCrashLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	crashMu.Lock()
	crashLogger = l
	crashMu.Unlock()
}

// HandleCrash is the unified panic handler that resets the terminal and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	screen := crashScreen
	crashScreen = nil
	logger := crashLogger
	crashMu.Unlock()

	if screen != nil {
		screen.Fini()
	}

	stack := debug.Stack()
	logger.Error("crash", zap.Any("panic", r), zap.ByteString("stack", stack))
	_ = logger.Sync()

	// Raw mode may still be active if Fini was never reached
	fmt.Fprintf(stderr, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(stderr, "Stack Trace:\r\n%s\r\n", stack)

	exit(1)
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}

// Guard wraps fn with panic recovery for use with errgroup.Go
func Guard(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return fn()
	}
}
