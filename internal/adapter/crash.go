package adapter

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
)

// CrashExitCode is reserved for the crash guard; no other exit path uses it.
const CrashExitCode = 255

// crashSignals are the fatal faults intercepted by the guard. They can be
// raised by engine code at arbitrary points, so the handler must not assume
// any engine state.
var crashSignals = map[os.Signal]string{
	syscall.SIGSEGV: "SIGSEGV",
	syscall.SIGBUS:  "SIGBUS",
	syscall.SIGILL:  "SIGILL",
	syscall.SIGFPE:  "SIGFPE",
	syscall.SIGABRT: "SIGABRT",
}

// HookCrashes installs the process-wide crash guard. Call once at startup,
// before the engine is initialized. On a fault it writes the signal name and
// a stack trace to stderr, finalizes the reproducer if capture was active,
// and exits with CrashExitCode. No graceful shutdown is attempted: the fault
// may have occurred inside the engine and left it undefined.
//
// The guard covers asynchronously delivered signals only. A synchronous
// fault raised by Go code becomes a runtime panic before os/signal sees it;
// an engine linked through cgo that needs in-process fault coverage must
// install its own handler ahead of the Go runtime's.
func HookCrashes(rep *Reproducer) {
	ch := make(chan os.Signal, 1)
	for sig := range crashSignals {
		signal.Notify(ch, sig)
	}
	go func() {
		sig := <-ch
		fmt.Fprintf(os.Stderr, "Received signal: %s\n", crashSignals[sig])
		os.Stderr.Write(debug.Stack())
		if rep.Capturing() {
			rep.Finalize()
		}
		os.Exit(CrashExitCode)
	}()
}
