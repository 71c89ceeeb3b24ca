// Package debug provides opt-in trace output for pipeline stages. Callers
// thread a localDebug flag through their call chains rather than consulting
// global state, so parallel workers can trace independently.
package debug

import (
	"fmt"
	"log"
	"time"
)

// Header prints a trace section header when tracing is enabled.
func Header(enabled bool) {
	if enabled {
		log.Printf("=== DEBUG START ===")
	}
}

// Footer prints a trace section footer when tracing is enabled.
func Footer(enabled bool) {
	if enabled {
		log.Printf("=== DEBUG END ===")
	}
}

// Output prints a timestamped trace line when tracing is enabled.
func Output(enabled bool, format string, args ...interface{}) {
	if enabled {
		timestamp := time.Now().Format("15:04:05.000")
		message := fmt.Sprintf(format, args...)
		log.Printf("[%s] %s", timestamp, message)
	}
}

// Timing logs the elapsed time of an operation when tracing is enabled. Call
// it at the top of the operation and defer the returned func.
func Timing(enabled bool, operation string) func() {
	if !enabled {
		return func() {}
	}

	start := time.Now()
	Output(enabled, "Starting: %s", operation)

	return func() {
		Output(enabled, "Completed: %s (took %v)", operation, time.Since(start))
	}
}
