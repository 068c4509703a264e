// Package goroutine provides utilities for safely launching goroutines with panic recovery.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/chronicle-it/chronicle/internal/shared/logger"
)

// Recover logs a recovered panic with its stack trace. Use as
// `defer goroutine.Recover(log, "name")` at the top of a goroutine or callback.
func Recover(log logger.Interface, name string) {
	if r := recover(); r != nil {
		log.Errorw("goroutine panicked",
			"goroutine", name,
			"panic", fmt.Sprintf("%v", r),
			"stack", string(debug.Stack()),
		)
	}
}

// SafeGo launches a goroutine with panic recovery. If the goroutine panics,
// the panic is logged with stack trace instead of crashing the process.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer Recover(log, name)
		fn()
	}()
}
