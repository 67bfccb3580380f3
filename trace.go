package ppcfuzz

import (
	"os"

	"github.com/sirupsen/logrus"
)

// debugEnabled controls whether debug tracing is enabled via PPCFUZZ_DEBUG env var
var debugEnabled = os.Getenv("PPCFUZZ_DEBUG") == "1"

// tracer receives trace output. It is separate from Config.Logger so tracing
// can be switched on without touching the caller's logger.
var tracer = func() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.TraceLevel)
	return l
}()

// traceLog outputs a debug message with alternating key/value pairs if
// tracing is enabled
func traceLog(msg string, kv ...interface{}) {
	if !debugEnabled {
		return
	}
	fields := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			fields[k] = kv[i+1]
		}
	}
	tracer.WithFields(fields).Trace(msg)
}

// traceRegisters outputs a register image, one register per line
func traceRegisters(name string, regs []uint64) {
	if !debugEnabled {
		return
	}
	tracer.Tracef("%s:", name)
	for i, r := range regs {
		tracer.Tracef("  slot %3d = 0x%016x", i, r)
	}
}

// traceSeparator prints a visual separator in debug output
func traceSeparator(title string) {
	if debugEnabled {
		tracer.Tracef("========== %s ==========", title)
	}
}
