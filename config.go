package gosqlite

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/neosmart/gosqlite/internal/sqlitec"
	"github.com/orsinium-labs/enum"
)

// Level represents the severity of a log message, ascending from Verbose to
// Error. Verbose messages are suppressed unless verbose logging is enabled
// on the DB; other levels always pass through.
type Level enum.Member[string]

var (
	LevelVerbose = Level{Value: "Verbose"}
	LevelInfo    = Level{Value: "Info"}
	LevelWarning = Level{Value: "Warning"}
	LevelError   = Level{Value: "Error"}
)

// ErrorHandler is the pluggable policy for engine-reported failures. It
// receives the native result code, the engine's error message, and a phrase
// describing which operation failed. Returning a non-nil error fails the
// operation with it; returning nil recovers and lets the operation continue
// as far as it can.
type ErrorHandler func(code int, message string, context string) error

// LogHandler is the pluggable sink for diagnostics. Level filtering happens
// before the handler is invoked.
type LogHandler func(level Level, message string)

// DefaultErrorHandler builds a *Error from the failure. It is the fail-fast
// policy installed on every new DB.
func DefaultErrorHandler(code int, message string, context string) error {
	return &Error{Code: code, Message: message, Context: context}
}

// Verbose traces can carry whole statements with blob or large string
// literals expanded, so the default handler clamps what it prints.
const maxLogMessageLen = 256

// DefaultLogHandler prints the message to stdout with a colored level tag,
// truncated to bound I/O cost.
func DefaultLogHandler(level Level, message string) {
	if len(message) > maxLogMessageLen {
		message = message[:maxLogMessageLen]
	}
	fmt.Printf("[gosqlite][%s]: %s\n", levelColor(level).Sprint(level.Value), message)
}

func levelColor(level Level) *color.Color {
	switch level {
	case LevelError:
		return color.New(color.FgRed, color.Bold)
	case LevelWarning:
		return color.New(color.FgYellow)
	case LevelInfo:
		return color.New(color.FgCyan)
	default:
		return color.RGB(128, 128, 128)
	}
}

// config bundles the native handle with the two policy hooks and the verbose
// switch. It is copied by value into every Stmt and Query at creation time,
// so changing a handler on the DB afterwards does not retroactively affect
// children that already exist. The conn pointer itself stays shared, which
// is how children observe the connection being closed.
type config struct {
	conn         *sqlitec.Conn
	errorHandler ErrorHandler
	logHandler   LogHandler
	verbose      bool
}

func (c config) log(level Level, message string) {
	if level == LevelVerbose && !c.verbose {
		return
	}
	handler := c.logHandler
	if handler == nil {
		handler = DefaultLogHandler
	}
	handler(level, message)
}

// route hands an engine failure to the error handler, fetching the message
// from the connection.
func (c config) route(code int, context string) error {
	return c.routeMessage(code, c.conn.ErrMsg(), context)
}

func (c config) routeMessage(code int, message string, context string) error {
	handler := c.errorHandler
	if handler == nil {
		handler = DefaultErrorHandler
	}
	return handler(code, message, context)
}
