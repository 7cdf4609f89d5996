package logger

import (
	"sync"

	"github.com/rs/zerolog"

	corelogger "github.com/deltakit/deltakit/core/logger"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods. It is the default for
// registries and models constructed without an explicit logger.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any)         {}
func (NopLogger) Debugw(string, map[string]any) {}
func (NopLogger) Infof(string, ...any)          {}
func (NopLogger) Warnf(string, ...any)          {}
func (NopLogger) Errorf(string, ...any)         {}

var (
	modeMu sync.RWMutex
	mode   string
)

// Configure sets the output mode ("dev" for console, anything else for
// JSON) and the global level for loggers created afterwards. An empty level
// is ignored; an unparseable one is reported and otherwise ignored.
func Configure(env, level string) {
	modeMu.Lock()
	mode = env
	modeMu.Unlock()
	if level == "" {
		return
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		New("logger").Warnf("unknown log level %q: %v", level, err)
		return
	}
	zerolog.SetGlobalLevel(lvl)
}

// New returns a Logger tagged with the given component. Output format is
// selected by Configure or, when unset, the DELTAKIT_ENV environment
// variable.
func New(component string) Logger {
	return NewZerologLogger(component)
}
