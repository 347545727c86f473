package logging

import "github.com/vvka-141/ingest/pkg/ingest"

type teeLogger struct {
	loggers []ingest.Logger
}

// Tee returns a logger that forwards every call to each of loggers in order.
// Nil entries are skipped.
func Tee(loggers ...ingest.Logger) ingest.Logger {
	var live []ingest.Logger
	for _, l := range loggers {
		if l != nil {
			live = append(live, l)
		}
	}
	if len(live) == 1 {
		return live[0]
	}
	return &teeLogger{loggers: live}
}

func (t *teeLogger) Verbose(format string, args ...interface{}) {
	for _, l := range t.loggers {
		l.Verbose(format, args...)
	}
}

func (t *teeLogger) Info(format string, args ...interface{}) {
	for _, l := range t.loggers {
		l.Info(format, args...)
	}
}

func (t *teeLogger) Error(format string, args ...interface{}) {
	for _, l := range t.loggers {
		l.Error(format, args...)
	}
}
