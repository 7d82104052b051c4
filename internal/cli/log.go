package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/argmap/pkg/errors"
)

// newLogger writes leveled, timestamped lines such as
// "14:32:01.45 INFO Rendered debate.json elapsed=1.234s".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one command step.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string, keyvals ...any) {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Info(msg, append(keyvals, "elapsed", elapsed)...)
}

// logNotice logs a diagram notice at the level its severity implies.
func logNotice(l *log.Logger, n errors.Notice) {
	logAt := l.Debug
	switch n.Level {
	case errors.LevelBlocking:
		logAt = l.Error
	case errors.LevelInfo:
		logAt = l.Info
	}
	logAt(n.Message, "code", n.Code)
}
