package logging

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type ctxKey string

const entryKey ctxKey = "logger"

// New builds the process logger. Production logs are JSON, everything else is text.
func New(level string, jsonOutput bool) *logrus.Logger {
	return NewWithWriter(os.Stdout, level, jsonOutput)
}

// NewWithWriter is New with an explicit output, used by tests.
func NewWithWriter(w io.Writer, level string, jsonOutput bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)

	if jsonOutput {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// WithEntry stores a request-scoped log entry on the context.
func WithEntry(ctx context.Context, entry *logrus.Entry) context.Context {
	if ctx == nil || entry == nil {
		return ctx
	}
	return context.WithValue(ctx, entryKey, entry)
}

// FromContext returns the request-scoped entry or one built on the standard logger.
func FromContext(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		if entry, ok := ctx.Value(entryKey).(*logrus.Entry); ok && entry != nil {
			return entry
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
