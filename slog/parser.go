package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/heads"
)

// Ensure LoggingParser implements heads.Parser.
var _ heads.Parser = (*LoggingParser)(nil)

// LoggingParser wraps a Parser with logging.
type LoggingParser struct {
	next   heads.Parser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next heads.Parser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// Parse delegates to the wrapped parser and logs the number of states found.
func (p *LoggingParser) Parse(html string) (store *heads.Store, err error) {
	defer func(begin time.Time) {
		states := 0
		if store != nil {
			states = store.Len()
		}
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelError
		}
		p.logger.Log(context.Background(), level, "parse",
			"bytes", len(html),
			"states", states,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Parse(html)
}
