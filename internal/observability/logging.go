// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LoggingConfig defines which types of automated logging are enabled.
type LoggingConfig struct {
	EnableRepoLogging bool
}

// Config holds the current logging configuration.
var Config = LoggingConfig{
	EnableRepoLogging: true,
}

// NewLogger builds the process logger. Production emits JSON; every other
// environment gets the human-readable console writer.
func NewLogger(env, level string, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	if !isProduction(env) {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Str("service", "konishi").Logger()
}

// InitLogging installs the process logger globally and as the fallback for
// contexts that carry no request logger.
func InitLogging(env, level string) {
	log.Logger = NewLogger(env, level, os.Stdout)
	zerolog.DefaultContextLogger = &log.Logger
}

func isProduction(env string) bool {
	env = strings.ToLower(env)
	return env == "production" || env == "prod"
}

// RepoLogger provides structured logging for repository operations.
type RepoLogger struct {
	tableName string
}

// NewRepoLogger creates a new RepoLogger for the given table.
func NewRepoLogger(tableName string) *RepoLogger {
	return &RepoLogger{tableName: tableName}
}

// LogRead logs a repository read at debug level.
func (l *RepoLogger) LogRead(ctx context.Context, operation string, fields map[string]interface{}) {
	if !Config.EnableRepoLogging {
		return
	}
	zerolog.Ctx(ctx).Debug().
		Str("table", l.tableName).
		Str("operation", operation).
		Fields(fields).
		Msg("repository read")
}

// LogError logs a repository error.
func (l *RepoLogger) LogError(ctx context.Context, err error, operation string) {
	if !Config.EnableRepoLogging {
		return
	}
	zerolog.Ctx(ctx).Error().
		Err(err).
		Str("table", l.tableName).
		Str("operation", operation).
		Msg("repository error")
}
