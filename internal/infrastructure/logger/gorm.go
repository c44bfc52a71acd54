package logger

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowQuery = 200 * time.Millisecond

// sqlLiteral matches single-quoted SQL string literals, '' escapes included
var sqlLiteral = regexp.MustCompile(`'(?:[^']|'')*'`)

// GormLogger writes GORM's query log to zap. Each entry carries the request
// and trace IDs of the calling context. Quote requests hold names, emails and
// phone numbers, so string literals are masked unless full SQL is enabled.
type GormLogger struct {
	logger      *zap.Logger
	level       gormlogger.LogLevel
	slowQuery   time.Duration
	redact      bool
	logNotFound bool
}

// GormLoggerOption configures a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold sets the duration above which a query is logged as slow.
// Zero disables slow query warnings.
func WithSlowThreshold(threshold time.Duration) GormLoggerOption {
	return func(l *GormLogger) { l.slowQuery = threshold }
}

// WithFullSQL keeps string literals in logged statements
func WithFullSQL(enabled bool) GormLoggerOption {
	return func(l *GormLogger) { l.redact = !enabled }
}

// WithRecordNotFound logs gorm.ErrRecordNotFound as an error. Repositories map
// it to a domain not-found, so it is dropped by default.
func WithRecordNotFound(enabled bool) GormLoggerOption {
	return func(l *GormLogger) { l.logNotFound = enabled }
}

// NewGormLogger creates a GORM logger on the "gorm" child of zapLogger
func NewGormLogger(zapLogger *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	l := &GormLogger{
		logger:    zapLogger.Named("gorm"),
		level:     level,
		slowQuery: defaultSlowQuery,
		redact:    true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LogMode returns a copy logging at level
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

// Info logs a GORM message at info level
func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

// Warn logs a GORM message at warn level
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

// Error logs a GORM message at error level
func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *GormLogger) printf(ctx context.Context, threshold gormlogger.LogLevel, lvl zapcore.Level, msg string, data []any) {
	if l.level < threshold {
		return
	}
	WithTraceContext(ctx, l.logger).Sugar().Logf(lvl, msg, data...)
}

// Trace logs one executed statement: failures as errors, slow statements as
// warnings and everything else at debug when the level is Info
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	var (
		lvl zapcore.Level
		msg string
	)
	switch {
	case err != nil && l.level >= gormlogger.Error:
		if errors.Is(err, gormlogger.ErrRecordNotFound) && !l.logNotFound {
			return
		}
		lvl, msg = zapcore.ErrorLevel, "SQL failed"
		if errors.Is(err, context.Canceled) {
			lvl, msg = zapcore.WarnLevel, "SQL canceled"
		}
	case l.slowQuery > 0 && elapsed > l.slowQuery && l.level >= gormlogger.Warn:
		lvl, msg = zapcore.WarnLevel, "Slow SQL"
	case l.level >= gormlogger.Info:
		lvl, msg = zapcore.DebugLevel, "SQL"
	default:
		return
	}

	stmt, rows := fc()
	fields := []zap.Field{
		zap.String("statement", statementVerb(stmt)),
		zap.String("sql", l.format(stmt)),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}
	if msg == "Slow SQL" {
		fields = append(fields, zap.Duration("threshold", l.slowQuery))
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	WithTraceContext(ctx, l.logger).Log(lvl, msg, fields...)
}

func (l *GormLogger) format(stmt string) string {
	if !l.redact {
		return stmt
	}
	return sqlLiteral.ReplaceAllString(stmt, "'?'")
}

// statementVerb returns the upper-cased first keyword, e.g. SELECT or INSERT
func statementVerb(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if i := strings.IndexAny(stmt, " \t\n("); i > 0 {
		stmt = stmt[:i]
	}
	return strings.ToUpper(stmt)
}

// MapGormLogLevel maps the application log level to a GORM level. Debug and
// info both log every statement; anything unknown falls back to warn.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
