package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/PrjctQ/qcore/pkg/config"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// queryLogger routes GORM's log output through slog so database logs share
// the application's structured format. In production the SQL text is dropped
// from entries to keep parameters out of the logs.
type queryLogger struct {
	log           *slog.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
	skipNotFound  bool
	redactSQL     bool
}

func newQueryLogger(cfg *config.Config) gormlogger.Interface {
	level := gormlogger.Info
	if cfg.IsProduction() {
		level = gormlogger.Error
	}

	return &queryLogger{
		log:           slog.With("component", "gorm"),
		level:         level,
		slowThreshold: 200 * time.Millisecond,
		// missing-record results are normal control flow here, not errors
		skipNotFound: true,
		redactSQL:    cfg.IsProduction(),
	}
}

func (l *queryLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	copied := *l
	copied.level = level
	return &copied
}

func (l *queryLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.log.InfoContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *queryLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.log.WarnContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *queryLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.log.ErrorContext(ctx, fmt.Sprintf(msg, args...))
	}
}

// Trace logs each executed statement, escalating to warn for slow queries and
// error for failures.
func (l *queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && l.level >= gormlogger.Error &&
		(!errors.Is(err, gorm.ErrRecordNotFound) || !l.skipNotFound):
		l.log.ErrorContext(ctx, "query failed",
			"error", err,
			"elapsed", elapsed.String(),
			"rows", rows,
			"sql", sql,
		)

	case l.slowThreshold != 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		l.log.WarnContext(ctx, "slow query",
			"elapsed", elapsed.String(),
			"threshold", l.slowThreshold.String(),
			"rows", rows,
			"sql", sql,
		)

	case l.level >= gormlogger.Info:
		attrs := []any{
			"elapsed", elapsed.String(),
			"rows", rows,
		}
		if !l.redactSQL {
			attrs = append(attrs, "sql", sql)
		}
		l.log.DebugContext(ctx, "query executed", attrs...)
	}
}
