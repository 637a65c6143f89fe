package store

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/sadhana/internal/model"
)

// loggedStore records every call, its latency and its outcome.
type loggedStore struct {
	next   Store
	logger *zap.Logger
}

// WithLogging wraps s so that each fetch and upsert is logged.
func WithLogging(s Store, logger *zap.Logger) Store {
	if logger == nil {
		return s
	}
	return &loggedStore{next: s, logger: logger.Named("store")}
}

func (l *loggedStore) FetchByDate(ctx context.Context, day model.Day) (model.SadhanaLog, error) {
	start := time.Now()
	log, err := l.next.FetchByDate(ctx, day)
	fields := []zap.Field{
		zap.String("date", day.String()),
		zap.Duration("took", time.Since(start)),
	}
	switch {
	case err == nil:
		l.logger.Debug("fetched log", fields...)
	case errors.Is(err, ErrNotFound):
		l.logger.Debug("no log for date", fields...)
	default:
		l.logger.Error("fetch failed", append(fields, zap.Error(err))...)
	}
	return log, err
}

func (l *loggedStore) UpsertByDate(ctx context.Context, log model.SadhanaLog) error {
	start := time.Now()
	err := l.next.UpsertByDate(ctx, log)
	fields := []zap.Field{
		zap.String("date", log.Date.String()),
		zap.Duration("took", time.Since(start)),
	}
	if err != nil {
		l.logger.Error("upsert failed", append(fields, zap.Error(err))...)
		return err
	}
	l.logger.Info("saved log", fields...)
	return nil
}

func (l *loggedStore) Close() error {
	return l.next.Close()
}
