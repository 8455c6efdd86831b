package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/absmach/fledger/history"
	"github.com/absmach/fledger/ledger"
	"github.com/absmach/fledger/session"
)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    ledger.Service
}

func Logging(logger *slog.Logger, svc ledger.Service) ledger.Service {
	return &loggingMiddleware{
		logger: logger,
		svc:    svc,
	}
}

func (lm *loggingMiddleware) CreateSession(ctx context.Context, s session.Session) (resp session.Session, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("session",
				slog.String("id", resp.ID),
				slog.String("name", resp.Name),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Create session failed", args...)

			return
		}
		lm.logger.Info("Create session completed successfully", args...)
	}(time.Now())

	return lm.svc.CreateSession(ctx, s)
}

func (lm *loggingMiddleware) GetSession(ctx context.Context, sessionID string) (resp session.Session, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("session",
				slog.String("id", sessionID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get session failed", args...)

			return
		}
		lm.logger.Info("Get session completed successfully", args...)
	}(time.Now())

	return lm.svc.GetSession(ctx, sessionID)
}

func (lm *loggingMiddleware) ListSessions(ctx context.Context, offset, limit uint64) (resp session.SessionPage, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Uint64("offset", offset),
			slog.Uint64("limit", limit),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List sessions failed", args...)

			return
		}
		lm.logger.Info("List sessions completed successfully", args...)
	}(time.Now())

	return lm.svc.ListSessions(ctx, offset, limit)
}

func (lm *loggingMiddleware) DeleteSession(ctx context.Context, sessionID string) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("session",
				slog.String("id", sessionID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Delete session failed", args...)

			return
		}
		lm.logger.Info("Delete session completed successfully", args...)
	}(time.Now())

	return lm.svc.DeleteSession(ctx, sessionID)
}

func (lm *loggingMiddleware) RecordDistributedLoss(ctx context.Context, sessionID string, round int, loss float64) (err error) {
	defer lm.logRecord("Record distributed loss", sessionID, round, &err)(time.Now())

	return lm.svc.RecordDistributedLoss(ctx, sessionID, round, loss)
}

func (lm *loggingMiddleware) RecordCentralizedLoss(ctx context.Context, sessionID string, round int, loss float64) (err error) {
	defer lm.logRecord("Record centralized loss", sessionID, round, &err)(time.Now())

	return lm.svc.RecordCentralizedLoss(ctx, sessionID, round, loss)
}

func (lm *loggingMiddleware) RecordDistributedFitMetrics(ctx context.Context, sessionID string, round int, metrics map[string]history.Scalar) (err error) {
	defer lm.logRecord("Record distributed fit metrics", sessionID, round, &err)(time.Now())

	return lm.svc.RecordDistributedFitMetrics(ctx, sessionID, round, metrics)
}

func (lm *loggingMiddleware) RecordDistributedEvalMetrics(ctx context.Context, sessionID string, round int, metrics map[string]history.Scalar) (err error) {
	defer lm.logRecord("Record distributed eval metrics", sessionID, round, &err)(time.Now())

	return lm.svc.RecordDistributedEvalMetrics(ctx, sessionID, round, metrics)
}

func (lm *loggingMiddleware) RecordCentralizedMetrics(ctx context.Context, sessionID string, round int, metrics map[string]history.Scalar) (err error) {
	defer lm.logRecord("Record centralized metrics", sessionID, round, &err)(time.Now())

	return lm.svc.RecordCentralizedMetrics(ctx, sessionID, round, metrics)
}

func (lm *loggingMiddleware) RecordCBOR(ctx context.Context, data []byte) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int("payload_size", len(data)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Record CBOR failed", args...)

			return
		}
		lm.logger.Info("Record CBOR completed successfully", args...)
	}(time.Now())

	return lm.svc.RecordCBOR(ctx, data)
}

func (lm *loggingMiddleware) TextReport(ctx context.Context, sessionID string) (resp string, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("session",
				slog.String("id", sessionID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Text report failed", args...)

			return
		}
		lm.logger.Info("Text report completed successfully", args...)
	}(time.Now())

	return lm.svc.TextReport(ctx, sessionID)
}

func (lm *loggingMiddleware) StructuredReport(ctx context.Context, sessionID string) (resp map[string]any, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("session",
				slog.String("id", sessionID),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Structured report failed", args...)

			return
		}
		lm.logger.Info("Structured report completed successfully", args...)
	}(time.Now())

	return lm.svc.StructuredReport(ctx, sessionID)
}

func (lm *loggingMiddleware) Subscribe(ctx context.Context, dispatch ledger.Service) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Subscribe failed", args...)

			return
		}
		lm.logger.Info("Subscribe completed successfully", args...)
	}(time.Now())

	return lm.svc.Subscribe(ctx, dispatch)
}

func (lm *loggingMiddleware) logRecord(action, sessionID string, round int, err *error) func(time.Time) {
	return func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("session",
				slog.String("id", sessionID),
			),
			slog.Int("round", round),
		}
		if *err != nil {
			args = append(args, slog.Any("error", *err))
			lm.logger.Warn(action+" failed", args...)

			return
		}
		lm.logger.Info(action+" completed successfully", args...)
	}
}
