package middleware

import (
	"context"

	"github.com/absmach/fledger/history"
	"github.com/absmach/fledger/ledger"
	"github.com/absmach/fledger/session"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var _ ledger.Service = (*tracing)(nil)

type tracing struct {
	tracer trace.Tracer
	svc    ledger.Service
}

func Tracing(tracer trace.Tracer, svc ledger.Service) ledger.Service {
	return &tracing{tracer, svc}
}

func (tm *tracing) CreateSession(ctx context.Context, s session.Session) (session.Session, error) {
	ctx, span := tm.tracer.Start(ctx, "create-session", trace.WithAttributes(
		attribute.String("name", s.Name),
	))
	defer span.End()

	return tm.svc.CreateSession(ctx, s)
}

func (tm *tracing) GetSession(ctx context.Context, sessionID string) (session.Session, error) {
	ctx, span := tm.tracer.Start(ctx, "get-session", trace.WithAttributes(
		attribute.String("id", sessionID),
	))
	defer span.End()

	return tm.svc.GetSession(ctx, sessionID)
}

func (tm *tracing) ListSessions(ctx context.Context, offset, limit uint64) (session.SessionPage, error) {
	ctx, span := tm.tracer.Start(ctx, "list-sessions", trace.WithAttributes(
		attribute.Int64("offset", int64(offset)),
		attribute.Int64("limit", int64(limit)),
	))
	defer span.End()

	return tm.svc.ListSessions(ctx, offset, limit)
}

func (tm *tracing) DeleteSession(ctx context.Context, sessionID string) error {
	ctx, span := tm.tracer.Start(ctx, "delete-session", trace.WithAttributes(
		attribute.String("id", sessionID),
	))
	defer span.End()

	return tm.svc.DeleteSession(ctx, sessionID)
}

func (tm *tracing) RecordDistributedLoss(ctx context.Context, sessionID string, round int, loss float64) error {
	ctx, span := tm.tracer.Start(ctx, "record-distributed-loss", trace.WithAttributes(
		attribute.String("session_id", sessionID),
		attribute.Int("round", round),
	))
	defer span.End()

	return tm.svc.RecordDistributedLoss(ctx, sessionID, round, loss)
}

func (tm *tracing) RecordCentralizedLoss(ctx context.Context, sessionID string, round int, loss float64) error {
	ctx, span := tm.tracer.Start(ctx, "record-centralized-loss", trace.WithAttributes(
		attribute.String("session_id", sessionID),
		attribute.Int("round", round),
	))
	defer span.End()

	return tm.svc.RecordCentralizedLoss(ctx, sessionID, round, loss)
}

func (tm *tracing) RecordDistributedFitMetrics(ctx context.Context, sessionID string, round int, metrics map[string]history.Scalar) error {
	ctx, span := tm.tracer.Start(ctx, "record-distributed-fit-metrics", trace.WithAttributes(
		attribute.String("session_id", sessionID),
		attribute.Int("round", round),
		attribute.Int("metrics", len(metrics)),
	))
	defer span.End()

	return tm.svc.RecordDistributedFitMetrics(ctx, sessionID, round, metrics)
}

func (tm *tracing) RecordDistributedEvalMetrics(ctx context.Context, sessionID string, round int, metrics map[string]history.Scalar) error {
	ctx, span := tm.tracer.Start(ctx, "record-distributed-eval-metrics", trace.WithAttributes(
		attribute.String("session_id", sessionID),
		attribute.Int("round", round),
		attribute.Int("metrics", len(metrics)),
	))
	defer span.End()

	return tm.svc.RecordDistributedEvalMetrics(ctx, sessionID, round, metrics)
}

func (tm *tracing) RecordCentralizedMetrics(ctx context.Context, sessionID string, round int, metrics map[string]history.Scalar) error {
	ctx, span := tm.tracer.Start(ctx, "record-centralized-metrics", trace.WithAttributes(
		attribute.String("session_id", sessionID),
		attribute.Int("round", round),
		attribute.Int("metrics", len(metrics)),
	))
	defer span.End()

	return tm.svc.RecordCentralizedMetrics(ctx, sessionID, round, metrics)
}

func (tm *tracing) RecordCBOR(ctx context.Context, data []byte) error {
	ctx, span := tm.tracer.Start(ctx, "record-cbor", trace.WithAttributes(
		attribute.Int("payload_size", len(data)),
	))
	defer span.End()

	return tm.svc.RecordCBOR(ctx, data)
}

func (tm *tracing) TextReport(ctx context.Context, sessionID string) (string, error) {
	ctx, span := tm.tracer.Start(ctx, "text-report", trace.WithAttributes(
		attribute.String("session_id", sessionID),
	))
	defer span.End()

	return tm.svc.TextReport(ctx, sessionID)
}

func (tm *tracing) StructuredReport(ctx context.Context, sessionID string) (map[string]any, error) {
	ctx, span := tm.tracer.Start(ctx, "structured-report", trace.WithAttributes(
		attribute.String("session_id", sessionID),
	))
	defer span.End()

	return tm.svc.StructuredReport(ctx, sessionID)
}

func (tm *tracing) Subscribe(ctx context.Context, dispatch ledger.Service) error {
	ctx, span := tm.tracer.Start(ctx, "subscribe")
	defer span.End()

	return tm.svc.Subscribe(ctx, dispatch)
}
