package middleware

import (
	"context"
	"time"

	"github.com/absmach/fledger/history"
	"github.com/absmach/fledger/ledger"
	"github.com/absmach/fledger/session"
	"github.com/go-kit/kit/metrics"
)

var _ ledger.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     ledger.Service
}

func Metrics(counter metrics.Counter, latency metrics.Histogram, svc ledger.Service) ledger.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) instrument(method string) func(time.Time) {
	return func(begin time.Time) {
		mm.counter.With("method", method).Add(1)
		mm.latency.With("method", method).Observe(time.Since(begin).Seconds())
	}
}

func (mm *metricsMiddleware) CreateSession(ctx context.Context, s session.Session) (session.Session, error) {
	defer mm.instrument("create-session")(time.Now())

	return mm.svc.CreateSession(ctx, s)
}

func (mm *metricsMiddleware) GetSession(ctx context.Context, sessionID string) (session.Session, error) {
	defer mm.instrument("get-session")(time.Now())

	return mm.svc.GetSession(ctx, sessionID)
}

func (mm *metricsMiddleware) ListSessions(ctx context.Context, offset, limit uint64) (session.SessionPage, error) {
	defer mm.instrument("list-sessions")(time.Now())

	return mm.svc.ListSessions(ctx, offset, limit)
}

func (mm *metricsMiddleware) DeleteSession(ctx context.Context, sessionID string) error {
	defer mm.instrument("delete-session")(time.Now())

	return mm.svc.DeleteSession(ctx, sessionID)
}

func (mm *metricsMiddleware) RecordDistributedLoss(ctx context.Context, sessionID string, round int, loss float64) error {
	defer mm.instrument("record-distributed-loss")(time.Now())

	return mm.svc.RecordDistributedLoss(ctx, sessionID, round, loss)
}

func (mm *metricsMiddleware) RecordCentralizedLoss(ctx context.Context, sessionID string, round int, loss float64) error {
	defer mm.instrument("record-centralized-loss")(time.Now())

	return mm.svc.RecordCentralizedLoss(ctx, sessionID, round, loss)
}

func (mm *metricsMiddleware) RecordDistributedFitMetrics(ctx context.Context, sessionID string, round int, metrics map[string]history.Scalar) error {
	defer mm.instrument("record-distributed-fit-metrics")(time.Now())

	return mm.svc.RecordDistributedFitMetrics(ctx, sessionID, round, metrics)
}

func (mm *metricsMiddleware) RecordDistributedEvalMetrics(ctx context.Context, sessionID string, round int, metrics map[string]history.Scalar) error {
	defer mm.instrument("record-distributed-eval-metrics")(time.Now())

	return mm.svc.RecordDistributedEvalMetrics(ctx, sessionID, round, metrics)
}

func (mm *metricsMiddleware) RecordCentralizedMetrics(ctx context.Context, sessionID string, round int, metrics map[string]history.Scalar) error {
	defer mm.instrument("record-centralized-metrics")(time.Now())

	return mm.svc.RecordCentralizedMetrics(ctx, sessionID, round, metrics)
}

func (mm *metricsMiddleware) RecordCBOR(ctx context.Context, data []byte) error {
	defer mm.instrument("record-cbor")(time.Now())

	return mm.svc.RecordCBOR(ctx, data)
}

func (mm *metricsMiddleware) TextReport(ctx context.Context, sessionID string) (string, error) {
	defer mm.instrument("text-report")(time.Now())

	return mm.svc.TextReport(ctx, sessionID)
}

func (mm *metricsMiddleware) StructuredReport(ctx context.Context, sessionID string) (map[string]any, error) {
	defer mm.instrument("structured-report")(time.Now())

	return mm.svc.StructuredReport(ctx, sessionID)
}

func (mm *metricsMiddleware) Subscribe(ctx context.Context, dispatch ledger.Service) error {
	defer mm.instrument("subscribe")(time.Now())

	return mm.svc.Subscribe(ctx, dispatch)
}
