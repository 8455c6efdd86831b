package ledger

import (
	"context"

	"github.com/absmach/fledger/history"
	"github.com/absmach/fledger/session"
)

// Service manages round ledgers, one per session. Append operations are
// serialized internally; a ledger is otherwise single-writer.
type Service interface {
	CreateSession(ctx context.Context, s session.Session) (session.Session, error)
	GetSession(ctx context.Context, sessionID string) (session.Session, error)
	ListSessions(ctx context.Context, offset, limit uint64) (session.SessionPage, error)
	DeleteSession(ctx context.Context, sessionID string) error

	RecordDistributedLoss(ctx context.Context, sessionID string, round int, loss float64) error
	RecordCentralizedLoss(ctx context.Context, sessionID string, round int, loss float64) error
	RecordDistributedFitMetrics(ctx context.Context, sessionID string, round int, metrics map[string]history.Scalar) error
	RecordDistributedEvalMetrics(ctx context.Context, sessionID string, round int, metrics map[string]history.Scalar) error
	RecordCentralizedMetrics(ctx context.Context, sessionID string, round int, metrics map[string]history.Scalar) error

	// RecordCBOR decodes a CBOR-encoded RoundRecord and dispatches it to
	// the channel it names.
	RecordCBOR(ctx context.Context, data []byte) error

	TextReport(ctx context.Context, sessionID string) (string, error)
	StructuredReport(ctx context.Context, sessionID string) (map[string]any, error)

	// Subscribe starts MQTT ingestion of round records. Records are
	// dispatched through dispatch, typically the decorated service, so
	// they flow through the same middleware as direct calls; a nil
	// dispatch routes them through the receiver.
	Subscribe(ctx context.Context, dispatch Service) error
}
