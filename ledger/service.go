package ledger

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/0x6flab/namegenerator"
	"github.com/absmach/fledger/history"
	"github.com/absmach/fledger/pkg/errors"
	"github.com/absmach/fledger/pkg/mqtt"
	"github.com/absmach/fledger/pkg/storage"
	"github.com/absmach/fledger/session"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

type service struct {
	sessionsDB  storage.Storage
	historiesDB storage.Storage
	pubsub      mqtt.PubSub
	baseTopic   string
	logger      *slog.Logger
	namegen     namegenerator.NameGenerator

	// Serializes appends and the session record counter: each ledger
	// assumes a single writer.
	mu sync.Mutex
}

func NewService(sessionsDB, historiesDB storage.Storage, pubsub mqtt.PubSub, baseTopic string, logger *slog.Logger) Service {
	return &service{
		sessionsDB:  sessionsDB,
		historiesDB: historiesDB,
		pubsub:      pubsub,
		baseTopic:   baseTopic,
		logger:      logger,
		namegen:     namegenerator.NewGenerator(),
	}
}

func (svc *service) CreateSession(ctx context.Context, s session.Session) (session.Session, error) {
	s.ID = uuid.NewString()
	if s.Name == "" {
		s.Name = svc.namegen.Generate()
	}
	s.Records = 0
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt

	if err := svc.sessionsDB.Create(ctx, s.ID, s); err != nil {
		return session.Session{}, err
	}
	if err := svc.historiesDB.Create(ctx, s.ID, history.New()); err != nil {
		return session.Session{}, err
	}

	return s, nil
}

func (svc *service) GetSession(ctx context.Context, sessionID string) (session.Session, error) {
	data, err := svc.sessionsDB.Get(ctx, sessionID)
	if err != nil {
		return session.Session{}, err
	}
	s, ok := data.(session.Session)
	if !ok {
		return session.Session{}, errors.ErrInvalidData
	}

	return s, nil
}

func (svc *service) ListSessions(ctx context.Context, offset, limit uint64) (session.SessionPage, error) {
	data, total, err := svc.sessionsDB.List(ctx, offset, limit)
	if err != nil {
		return session.SessionPage{}, err
	}

	sessions := make([]session.Session, len(data))
	for i := range data {
		s, ok := data[i].(session.Session)
		if !ok {
			return session.SessionPage{}, errors.ErrInvalidData
		}
		sessions[i] = s
	}

	return session.SessionPage{
		Offset:   offset,
		Limit:    limit,
		Total:    total,
		Sessions: sessions,
	}, nil
}

func (svc *service) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := svc.GetSession(ctx, sessionID); err != nil {
		return err
	}
	if err := svc.historiesDB.Delete(ctx, sessionID); err != nil {
		return err
	}

	return svc.sessionsDB.Delete(ctx, sessionID)
}

func (svc *service) RecordDistributedLoss(ctx context.Context, sessionID string, round int, loss float64) error {
	h, err := svc.historyFor(ctx, sessionID)
	if err != nil {
		return err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	h.AddDistributedLoss(round, loss)

	return svc.touch(ctx, sessionID, 1)
}

func (svc *service) RecordCentralizedLoss(ctx context.Context, sessionID string, round int, loss float64) error {
	h, err := svc.historyFor(ctx, sessionID)
	if err != nil {
		return err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	h.AddCentralizedLoss(round, loss)

	return svc.touch(ctx, sessionID, 1)
}

func (svc *service) RecordDistributedFitMetrics(ctx context.Context, sessionID string, round int, metrics map[string]history.Scalar) error {
	h, err := svc.historyFor(ctx, sessionID)
	if err != nil {
		return err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	h.AddDistributedFitMetrics(round, metrics)

	return svc.touch(ctx, sessionID, uint64(len(metrics)))
}

func (svc *service) RecordDistributedEvalMetrics(ctx context.Context, sessionID string, round int, metrics map[string]history.Scalar) error {
	h, err := svc.historyFor(ctx, sessionID)
	if err != nil {
		return err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	h.AddDistributedEvalMetrics(round, metrics)

	return svc.touch(ctx, sessionID, uint64(len(metrics)))
}

func (svc *service) RecordCentralizedMetrics(ctx context.Context, sessionID string, round int, metrics map[string]history.Scalar) error {
	h, err := svc.historyFor(ctx, sessionID)
	if err != nil {
		return err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	h.AddCentralizedMetrics(round, metrics)

	return svc.touch(ctx, sessionID, uint64(len(metrics)))
}

func (svc *service) RecordCBOR(ctx context.Context, data []byte) error {
	var rec RoundRecord
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return errors.ErrInvalidData
	}

	return rec.apply(ctx, svc)
}

func (svc *service) TextReport(ctx context.Context, sessionID string) (string, error) {
	h, err := svc.historyFor(ctx, sessionID)
	if err != nil {
		return "", err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	return h.String(), nil
}

func (svc *service) StructuredReport(ctx context.Context, sessionID string) (map[string]any, error) {
	h, err := svc.historyFor(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	return h.StructuredReport()
}

func (svc *service) historyFor(ctx context.Context, sessionID string) (*history.History, error) {
	data, err := svc.historiesDB.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	h, ok := data.(*history.History)
	if !ok {
		return nil, errors.ErrInvalidData
	}

	return h, nil
}

func (svc *service) touch(ctx context.Context, sessionID string, records uint64) error {
	s, err := svc.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	s.Records += records
	s.UpdatedAt = time.Now()

	return svc.sessionsDB.Update(ctx, sessionID, s)
}
