package ledger_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/absmach/fledger/history"
	"github.com/absmach/fledger/ledger"
	"github.com/absmach/fledger/pkg/errors"
	"github.com/absmach/fledger/pkg/mqtt"
	"github.com/absmach/fledger/pkg/storage"
	"github.com/absmach/fledger/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleRoundRecords(t *testing.T) {
	svc := newService()
	s, err := svc.CreateSession(context.Background(), session.Session{})
	require.NoError(t, err)

	handle := ledger.Handle(context.Background(), baseTopic, svc, slog.Default())

	cases := []struct {
		desc  string
		topic string
		msg   map[string]any
		err   error
	}{
		{
			desc:  "distributed loss",
			topic: baseTopic + "/loss/distributed",
			msg: map[string]any{
				"session_id": s.ID,
				"round":      json.Number("1"),
				"loss":       json.Number("0.5"),
			},
		},
		{
			desc:  "centralized loss",
			topic: baseTopic + "/loss/centralized",
			msg: map[string]any{
				"session_id": s.ID,
				"round":      json.Number("0"),
				"loss":       json.Number("0.9"),
			},
		},
		{
			desc:  "fit metrics",
			topic: baseTopic + "/metrics/fit",
			msg: map[string]any{
				"session_id": s.ID,
				"round":      json.Number("1"),
				"metrics":    map[string]any{"accuracy": json.Number("0.75")},
			},
		},
		{
			desc:  "missing session id",
			topic: baseTopic + "/loss/distributed",
			msg: map[string]any{
				"round": json.Number("1"),
				"loss":  json.Number("0.5"),
			},
			err: errors.ErrMissingID,
		},
		{
			desc:  "missing round",
			topic: baseTopic + "/loss/distributed",
			msg: map[string]any{
				"session_id": s.ID,
				"loss":       json.Number("0.5"),
			},
			err: errors.ErrMissingRound,
		},
		{
			desc:  "malformed loss",
			topic: baseTopic + "/loss/distributed",
			msg: map[string]any{
				"session_id": s.ID,
				"round":      json.Number("1"),
				"loss":       "not-a-number",
			},
			err: errors.ErrInvalidData,
		},
		{
			desc:  "metrics without mapping",
			topic: baseTopic + "/metrics/fit",
			msg: map[string]any{
				"session_id": s.ID,
				"round":      json.Number("1"),
			},
			err: errors.ErrInvalidData,
		},
		{
			desc:  "unknown channel",
			topic: baseTopic + "/rounds/start",
			msg: map[string]any{
				"session_id": s.ID,
				"round":      json.Number("1"),
				"metrics":    map[string]any{},
			},
			err: errors.ErrInvalidData,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			err := handle(tc.topic, tc.msg)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)

				return
			}
			assert.NoError(t, err)
		})
	}

	rep, err := svc.StructuredReport(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t,
		history.Trajectory{Rounds: []any{0.5}},
		rep[history.SectionLossDistributed],
	)
	assert.Equal(t,
		history.Trajectory{Start: 0.9, Rounds: []any{}},
		rep[history.SectionLossCentralized],
	)
	assert.Equal(t,
		map[string]history.Trajectory{"accuracy": {Rounds: []any{0.75}}},
		rep[history.SectionMetricsFit],
	)
}

type capturingPubSub struct {
	topic   string
	handler mqtt.Handler
}

func (c *capturingPubSub) Publish(_ context.Context, _ string, _ any) error {
	return nil
}

func (c *capturingPubSub) Subscribe(_ context.Context, topic string, handler mqtt.Handler) error {
	c.topic = topic
	c.handler = handler

	return nil
}

func (c *capturingPubSub) Unsubscribe(_ context.Context, _ string) error {
	return nil
}

func (c *capturingPubSub) Disconnect(_ context.Context) error {
	return nil
}

type countingService struct {
	ledger.Service
	distributedLosses int
}

func (cs *countingService) RecordDistributedLoss(ctx context.Context, sessionID string, round int, loss float64) error {
	cs.distributedLosses++

	return cs.Service.RecordDistributedLoss(ctx, sessionID, round, loss)
}

func TestSubscribeDispatchesThroughWrappedService(t *testing.T) {
	pubsub := &capturingPubSub{}
	svc := ledger.NewService(
		storage.NewInMemoryStorage(),
		storage.NewInMemoryStorage(),
		pubsub,
		baseTopic,
		slog.Default(),
	)
	s, err := svc.CreateSession(context.Background(), session.Session{})
	require.NoError(t, err)

	wrapped := &countingService{Service: svc}
	require.NoError(t, svc.Subscribe(context.Background(), wrapped))
	require.NotNil(t, pubsub.handler)
	assert.Equal(t, baseTopic+"/#", pubsub.topic)

	require.NoError(t, pubsub.handler(baseTopic+"/loss/distributed", map[string]any{
		"session_id": s.ID,
		"round":      json.Number("1"),
		"loss":       json.Number("0.5"),
	}))
	assert.Equal(t, 1, wrapped.distributedLosses)

	got, err := svc.GetSession(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), got.Records)
}
