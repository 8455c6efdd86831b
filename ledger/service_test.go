package ledger_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/absmach/fledger/history"
	"github.com/absmach/fledger/ledger"
	"github.com/absmach/fledger/pkg/errors"
	"github.com/absmach/fledger/pkg/storage"
	"github.com/absmach/fledger/session"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseTopic = "fl/history"

func newService() ledger.Service {
	return ledger.NewService(
		storage.NewInMemoryStorage(),
		storage.NewInMemoryStorage(),
		nil,
		baseTopic,
		slog.Default(),
	)
}

func TestCreateSession(t *testing.T) {
	svc := newService()

	s, err := svc.CreateSession(context.Background(), session.Session{Name: "mnist-baseline"})
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "mnist-baseline", s.Name)
	assert.Equal(t, uint64(0), s.Records)
	assert.False(t, s.CreatedAt.IsZero())

	got, err := svc.GetSession(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestCreateSessionGeneratesName(t *testing.T) {
	svc := newService()

	s, err := svc.CreateSession(context.Background(), session.Session{})
	require.NoError(t, err)
	assert.NotEmpty(t, s.Name)
}

func TestGetSessionNotFound(t *testing.T) {
	svc := newService()

	_, err := svc.GetSession(context.Background(), "missing")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestListSessions(t *testing.T) {
	svc := newService()
	for i := 0; i < 3; i++ {
		_, err := svc.CreateSession(context.Background(), session.Session{})
		require.NoError(t, err)
	}

	page, err := svc.ListSessions(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), page.Total)
	assert.Len(t, page.Sessions, 3)

	page, err = svc.ListSessions(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), page.Total)
	assert.Len(t, page.Sessions, 1)
}

func TestDeleteSession(t *testing.T) {
	svc := newService()

	s, err := svc.CreateSession(context.Background(), session.Session{})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSession(context.Background(), s.ID))

	_, err = svc.GetSession(context.Background(), s.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	assert.ErrorIs(t, svc.DeleteSession(context.Background(), s.ID), errors.ErrNotFound)
}

func TestRecordLossesEndToEnd(t *testing.T) {
	svc := newService()

	s, err := svc.CreateSession(context.Background(), session.Session{})
	require.NoError(t, err)

	require.NoError(t, svc.RecordCentralizedLoss(context.Background(), s.ID, 0, 0.9))
	require.NoError(t, svc.RecordCentralizedLoss(context.Background(), s.ID, 1, 0.5))
	require.NoError(t, svc.RecordCentralizedLoss(context.Background(), s.ID, 2, 0.3))

	rep, err := svc.StructuredReport(context.Background(), s.ID)
	require.NoError(t, err)
	require.Contains(t, rep, history.SectionLossCentralized)
	assert.Equal(t,
		history.Trajectory{Start: 0.9, Rounds: []any{0.5, 0.3}},
		rep[history.SectionLossCentralized],
	)

	got, err := svc.GetSession(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got.Records)
}

func TestRecordMetricsEndToEnd(t *testing.T) {
	svc := newService()

	s, err := svc.CreateSession(context.Background(), session.Session{})
	require.NoError(t, err)

	require.NoError(t, svc.RecordDistributedFitMetrics(context.Background(), s.ID, 1,
		map[string]history.Scalar{"accuracy": history.Float(0.1)}))
	require.NoError(t, svc.RecordDistributedFitMetrics(context.Background(), s.ID, 2,
		map[string]history.Scalar{"accuracy": history.Float(0.4)}))

	rep, err := svc.StructuredReport(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t,
		map[string]history.Trajectory{"accuracy": {Rounds: []any{0.1, 0.4}}},
		rep[history.SectionMetricsFit],
	)
}

func TestRecordAgainstMissingSession(t *testing.T) {
	svc := newService()

	err := svc.RecordDistributedLoss(context.Background(), "missing", 1, 0.5)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestTextReport(t *testing.T) {
	svc := newService()

	s, err := svc.CreateSession(context.Background(), session.Session{})
	require.NoError(t, err)

	rep, err := svc.TextReport(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, "", rep)

	require.NoError(t, svc.RecordDistributedLoss(context.Background(), s.ID, 1, 0.5))

	rep, err = svc.TextReport(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, "History (loss, distributed):\n\tround 1: 0.5\n", rep)
}

func TestRecordCBOR(t *testing.T) {
	svc := newService()

	s, err := svc.CreateSession(context.Background(), session.Session{})
	require.NoError(t, err)

	cases := []struct {
		desc   string
		record ledger.RoundRecord
		err    error
	}{
		{
			desc: "distributed loss",
			record: ledger.RoundRecord{
				SessionID: s.ID,
				Channel:   ledger.ChannelLossDistributed,
				Round:     1,
				Loss:      0.4,
			},
		},
		{
			desc: "centralized metrics",
			record: ledger.RoundRecord{
				SessionID: s.ID,
				Channel:   ledger.ChannelMetricsCentralized,
				Round:     1,
				Metrics:   map[string]any{"accuracy": 0.8},
			},
		},
		{
			desc: "unknown channel",
			record: ledger.RoundRecord{
				SessionID: s.ID,
				Channel:   "loss/unknown",
				Round:     1,
			},
			err: errors.ErrInvalidData,
		},
		{
			desc: "missing session id",
			record: ledger.RoundRecord{
				Channel: ledger.ChannelLossDistributed,
				Round:   1,
			},
			err: errors.ErrMissingID,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			data, err := cbor.Marshal(tc.record)
			require.NoError(t, err)

			err = svc.RecordCBOR(context.Background(), data)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)

				return
			}
			require.NoError(t, err)
		})
	}

	rep, err := svc.StructuredReport(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Contains(t, rep, history.SectionLossDistributed)
	assert.Contains(t, rep, history.SectionMetricsCentralized)
}

func TestRecordCBORMalformed(t *testing.T) {
	svc := newService()

	err := svc.RecordCBOR(context.Background(), []byte{0xff, 0x00})
	assert.ErrorIs(t, err, errors.ErrInvalidData)
}

func TestSubscribeWithoutBroker(t *testing.T) {
	svc := newService()

	assert.ErrorIs(t, svc.Subscribe(context.Background(), nil), errors.ErrNotConfigured)
}

func TestRecordCountsConcurrentWriters(t *testing.T) {
	svc := newService()
	s, err := svc.CreateSession(context.Background(), session.Session{})
	require.NoError(t, err)

	const writers = 100

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(round int) {
			defer wg.Done()
			errs <- svc.RecordDistributedLoss(context.Background(), s.ID, round, 0.1)
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := svc.GetSession(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(writers), got.Records)
}
