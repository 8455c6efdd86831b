package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/absmach/fledger/history"
	"github.com/absmach/fledger/ledger"
	"github.com/absmach/fledger/ledger/api"
	"github.com/absmach/fledger/pkg/storage"
	"github.com/absmach/fledger/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*httptest.Server, ledger.Service) {
	t.Helper()

	svc := ledger.NewService(
		storage.NewInMemoryStorage(),
		storage.NewInMemoryStorage(),
		nil,
		"fl/history",
		slog.Default(),
	)
	ts := httptest.NewServer(api.MakeHandler(svc, slog.Default(), "test-instance"))
	t.Cleanup(ts.Close)

	return ts, svc
}

func TestCreateSessionEndpoint(t *testing.T) {
	ts, _ := newServer(t)

	resp, err := http.Post(ts.URL+"/sessions", "application/json", strings.NewReader(`{"name":"cifar"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var s session.Session
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	assert.Equal(t, "cifar", s.Name)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "/sessions/"+s.ID, resp.Header.Get("Location"))
}

func TestRecordLossAndReports(t *testing.T) {
	ts, svc := newServer(t)

	s, err := svc.CreateSession(context.Background(), session.Session{})
	require.NoError(t, err)

	for round, loss := range map[int]float64{0: 0.9, 1: 0.5} {
		body := fmt.Sprintf(`{"round":%d,"loss":%g}`, round, loss)
		resp, err := http.Post(ts.URL+"/sessions/"+s.ID+"/loss/centralized", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	resp, err := http.Get(ts.URL + "/sessions/" + s.ID + "/report")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")

	resp2, err := http.Get(ts.URL + "/sessions/" + s.ID + "/report/structured")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)

	var structured struct {
		Report map[string]any `json:"report"`
	}
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&structured))
	assert.Contains(t, structured.Report, history.SectionLossCentralized)
}

func TestRecordMetricsEndpoint(t *testing.T) {
	ts, svc := newServer(t)

	s, err := svc.CreateSession(context.Background(), session.Session{})
	require.NoError(t, err)

	body := `{"round":1,"metrics":{"accuracy":0.4,"phase":"warmup"}}`
	resp, err := http.Post(ts.URL+"/sessions/"+s.ID+"/metrics/fit", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The string-valued metric is accepted at append time but makes the
	// structured report fail.
	resp, err = http.Get(ts.URL + "/sessions/" + s.ID + "/report/structured")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRecordLossValidation(t *testing.T) {
	ts, svc := newServer(t)

	s, err := svc.CreateSession(context.Background(), session.Session{})
	require.NoError(t, err)

	cases := []struct {
		desc string
		body string
		code int
	}{
		{"missing round", `{"loss":0.5}`, http.StatusBadRequest},
		{"missing loss", `{"round":1}`, http.StatusBadRequest},
		{"malformed json", `{`, http.StatusBadRequest},
		{"valid", `{"round":1,"loss":0.5}`, http.StatusNoContent},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/sessions/"+s.ID+"/loss/distributed", "application/json", strings.NewReader(tc.body))
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tc.code, resp.StatusCode)
		})
	}
}

func TestSessionNotFound(t *testing.T) {
	ts, _ := newServer(t)

	resp, err := http.Get(ts.URL + "/sessions/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := newServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "test-instance", health["instance_id"])
}
