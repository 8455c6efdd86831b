package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/absmach/fledger/ledger"
	"github.com/absmach/fledger/pkg/api"
	pkgerrors "github.com/absmach/fledger/pkg/errors"
	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxPayloadSize = 1024 * 1024

func MakeHandler(svc ledger.Service, logger *slog.Logger, instanceID string) http.Handler {
	mux := chi.NewRouter()

	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(api.LoggingErrorEncoder(logger, api.EncodeError)),
	}

	mux.Route("/sessions", func(r chi.Router) {
		r.Post("/", otelhttp.NewHandler(kithttp.NewServer(
			createSessionEndpoint(svc),
			decodeCreateSessionReq,
			api.EncodeResponse,
			opts...,
		), "create-session").ServeHTTP)
		r.Get("/", otelhttp.NewHandler(kithttp.NewServer(
			listSessionsEndpoint(svc),
			decodeListEntityReq,
			api.EncodeResponse,
			opts...,
		), "list-sessions").ServeHTTP)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", otelhttp.NewHandler(kithttp.NewServer(
				getSessionEndpoint(svc),
				decodeEntityReq,
				api.EncodeResponse,
				opts...,
			), "get-session").ServeHTTP)
			r.Delete("/", otelhttp.NewHandler(kithttp.NewServer(
				deleteSessionEndpoint(svc),
				decodeEntityReq,
				api.EncodeResponse,
				opts...,
			), "delete-session").ServeHTTP)

			r.Post("/loss/distributed", otelhttp.NewHandler(kithttp.NewServer(
				recordLossEndpoint(svc, ledger.ChannelLossDistributed),
				decodeLossReq,
				api.EncodeResponse,
				opts...,
			), "record-distributed-loss").ServeHTTP)
			r.Post("/loss/centralized", otelhttp.NewHandler(kithttp.NewServer(
				recordLossEndpoint(svc, ledger.ChannelLossCentralized),
				decodeLossReq,
				api.EncodeResponse,
				opts...,
			), "record-centralized-loss").ServeHTTP)

			r.Post("/metrics/fit", otelhttp.NewHandler(kithttp.NewServer(
				recordMetricsEndpoint(svc, ledger.ChannelMetricsFit),
				decodeMetricsReq,
				api.EncodeResponse,
				opts...,
			), "record-distributed-fit-metrics").ServeHTTP)
			r.Post("/metrics/eval", otelhttp.NewHandler(kithttp.NewServer(
				recordMetricsEndpoint(svc, ledger.ChannelMetricsDistributed),
				decodeMetricsReq,
				api.EncodeResponse,
				opts...,
			), "record-distributed-eval-metrics").ServeHTTP)
			r.Post("/metrics/centralized", otelhttp.NewHandler(kithttp.NewServer(
				recordMetricsEndpoint(svc, ledger.ChannelMetricsCentralized),
				decodeMetricsReq,
				api.EncodeResponse,
				opts...,
			), "record-centralized-metrics").ServeHTTP)

			r.Get("/report", otelhttp.NewHandler(kithttp.NewServer(
				textReportEndpoint(svc),
				decodeEntityReq,
				encodeTextReportResponse,
				opts...,
			), "text-report").ServeHTTP)
			r.Get("/report/structured", otelhttp.NewHandler(kithttp.NewServer(
				structuredReportEndpoint(svc),
				decodeEntityReq,
				api.EncodeResponse,
				opts...,
			), "structured-report").ServeHTTP)
		})
	})

	mux.Post("/records", otelhttp.NewHandler(kithttp.NewServer(
		recordCBOREndpoint(svc),
		decodeRecordCBORReq,
		api.EncodeResponse,
		opts...,
	), "record-cbor").ServeHTTP)

	mux.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", api.ContentType)
		if err := json.NewEncoder(w).Encode(map[string]string{
			"status":      "pass",
			"instance_id": instanceID,
		}); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func decodeCreateSessionReq(_ context.Context, r *http.Request) (any, error) {
	var req createSessionReq
	if err := json.NewDecoder(r.Body).Decode(&req.Session); err != nil {
		return nil, pkgerrors.ErrInvalidData
	}

	return req, nil
}

func decodeEntityReq(_ context.Context, r *http.Request) (any, error) {
	return entityReq{
		id: chi.URLParam(r, "sessionID"),
	}, nil
}

func decodeListEntityReq(_ context.Context, r *http.Request) (any, error) {
	offset, err := readNumQuery(r, api.OffsetKey, api.DefOffset)
	if err != nil {
		return nil, err
	}
	limit, err := readNumQuery(r, api.LimitKey, api.DefLimit)
	if err != nil {
		return nil, err
	}
	if limit > api.MaxLimitSize {
		limit = api.MaxLimitSize
	}

	return listEntityReq{
		offset: offset,
		limit:  limit,
	}, nil
}

func decodeLossReq(_ context.Context, r *http.Request) (any, error) {
	req := lossReq{
		id: chi.URLParam(r, "sessionID"),
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, pkgerrors.ErrInvalidData
	}

	return req, nil
}

func decodeMetricsReq(_ context.Context, r *http.Request) (any, error) {
	req := metricsReq{
		id: chi.URLParam(r, "sessionID"),
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, pkgerrors.ErrInvalidData
	}

	return req, nil
}

func decodeRecordCBORReq(_ context.Context, r *http.Request) (any, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadSize))
	if err != nil {
		return nil, pkgerrors.ErrInvalidData
	}

	return recordCBORReq{data: data}, nil
}

// encodeTextReportResponse writes the text report verbatim: it is the
// canonical human-readable summary, not a JSON document.
func encodeTextReportResponse(_ context.Context, w http.ResponseWriter, response interface{}) error {
	rep, ok := response.(textReportResponse)
	if !ok {
		return pkgerrors.ErrInvalidData
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := io.WriteString(w, rep.report)

	return err
}

func readNumQuery(r *http.Request, key string, def uint64) (uint64, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return def, nil
	}

	n, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, pkgerrors.ErrInvalidData
	}

	return n, nil
}
