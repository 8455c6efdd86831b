package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/absmach/fledger/history"
	pkgerrors "github.com/absmach/fledger/pkg/errors"
)

const (
	OffsetKey = "offset"
	LimitKey  = "limit"
	DefOffset = 0
	DefLimit  = 100

	ContentType = "application/json"

	MaxLimitSize = 100
)

// Response is implemented by HTTP responses that carry their own status
// code and headers.
type Response interface {
	Code() int
	Headers() map[string]string
	Empty() bool
}

func EncodeResponse(_ context.Context, w http.ResponseWriter, response interface{}) error {
	if ar, ok := response.(Response); ok {
		for k, v := range ar.Headers() {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", ContentType)
		w.WriteHeader(ar.Code())

		if ar.Empty() {
			return nil
		}
	}

	return json.NewEncoder(w).Encode(response)
}

func EncodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", ContentType)
	switch {
	case errors.Is(err, pkgerrors.ErrEmptyKey),
		errors.Is(err, pkgerrors.ErrMissingID),
		errors.Is(err, pkgerrors.ErrMissingRound),
		errors.Is(err, pkgerrors.ErrInvalidData),
		errors.Is(err, history.ErrUnsupportedValue):
		w.WriteHeader(http.StatusBadRequest)
	case errors.Is(err, pkgerrors.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, pkgerrors.ErrEntityExists):
		w.WriteHeader(http.StatusConflict)
	case errors.Is(err, history.ErrNonNumericValue),
		errors.Is(err, history.ErrEmptySeries):
		w.WriteHeader(http.StatusUnprocessableEntity)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}

	if encErr := json.NewEncoder(w).Encode(map[string]string{"error": err.Error()}); encErr != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// LoggingErrorEncoder logs the error before handing it to enc.
func LoggingErrorEncoder(logger *slog.Logger, enc func(context.Context, error, http.ResponseWriter)) func(context.Context, error, http.ResponseWriter) {
	return func(ctx context.Context, err error, w http.ResponseWriter) {
		logger.WarnContext(ctx, "failed to handle request", slog.Any("error", err))
		enc(ctx, err, w)
	}
}
