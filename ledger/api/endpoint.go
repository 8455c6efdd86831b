package api

import (
	"context"
	"errors"

	"github.com/absmach/fledger/ledger"
	pkgerrors "github.com/absmach/fledger/pkg/errors"
	"github.com/go-kit/kit/endpoint"
)

func createSessionEndpoint(svc ledger.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(createSessionReq)
		if !ok {
			return sessionResponse{}, pkgerrors.ErrInvalidData
		}
		if err := req.validate(); err != nil {
			return sessionResponse{}, err
		}

		s, err := svc.CreateSession(ctx, req.Session)
		if err != nil {
			return sessionResponse{}, err
		}

		return sessionResponse{
			Session: s,
			created: true,
		}, nil
	}
}

func getSessionEndpoint(svc ledger.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(entityReq)
		if !ok {
			return sessionResponse{}, pkgerrors.ErrInvalidData
		}
		if err := req.validate(); err != nil {
			return sessionResponse{}, err
		}

		s, err := svc.GetSession(ctx, req.id)
		if err != nil {
			return sessionResponse{}, err
		}

		return sessionResponse{
			Session: s,
		}, nil
	}
}

func listSessionsEndpoint(svc ledger.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(listEntityReq)
		if !ok {
			return listSessionsResponse{}, pkgerrors.ErrInvalidData
		}
		if err := req.validate(); err != nil {
			return listSessionsResponse{}, err
		}

		page, err := svc.ListSessions(ctx, req.offset, req.limit)
		if err != nil {
			return listSessionsResponse{}, err
		}

		return listSessionsResponse{
			SessionPage: page,
		}, nil
	}
}

func deleteSessionEndpoint(svc ledger.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(entityReq)
		if !ok {
			return sessionResponse{}, pkgerrors.ErrInvalidData
		}
		if err := req.validate(); err != nil {
			return sessionResponse{}, err
		}

		if err := svc.DeleteSession(ctx, req.id); err != nil {
			return sessionResponse{}, err
		}

		return sessionResponse{
			deleted: true,
		}, nil
	}
}

func recordLossEndpoint(svc ledger.Service, channel string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(lossReq)
		if !ok {
			return recordResponse{}, pkgerrors.ErrInvalidData
		}
		if err := req.validate(); err != nil {
			return recordResponse{}, err
		}

		var err error
		switch channel {
		case ledger.ChannelLossDistributed:
			err = svc.RecordDistributedLoss(ctx, req.id, *req.Round, *req.Loss)
		case ledger.ChannelLossCentralized:
			err = svc.RecordCentralizedLoss(ctx, req.id, *req.Round, *req.Loss)
		default:
			err = errors.New("unknown loss channel")
		}
		if err != nil {
			return recordResponse{}, err
		}

		return recordResponse{}, nil
	}
}

func recordMetricsEndpoint(svc ledger.Service, channel string) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(metricsReq)
		if !ok {
			return recordResponse{}, pkgerrors.ErrInvalidData
		}
		if err := req.validate(); err != nil {
			return recordResponse{}, err
		}

		var err error
		switch channel {
		case ledger.ChannelMetricsFit:
			err = svc.RecordDistributedFitMetrics(ctx, req.id, *req.Round, req.Metrics)
		case ledger.ChannelMetricsDistributed:
			err = svc.RecordDistributedEvalMetrics(ctx, req.id, *req.Round, req.Metrics)
		case ledger.ChannelMetricsCentralized:
			err = svc.RecordCentralizedMetrics(ctx, req.id, *req.Round, req.Metrics)
		default:
			err = errors.New("unknown metrics channel")
		}
		if err != nil {
			return recordResponse{}, err
		}

		return recordResponse{}, nil
	}
}

func recordCBOREndpoint(svc ledger.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(recordCBORReq)
		if !ok {
			return recordResponse{}, pkgerrors.ErrInvalidData
		}
		if err := req.validate(); err != nil {
			return recordResponse{}, err
		}

		if err := svc.RecordCBOR(ctx, req.data); err != nil {
			return recordResponse{}, err
		}

		return recordResponse{}, nil
	}
}

func textReportEndpoint(svc ledger.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(entityReq)
		if !ok {
			return textReportResponse{}, pkgerrors.ErrInvalidData
		}
		if err := req.validate(); err != nil {
			return textReportResponse{}, err
		}

		rep, err := svc.TextReport(ctx, req.id)
		if err != nil {
			return textReportResponse{}, err
		}

		return textReportResponse{report: rep}, nil
	}
}

func structuredReportEndpoint(svc ledger.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(entityReq)
		if !ok {
			return structuredReportResponse{}, pkgerrors.ErrInvalidData
		}
		if err := req.validate(); err != nil {
			return structuredReportResponse{}, err
		}

		rep, err := svc.StructuredReport(ctx, req.id)
		if err != nil {
			return structuredReportResponse{}, err
		}

		return structuredReportResponse{Report: rep}, nil
	}
}
