package ledger

import (
	"context"
	"fmt"

	"github.com/absmach/fledger/history"
	"github.com/absmach/fledger/pkg/errors"
)

// Channel names one of the five append channels of a ledger. They double
// as MQTT subtopics under the service base topic.
const (
	ChannelLossDistributed    = "loss/distributed"
	ChannelLossCentralized    = "loss/centralized"
	ChannelMetricsFit         = "metrics/fit"
	ChannelMetricsDistributed = "metrics/eval"
	ChannelMetricsCentralized = "metrics/centralized"
)

// RoundRecord is one ingested round observation: a loss value or a batch
// of named metrics, bound to a session and an append channel.
type RoundRecord struct {
	SessionID string         `json:"session_id" cbor:"session_id"`
	Channel   string         `json:"channel"    cbor:"channel"`
	Round     int            `json:"round"      cbor:"round"`
	Loss      float64        `json:"loss,omitempty"    cbor:"loss,omitempty"`
	Metrics   map[string]any `json:"metrics,omitempty" cbor:"metrics,omitempty"`
}

func (r RoundRecord) apply(ctx context.Context, svc Service) error {
	if r.SessionID == "" {
		return errors.ErrMissingID
	}

	switch r.Channel {
	case ChannelLossDistributed:
		return svc.RecordDistributedLoss(ctx, r.SessionID, r.Round, r.Loss)
	case ChannelLossCentralized:
		return svc.RecordCentralizedLoss(ctx, r.SessionID, r.Round, r.Loss)
	case ChannelMetricsFit, ChannelMetricsDistributed, ChannelMetricsCentralized:
		metrics, err := history.FromAnyMap(r.Metrics)
		if err != nil {
			return err
		}
		switch r.Channel {
		case ChannelMetricsFit:
			return svc.RecordDistributedFitMetrics(ctx, r.SessionID, r.Round, metrics)
		case ChannelMetricsDistributed:
			return svc.RecordDistributedEvalMetrics(ctx, r.SessionID, r.Round, metrics)
		default:
			return svc.RecordCentralizedMetrics(ctx, r.SessionID, r.Round, metrics)
		}
	default:
		return fmt.Errorf("%w: unknown channel %q", errors.ErrInvalidData, r.Channel)
	}
}
