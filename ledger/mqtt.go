package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/absmach/fledger/pkg/errors"
	"github.com/absmach/fledger/pkg/mqtt"
)

func (svc *service) Subscribe(ctx context.Context, dispatch Service) error {
	if svc.pubsub == nil {
		return fmt.Errorf("%w: mqtt pubsub", errors.ErrNotConfigured)
	}
	if dispatch == nil {
		dispatch = svc
	}

	topic := svc.baseTopic + "/#"
	if err := svc.pubsub.Subscribe(ctx, topic, Handle(ctx, svc.baseTopic, dispatch, svc.logger)); err != nil {
		return err
	}

	svc.logger.InfoContext(ctx, "subscribed to round records", slog.String("topic", topic))

	return nil
}

// Handle returns the handler for round records published under baseTopic.
// The subtopic names the append channel; the payload carries the session,
// the round index and the loss value or metrics mapping.
func Handle(ctx context.Context, baseTopic string, svc Service, logger *slog.Logger) mqtt.Handler {
	return func(topic string, msg map[string]any) error {
		channel := strings.TrimPrefix(topic, baseTopic+"/")

		rec, err := recordFromMessage(channel, msg)
		if err != nil {
			return err
		}

		if err := rec.apply(ctx, svc); err != nil {
			return err
		}

		logger.InfoContext(ctx, "recorded round entry",
			slog.String("session_id", rec.SessionID),
			slog.String("channel", rec.Channel),
			slog.Int("round", rec.Round))

		return nil
	}
}

func recordFromMessage(channel string, msg map[string]any) (RoundRecord, error) {
	rec := RoundRecord{Channel: channel}

	sessionID, ok := msg["session_id"].(string)
	if !ok || sessionID == "" {
		return RoundRecord{}, errors.ErrMissingID
	}
	rec.SessionID = sessionID

	round, ok := msg["round"]
	if !ok {
		return RoundRecord{}, errors.ErrMissingRound
	}
	r, err := toInt(round)
	if err != nil {
		return RoundRecord{}, err
	}
	rec.Round = r

	switch channel {
	case ChannelLossDistributed, ChannelLossCentralized:
		loss, err := toFloat(msg["loss"])
		if err != nil {
			return RoundRecord{}, err
		}
		rec.Loss = loss
	default:
		metrics, ok := msg["metrics"].(map[string]any)
		if !ok {
			return RoundRecord{}, errors.ErrInvalidData
		}
		rec.Metrics = metrics
	}

	return rec, nil
}

func toInt(v any) (int, error) {
	switch val := v.(type) {
	case json.Number:
		i, err := val.Int64()
		if err != nil {
			return 0, errors.ErrInvalidData
		}
		return int(i), nil
	case float64:
		return int(val), nil
	case int:
		return val, nil
	default:
		return 0, errors.ErrInvalidData
	}
}

func toFloat(v any) (float64, error) {
	switch val := v.(type) {
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, errors.ErrInvalidData
		}
		return f, nil
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	default:
		return 0, errors.ErrInvalidData
	}
}
