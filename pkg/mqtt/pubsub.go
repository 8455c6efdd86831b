package mqtt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	connectTimeout       = 10 * time.Second
	maxReconnectInterval = time.Minute
	disconnectQuiesceMs  = 250
)

var (
	errEmptyClientID      = errors.New("empty client ID")
	errEmptyTopic         = errors.New("empty topic")
	errConnectTimeout     = errors.New("timeout reached while connecting to MQTT broker")
	errPublishTimeout     = errors.New("failed to publish due to timeout reached")
	errSubscribeTimeout   = errors.New("failed to subscribe due to timeout reached")
	errUnsubscribeTimeout = errors.New("failed to unsubscribe due to timeout reached")
)

// Config holds the broker connection settings for a ledger client.
type Config struct {
	URL      string
	ClientID string
	Username string
	Password string
	QoS      byte
	Timeout  time.Duration
}

// Handler processes one decoded message delivered on topic. Payloads are
// JSON objects; numbers are delivered as json.Number so integer round
// indices survive decoding.
type Handler func(topic string, msg map[string]any) error

type PubSub interface {
	Publish(ctx context.Context, topic string, msg any) error
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Unsubscribe(ctx context.Context, topic string) error
	Disconnect(ctx context.Context) error
}

type pubsub struct {
	client mqtt.Client
	cfg    Config
	logger *slog.Logger
}

func NewPubSub(cfg Config, logger *slog.Logger) (PubSub, error) {
	if cfg.ClientID == "" {
		return nil, errEmptyClientID
	}

	ps := &pubsub{cfg: cfg, logger: logger}
	if err := ps.connect(); err != nil {
		return nil, err
	}

	return ps, nil
}

func (ps *pubsub) connect() error {
	opts := mqtt.NewClientOptions().
		AddBroker(ps.cfg.URL).
		SetClientID(ps.cfg.ClientID).
		SetUsername(ps.cfg.Username).
		SetPassword(ps.cfg.Password).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout).
		SetMaxReconnectInterval(maxReconnectInterval)

	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		ps.logger.Info("MQTT connection established", slog.String("broker", ps.cfg.URL))
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		args := []any{slog.String("broker", ps.cfg.URL)}
		if err != nil {
			args = append(args, slog.Any("error", err))
		}
		ps.logger.Warn("MQTT connection lost", args...)
	})
	opts.SetReconnectingHandler(func(_ mqtt.Client, _ *mqtt.ClientOptions) {
		ps.logger.Info("MQTT reconnecting", slog.String("client_id", ps.cfg.ClientID))
	})

	client := mqtt.NewClient(opts)

	token := client.Connect()
	if token.Error() != nil {
		return errors.Join(errors.New("failed to connect to MQTT broker"), token.Error())
	}
	if ok := token.WaitTimeout(ps.cfg.Timeout); !ok {
		return errConnectTimeout
	}

	ps.client = client

	return nil
}

func (ps *pubsub) Publish(ctx context.Context, topic string, msg any) error {
	if topic == "" {
		return errEmptyTopic
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	token := ps.client.Publish(topic, ps.cfg.QoS, false, data)
	if token.Error() != nil {
		return token.Error()
	}
	if ok := token.WaitTimeout(ps.cfg.Timeout); !ok {
		return errPublishTimeout
	}

	return nil
}

func (ps *pubsub) Subscribe(ctx context.Context, topic string, handler Handler) error {
	if topic == "" {
		return errEmptyTopic
	}

	token := ps.client.Subscribe(topic, ps.cfg.QoS, ps.dispatch(handler))
	if token.Error() != nil {
		return token.Error()
	}
	if ok := token.WaitTimeout(ps.cfg.Timeout); !ok {
		return errSubscribeTimeout
	}

	return nil
}

func (ps *pubsub) Unsubscribe(ctx context.Context, topic string) error {
	if topic == "" {
		return errEmptyTopic
	}

	token := ps.client.Unsubscribe(topic)
	if token.Error() != nil {
		return token.Error()
	}
	if ok := token.WaitTimeout(ps.cfg.Timeout); !ok {
		return errUnsubscribeTimeout
	}

	return nil
}

func (ps *pubsub) Disconnect(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		ps.client.Disconnect(disconnectQuiesceMs)

		return nil
	}
}

func (ps *pubsub) dispatch(h Handler) mqtt.MessageHandler {
	return func(_ mqtt.Client, m mqtt.Message) {
		dec := json.NewDecoder(bytes.NewReader(m.Payload()))
		dec.UseNumber()

		var msg map[string]any
		if err := dec.Decode(&msg); err != nil {
			ps.logger.Warn(fmt.Sprintf("Failed to unmarshal received message: %s", err))

			return
		}

		if err := h(m.Topic(), msg); err != nil {
			ps.logger.Warn(fmt.Sprintf("Failed to handle MQTT message: %s", err))
		}

		m.Ack()
	}
}
