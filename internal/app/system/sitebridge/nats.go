package sitebridge

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATSChannel carries envelopes on a core NATS subject. Core NATS has no
// persistence, which matches the bridge's at-most-once contract.
type NATSChannel struct {
	nc      *nats.Conn
	subject string
}

// NewNATSChannel connects to url and publishes on subject.
func NewNATSChannel(url, subject string, logger *zap.Logger, opts ...nats.Option) (*NATSChannel, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = append([]nats.Option{
		nats.Name("greencircuit-sitebridge"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("sitebridge NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("sitebridge NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}, opts...)

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	logger.Info("sitebridge connected to NATS",
		zap.String("url", nc.ConnectedUrl()),
		zap.String("subject", subject))
	return &NATSChannel{nc: nc, subject: subject}, nil
}

func (c *NATSChannel) Publish(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.nc.Publish(c.subject, data)
}

func (c *NATSChannel) Subscribe(fn func([]byte)) (func(), error) {
	sub, err := c.nc.Subscribe(c.subject, func(msg *nats.Msg) {
		fn(msg.Data)
	})
	if err != nil {
		return nil, err
	}
	return func() { _ = sub.Unsubscribe() }, nil
}

// Close drains pending messages and closes the connection.
func (c *NATSChannel) Close() error {
	if c.nc.IsClosed() {
		return nil
	}
	return c.nc.Drain()
}
