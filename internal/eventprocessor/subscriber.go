// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package eventprocessor

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
)

// ConnectionHooks are invoked on transport connection state changes. Nil
// hooks are skipped.
type ConnectionHooks struct {
	OnConnect    func()
	OnDisconnect func(err error)
	OnReconnect  func()
}

// Subscriber wraps the Watermill NATS subscriber.
type Subscriber struct {
	subscriber message.Subscriber
	config     SubscriberConfig
	logger     watermill.LoggerAdapter
}

// NewSubscriber creates a JetStream subscriber on an ephemeral consumer.
// There is no queue group, so every instance receives every message, and
// a single subscriber goroutine keeps messages in receipt order.
func NewSubscriber(cfg *SubscriberConfig, hooks ConnectionHooks, logger watermill.LoggerAdapter) (*Subscriber, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	if cfg.StreamName == "" {
		return nil, fmt.Errorf("%w: stream name required", ErrInvalidConfig)
	}

	natsOpts := []natsgo.Option{
		natsgo.Name("racetrack-subscriber"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.ConnectHandler(func(nc *natsgo.Conn) {
			logger.Info("Subscriber connected", watermill.LogFields{"url": nc.ConnectedUrl()})
			if hooks.OnConnect != nil {
				hooks.OnConnect()
			}
		}),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			logger.Error("Subscriber disconnected", err, nil)
			if hooks.OnDisconnect != nil {
				hooks.OnDisconnect(err)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("Subscriber reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
			if hooks.OnReconnect != nil {
				hooks.OnReconnect()
			}
		}),
	}

	subOpts := []natsgo.SubOpt{
		natsgo.BindStream(cfg.StreamName),
		natsgo.DeliverNew(),
		natsgo.AckExplicit(),
		natsgo.MaxDeliver(cfg.MaxDeliver),
		natsgo.MaxAckPending(cfg.MaxAckPending),
		natsgo.AckWait(cfg.AckWaitTimeout),
		natsgo.InactiveThreshold(cfg.InactiveThreshold),
	}

	wmConfig := wmNats.SubscriberConfig{
		URL:              cfg.URL,
		SubscribersCount: 1,
		AckWaitTimeout:   cfg.AckWaitTimeout,
		CloseTimeout:     cfg.CloseTimeout,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:         false,
			AutoProvision:    false, // stream is created by StreamInitializer
			AckAsync:         false,
			SubscribeOptions: subOpts,
		},
	}

	sub, err := wmNats.NewSubscriber(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill subscriber: %w", err)
	}

	return &Subscriber{
		subscriber: sub,
		config:     *cfg,
		logger:     logger,
	}, nil
}

// Subscribe returns a channel of messages for the given topic.
func (s *Subscriber) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return s.subscriber.Subscribe(ctx, topic)
}

// Close shuts down the subscriber and its connection.
func (s *Subscriber) Close() error {
	return s.subscriber.Close()
}

// WatermillSubscriber returns the underlying Watermill subscriber for use
// with a Router.
func (s *Subscriber) WatermillSubscriber() message.Subscriber {
	return s.subscriber
}
