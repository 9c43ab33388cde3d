// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package ingest

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/racetrack/internal/eventprocessor"
	"github.com/tomtom215/racetrack/internal/logging"
)

const handlerName = "race-events"

// Consumer binds a Pipeline to the NATS subscription. It implements
// suture.Service: Serve blocks until ctx is canceled and returns an error
// when the subscription fails so the supervisor restarts it.
type Consumer struct {
	pipeline *Pipeline
	cfg      eventprocessor.TransportConfig
	url      string
	logger   watermill.LoggerAdapter
	events   *logging.EventLogger

	poison bool
}

// NewConsumer creates a consumer for the transport at url.
func NewConsumer(p *Pipeline, cfg eventprocessor.TransportConfig, url string) *Consumer {
	return &Consumer{
		pipeline: p,
		cfg:      cfg,
		url:      url,
		logger:   logging.NewWatermillAdapter(),
		events:   logging.NewEventLogger(),
	}
}

// Handle processes one message. Rejections become permanent errors when
// the poison queue is enabled, so the router diverts and acks them.
// Without it they are acked here.
func (c *Consumer) Handle(msg *message.Message) error {
	ctx := logging.ContextWithCorrelationID(msg.Context(), msg.UUID)

	outcome, err := c.pipeline.OnEvent(ctx, msg.Payload)
	if outcome == Reject && c.poison {
		return eventprocessor.NewPermanentError("malformed_event", err)
	}
	return nil
}

// Serve subscribes and runs the router until ctx is done.
func (c *Consumer) Serve(ctx context.Context) error {
	subCfg := c.cfg.Subscriber(c.url)
	sub, err := eventprocessor.NewSubscriber(&subCfg, eventprocessor.ConnectionHooks{
		OnConnect:    c.pipeline.OnConnect,
		OnReconnect:  c.pipeline.OnConnect,
		OnDisconnect: func(error) { c.pipeline.OnDisconnect() },
	}, c.logger)
	if err != nil {
		return fmt.Errorf("create subscriber: %w", err)
	}
	defer sub.Close()

	var poisonPub message.Publisher
	if c.cfg.PoisonSubject != "" {
		pub, err := eventprocessor.NewPublisher(c.cfg.Publisher(c.url), c.cfg.PoisonSubject, c.logger)
		if err != nil {
			return fmt.Errorf("create poison publisher: %w", err)
		}
		defer pub.Close()
		poisonPub = pub.WatermillPublisher()
	}

	routerCfg := eventprocessor.DefaultRouterConfig()
	routerCfg.PoisonQueueTopic = c.cfg.PoisonSubject
	router, err := eventprocessor.NewRouter(&routerCfg, poisonPub, c.logger)
	if err != nil {
		return fmt.Errorf("create router: %w", err)
	}
	c.poison = router.PoisonEnabled()

	router.AddConsumerHandler(handlerName, c.cfg.Subject, sub.WatermillSubscriber(), c.Handle)

	go func() {
		select {
		case <-router.Running():
			c.pipeline.OnConnect()
			c.events.LogSubscriptionStarted(c.cfg.Subject)
		case <-ctx.Done():
		}
	}()

	err = router.Run(ctx)
	c.events.LogSubscriptionStopped(c.cfg.Subject)
	c.pipeline.OnDisconnect()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("router stopped: %w", err)
	}
	return fmt.Errorf("router stopped unexpectedly")
}

func (c *Consumer) String() string {
	return "race-event-consumer"
}
