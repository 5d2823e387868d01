// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package events

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// Broadcaster sends raw JSON frames to websocket clients.
type Broadcaster interface {
	BroadcastRaw(data []byte)
}

// ForwarderStats holds runtime counters.
type ForwarderStats struct {
	MessagesReceived  int64
	MessagesForwarded int64
}

// Forwarder relays sync events from the bus to a Broadcaster. Serve runs a
// fresh watermill router each time so a supervisor can restart it.
type Forwarder struct {
	subscriber message.Subscriber
	hub        Broadcaster
	logger     watermill.LoggerAdapter

	readyOnce sync.Once
	ready     chan struct{}

	messagesReceived  atomic.Int64
	messagesForwarded atomic.Int64
}

// NewForwarder creates a forwarder.
func NewForwarder(subscriber message.Subscriber, hub Broadcaster, logger watermill.LoggerAdapter) (*Forwarder, error) {
	if subscriber == nil {
		return nil, fmt.Errorf("subscriber required")
	}
	if hub == nil {
		return nil, fmt.Errorf("hub required")
	}
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}
	return &Forwarder{
		subscriber: subscriber,
		hub:        hub,
		logger:     logger,
		ready:      make(chan struct{}),
	}, nil
}

// Handle broadcasts one message. Broadcasting never fails the message.
func (f *Forwarder) Handle(msg *message.Message) error {
	f.messagesReceived.Add(1)
	f.hub.BroadcastRaw(msg.Payload)
	f.messagesForwarded.Add(1)
	return nil
}

// Serve subscribes to both sync topics and blocks until ctx is done.
func (f *Forwarder) Serve(ctx context.Context) error {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, f.logger)
	if err != nil {
		return fmt.Errorf("create watermill router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer)
	router.AddConsumerHandler("websocket-sync-progress", TopicSyncProgress, f.subscriber, f.Handle)
	router.AddConsumerHandler("websocket-sync-completed", TopicSyncCompleted, f.subscriber, f.Handle)

	go func() {
		select {
		case <-router.Running():
			f.readyOnce.Do(func() { close(f.ready) })
		case <-ctx.Done():
		}
	}()

	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("event forwarder: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

// Ready is closed once the first router is subscribed.
func (f *Forwarder) Ready() <-chan struct{} {
	return f.ready
}

// Stats returns runtime counters.
func (f *Forwarder) Stats() ForwarderStats {
	return ForwarderStats{
		MessagesReceived:  f.messagesReceived.Load(),
		MessagesForwarded: f.messagesForwarded.Load(),
	}
}

// String names the service for the supervisor.
func (f *Forwarder) String() string {
	return "event-forwarder"
}
