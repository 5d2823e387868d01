// Marquee - Movie Catalog Synchronization and Discovery API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package events carries synchronization events over an in-process
// watermill bus and forwards them to websocket clients.
package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	catalogsync "github.com/tomtom215/marquee/internal/sync"
	"github.com/tomtom215/marquee/internal/websocket"
)

// Topics
const (
	TopicSyncCompleted = "catalog.sync.completed"
	TopicSyncProgress  = "catalog.sync.progress"
)

const metadataCorrelationID = "correlation_id"

// Envelope is the payload of every bus message. It matches the websocket
// frame layout so the forwarder can relay payloads unchanged.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Bus publishes sync events. It implements sync.Publisher.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
}

// NewBus creates an in-memory bus. Messages published while nobody is
// subscribed are dropped.
func NewBus(logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger),
		logger: logger,
	}
}

// PublishSyncProgress announces a finished category.
func (b *Bus) PublishSyncProgress(ctx context.Context, report *catalogsync.SyncReport) error {
	return b.publish(ctx, TopicSyncProgress, websocket.MessageTypeSyncProgress, report)
}

// PublishSyncCompleted announces a finished run.
func (b *Bus) PublishSyncCompleted(ctx context.Context, report *catalogsync.RunReport) error {
	return b.publish(ctx, TopicSyncCompleted, websocket.MessageTypeSyncCompleted, report)
}

func (b *Bus) publish(ctx context.Context, topic, msgType string, data interface{}) error {
	payload, err := json.Marshal(Envelope{Type: msgType, Data: data})
	if err != nil {
		metrics.RecordEventPublish(topic, err)
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set(metadataCorrelationID, id)
	}

	err = b.pubsub.Publish(topic, msg)
	metrics.RecordEventPublish(topic, err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Subscriber returns the subscribing side of the bus.
func (b *Bus) Subscriber() message.Subscriber {
	return b.pubsub
}

// Close stops the bus and closes all subscriptions.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
