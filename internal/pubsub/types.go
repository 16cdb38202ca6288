package pubsub

import (
	"sync"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// Direct delivers messages to in-process handlers instead of Google Pub/Sub.
type Direct struct {
	mu       sync.RWMutex
	handlers map[EventType]Handler
}

// Handler receives the msgpack payload of a message.
type Handler func(data []byte) error

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventGameFinished EventType = "game-finished"
)
