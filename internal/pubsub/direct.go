package pubsub

import (
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// NewDirect returns a client that hands messages straight to handlers registered
// with Handle. It is used when no Google Cloud project is configured.
func NewDirect() *Direct {
	return &Direct{handlers: make(map[EventType]Handler)}
}

// Handle registers the handler for a topic, replacing any earlier one.
func (d *Direct) Handle(topic EventType, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[topic] = h
}

func (d *Direct) SendMessage(topic EventType, data any) error {
	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}

	d.mu.RLock()
	h, ok := d.handlers[topic]
	d.mu.RUnlock()
	if !ok {
		log.Warn("No handler for topic, dropping message", "topic", topic)
		return nil
	}
	return h(msgpackData)
}

func (d *Direct) ProcessMessage(data []byte, returnValue any) error {
	return decode(data, returnValue)
}

func (d *Direct) Close() {}
