package application

import "github.com/google/uuid"

// Message is a single pipeline message handed to the node. The payload and
// metadata are owned by the pipeline; the node never mutates a message in
// place and produces derived copies instead.
type Message struct {
	ID       uuid.UUID
	Data     string
	Metadata map[string]string
}

func NewMessage(data string, metadata map[string]string) Message {
	md := make(map[string]string, len(metadata))
	for k, v := range metadata {
		md[k] = v
	}
	return Message{ID: uuid.New(), Data: data, Metadata: md}
}

// MetadataCopy returns a copy of the metadata map safe to augment.
func (m Message) MetadataCopy() map[string]string {
	md := make(map[string]string, len(m.Metadata))
	for k, v := range m.Metadata {
		md[k] = v
	}
	return md
}

// WithMetadata returns a derived message carrying the same id and payload
// with the given metadata.
func (m Message) WithMetadata(metadata map[string]string) Message {
	return Message{ID: m.ID, Data: m.Data, Metadata: metadata}
}
