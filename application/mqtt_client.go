package application

import (
	"crypto/tls"
	"time"
)

// QoSAtLeastOnce is the only delivery level the node publishes with.
const QoSAtLeastOnce byte = 1

type MQTTStatus struct {
	MessageCount      uint64
	LastTimePublished time.Time
	Connected         bool
}

// MQTTClient is one live broker session. Connect blocks the caller up to the
// configured timeout; Publish never blocks and resolves the returned channel
// exactly once per call. The implementation must tolerate outcomes resolving
// after Disconnect.
type MQTTClient interface {
	Connect() error
	Publish(topic string, qos byte, retained bool, payload []byte) <-chan error

	Disconnect()
	IsConnected() bool
	Status() MQTTStatus
}

// MQTTClientConfig carries the resolved connection parameters the node hands
// to the client factory.
type MQTTClientConfig struct {
	Host           string
	Port           int
	ClientID       string
	CleanSession   bool
	ConnectTimeout time.Duration
	OwnerID        string

	Username string
	Password string
	TLS      *tls.Config
}

// MQTTClientFactory builds a client for one node instance. The adapters
// package provides the paho-backed implementation; tests inject fakes.
type MQTTClientFactory func(config MQTTClientConfig) MQTTClient
