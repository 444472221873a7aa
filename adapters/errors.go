package adapters

import (
	"fmt"
	"time"
)

var ErrMQTTNotConnected = fmt.Errorf("not connected")

// ConnectTimeoutError reports a connect attempt that did not resolve within
// the configured timeout.
type ConnectTimeoutError struct {
	Host    string
	Port    int
	Timeout time.Duration
}

func (e *ConnectTimeoutError) Error() string {
	return fmt.Sprintf("failed to connect to MQTT broker at %s:%d: timed out after %s", e.Host, e.Port, e.Timeout)
}

// ConnectRejectedError reports a connect attempt the broker resolved but
// refused, e.g. bad credentials or a protocol mismatch.
type ConnectRejectedError struct {
	Host   string
	Port   int
	Reason error
}

func (e *ConnectRejectedError) Error() string {
	return fmt.Sprintf("failed to connect to MQTT broker at %s:%d: %v", e.Host, e.Port, e.Reason)
}

func (e *ConnectRejectedError) Unwrap() error { return e.Reason }

// PublishError reports a transport-level publish failure on one topic.
type PublishError struct {
	Topic string
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("failed to publish to topic %q: %v", e.Topic, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
