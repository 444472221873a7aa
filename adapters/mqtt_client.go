package adapters

import (
	"crypto/tls"
	"fmt"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/xalt7x/thingsboard/application"
)

const (
	MQTTDefaultConnectTimeout = 10 * time.Second
	MQTTDefaultKeepAlive      = 60 * time.Second

	// disconnectQuiesce is how long paho waits for in-flight work on
	// disconnect, in milliseconds.
	disconnectQuiesce = 250
)

type MQTTClientParams struct {
	Host         string
	Port         int
	ClientID     string
	CleanSession bool
	OwnerID      string

	Username  string
	Password  string
	TLSConfig *tls.Config

	ConnectTimeout time.Duration

	NewClientFunc func(options *mqtt.ClientOptions) mqtt.Client

	Log zerolog.Logger
}

func (m *MQTTClientParams) EnsureDefaults() {
	if m.ConnectTimeout == 0 {
		m.ConnectTimeout = MQTTDefaultConnectTimeout
	}

	if m.NewClientFunc == nil {
		m.NewClientFunc = mqtt.NewClient
	}
}

// MQTTClient owns one broker session on top of a paho client. The paho
// client is internally synchronized, so the handle is shared by concurrent
// Publish calls without extra locking; connected/closed are the only state
// this wrapper keeps and both are atomics.
type MQTTClient struct {
	params MQTTClientParams

	client mqtt.Client

	connected          uint64
	closed             uint64
	msgCount           uint64
	msgCountUpdateTime atomic.Pointer[time.Time]

	log zerolog.Logger
}

func NewMQTTClient(params MQTTClientParams) *MQTTClient {
	params.EnsureDefaults()

	m := &MQTTClient{params: params, log: params.Log}
	m.client = m.newMqttClient()

	t := time.Unix(0, 0)
	m.msgCountUpdateTime.Store(&t)

	return m
}

// NewMQTTClientFromConfig adapts the application-level client factory
// contract onto NewMQTTClient.
func NewMQTTClientFromConfig(config application.MQTTClientConfig, log zerolog.Logger) application.MQTTClient {
	return NewMQTTClient(MQTTClientParams{
		Host:           config.Host,
		Port:           config.Port,
		ClientID:       config.ClientID,
		CleanSession:   config.CleanSession,
		OwnerID:        config.OwnerID,
		Username:       config.Username,
		Password:       config.Password,
		TLSConfig:      config.TLS,
		ConnectTimeout: config.ConnectTimeout,
		Log:            log,
	})
}

// Connect blocks until the broker accepts or refuses the session, or the
// configured timeout elapses. On timeout the pending attempt is cancelled
// and any partially established socket is released.
func (m *MQTTClient) Connect() error {
	if atomic.LoadUint64(&m.connected) == 1 {
		return nil
	}

	tc := time.NewTimer(m.params.ConnectTimeout)
	defer tc.Stop()

	token := m.client.Connect()
	select {
	case <-tc.C:
		m.client.Disconnect(0)
		return &ConnectTimeoutError{Host: m.params.Host, Port: m.params.Port, Timeout: m.params.ConnectTimeout}
	case <-token.Done():
		if err := token.Error(); err != nil {
			m.client.Disconnect(0)
			return &ConnectRejectedError{Host: m.params.Host, Port: m.params.Port, Reason: err}
		}
	}

	atomic.StoreUint64(&m.connected, 1)
	return nil
}

func (m *MQTTClient) IsConnected() bool {
	return atomic.LoadUint64(&m.connected) == 1
}

func (m *MQTTClient) Status() application.MQTTStatus {
	return application.MQTTStatus{
		MessageCount:      atomic.LoadUint64(&m.msgCount),
		LastTimePublished: *m.msgCountUpdateTime.Load(),
		Connected:         m.IsConnected(),
	}
}

// Publish issues a non-blocking publish and returns a channel that resolves
// exactly once with the outcome. Each call waits on its own paho token, so
// overlapping publishes never cross-correlate. Outcomes may resolve after
// Disconnect; the channel is still completed.
func (m *MQTTClient) Publish(topic string, qos byte, retained bool, payload []byte) <-chan error {
	outcome := make(chan error, 1)

	if !m.IsConnected() {
		outcome <- ErrMQTTNotConnected
		return outcome
	}

	token := m.client.Publish(topic, qos, retained, payload)
	go func() {
		<-token.Done()
		if err := token.Error(); err != nil {
			outcome <- &PublishError{Topic: topic, Err: err}
			return
		}

		t := time.Now()
		m.msgCountUpdateTime.Store(&t)
		atomic.AddUint64(&m.msgCount, 1)
		outcome <- nil
	}()
	return outcome
}

// Disconnect tears the session down. It is idempotent and safe on a
// never-connected client.
func (m *MQTTClient) Disconnect() {
	if !atomic.CompareAndSwapUint64(&m.closed, 0, 1) {
		return
	}
	atomic.StoreUint64(&m.connected, 0)
	m.client.Disconnect(disconnectQuiesce)
}

func (m *MQTTClient) OnConnect(client mqtt.Client) {
	m.log.Info().Str("owner", m.params.OwnerID).Msg("connected")
	atomic.StoreUint64(&m.connected, 1)
}

func (m *MQTTClient) OnConnectionLost(client mqtt.Client, err error) {
	m.log.Info().Str("owner", m.params.OwnerID).Msgf("connection lost: %v", err)
	atomic.StoreUint64(&m.connected, 0)
}

func (m *MQTTClient) newMqttClient() mqtt.Client {
	opts := mqtt.NewClientOptions()

	scheme := "tcp"
	if m.params.TLSConfig != nil {
		scheme = "ssl"
		opts.SetTLSConfig(m.params.TLSConfig)
	}
	opts.AddBroker(fmt.Sprintf("%s://%s:%d", scheme, m.params.Host, m.params.Port))

	// empty client id is passed through so the broker assigns one
	opts.SetClientID(m.params.ClientID)
	opts.SetCleanSession(m.params.CleanSession)

	if m.params.Username != "" {
		opts.SetUsername(m.params.Username)
		opts.SetPassword(m.params.Password)
	}

	opts.SetConnectRetry(false)
	opts.SetAutoReconnect(false)
	opts.SetKeepAlive(MQTTDefaultKeepAlive)

	opts.OnConnect = m.OnConnect
	opts.OnConnectionLost = m.OnConnectionLost

	return m.params.NewClientFunc(opts)
}

var _ application.MQTTClient = &MQTTClient{}
