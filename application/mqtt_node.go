package application

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const errorMetadataKey = "error"

var (
	ErrNodeNotReady           = fmt.Errorf("mqtt node is not ready")
	ErrNodeAlreadyInitialized = fmt.Errorf("mqtt node is already initialized")
)

// NodeContext is the boundary with the surrounding pipeline. It identifies
// the node's owner and receives exactly one outcome signal per message,
// delivered asynchronously after the publish resolves.
type NodeContext interface {
	TenantID() uuid.UUID
	NodeID() uuid.UUID
	ServiceID() string

	TellSuccess(msg Message)
	TellFailure(msg Message, cause error)
}

// NodeConfig is the node's configuration surface, parsed once at Init.
type NodeConfig struct {
	TopicPattern         string      `json:"topicPattern"`
	Host                 string      `json:"host"`
	Port                 int         `json:"port"`
	ConnectTimeoutSec    int         `json:"connectTimeoutSec"`
	ClientID             string      `json:"clientId"`
	AppendClientIDSuffix bool        `json:"appendClientIdSuffix"`
	CleanSession         bool        `json:"cleanSession"`
	SSL                  bool        `json:"ssl"`
	RetainedMessage      bool        `json:"retainedMessage"`
	ParseToPlainText     bool        `json:"parseToPlainText"`
	Credentials          Credentials `json:"credentials"`
}

func DefaultNodeConfig() NodeConfig {
	return NodeConfig{
		TopicPattern:      "my-topic",
		Port:              1883,
		ConnectTimeoutSec: 10,
		CleanSession:      true,
		Credentials:       Credentials{Type: CredentialsAnonymous},
	}
}

type NodeState int32

const (
	StateUninitialized NodeState = iota
	StateConnecting
	StateReady
	StateInitFailed
	StateDestroyed
)

type MQTTNodeParams struct {
	ClientFactory MQTTClientFactory

	Log zerolog.Logger
}

// MQTTNode publishes inbound messages to an MQTT broker at QoS 1 and reports
// the outcome of each publish back through the NodeContext. One live client
// is established at Init and shared by all subsequent OnMsg calls.
type MQTTNode struct {
	params MQTTNodeParams

	config NodeConfig
	client MQTTClient
	state  int32

	log zerolog.Logger
}

func NewMQTTNode(params MQTTNodeParams) (*MQTTNode, error) {
	if params.ClientFactory == nil {
		return nil, fmt.Errorf("ClientFactory is nil")
	}
	return &MQTTNode{params: params, log: params.Log}, nil
}

// Init resolves credentials and establishes the broker connection, blocking
// up to the configured connect timeout. On any failure the node becomes
// unusable and the cause is returned to the caller.
func (n *MQTTNode) Init(ctx NodeContext, config NodeConfig) error {
	if !n.transition(StateUninitialized, StateConnecting) {
		return ErrNodeAlreadyInitialized
	}
	n.config = config

	resolved, err := config.Credentials.Resolve(config.SSL)
	if err != nil {
		n.setState(StateInitFailed)
		return fmt.Errorf("init mqtt node: %w", err)
	}

	clientID := config.ClientID
	if clientID != "" && config.AppendClientIDSuffix {
		clientID = clientID + "_" + ctx.ServiceID()
	}

	client := n.params.ClientFactory(MQTTClientConfig{
		Host:           config.Host,
		Port:           config.Port,
		ClientID:       clientID,
		CleanSession:   config.CleanSession,
		ConnectTimeout: time.Duration(config.ConnectTimeoutSec) * time.Second,
		OwnerID:        ownerID(ctx),
		Username:       resolved.Username,
		Password:       resolved.Password,
		TLS:            resolved.TLS,
	})

	if err := client.Connect(); err != nil {
		client.Disconnect()
		n.setState(StateInitFailed)
		return err
	}

	n.client = client
	n.setState(StateReady)
	n.log.Info().Str("owner", ownerID(ctx)).Msgf("connected to mqtt broker at %s:%d", config.Host, config.Port)
	return nil
}

// OnMsg resolves the topic from the message, optionally normalizes the
// payload and issues a non-blocking publish. It returns immediately; the
// outcome reaches the pipeline asynchronously, exactly once per message.
func (n *MQTTNode) OnMsg(ctx NodeContext, msg Message) error {
	if n.State() != StateReady {
		return ErrNodeNotReady
	}

	topic := ResolvePattern(n.config.TopicPattern, msg)
	data := msg.Data
	if n.config.ParseToPlainText {
		data = ParseJSONStringToPlainText(msg.Data)
		if data != msg.Data {
			n.log.Trace().Str("before", msg.Data).Str("after", data).Msg("trimmed double quotes")
		}
	}

	outcome := n.client.Publish(topic, QoSAtLeastOnce, n.config.RetainedMessage, []byte(data))
	go func() {
		if err := <-outcome; err != nil {
			ctx.TellFailure(enrichError(msg, err), err)
			return
		}
		ctx.TellSuccess(msg)
	}()
	return nil
}

// Destroy tears down the broker connection. It is idempotent, never fails
// and is safe to call from any state; outcomes still in flight resolve
// against the pipeline but no new publishes are accepted.
func (n *MQTTNode) Destroy() {
	n.setState(StateDestroyed)
	if n.client != nil {
		n.client.Disconnect()
	}
}

func (n *MQTTNode) State() NodeState {
	return NodeState(atomic.LoadInt32(&n.state))
}

// Status reports the shared client's publish counters; zero before Init.
func (n *MQTTNode) Status() MQTTStatus {
	if n.State() != StateReady {
		return MQTTStatus{}
	}
	return n.client.Status()
}

func (n *MQTTNode) setState(s NodeState) {
	atomic.StoreInt32(&n.state, int32(s))
}

func (n *MQTTNode) transition(from, to NodeState) bool {
	return atomic.CompareAndSwapInt32(&n.state, int32(from), int32(to))
}

// enrichError derives a failure copy of the message carrying the cause in
// its metadata.
func enrichError(msg Message, cause error) Message {
	md := msg.MetadataCopy()
	md[errorMetadataKey] = fmt.Sprintf("%T: %v", cause, cause)
	return msg.WithMetadata(md)
}

func ownerID(ctx NodeContext) string {
	return fmt.Sprintf("Tenant[%s]RuleNode[%s]", ctx.TenantID(), ctx.NodeID())
}
