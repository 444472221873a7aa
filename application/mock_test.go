package application

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockMQTTClient struct {
	mock.Mock
}

func (m *MockMQTTClient) Connect() error {
	args := m.Called()
	if errInt := args.Get(0); errInt != nil {
		return errInt.(error)
	}
	return nil
}

func (m *MockMQTTClient) Publish(topic string, qos byte, retained bool, payload []byte) <-chan error {
	return m.Called(topic, qos, retained, payload).Get(0).(<-chan error)
}

func (m *MockMQTTClient) Disconnect() {
	m.Called()
}

func (m *MockMQTTClient) IsConnected() bool {
	return m.Called().Bool(0)
}

func (m *MockMQTTClient) Status() MQTTStatus {
	return m.Called().Get(0).(MQTTStatus)
}

var _ MQTTClient = &MockMQTTClient{}

type MockNodeContext struct {
	mock.Mock
}

func (m *MockNodeContext) TenantID() uuid.UUID {
	return m.Called().Get(0).(uuid.UUID)
}

func (m *MockNodeContext) NodeID() uuid.UUID {
	return m.Called().Get(0).(uuid.UUID)
}

func (m *MockNodeContext) ServiceID() string {
	return m.Called().String(0)
}

func (m *MockNodeContext) TellSuccess(msg Message) {
	m.Called(msg)
}

func (m *MockNodeContext) TellFailure(msg Message, cause error) {
	m.Called(msg, cause)
}

var _ NodeContext = &MockNodeContext{}

// outcomeChan wraps a resolved or pending outcome for mock Publish returns.
func outcomeChan(err error) <-chan error {
	ch := make(chan error, 1)
	ch <- err
	return ch
}
