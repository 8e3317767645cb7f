package mailservice

import (
	"bytes"
	"sync"

	"github.com/go-mail/mail/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"

	"github.com/sushihentaime/blogspot/internal/common"
)

type MockTemplate struct {
	mock.Mock
}

func (m *MockTemplate) ParseTemplate(name string, data any) (*bytes.Buffer, *bytes.Buffer, *bytes.Buffer, error) {
	args := m.Called(name, data)
	return args.Get(0).(*bytes.Buffer), args.Get(1).(*bytes.Buffer), args.Get(2).(*bytes.Buffer), args.Error(3)
}

type MockDialer struct {
	mock.Mock
}

func (d *MockDialer) DialAndSend(m ...*mail.Message) error {
	args := d.Called(m)
	return args.Error(0)
}

type MockMailer struct {
	mu     sync.Mutex
	called bool
	email  string
}

func (m *MockMailer) send(recipient string, data any, templateFile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called = true
	m.email = recipient
	return nil
}

func (m *MockMailer) IsCalled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.called
}

func (m *MockMailer) GetEmail() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.email
}

type MockLogger struct {
	mock.Mock
}

func (l *MockLogger) Error(msg string, args ...any) {
	l.Called(msg, args)
}

func (l *MockLogger) Info(msg string, args ...any) {
	l.Called(msg, args)
}

type MockMessageConsumer struct {
	mock.Mock
}

func (m *MockMessageConsumer) Consume(key common.BindingKey, exchange common.Exchange, queue common.Queue) (<-chan amqp.Delivery, error) {
	m.Called(key, exchange, queue)

	msgsChan := make(chan amqp.Delivery)

	go func() {
		defer close(msgsChan)

		mockMessage := `{"Email": "test@example.com", "Username": "testuser"}`
		mockDelivery := amqp.Delivery{Body: []byte(mockMessage)}
		msgsChan <- mockDelivery
	}()

	return msgsChan, nil
}
