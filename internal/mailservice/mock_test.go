package mailservice

import (
	"bytes"
	"errors"
	"sync"

	"github.com/go-mail/mail/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"

	"github.com/sushihentaime/inkwell/internal/common"
)

type MockTemplate struct {
	mock.Mock
}

func (m *MockTemplate) ParseTemplate(name string, data any) (*bytes.Buffer, *bytes.Buffer, *bytes.Buffer, error) {
	args := m.Called(name, data)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
	return args.Get(0).(*bytes.Buffer), args.Get(1).(*bytes.Buffer), args.Get(2).(*bytes.Buffer), args.Error(3)
}

type MockDialer struct {
	mock.Mock
}

func (d *MockDialer) DialAndSend(m ...*mail.Message) error {
	args := d.Called(m)
	return args.Error(0)
}

type sentEmail struct {
	recipient string
	data      any
	template  string
}

// MockMailer records sent emails and fails the first failures attempts.
type MockMailer struct {
	mu       sync.Mutex
	failures int
	attempts int
	sent     []sentEmail
	done     chan struct{}
}

func newMockMailer(failures int) *MockMailer {
	return &MockMailer{failures: failures, done: make(chan struct{}, 10)}
}

func (m *MockMailer) send(recipient string, data any, templateFile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.attempts++
	if m.attempts <= m.failures {
		return errors.New("smtp unavailable")
	}

	m.sent = append(m.sent, sentEmail{recipient: recipient, data: data, template: templateFile})
	m.done <- struct{}{}
	return nil
}

func (m *MockMailer) Sent() []sentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentEmail(nil), m.sent...)
}

// MockMessageConsumer delivers the configured bodies on the queue of each binding key.
type MockMessageConsumer struct {
	mock.Mock
	bodies map[common.BindingKey][]string
}

func (m *MockMessageConsumer) Consume(key common.BindingKey, exchange common.Exchange, queue common.Queue) (<-chan amqp.Delivery, error) {
	m.Called(key, exchange, queue)

	msgs := make(chan amqp.Delivery, len(m.bodies[key]))
	for _, body := range m.bodies[key] {
		msgs <- amqp.Delivery{Body: []byte(body)}
	}
	close(msgs)

	return msgs, nil
}
