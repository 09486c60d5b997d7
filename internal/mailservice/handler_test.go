package mailservice

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sushihentaime/inkwell/internal/common"
)

func newTestMailService(mc *MockMessageConsumer, mailer *MockMailer) *MailService {
	ctx, cancel := context.WithCancel(context.Background())

	return &MailService{
		mb:        mc,
		m:         mailer,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		siteURL:   "http://localhost:5000",
		baseDelay: time.Millisecond,
		ctx:       ctx,
		cancel:    cancel,
	}
}

func waitForEmails(t *testing.T, mailer *MockMailer, n int) {
	for i := 0; i < n; i++ {
		select {
		case <-mailer.done:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for email %d", i+1)
		}
	}
}

func TestSendWelcomeEmail(t *testing.T) {
	mc := &MockMessageConsumer{bodies: map[common.BindingKey][]string{
		common.UserRegisteredKey: {`{"email": "test@example.com", "firstName": "Ada"}`},
	}}
	mc.On("Consume", common.UserRegisteredKey, common.BlogExchange, common.UserRegisteredQueue).Return()

	mailer := newMockMailer(0)
	s := newTestMailService(mc, mailer)
	t.Cleanup(s.Close)

	s.SendWelcomeEmail()
	waitForEmails(t, mailer, 1)

	sent := mailer.Sent()
	assert.Len(t, sent, 1)
	assert.Equal(t, "test@example.com", sent[0].recipient)
	assert.Equal(t, WelcomeTemplate, sent[0].template)
	assert.Equal(t, welcomeData{FirstName: "Ada", SiteURL: "http://localhost:5000"}, sent[0].data)

	mc.AssertExpectations(t)
}

func TestSendPostPublishedEmail(t *testing.T) {
	mc := &MockMessageConsumer{bodies: map[common.BindingKey][]string{
		common.PostPublishedKey: {
			`not json`,
			`{"postId": "1", "title": "No Recipient", "slug": "no-recipient"}`,
			`{"postId": "2", "title": "Hello", "slug": "hello", "authorEmail": "author@example.com", "authorName": "Ada Lovelace"}`,
		},
	}}
	mc.On("Consume", common.PostPublishedKey, common.BlogExchange, common.PostPublishedQueue).Return()

	mailer := newMockMailer(0)
	s := newTestMailService(mc, mailer)
	t.Cleanup(s.Close)

	s.SendPostPublishedEmail()
	waitForEmails(t, mailer, 1)

	sent := mailer.Sent()
	assert.Len(t, sent, 1)
	assert.Equal(t, "author@example.com", sent[0].recipient)
	assert.Equal(t, PostPublishedTemplate, sent[0].template)
	assert.Equal(t, postPublishedData{AuthorName: "Ada Lovelace", Title: "Hello", PostURL: "http://localhost:5000/posts/hello"}, sent[0].data)

	mc.AssertExpectations(t)
}

func TestSendEmailRetries(t *testing.T) {
	mc := &MockMessageConsumer{bodies: map[common.BindingKey][]string{
		common.UserRegisteredKey: {`{"email": "retry@example.com"}`},
	}}
	mc.On("Consume", mock.Anything, mock.Anything, mock.Anything).Return()

	mailer := newMockMailer(maxRetries - 1)
	s := newTestMailService(mc, mailer)
	t.Cleanup(s.Close)

	s.SendWelcomeEmail()
	waitForEmails(t, mailer, 1)

	assert.Equal(t, maxRetries, mailer.attempts)
	assert.Equal(t, "retry@example.com", mailer.Sent()[0].recipient)
}

func TestSendEmailGivesUp(t *testing.T) {
	mc := &MockMessageConsumer{bodies: map[common.BindingKey][]string{
		common.UserRegisteredKey: {`{"email": "never@example.com"}`, `{"email": "later@example.com"}`},
	}}
	mc.On("Consume", mock.Anything, mock.Anything, mock.Anything).Return()

	// every attempt for the first message fails, the second message then goes through
	mailer := newMockMailer(maxRetries)
	s := newTestMailService(mc, mailer)
	t.Cleanup(s.Close)

	s.SendWelcomeEmail()
	waitForEmails(t, mailer, 1)

	sent := mailer.Sent()
	assert.Len(t, sent, 1)
	assert.Equal(t, "later@example.com", sent[0].recipient)
}
