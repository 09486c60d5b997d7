package mailservice

import (
	"bytes"
	"errors"
	"testing"

	"github.com/go-mail/mail/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSendEmail(t *testing.T) {
	subject := bytes.NewBufferString("Test Subject")
	plainBody := bytes.NewBufferString("Test Plain Body")
	htmlBody := bytes.NewBufferString("Test HTML Body")

	testCases := []struct {
		name        string
		parseErr    error
		dialErr     error
		expectedErr string
	}{
		{name: "sent"},
		{name: "template error", parseErr: errors.New("bad template"), expectedErr: "bad template"},
		{name: "dial error", dialErr: errors.New("connection refused"), expectedErr: "could not send email to test@example.com: connection refused"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockParser := new(MockTemplate)
			mockDialer := new(MockDialer)

			mailer := Mail{
				dialer: mockDialer,
				parser: mockParser,
				sender: "sender@example.com",
			}

			if tc.parseErr != nil {
				mockParser.On("ParseTemplate", WelcomeTemplate, mock.Anything).Return(nil, nil, nil, tc.parseErr)
			} else {
				mockParser.On("ParseTemplate", WelcomeTemplate, mock.Anything).Return(subject, plainBody, htmlBody, nil)
				mockDialer.On("DialAndSend", mock.AnythingOfType("[]*mail.Message")).Return(tc.dialErr)
			}

			err := mailer.send("test@example.com", welcomeData{FirstName: "Ada"}, WelcomeTemplate)
			if tc.expectedErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tc.expectedErr)
			}

			mockParser.AssertExpectations(t)
			mockDialer.AssertExpectations(t)
		})
	}
}

func TestSendEmailHeaders(t *testing.T) {
	mockParser := new(MockTemplate)
	mockDialer := new(MockDialer)

	mailer := Mail{
		dialer: mockDialer,
		parser: mockParser,
		sender: "sender@example.com",
	}

	mockParser.On("ParseTemplate", PostPublishedTemplate, mock.Anything).Return(
		bytes.NewBufferString("Live"), bytes.NewBufferString("plain"), bytes.NewBufferString("<p>html</p>"), nil)

	var got *mail.Message
	mockDialer.On("DialAndSend", mock.AnythingOfType("[]*mail.Message")).Run(func(args mock.Arguments) {
		got = args.Get(0).([]*mail.Message)[0]
	}).Return(nil)

	err := mailer.send("author@example.com", postPublishedData{Title: "Live"}, PostPublishedTemplate)
	assert.NoError(t, err)

	if assert.NotNil(t, got) {
		assert.Equal(t, []string{"sender@example.com"}, got.GetHeader("From"))
		assert.Equal(t, []string{"author@example.com"}, got.GetHeader("To"))
		assert.Equal(t, []string{"Live"}, got.GetHeader("Subject"))
	}
}
