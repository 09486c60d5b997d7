package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/exp/rand"

	"github.com/sushihentaime/inkwell/internal/common"
	"github.com/sushihentaime/inkwell/internal/postservice"
	"github.com/sushihentaime/inkwell/internal/userservice"
)

func NewMailService(mb common.MessageConsumer, host, username, password, sender string, port int, siteURL string, logger *slog.Logger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:        mb,
		m:         NewMailer(host, port, username, password, sender, NewTemplate()),
		logger:    logger,
		siteURL:   strings.TrimRight(siteURL, "/"),
		baseDelay: defaultBaseDelay,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// handlerFunc turns a message body into a recipient and template data.
type handlerFunc func(body []byte) (recipient string, data any, err error)

// SendWelcomeEmail consumes user.registered events and greets each new user.
func (s *MailService) SendWelcomeEmail() {
	s.consume(common.UserRegisteredKey, common.UserRegisteredQueue, WelcomeTemplate, func(body []byte) (string, any, error) {
		var event userservice.UserRegisteredEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return "", nil, err
		}

		return event.Email, welcomeData{FirstName: event.FirstName, SiteURL: s.siteURL}, nil
	})
}

// SendPostPublishedEmail consumes post.published events and notifies the author.
func (s *MailService) SendPostPublishedEmail() {
	s.consume(common.PostPublishedKey, common.PostPublishedQueue, PostPublishedTemplate, func(body []byte) (string, any, error) {
		var event postservice.PostPublishedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return "", nil, err
		}

		return event.AuthorEmail, postPublishedData{
			AuthorName: event.AuthorName,
			Title:      event.Title,
			PostURL:    s.siteURL + "/posts/" + event.Slug,
		}, nil
	})
}

func (s *MailService) consume(key common.BindingKey, queue common.Queue, templateFile string, handle handlerFunc) {
	msgs, err := s.mb.Consume(key, common.BlogExchange, queue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("queue", string(queue)), slog.String("error", err.Error()))
		return
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				s.deliver(msg, templateFile, handle)

			case <-s.ctx.Done():
				s.logger.Info("stopping consumer due to context cancellation", slog.String("queue", string(queue)))
				return
			}
		}
	}()
}

// deliver sends one email with exponential backoff and jitter. The message is
// acknowledged whether or not the email eventually went out.
func (s *MailService) deliver(msg amqp.Delivery, templateFile string, handle handlerFunc) {
	defer msg.Ack(false)

	recipient, data, err := handle(msg.Body)
	if err != nil {
		s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
		return
	}

	if recipient == "" {
		s.logger.Error("message has no recipient", slog.String("template", templateFile))
		return
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		err = s.m.send(recipient, data, templateFile)
		if err == nil {
			s.logger.Info("email sent", slog.String("email", recipient), slog.String("template", templateFile))
			return
		}

		delay := time.Duration(rand.Int63n(int64(s.baseDelay) << uint(attempt)))
		s.logger.Info("delaying email", slog.String("email", recipient), slog.Int("attempt", attempt), slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			return
		}
	}

	s.logger.Error("could not send email", slog.String("email", recipient), slog.String("template", templateFile), slog.String("error", err.Error()))
}

func (s *MailService) Close() {
	s.cancel()
}
