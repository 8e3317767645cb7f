package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/exp/rand"

	"github.com/sushihentaime/blogspot/internal/common"
)

func NewMailService(mb common.MessageConsumer, host, username, password, sender string, port int, logger MailLogger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:     mb,
		m:      NewMailer(host, port, username, password, sender, NewTemplate()),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// SendWelcomeEmail consumes user.created events and sends each new user a
// welcome email.
func (s *MailService) SendWelcomeEmail() {
	msgs, err := s.mb.Consume(common.UserCreatedKey, common.UserExchange, common.UserCreatedQueue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("error", err.Error()))
		return
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				var data struct {
					Email    string
					Username string
				}

				err := json.Unmarshal(msg.Body, &data)
				if err != nil {
					s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
					continue
				}

				payload := struct {
					Username string
				}{
					Username: data.Username,
				}

				// using exponential backoff with jitter
				const maxRetries = 5
				const baseDelay = 500 * time.Millisecond

				var attempt int
				for attempt = 0; attempt < maxRetries; attempt++ {
					err = s.m.send(data.Email, payload, "welcome_email.html")
					if err == nil {
						s.logger.Info("welcome email sent", slog.String("email", data.Email))
						msg.Ack(false)
						break
					}

					delay := time.Duration(rand.Int63n(int64(baseDelay) << uint(attempt)))
					s.logger.Info("delaying welcome email", slog.String("email", data.Email), slog.Int("attempt", attempt), slog.Duration("delay", delay))
					time.Sleep(delay)
				}

				if attempt == maxRetries {
					s.logger.Error("could not send welcome email", slog.String("email", data.Email))
					msg.Ack(false)
				}

			case <-s.ctx.Done():
				s.logger.Info("stopping SendWelcomeEmail due to context cancellation")
				return
			}
		}
	}()
}

func (s *MailService) Close() {
	s.cancel()
}
