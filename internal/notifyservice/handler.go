package notifyservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/exp/rand"

	"github.com/koyasong/bloghive/internal/common"
)

func NewNotifyService(mb common.MessageConsumer, host, username, password, sender string, port int, logger *slog.Logger) *NotifyService {
	ctx, cancel := context.WithCancel(context.Background())
	return &NotifyService{
		mb:     mb,
		m:      NewMailer(host, port, username, password, sender, NewTemplate()),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// SendCommentEmail consumes comment.created events and emails the blog
// owner about each new comment. Sends are retried with exponential
// backoff and jitter before the message is given up on.
func (s *NotifyService) SendCommentEmail() {
	msgs, err := s.mb.Consume(common.CommentCreatedKey, common.InteractionExchange, common.CommentCreatedQueue)
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
					OwnerEmail string `json:"owner_email"`
					PostTitle  string `json:"post_title"`
					Commenter  string `json:"commenter"`
				}

				err := json.Unmarshal(msg.Body, &data)
				if err != nil {
					s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
					continue
				}

				payload := struct {
					PostTitle string
					Commenter string
				}{
					PostTitle: data.PostTitle,
					Commenter: data.Commenter,
				}

				const maxRetries = 5
				const baseDelay = 500 * time.Millisecond

				var attempt int
				for attempt = 0; attempt < maxRetries; attempt++ {
					err = s.m.send(data.OwnerEmail, payload, "new_comment_email.html")
					if err == nil {
						s.logger.Info("comment notification sent", slog.String("email", data.OwnerEmail))
						msg.Ack(false)
						break
					}

					delay := time.Duration(rand.Int63n(int64(baseDelay) << uint(attempt)))
					s.logger.Info("delaying comment notification", slog.String("email", data.OwnerEmail), slog.Int("attempt", attempt), slog.Duration("delay", delay))
					time.Sleep(delay)
				}

				if attempt == maxRetries {
					s.logger.Error("could not send comment notification", slog.String("email", data.OwnerEmail))
					msg.Ack(false)
				}

			case <-s.ctx.Done():
				s.logger.Info("stopping SendCommentEmail due to context cancellation")
				return
			}
		}
	}()
}

func (s *NotifyService) Close() {
	s.cancel()
}
