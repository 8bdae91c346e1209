package telegram

import (
	"context"
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// Notifier sends plain text messages to chats through a circuit breaker.
type Notifier struct {
	sender Sender
	cb     *gobreaker.CircuitBreaker
	logger *logrus.Entry
}

func NewNotifier(sender Sender, logger *logrus.Logger) *Notifier {
	entry := logger.WithField("component", "telegram_notifier")

	settings := gobreaker.Settings{
		Name:        "Telegram-API",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip if at least half of 10 or more requests failed
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			entry.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	}

	return &Notifier{
		sender: sender,
		cb:     gobreaker.NewCircuitBreaker(settings),
		logger: entry,
	}
}

func (n *Notifier) Notify(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := n.cb.Execute(func() (interface{}, error) {
		return n.sender.Send(tgbotapi.NewMessage(chatID, text))
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			n.logger.WithField("chat_id", chatID).Warn("Circuit breaker is open; skipping notification")
		}
		return err
	}

	n.logger.WithField("chat_id", chatID).Debug("Notification sent")
	return nil
}
