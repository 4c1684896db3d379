package services

import (
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// breakerFailures consecutive failures open the circuit for breakerCooldown.
const (
	breakerFailures = 5
	breakerCooldown = time.Minute
)

func newBreaker(name string, log *zap.Logger) *gobreaker.CircuitBreaker[struct{}] {
	return gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     breakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("[notify][breaker] state change",
				zap.String("channel", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

type breakerEmail struct {
	inner EmailSender
	cb    *gobreaker.CircuitBreaker[struct{}]
}

// WithEmailBreaker stops calling a failing SMTP server until the cooldown
// passes; calls made while open fail with gobreaker.ErrOpenState.
func WithEmailBreaker(inner EmailSender, log *zap.Logger) EmailSender {
	return &breakerEmail{inner: inner, cb: newBreaker("email", log)}
}

func (b *breakerEmail) SendWelcomeEmail(email, username string) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.inner.SendWelcomeEmail(email, username)
	})
	return err
}

func (b *breakerEmail) SendNotification(email, content string) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.inner.SendNotification(email, content)
	})
	return err
}

type breakerTelegram struct {
	inner TelegramSender
	cb    *gobreaker.CircuitBreaker[struct{}]
}

func WithTelegramBreaker(inner TelegramSender, log *zap.Logger) TelegramSender {
	return &breakerTelegram{inner: inner, cb: newBreaker("telegram", log)}
}

func (b *breakerTelegram) SendMessage(chatID int64, text string) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.inner.SendMessage(chatID, text)
	})
	return err
}
