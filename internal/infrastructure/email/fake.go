package email

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rlunar/ionize/internal/notify"
)

// FakeMailer records messages instead of delivering them. Used in tests and
// as the default transport in dev.
type FakeMailer struct {
	mu   sync.Mutex
	sent []notify.Message

	// Err, when set, is returned by every Send.
	Err error

	lg zerolog.Logger
}

func NewFakeMailer(lg zerolog.Logger) *FakeMailer {
	return &FakeMailer{lg: lg.With().Str("component", "fake_mailer").Logger()}
}

func (f *FakeMailer) Send(ctx context.Context, msg notify.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}
	f.sent = append(f.sent, msg)
	f.lg.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("fake mailer: recorded")
	return nil
}

// Sent returns a copy of the recorded messages.
func (f *FakeMailer) Sent() []notify.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notify.Message(nil), f.sent...)
}
