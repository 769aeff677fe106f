package notifier

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// BreakerMessenger fails fast once the wrapped chat API keeps failing.
type BreakerMessenger struct {
	next Messenger
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker trips after `failures` consecutive errors and probes again after cooldown.
func WithBreaker(next Messenger, failures uint32, cooldown time.Duration) *BreakerMessenger {
	st := gobreaker.Settings{
		Name:    next.Name(),
		Timeout: cooldown,
	}
	st.ReadyToTrip = func(counts gobreaker.Counts) bool { return counts.ConsecutiveFailures >= failures }
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		log.WithField("messenger", name).Warnf("circuit breaker %s -> %s", from, to)
	}
	return &BreakerMessenger{next: next, cb: gobreaker.NewCircuitBreaker(st)}
}

func (b *BreakerMessenger) Name() string { return b.next.Name() }

func (b *BreakerMessenger) Send(ctx context.Context, chatID, text string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Send(ctx, chatID, text)
	})
	return err
}

func (b *BreakerMessenger) SendAudio(ctx context.Context, chatID, fileName string, audio []byte) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.SendAudio(ctx, chatID, fileName, audio)
	})
	return err
}

// State exposes the breaker state for status replies.
func (b *BreakerMessenger) State() gobreaker.State { return b.cb.State() }
