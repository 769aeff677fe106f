package notifier

import "context"

// Messenger delivers text and audio to one chat recipient.
type Messenger interface {
	Name() string
	Send(ctx context.Context, chatID, text string) error
	SendAudio(ctx context.Context, chatID, fileName string, audio []byte) error
}
