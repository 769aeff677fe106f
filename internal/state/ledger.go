package state

import (
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Ledger guards the delivery state so each holder gets at most one email per window.
type Ledger struct {
	mu       sync.Mutex
	state    *DeliveryState
	filePath string
}

// NewLedger loads or initializes the ledger at filePath.
func NewLedger(filePath string) (*Ledger, error) {
	st, err := LoadState(filePath)
	if err != nil {
		return nil, fmt.Errorf("load delivery state: %w", err)
	}
	return &Ledger{state: st, filePath: filePath}, nil
}

// WindowKey identifies the email window containing t (date plus hour).
func WindowKey(t time.Time) string {
	return t.Format("2006-01-02T15")
}

// EmailDue reports whether holder has not yet been emailed in the window containing t.
func (l *Ledger) EmailDue(holder string, t time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.Emailed[holder] != WindowKey(t)
}

// MarkEmailed records a successful email for holder in the window containing t.
func (l *Ledger) MarkEmailed(holder string, t time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.state.Emailed[holder] = WindowKey(t)
	if err := l.save(); err != nil {
		log.Errorf("failed to save delivery state: %v", err)
	}
}

// MarkRun records the id of the latest completed run.
func (l *Ledger) MarkRun(runID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.state.LastRunID = runID
	if err := l.save(); err != nil {
		log.Errorf("failed to save delivery state: %v", err)
	}
}

// Snapshot returns a copy of the current state.
func (l *Ledger) Snapshot() DeliveryState {
	l.mu.Lock()
	defer l.mu.Unlock()

	cp := *l.state
	cp.Emailed = make(map[string]string, len(l.state.Emailed))
	for k, v := range l.state.Emailed {
		cp.Emailed[k] = v
	}
	return cp
}

func (l *Ledger) save() error {
	return SaveState(l.filePath, l.state)
}
