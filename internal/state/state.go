package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// DeliveryState remembers which email window each holder was last served in.
type DeliveryState struct {
	Emailed   map[string]string `json:"emailed"` // holder -> window key
	LastRunID string            `json:"last_run_id"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// LoadState reads the state from a JSON file. Returns a zero state if the file doesn't exist.
func LoadState(filePath string) (*DeliveryState, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &DeliveryState{Emailed: map[string]string{}}, nil
		}
		return nil, err
	}
	var st DeliveryState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	if st.Emailed == nil {
		st.Emailed = map[string]string{}
	}
	return &st, nil
}

// SaveState writes the state to a JSON file.
func SaveState(filePath string, st *DeliveryState) error {
	st.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(filePath, data, 0644)
}
