package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sandeepkv93/tasklog/internal/model"
)

const StateFileName = "timer_state.json"

// StateFile persists the timer state between runs.
type StateFile struct {
	path string
}

func NewStateFile(path string) *StateFile {
	return &StateFile{path: strings.TrimSpace(path)}
}

func (f *StateFile) Path() string {
	return f.path
}

// Load returns an empty state when the file does not exist or is blank.
func (f *StateFile) Load() (model.TimerState, error) {
	if f.path == "" {
		return model.TimerState{}, nil
	}
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.TimerState{}, nil
		}
		return model.TimerState{}, err
	}
	if strings.TrimSpace(string(raw)) == "" {
		return model.TimerState{}, nil
	}
	var state model.TimerState
	if err := json.Unmarshal(raw, &state); err != nil {
		return model.TimerState{}, fmt.Errorf("decode timer state: %w", err)
	}
	return state, nil
}

func (f *StateFile) Save(state model.TimerState) error {
	if f.path == "" {
		return nil
	}
	return writeJSONAtomic(f.path, state)
}
