package suggestions

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"parallax/pkg/client"
)

const dotfileName = ".parallax_dismissed.json"

// Tracker remembers which cards the user dismissed so they never resurface,
// even across restarts. Cards are keyed by header and text; the display id
// changes on every receipt and is useless for this.
type Tracker struct {
	mu   sync.Mutex
	path string
	keys map[string]bool
}

func key(c client.Card) string {
	return c.Header + "|||" + c.Text
}

// NewTracker loads the dismissed set from path. A missing or unreadable file
// yields an empty tracker; dismissal history is best-effort state.
func NewTracker(path string) *Tracker {
	t := &Tracker{path: path, keys: make(map[string]bool)}
	data, err := os.ReadFile(path)
	if err != nil {
		return t
	}
	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return t
	}
	for _, k := range keys {
		t.keys[k] = true
	}
	return t
}

// LoadDefault opens the tracker at its conventional home-directory location.
func LoadDefault() *Tracker {
	home, err := os.UserHomeDir()
	if err != nil {
		return NewTracker(dotfileName)
	}
	return NewTracker(filepath.Join(home, dotfileName))
}

// Dismiss records the card and persists the set. The write error is returned
// but the in-memory state is updated regardless.
func (t *Tracker) Dismiss(c client.Card) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.keys[key(c)] = true
	return t.save()
}

func (t *Tracker) IsDismissed(c client.Card) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.keys[key(c)]
}

// Filter drops previously dismissed cards from a batch.
func (t *Tracker) Filter(cards []client.Card) []client.Card {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]client.Card, 0, len(cards))
	for _, c := range cards {
		if !t.keys[key(c)] {
			out = append(out, c)
		}
	}
	return out
}

func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.keys)
}

func (t *Tracker) save() error {
	keys := make([]string, 0, len(t.keys))
	for k := range t.keys {
		keys = append(keys, k)
	}
	data, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(t.path, data, 0o644)
}
