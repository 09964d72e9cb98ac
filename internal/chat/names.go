package chat

import (
	"strconv"
	"sync"
)

const defaultNameLabel = "Anon"

// Names is the set of display names held by live sessions.
type Names struct {
	label string

	mu      sync.Mutex
	counter uint64
	taken   map[string]struct{}
}

func NewNames(label string) *Names {
	if label == "" {
		label = defaultNameLabel
	}
	return &Names{
		label: label,
		taken: make(map[string]struct{}),
	}
}

// AssignUnique reserves and returns label+N for the first counter value
// whose name is free. Names claimed through Rename are skipped.
func (n *Names) AssignUnique() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	for {
		n.counter++
		name := n.label + strconv.FormatUint(n.counter, 10)
		if _, ok := n.taken[name]; !ok {
			n.taken[name] = struct{}{}
			return name
		}
	}
}

// Rename reserves newName. The old name stays reserved; the caller releases
// it, typically on disconnect.
func (n *Names) Rename(oldName, newName string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.taken[newName]; ok {
		return false
	}
	n.taken[newName] = struct{}{}
	return true
}

// Release frees name. Releasing a free name is a no-op.
func (n *Names) Release(name string) {
	n.mu.Lock()
	delete(n.taken, name)
	n.mu.Unlock()
}

func (n *Names) Taken(name string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.taken[name]
	return ok
}

func (n *Names) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.taken)
}
