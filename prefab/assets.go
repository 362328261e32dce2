package prefab

import "fmt"

// Handle identifies a stored snapshot, typically by its file path.
type Handle string

// EventKind classifies a change to a stored snapshot.
type EventKind uint8

const (
	EventCreated EventKind = iota
	EventModified
	EventRemoved
)

// Event notes a change to one stored snapshot.
type Event struct {
	Kind   EventKind
	Handle Handle
}

// Assets stores decoded snapshots by handle and keeps an append-only change
// log that EventReaders consume at their own pace.
type Assets struct {
	snapshots map[Handle]*Snapshot
	events    []Event
}

// NewAssets creates an empty snapshot store.
func NewAssets() *Assets {
	return &Assets{snapshots: make(map[Handle]*Snapshot)}
}

// Insert stores a snapshot, noting Created on first insert and Modified on
// replacement.
func (a *Assets) Insert(h Handle, snap *Snapshot) {
	kind := EventCreated
	if _, exists := a.snapshots[h]; exists {
		kind = EventModified
	}
	a.snapshots[h] = snap
	a.events = append(a.events, Event{Kind: kind, Handle: h})
}

// Get resolves a handle to its snapshot.
func (a *Assets) Get(h Handle) (*Snapshot, bool) {
	snap, ok := a.snapshots[h]
	return snap, ok
}

// Remove drops a snapshot and notes Removed. Removing an unknown handle is a
// no-op.
func (a *Assets) Remove(h Handle) {
	if _, exists := a.snapshots[h]; !exists {
		return
	}
	delete(a.snapshots, h)
	a.events = append(a.events, Event{Kind: EventRemoved, Handle: h})
}

// EventReader consumes the Assets change log. The position persists across
// reads, so no event is seen twice and none is skipped.
type EventReader struct {
	cursor int
}

// Read returns the events appended since the previous call.
func (r *EventReader) Read(a *Assets) []Event {
	events := a.events[r.cursor:]
	r.cursor = len(a.events)
	return events
}

// Loader decodes snapshot files into an Assets store.
type Loader struct {
	registry *Registry
	assets   *Assets
}

// NewLoader creates a loader that decodes against the given registry and
// stores into the given assets.
func NewLoader(registry *Registry, assets *Assets) *Loader {
	return &Loader{registry: registry, assets: assets}
}

// Load decodes file contents and stores the snapshot under the file path.
func (l *Loader) Load(path string, data []byte) (Handle, error) {
	if !HasExtension(path) {
		return "", fmt.Errorf("prefab loader: unrecognized extension on %q", path)
	}
	snap, err := Decode(l.registry, data)
	if err != nil {
		return "", err
	}
	h := Handle(path)
	l.assets.Insert(h, snap)
	return h, nil
}
