package services

import (
	"sync"
	"time"
)

// UploadStatus represents the state of one cover-image upload.
type UploadStatus string

const (
	UploadPending   UploadStatus = "pending"
	UploadRunning   UploadStatus = "uploading"
	UploadCompleted UploadStatus = "completed"
	UploadFailed    UploadStatus = "failed"
)

// UploadProgress is a single progress update, Percent in 0-100.
type UploadProgress struct {
	Status    UploadStatus `json:"status"`
	Percent   int          `json:"percent"`
	Message   string       `json:"message,omitempty"`
	URL       string       `json:"url,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// Done reports whether no further updates will follow.
func (u UploadProgress) Done() bool {
	return u.Status == UploadCompleted || u.Status == UploadFailed
}

// UploadTracker fans progress updates out to subscribers.
type UploadTracker struct {
	mu        sync.RWMutex
	current   UploadProgress
	listeners []chan UploadProgress
}

// NewUploadTracker creates a tracker in the pending state.
func NewUploadTracker() *UploadTracker {
	return &UploadTracker{
		current: UploadProgress{Status: UploadPending, Timestamp: time.Now()},
	}
}

// Update replaces the current progress and notifies all listeners.
func (t *UploadTracker) Update(update UploadProgress) {
	t.mu.Lock()
	update.Timestamp = time.Now()
	t.current = update

	for _, listener := range t.listeners {
		select {
		case listener <- update:
		default:
			// Skip if channel is full
		}
	}
	t.mu.Unlock()
}

// SetPercent reports transfer progress while an upload is running.
func (t *UploadTracker) SetPercent(pct int) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	t.Update(UploadProgress{Status: UploadRunning, Percent: pct})
}

// Complete marks the upload finished with its durable public URL.
func (t *UploadTracker) Complete(url string) {
	t.Update(UploadProgress{Status: UploadCompleted, Percent: 100, URL: url})
}

// Fail marks the upload failed.
func (t *UploadTracker) Fail(message string) {
	t.mu.RLock()
	pct := t.current.Percent
	t.mu.RUnlock()
	t.Update(UploadProgress{Status: UploadFailed, Percent: pct, Message: message})
}

// Current returns the latest progress.
func (t *UploadTracker) Current() UploadProgress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// Subscribe returns a channel that receives every subsequent update, primed
// with the current state.
func (t *UploadTracker) Subscribe() chan UploadProgress {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan UploadProgress, 16)
	t.listeners = append(t.listeners, ch)
	ch <- t.current
	return ch
}

// Unsubscribe removes and closes a listener channel.
func (t *UploadTracker) Unsubscribe(ch chan UploadProgress) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, listener := range t.listeners {
		if listener == ch {
			t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
			close(ch)
			break
		}
	}
}

// UploadRegistry hands out trackers keyed by upload id so the admin UI can
// watch an upload it started on another request.
type UploadRegistry struct {
	mu       sync.Mutex
	trackers map[string]*UploadTracker
}

func NewUploadRegistry() *UploadRegistry {
	return &UploadRegistry{trackers: make(map[string]*UploadTracker)}
}

// GetOrCreate returns the tracker registered under id, creating a pending one
// if none exists yet. The progress stream and the form POST race for the same
// id; whichever arrives first must see the same tracker the other uses.
func (r *UploadRegistry) GetOrCreate(id string) *UploadTracker {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trackers[id]
	if !ok {
		t = NewUploadTracker()
		r.trackers[id] = t
	}
	return t
}

// Get returns the tracker for id, or nil.
func (r *UploadRegistry) Get(id string) *UploadTracker {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.trackers[id]
}

// Remove drops the registry entry. Existing subscribers keep their channels.
func (r *UploadRegistry) Remove(id string) {
	r.mu.Lock()
	delete(r.trackers, id)
	r.mu.Unlock()
}
