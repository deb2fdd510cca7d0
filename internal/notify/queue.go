// Package notify keeps the process-wide queue of transient status
// notifications the dashboard shows for in-flight operations. Any component
// may enqueue; only the originating flow updates a given entry.
package notify

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind is the notification flavor.
type Kind string

const (
	KindLoading Kind = "loading"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// Default auto-dismiss delays. Loading notifications never dismiss on their
// own; the originating flow resolves them.
const (
	SuccessDismissAfter = 5 * time.Second
	ErrorDismissAfter   = 8 * time.Second
	InfoDismissAfter    = 5 * time.Second
)

// Notification is one entry in the queue. The wire format is defined by
// notificationJSON below; AutoDismiss travels as whole milliseconds.
type Notification struct {
	ID          uuid.UUID
	Kind        Kind
	Title       string
	Message     string
	TxHash      string
	AutoDismiss time.Duration
	CreatedAt   time.Time
}

type notificationJSON struct {
	ID            uuid.UUID `json:"id"`
	Kind          Kind      `json:"kind"`
	Title         string    `json:"title"`
	Message       string    `json:"message,omitempty"`
	TxHash        string    `json:"transaction_hash,omitempty"`
	AutoDismissMS int64     `json:"auto_dismiss_ms,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// MarshalJSON implements json.Marshaler
func (n Notification) MarshalJSON() ([]byte, error) {
	return json.Marshal(notificationJSON{
		ID:            n.ID,
		Kind:          n.Kind,
		Title:         n.Title,
		Message:       n.Message,
		TxHash:        n.TxHash,
		AutoDismissMS: n.AutoDismiss.Milliseconds(),
		CreatedAt:     n.CreatedAt,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (n *Notification) UnmarshalJSON(data []byte) error {
	var aux notificationJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*n = Notification{
		ID:          aux.ID,
		Kind:        aux.Kind,
		Title:       aux.Title,
		Message:     aux.Message,
		TxHash:      aux.TxHash,
		AutoDismiss: time.Duration(aux.AutoDismissMS) * time.Millisecond,
		CreatedAt:   aux.CreatedAt,
	}
	return nil
}

// Update mutates an existing entry in place.
type Update struct {
	Kind    Kind
	Title   string
	Message string
	TxHash  string
	// AutoDismiss of zero keeps the entry until dismissed manually.
	AutoDismiss time.Duration
}

type entry struct {
	n     Notification
	seq   int64
	timer *time.Timer
}

// Queue is an in-memory ordered notification list with per-entry
// auto-dismiss timers and subscriber fan-out.
type Queue struct {
	mu          sync.Mutex
	entries     map[uuid.UUID]*entry
	nextSeq     int64
	subscribers map[int]chan Notification
	nextSubID   int
}

// NewQueue creates an empty notification queue
func NewQueue() *Queue {
	return &Queue{
		entries:     make(map[uuid.UUID]*entry),
		subscribers: make(map[int]chan Notification),
	}
}

// Push enqueues a notification and returns its id. autoDismiss of zero
// means the entry stays until updated or dismissed.
func (q *Queue) Push(kind Kind, title, message string, autoDismiss time.Duration) uuid.UUID {
	n := Notification{
		ID:          uuid.New(),
		Kind:        kind,
		Title:       title,
		Message:     message,
		AutoDismiss: autoDismiss,
		CreatedAt:   time.Now(),
	}

	q.mu.Lock()
	e := &entry{n: n, seq: q.nextSeq}
	q.nextSeq++
	q.entries[n.ID] = e
	q.scheduleDismissLocked(e, autoDismiss)
	q.publishLocked(n)
	q.mu.Unlock()

	return n.ID
}

// Loading enqueues a loading notification with no auto-dismiss.
func (q *Queue) Loading(title, message string) uuid.UUID {
	return q.Push(KindLoading, title, message, 0)
}

// Warning enqueues a standing warning with no auto-dismiss.
func (q *Queue) Warning(title, message string) uuid.UUID {
	return q.Push(KindWarning, title, message, 0)
}

// Resolve updates an entry in place. Updating the same id twice leaves a
// single entry reflecting the latest update. Unknown ids are ignored (the
// entry may have been dismissed already).
func (q *Queue) Resolve(id uuid.UUID, update Update) bool {
	q.mu.Lock()
	e, ok := q.entries[id]
	if !ok {
		q.mu.Unlock()
		return false
	}

	e.n.Kind = update.Kind
	e.n.Title = update.Title
	e.n.Message = update.Message
	if update.TxHash != "" {
		e.n.TxHash = update.TxHash
	}
	e.n.AutoDismiss = update.AutoDismiss
	q.scheduleDismissLocked(e, update.AutoDismiss)
	q.publishLocked(e.n)
	q.mu.Unlock()

	return true
}

// Dismiss removes an entry immediately.
func (q *Queue) Dismiss(id uuid.UUID) bool {
	q.mu.Lock()
	e, ok := q.entries[id]
	if ok {
		if e.timer != nil {
			e.timer.Stop()
		}
		delete(q.entries, id)
	}
	q.mu.Unlock()
	return ok
}

// List returns a snapshot of the queue in insertion order. Values are
// copied under the lock; entries mutated afterwards do not leak in.
func (q *Queue) List() []Notification {
	type item struct {
		seq int64
		n   Notification
	}

	q.mu.Lock()
	items := make([]item, 0, len(q.entries))
	for _, e := range q.entries {
		items = append(items, item{seq: e.seq, n: e.n})
	}
	q.mu.Unlock()

	sort.Slice(items, func(i, j int) bool { return items[i].seq < items[j].seq })
	result := make([]Notification, len(items))
	for i, it := range items {
		result[i] = it.n
	}
	return result
}

// Len reports the number of live entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Subscribe registers for notification changes. Slow subscribers miss
// updates rather than blocking the queue.
func (q *Queue) Subscribe() (<-chan Notification, func()) {
	q.mu.Lock()
	defer q.mu.Unlock()

	id := q.nextSubID
	q.nextSubID++
	ch := make(chan Notification, 16)
	q.subscribers[id] = ch

	cancel := func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		if sub, ok := q.subscribers[id]; ok {
			delete(q.subscribers, id)
			close(sub)
		}
	}
	return ch, cancel
}

// scheduleDismissLocked arms (or disarms) the entry's auto-dismiss timer.
// Caller holds q.mu.
func (q *Queue) scheduleDismissLocked(e *entry, after time.Duration) {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	if after <= 0 {
		return
	}
	id := e.n.ID
	e.timer = time.AfterFunc(after, func() {
		q.Dismiss(id)
	})
}

// publishLocked fans out to subscribers without blocking. Caller holds
// q.mu, which serializes every send against cancel's close of the channel.
func (q *Queue) publishLocked(n Notification) {
	for _, ch := range q.subscribers {
		select {
		case ch <- n:
		default:
		}
	}
}
