package notify

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_PushAndList(t *testing.T) {
	q := NewQueue()

	first := q.Loading("Swapping", "10 XLM for USDC")
	second := q.Warning("Wrong network", "switch your wallet to testnet")

	list := q.List()
	require.Len(t, list, 2)
	assert.Equal(t, first, list[0].ID)
	assert.Equal(t, KindLoading, list[0].Kind)
	assert.Equal(t, second, list[1].ID)
	assert.Equal(t, KindWarning, list[1].Kind)
}

func TestQueue_ResolveUpdatesInPlace(t *testing.T) {
	q := NewQueue()
	id := q.Loading("Borrowing", "100 USDC")

	ok := q.Resolve(id, Update{
		Kind:        KindSuccess,
		Title:       "Borrow confirmed",
		TxHash:      "abc123",
		AutoDismiss: time.Minute,
	})
	require.True(t, ok)

	list := q.List()
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, KindSuccess, list[0].Kind)
	assert.Equal(t, "abc123", list[0].TxHash)
}

func TestQueue_ResolveTwiceLeavesSingleLatestEntry(t *testing.T) {
	q := NewQueue()
	id := q.Loading("Supplying", "5 XLM")

	require.True(t, q.Resolve(id, Update{Kind: KindError, Title: "Supply failed", Message: "simulation error"}))
	require.True(t, q.Resolve(id, Update{Kind: KindSuccess, Title: "Supply confirmed", TxHash: "ff00"}))

	list := q.List()
	require.Len(t, list, 1, "never duplicated")
	assert.Equal(t, KindSuccess, list[0].Kind)
	assert.Equal(t, "Supply confirmed", list[0].Title)
}

func TestQueue_ResolveUnknownID(t *testing.T) {
	q := NewQueue()
	assert.False(t, q.Resolve(uuid.New(), Update{Kind: KindSuccess}))
}

func TestQueue_Dismiss(t *testing.T) {
	q := NewQueue()
	id := q.Loading("Staking", "1 BLND")

	assert.True(t, q.Dismiss(id))
	assert.False(t, q.Dismiss(id), "second dismiss is a no-op")
	assert.Equal(t, 0, q.Len())
}

func TestQueue_AutoDismissTimerElapses(t *testing.T) {
	q := NewQueue()
	q.Push(KindSuccess, "Swap confirmed", "", 20*time.Millisecond)

	require.Eventually(t, func() bool { return q.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestQueue_LoadingNeverAutoDismisses(t *testing.T) {
	q := NewQueue()
	q.Loading("Swapping", "")

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, q.Len())
}

func TestQueue_ResolveRearmsTimer(t *testing.T) {
	q := NewQueue()
	id := q.Loading("Withdrawing", "")

	q.Resolve(id, Update{Kind: KindSuccess, Title: "Withdraw confirmed", AutoDismiss: 20 * time.Millisecond})
	require.Eventually(t, func() bool { return q.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestQueue_SubscribersSeeLifecycle(t *testing.T) {
	q := NewQueue()
	ch, cancel := q.Subscribe()
	defer cancel()

	id := q.Loading("Swapping", "")
	q.Resolve(id, Update{Kind: KindError, Title: "Swap failed", Message: "user rejected"})

	first := <-ch
	assert.Equal(t, KindLoading, first.Kind)
	second := <-ch
	assert.Equal(t, id, second.ID)
	assert.Equal(t, KindError, second.Kind)
}

func TestQueue_CancelDuringPublishDoesNotPanic(t *testing.T) {
	q := NewQueue()

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				q.Push(KindInfo, "Refreshing", "", 0)
			}
		}
	}()

	// Subscribers appear and cancel while pushes are in flight. A publish
	// must never land on a channel cancel has already closed.
	for i := 0; i < 500; i++ {
		ch, cancel := q.Subscribe()
		go func() {
			for range ch {
			}
		}()
		cancel()
	}
	close(stop)
	wg.Wait()
}

func TestQueue_ListSnapshotIsStable(t *testing.T) {
	q := NewQueue()
	id := q.Loading("Swapping", "")

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				q.Resolve(id, Update{Kind: KindSuccess, Title: "Swap confirmed"})
				q.Resolve(id, Update{Kind: KindLoading, Title: "Swapping"})
			}
		}
	}()

	for i := 0; i < 500; i++ {
		for _, n := range q.List() {
			// A snapshot entry is internally consistent even while the
			// live entry keeps changing underneath.
			switch n.Kind {
			case KindLoading:
				assert.Equal(t, "Swapping", n.Title)
			case KindSuccess:
				assert.Equal(t, "Swap confirmed", n.Title)
			}
		}
	}
	close(stop)
	wg.Wait()
}

func TestNotification_AutoDismissWireFormatIsMilliseconds(t *testing.T) {
	n := Notification{
		ID:          uuid.New(),
		Kind:        KindSuccess,
		Title:       "Swap confirmed",
		AutoDismiss: 5 * time.Second,
	}

	raw, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"auto_dismiss_ms":5000`)

	var back Notification
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, 5*time.Second, back.AutoDismiss)
	assert.Equal(t, n.ID, back.ID)
}
