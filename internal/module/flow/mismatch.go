package flow

import (
	"github.com/google/uuid"

	"github.com/stellarhub/defihub/internal/notify"
	"github.com/stellarhub/defihub/internal/wallet"
)

// WatchSessions keeps one standing network-mismatch warning in sync with
// the wallet session: pushed when a transition reports a mismatch,
// dismissed when it clears. Returns when the session channel closes.
func WatchSessions(sessions <-chan wallet.Session, queue *notify.Queue) {
	var warnID uuid.UUID
	active := false

	for s := range sessions {
		switch {
		case s.NetworkMismatch && !active:
			warnID = queue.Warning("Wrong network",
				"The wallet is connected to a different network. Submissions are blocked until it matches.")
			active = true
		case !s.NetworkMismatch && active:
			queue.Dismiss(warnID)
			active = false
		}
	}
}
