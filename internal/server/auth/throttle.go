package auth

import (
	"net"
	"strings"
	"sync"
	"time"
)

type attemptWindow struct {
	windowStart  time.Time
	count        int
	blockedUntil time.Time
}

// Throttle limits login attempts per peer: more than MaxAttempts inside
// Window blocks the peer for Block. A successful login resets the peer.
type Throttle struct {
	MaxAttempts int
	Window      time.Duration
	Block       time.Duration

	now func() time.Time

	mu     sync.Mutex
	byPeer map[string]*attemptWindow
}

func NewThrottle(maxAttempts int, window, block time.Duration) *Throttle {
	return &Throttle{
		MaxAttempts: maxAttempts,
		Window:      window,
		Block:       block,
		now:         time.Now,
		byPeer:      map[string]*attemptWindow{},
	}
}

// PeerKey reduces a remote address to its host.
func PeerKey(remoteAddr string) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(remoteAddr))
	if err != nil || host == "" {
		return strings.TrimSpace(remoteAddr)
	}
	return host
}

// Allow records an attempt from peer. When the peer is blocked it returns
// false and how long until it may retry.
func (t *Throttle) Allow(peer string) (bool, time.Duration) {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	w := t.byPeer[peer]
	if w == nil {
		w = &attemptWindow{}
		t.byPeer[peer] = w
	}

	if now.Before(w.blockedUntil) {
		return false, w.blockedUntil.Sub(now)
	}
	if w.windowStart.IsZero() || now.Sub(w.windowStart) > t.Window {
		w.windowStart = now
		w.count = 0
	}

	w.count++
	if w.count > t.MaxAttempts {
		w.blockedUntil = now.Add(t.Block)
		return false, t.Block
	}
	return true, 0
}

func (t *Throttle) Reset(peer string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.byPeer, peer)
}

// Sweep drops peers whose window and block have both lapsed.
func (t *Throttle) Sweep() int {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for peer, w := range t.byPeer {
		if now.Sub(w.windowStart) > t.Window && !now.Before(w.blockedUntil) {
			delete(t.byPeer, peer)
			removed++
		}
	}
	return removed
}
