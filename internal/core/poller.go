package core

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PollStatus is the poller's view of one user's entitlement, exposed to the
// presentation layer.
type PollStatus struct {
	IsPremium    bool       `json:"isPremium"`
	Loading      bool       `json:"loading"`
	Err          string     `json:"error,omitempty"`
	LastVerified *time.Time `json:"lastVerified,omitempty"`
}

// StatusPoller re-runs entitlement verification for tracked users on a fixed
// interval: once immediately when tracking starts and then every interval
// until the user is untracked. Each tick is independent and its result
// simply overwrites the previous one, so a redundant run (e.g. a tick
// interleaving with payment finalization) converges to the same state.
type StatusPoller struct {
	entitlement EntitlementService
	interval    time.Duration
	logger      *zap.Logger

	mu       sync.Mutex
	sessions map[string]*pollSession
}

type pollSession struct {
	stop   chan struct{}
	status PollStatus
}

// NewStatusPoller creates a StatusPoller with the given verification interval.
func NewStatusPoller(entitlement EntitlementService, interval time.Duration, logger *zap.Logger) *StatusPoller {
	return &StatusPoller{
		entitlement: entitlement,
		interval:    interval,
		logger:      logger,
		sessions:    make(map[string]*pollSession),
	}
}

// Track starts polling for the user. Calling Track for an already-tracked
// user is a no-op; the existing loop keeps running.
func (p *StatusPoller) Track(userID string) {
	if userID == "" {
		return
	}

	p.mu.Lock()
	if _, ok := p.sessions[userID]; ok {
		p.mu.Unlock()
		return
	}
	sess := &pollSession{
		stop:   make(chan struct{}),
		status: PollStatus{Loading: true},
	}
	p.sessions[userID] = sess
	p.mu.Unlock()

	go p.loop(userID, sess.stop)
}

// Untrack stops polling for the user and resets their status to
// "not premium, not loading". Only future ticks are suppressed; a tick
// already in flight finishes and its result is discarded.
func (p *StatusPoller) Untrack(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sess, ok := p.sessions[userID]
	if !ok {
		return
	}
	close(sess.stop)
	delete(p.sessions, userID)
}

// Status returns the latest poll result for the user. The second return
// value reports whether the user is currently tracked; an untracked user
// reads as not premium, not loading.
func (p *StatusPoller) Status(userID string) (PollStatus, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sess, ok := p.sessions[userID]
	if !ok {
		return PollStatus{}, false
	}
	return sess.status, true
}

// StopAll stops every polling loop. Used on shutdown.
func (p *StatusPoller) StopAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for userID, sess := range p.sessions {
		close(sess.stop)
		delete(p.sessions, userID)
	}
}

func (p *StatusPoller) loop(userID string, stop chan struct{}) {
	p.tick(userID, stop)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.tick(userID, stop)
		}
	}
}

// tick runs one verification and overwrites the user's status. Verification
// failures never propagate: the entitlement service fails closed, and the
// one hard error (missing user document) is recorded in the status string.
func (p *StatusPoller) tick(userID string, stop chan struct{}) {
	// The verify call itself is not tied to the session lifetime: untracking
	// suppresses future ticks but never cancels in-flight work.
	result, err := p.entitlement.Verify(context.Background(), userID)

	status := PollStatus{
		IsPremium:    result.IsPremium,
		LastVerified: &result.LastVerified,
		Err:          result.Err,
	}
	if err != nil {
		p.logger.Warn("status poll tick failed", zap.String("userID", userID), zap.Error(err))
		status = PollStatus{Err: err.Error()}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	sess, ok := p.sessions[userID]
	if !ok {
		return // untracked while the tick was in flight
	}
	select {
	case <-stop:
		return
	default:
	}
	sess.status = status
}
