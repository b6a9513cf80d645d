// Package playback implements the reward-eligible playback state machine.
//
// A session moves select → playing → eligible → credited; close and a
// superseding select discard it uncredited from any state. Time advances
// only through Tick, one second per call, so the machine is deterministic
// and the 1 Hz cadence lives entirely in the Driver.
package playback

import (
	"errors"
	"strconv"
	"sync"

	"github.com/ypk/pubflix/internal/catalog"
	"github.com/ypk/pubflix/internal/eventlog"
	"github.com/ypk/pubflix/internal/ledger"
	"github.com/ypk/pubflix/internal/model"
	"github.com/ypk/pubflix/internal/sse"
)

// ErrNotEligible is returned by Claim before the countdown has elapsed or
// when no session is active.
var ErrNotEligible = errors.New("view not eligible for reward yet")

// State of the current session. Credited is a transient step inside Claim
// and never observable from outside.
type State string

const (
	StateIdle     State = "idle"
	StatePlaying  State = "playing"
	StateEligible State = "eligible"
)

// Status is the presentation view of the player.
type Status struct {
	State            State             `json:"state"`
	Ad               *model.AdSnapshot `json:"ad,omitempty"`
	RemainingSeconds int               `json:"remaining_seconds"`
}

// Player holds at most one session at a time. The ledger and event log are
// collaborators; the player owns no persistent state of its own. Safe for
// concurrent use (the tick driver and HTTP handlers share it).
type Player struct {
	mu        sync.Mutex
	ledger    *ledger.Ledger
	events    *eventlog.Log
	hub       *sse.Hub
	state     State
	ad        model.AdSnapshot
	remaining int
}

// New creates an idle player. hub may be nil when no UI stream is wanted.
func New(l *ledger.Ledger, events *eventlog.Log, hub *sse.Hub) *Player {
	return &Player{ledger: l, events: events, hub: hub, state: StateIdle}
}

// Select starts a session for ad, capturing an immutable snapshot. Any
// in-flight session is discarded uncredited first; Select never fails.
func (p *Player) Select(ad model.Ad) Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ad = ad.Snapshot()
	// Select never fails: missing numeric fields take the catalog defaults.
	if p.ad.DurationSeconds <= 0 {
		p.ad.DurationSeconds = catalog.DefaultDurationSeconds
	}
	if p.ad.RewardPoints < 0 {
		p.ad.RewardPoints = catalog.DefaultRewardPoints
	}
	p.state = StatePlaying
	p.remaining = p.ad.DurationSeconds

	p.events.Append(eventlog.ViewStarted, map[string]string{
		"ad_id": strconv.FormatInt(p.ad.AdID, 10),
		"title": p.ad.Title,
	})

	st := p.statusLocked()
	p.publish(st)
	return st
}

// Tick advances the countdown by one second. Outside of playing it is a
// no-op, which keeps a late driver tick harmless.
func (p *Player) Tick() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StatePlaying {
		return p.statusLocked()
	}
	p.remaining--
	if p.remaining <= 0 {
		p.remaining = 0
		p.state = StateEligible
	}

	st := p.statusLocked()
	p.publish(st)
	return st
}

// Claim credits the ledger with the session snapshot and ends the session.
// It fails with ErrNotEligible while the countdown is still running or when
// nothing is selected; a session can be credited at most once because the
// claim itself resets the machine.
func (p *Player) Claim() (model.UserLedger, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateEligible {
		return model.UserLedger{}, ErrNotEligible
	}
	snap := p.ad

	user, err := p.ledger.Credit(snap)
	if err != nil {
		return model.UserLedger{}, err
	}

	p.events.Append(eventlog.ViewCompleted, map[string]string{
		"ad_id":  strconv.FormatInt(snap.AdID, 10),
		"title":  snap.Title,
		"reward": strconv.Itoa(snap.RewardPoints),
	})

	p.reset()
	p.publish(p.statusLocked())
	return user, nil
}

// Close discards the session without crediting. Valid from any state and
// idempotent: closing an absent session is a no-op.
func (p *Player) Close() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.reset()
	st := p.statusLocked()
	p.publish(st)
	return st
}

// Status reports the current session for display layers and the driver.
func (p *Player) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.statusLocked()
}

func (p *Player) reset() {
	p.state = StateIdle
	p.ad = model.AdSnapshot{}
	p.remaining = 0
}

func (p *Player) statusLocked() Status {
	st := Status{State: p.state, RemainingSeconds: p.remaining}
	if p.state != StateIdle {
		snap := p.ad
		st.Ad = &snap
	}
	return st
}

func (p *Player) publish(st Status) {
	if p.hub == nil {
		return
	}
	u := sse.Update{State: string(st.State), RemainingSeconds: st.RemainingSeconds}
	if st.Ad != nil {
		u.AdTitle = st.Ad.Title
		u.RewardPoints = st.Ad.RewardPoints
	}
	p.hub.Publish(u)
}
