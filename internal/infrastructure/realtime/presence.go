package realtime

import (
	"slices"
	"sync"
)

// Presence tracks which users are currently connected to which channel's
// live session. It is ephemeral by design: entries exist only while a
// session holds them and the whole registry is lost on restart. Presence is
// advisory and must never be used as an authorization source; admission is
// always re-derived from durable membership state.
//
// One Presence instance is constructed per process and injected into every
// consumer. All operations are atomic with respect to each other; join and
// leave are idempotent and never fail.
type Presence struct {
	mu      sync.RWMutex
	members map[int64]map[int64]struct{} // channelID -> set of userIDs
}

// NewPresence constructs an empty registry.
func NewPresence() *Presence {
	return &Presence{members: make(map[int64]map[int64]struct{})}
}

// Join adds userID to the channel's presence set and returns the resulting
// membership snapshot. Joining twice is a no-op beyond returning the
// current snapshot.
func (p *Presence) Join(channelID, userID int64) []int64 {
	p.mu.Lock()
	set := p.members[channelID]
	if set == nil {
		set = make(map[int64]struct{})
		p.members[channelID] = set
	}
	set[userID] = struct{}{}
	snapshot := collect(set)
	p.mu.Unlock()
	return snapshot
}

// Leave removes userID from the channel's presence set and returns the
// resulting snapshot. Removing an absent user is a no-op. The channel entry
// is evicted once its set drains, so an idle registry holds no memory for
// past channels.
func (p *Presence) Leave(channelID, userID int64) []int64 {
	p.mu.Lock()
	set := p.members[channelID]
	if set == nil {
		p.mu.Unlock()
		return []int64{}
	}
	delete(set, userID)
	if len(set) == 0 {
		delete(p.members, channelID)
		p.mu.Unlock()
		return []int64{}
	}
	snapshot := collect(set)
	p.mu.Unlock()
	return snapshot
}

// Snapshot returns the current members of the channel. Unknown channels
// yield an empty slice, never an error.
func (p *Presence) Snapshot(channelID int64) []int64 {
	p.mu.RLock()
	snapshot := collect(p.members[channelID])
	p.mu.RUnlock()
	return snapshot
}

func collect(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
