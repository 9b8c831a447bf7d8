package config

import "sync"

// AdminList holds the set of administrator identities. It replaces the
// old habit of keeping admin IDs in a mutable package variable: callers
// receive an explicit object and mutations go through guarded methods.
type AdminList struct {
	mu  sync.RWMutex
	ids map[int64]struct{}
}

func NewAdminList(ids []int64) *AdminList {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return &AdminList{ids: set}
}

// IsAdmin reports whether userID is registered as an administrator.
func (a *AdminList) IsAdmin(userID int64) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.ids[userID]
	return ok
}

// Add registers a new administrator. Returns false if already present.
func (a *AdminList) Add(userID int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.ids[userID]; ok {
		return false
	}
	a.ids[userID] = struct{}{}
	return true
}

// Remove deletes an administrator. Returns false if not present.
func (a *AdminList) Remove(userID int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.ids[userID]; !ok {
		return false
	}
	delete(a.ids, userID)
	return true
}

// All returns the registered administrator IDs.
func (a *AdminList) All() []int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]int64, 0, len(a.ids))
	for id := range a.ids {
		out = append(out, id)
	}
	return out
}
