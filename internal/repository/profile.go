package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/andriihrytsai/nutrition-bot/internal/domain"
	"github.com/andriihrytsai/nutrition-bot/internal/logger"
)

const defaultPreferredMode = "ai"

// ProfileRepository keeps user profiles in a flat JSON file keyed by
// user id. Every mutation rewrites the whole file under the lock, via a
// temp file and rename. Profiles are created on first touch and never
// deleted. This store has its own consistency domain: callers must not
// assume atomicity between a profile mutation and a subscription
// mutation.
type ProfileRepository struct {
	path          string
	maxFreeTrials int

	mu       sync.Mutex
	profiles map[string]*domain.UserProfile
}

func NewProfileRepository(path string, maxFreeTrials int) *ProfileRepository {
	r := &ProfileRepository{
		path:          path,
		maxFreeTrials: maxFreeTrials,
		profiles:      make(map[string]*domain.UserProfile),
	}
	r.load()
	return r
}

func (r *ProfileRepository) load() {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Error("Failed to read profile file", "path", r.path, "error", err)
		}
		return
	}
	if err := json.Unmarshal(data, &r.profiles); err != nil {
		logger.Error("Profile file is corrupt, starting empty", "path", r.path, "error", err)
		r.profiles = make(map[string]*domain.UserProfile)
	}
}

// save rewrites the whole file. Caller must hold the lock.
func (r *ProfileRepository) save() {
	data, err := json.MarshalIndent(r.profiles, "", "  ")
	if err != nil {
		logger.Error("Failed to encode profiles", "error", err)
		return
	}

	tmp := r.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		logger.Error("Failed to create profile dir", "error", err)
		return
	}
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		logger.Error("Failed to write profile file", "error", err)
		return
	}
	if err := os.Rename(tmp, r.path); err != nil {
		logger.Error("Failed to replace profile file", "error", err)
	}
}

// getLocked returns the profile, creating it on first touch. Caller
// must hold the lock.
func (r *ProfileRepository) getLocked(userID int64) *domain.UserProfile {
	key := strconv.FormatInt(userID, 10)
	if p, ok := r.profiles[key]; ok {
		return p
	}

	p := &domain.UserProfile{
		UserID:        userID,
		CreatedAt:     time.Now(),
		MaxFreeTrials: r.maxFreeTrials,
		PreferredMode: defaultPreferredMode,
	}
	r.profiles[key] = p
	r.save()
	return p
}

// Get returns a copy of the user's profile, creating it if absent.
func (r *ProfileRepository) Get(userID int64) *domain.UserProfile {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *r.getLocked(userID)
	return &copy
}

// Upsert applies mutate to the profile and persists the file. Returns a
// copy of the updated record.
func (r *ProfileRepository) Upsert(userID int64, mutate func(*domain.UserProfile)) *domain.UserProfile {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.getLocked(userID)
	mutate(p)
	r.save()

	copy := *p
	return &copy
}

// All returns copies of every profile, ordered by user id.
func (r *ProfileRepository) All() []*domain.UserProfile {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.UserProfile, 0, len(r.profiles))
	for _, p := range r.profiles {
		copy := *p
		out = append(out, &copy)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}
