package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andriihrytsai/nutrition-bot/internal/domain"
)

func newTestProfiles(t *testing.T) (*ProfileRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	return NewProfileRepository(path, 2), path
}

func TestGetCreatesProfileWithDefaults(t *testing.T) {
	repo, path := newTestProfiles(t)

	p := repo.Get(100)
	assert.Equal(t, int64(100), p.UserID)
	assert.Equal(t, 2, p.MaxFreeTrials)
	assert.Equal(t, 0, p.FreeTrialsUsed)
	assert.Equal(t, 2, p.RemainingTrials())
	assert.Equal(t, "ai", p.PreferredMode)
	assert.False(t, p.CreatedAt.IsZero())

	// First touch persists immediately.
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestUpsertPersistsAcrossReload(t *testing.T) {
	repo, path := newTestProfiles(t)

	repo.Upsert(100, func(p *domain.UserProfile) {
		p.FreeTrialsUsed = 1
		p.TotalUses = 5
	})

	reloaded := NewProfileRepository(path, 2)
	p := reloaded.Get(100)
	assert.Equal(t, 1, p.FreeTrialsUsed)
	assert.Equal(t, 5, p.TotalUses)
	assert.Equal(t, 1, p.RemainingTrials())
}

func TestProfileFileKeyedByStringID(t *testing.T) {
	repo, path := newTestProfiles(t)
	repo.Get(12345)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "12345")
}

func TestGetReturnsCopy(t *testing.T) {
	repo, _ := newTestProfiles(t)

	p := repo.Get(100)
	p.FreeTrialsUsed = 99

	assert.Equal(t, 0, repo.Get(100).FreeTrialsUsed, "mutating the returned copy must not leak into the store")
}

func TestRemainingTrialsNeverNegative(t *testing.T) {
	repo, _ := newTestProfiles(t)

	repo.Upsert(100, func(p *domain.UserProfile) {
		p.FreeTrialsUsed = 10
	})
	assert.Equal(t, 0, repo.Get(100).RemainingTrials())
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	repo := NewProfileRepository(path, 2)
	p := repo.Get(100)
	assert.Equal(t, 0, p.FreeTrialsUsed)
}

func TestAllSortedByUserID(t *testing.T) {
	repo, _ := newTestProfiles(t)
	repo.Get(30)
	repo.Get(10)
	repo.Get(20)

	all := repo.All()
	require.Len(t, all, 3)
	assert.Equal(t, int64(10), all[0].UserID)
	assert.Equal(t, int64(20), all[1].UserID)
	assert.Equal(t, int64(30), all[2].UserID)
}
