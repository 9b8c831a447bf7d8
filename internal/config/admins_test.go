package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminListMembership(t *testing.T) {
	admins := NewAdminList([]int64{10, 20})

	assert.True(t, admins.IsAdmin(10))
	assert.True(t, admins.IsAdmin(20))
	assert.False(t, admins.IsAdmin(30))
}

func TestAdminListAddRemove(t *testing.T) {
	admins := NewAdminList(nil)

	assert.True(t, admins.Add(10))
	assert.False(t, admins.Add(10), "duplicate add reports false")
	assert.True(t, admins.IsAdmin(10))

	assert.True(t, admins.Remove(10))
	assert.False(t, admins.Remove(10), "removing a non-member reports false")
	assert.False(t, admins.IsAdmin(10))
}

func TestParseAdminIDs(t *testing.T) {
	ids := parseAdminIDs(" 10, 20 ,,abc, 30")
	assert.Equal(t, []int64{10, 20, 30}, ids)

	assert.Empty(t, parseAdminIDs(""))
}
