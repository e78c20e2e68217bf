package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
	})
}

func TestGeneratePair_RoundTrip(t *testing.T) {
	m := newTestManager()
	sub := Subject{UserID: uuid.New(), Email: "a@b.c", Role: "user"}

	pair, err := m.GeneratePair(sub)
	require.NoError(t, err)

	access, err := m.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	id, err := access.ParsedUserID()
	require.NoError(t, err)
	assert.Equal(t, sub.UserID, id)
	assert.Equal(t, TypeAccess, access.TokenType)

	refresh, err := m.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TypeRefresh, refresh.TokenType)
	assert.NotEqual(t, access.ID, refresh.ID)
}

func TestValidate_RejectsSwappedTypes(t *testing.T) {
	m := newTestManager()
	pair, err := m.GeneratePair(Subject{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.RefreshToken)
	assert.Error(t, err)
	_, err = m.ValidateRefreshToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestValidate_Expired(t *testing.T) {
	now := time.Now()
	m := newTestManager().WithClock(func() time.Time { return now })
	access, err := m.GenerateAccessToken(Subject{UserID: uuid.New()})
	require.NoError(t, err)

	m.WithClock(func() time.Time { return now.Add(16 * time.Minute) })
	_, err = m.ValidateAccessToken(access)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestHash_IsStable(t *testing.T) {
	assert.Equal(t, Hash("abc"), Hash("abc"))
	assert.NotEqual(t, Hash("abc"), Hash("abd"))
	assert.Len(t, Hash("abc"), 64)
}
