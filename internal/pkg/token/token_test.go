package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_IssueVerify(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	sessionID := uuid.New()

	tok, err := m.Issue(sessionID)
	require.NoError(t, err)

	got, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, sessionID, got)
}

func TestManager_Verify_WrongSecret(t *testing.T) {
	tok, err := NewManager("secret-a", time.Hour).Issue(uuid.New())
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestManager_Verify_Expired(t *testing.T) {
	m := NewManager("test-secret", time.Minute)
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }

	tok, err := m.Issue(uuid.New())
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestManager_Verify_Garbage(t *testing.T) {
	_, err := NewManager("test-secret", 0).Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
