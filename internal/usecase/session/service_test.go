package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pesokrava/ecocart/internal/domain"
	"github.com/Pesokrava/ecocart/internal/pkg/logger"
	"github.com/Pesokrava/ecocart/internal/repository/memory"
	"github.com/Pesokrava/ecocart/internal/repository/slot"
)

var fixedNow = func() time.Time { return time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC) }

func newTestStore(t *testing.T, backend domain.SlotStore, delay time.Duration) *Store {
	t.Helper()
	adapter := slot.NewAdapter(backend, "ecocart", logger.New("test")).Scope("session-1")
	return NewStore(context.Background(), adapter, logger.New("test"), Options{Delay: delay, Now: fixedNow})
}

func TestStore_Login_PasswordBoundary(t *testing.T) {
	store := newTestStore(t, memory.NewSlotStore(), 0)

	user, err := store.Login(context.Background(), "x@y.com", "12345")
	require.Error(t, err)
	assert.Nil(t, user)
	assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))
	authErr, ok := AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, MsgInvalidLogin, authErr.Message)
	assert.Contains(t, authErr.Fields, "password")
	assert.False(t, store.IsAuthenticated())

	user, err = store.Login(context.Background(), "x@y.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "x@y.com", user.Email)
	assert.Equal(t, "x", user.Name)
	assert.Equal(t, "2025-03-09", user.JoinedDate)
	assert.NotEmpty(t, user.ID)
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "x@y.com", store.Current().Email)
}

func TestStore_Login_KnownDemoUser(t *testing.T) {
	store := newTestStore(t, memory.NewSlotStore(), 0)

	user, err := store.Login(context.Background(), "priya@example.com", "secret1")

	require.NoError(t, err)
	assert.Equal(t, "1", user.ID)
	assert.Equal(t, "Priya Sharma", user.Name)
	assert.Equal(t, "2024-01-15", user.JoinedDate)
	assert.NotEmpty(t, user.Avatar)
}

func TestStore_Login_IdentifierRules(t *testing.T) {
	t.Run("blank identifier is rejected", func(t *testing.T) {
		store := newTestStore(t, memory.NewSlotStore(), 0)

		_, err := store.Login(context.Background(), "   ", "123456")

		authErr, ok := AsAuthError(err)
		require.True(t, ok)
		assert.Equal(t, []string{"email"}, authErr.Fields)
		assert.False(t, store.IsAuthenticated())
	})

	t.Run("demo lookup ignores case and surrounding spaces", func(t *testing.T) {
		store := newTestStore(t, memory.NewSlotStore(), 0)

		user, err := store.Login(context.Background(), "  PRIYA@example.com ", "123456")

		require.NoError(t, err)
		assert.Equal(t, "Priya Sharma", user.Name)
	})

	t.Run("identifier without at sign is accepted", func(t *testing.T) {
		store := newTestStore(t, memory.NewSlotStore(), 0)

		user, err := store.Login(context.Background(), "greenfan", "123456")

		require.NoError(t, err)
		assert.Equal(t, "greenfan", user.Name)
	})
}

func TestStore_Login_FailureClearsExistingSession(t *testing.T) {
	store := newTestStore(t, memory.NewSlotStore(), 0)
	_, err := store.Login(context.Background(), "rahul@example.com", "123456")
	require.NoError(t, err)

	_, err = store.Login(context.Background(), "rahul@example.com", "123")

	require.Error(t, err)
	assert.Nil(t, store.Current())
}

func TestStore_Login_CancelledDuringDelayLeavesSession(t *testing.T) {
	store := newTestStore(t, memory.NewSlotStore(), time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	user, err := store.Login(ctx, "x@y.com", "123456")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, store.IsAuthenticated())
}

func TestStore_Login_WaitsForDelay(t *testing.T) {
	store := newTestStore(t, memory.NewSlotStore(), 30*time.Millisecond)

	start := time.Now()
	_, err := store.Login(context.Background(), "x@y.com", "123456")

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestStore_Register(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		password string
		wantErr  bool
		fields   []string
	}{
		{name: "valid", userName: "Ana", password: "123456"},
		{name: "short name", userName: "A", password: "123456", wantErr: true, fields: []string{"name"}},
		{name: "short password", userName: "Ana", password: "12345", wantErr: true, fields: []string{"password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t, memory.NewSlotStore(), 0)

			user, err := store.Register(context.Background(), tt.userName, "ana@example.com", tt.password)

			if tt.wantErr {
				require.Error(t, err)
				authErr, ok := AsAuthError(err)
				require.True(t, ok)
				assert.Equal(t, MsgInvalidRegister, authErr.Message)
				assert.Equal(t, tt.fields, authErr.Fields)
				assert.False(t, store.IsAuthenticated())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Ana", user.Name)
			assert.Equal(t, "2025-03-09", user.JoinedDate)
			assert.Equal(t, "Ana", store.Name())
		})
	}
}

func TestStore_PersistsUserAcrossStores(t *testing.T) {
	backend := memory.NewSlotStore()
	store := newTestStore(t, backend, 0)
	_, err := store.Login(context.Background(), "priya@example.com", "123456")
	require.NoError(t, err)

	restored := newTestStore(t, backend, 0)
	require.NotNil(t, restored.Current())
	assert.Equal(t, "Priya Sharma", restored.Current().Name)

	restored.Logout(context.Background())
	assert.False(t, restored.IsAuthenticated())
	assert.Zero(t, backend.Len())

	again := newTestStore(t, backend, 0)
	assert.Nil(t, again.Current())
}

func TestStore_CurrentReturnsCopy(t *testing.T) {
	store := newTestStore(t, memory.NewSlotStore(), 0)
	_, err := store.Login(context.Background(), "x@y.com", "123456")
	require.NoError(t, err)

	store.Current().Name = "changed"

	assert.Equal(t, "x", store.Current().Name)
}
