// Package storetest holds the behaviour every store driver must share.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Run exercises st.Users(). newStore must return an empty, migrated store.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Helper()

	t.Run("CreateAndGet", func(t *testing.T) { testCreateAndGet(t, newStore(t)) })
	t.Run("DuplicateEmail", func(t *testing.T) { testDuplicateEmail(t, newStore(t)) })
	t.Run("DuplicateTokens", func(t *testing.T) { testDuplicateTokens(t, newStore(t)) })
	t.Run("ActivateUser", func(t *testing.T) { testActivateUser(t, newStore(t)) })
	t.Run("PasswordReset", func(t *testing.T) { testPasswordReset(t, newStore(t)) })
	t.Run("ConcurrentSingleUse", func(t *testing.T) { testConcurrentSingleUse(t, newStore(t)) })
	t.Run("DeleteUserByEmail", func(t *testing.T) { testDeleteUserByEmail(t, newStore(t)) })
	t.Run("Sessions", func(t *testing.T) { testSessions(t, newStore(t)) })
	t.Run("DeleteExpiredSessions", func(t *testing.T) { testDeleteExpiredSessions(t, newStore(t)) })
}

func ptr(s string) *string { return &s }

// NewUser returns an inactive user awaiting activation.
func NewUser(email string) domain.User {
	now := time.Now().UTC().Truncate(time.Second)
	return domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		ActivationID: ptr("act-" + email),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func testCreateAndGet(t *testing.T, st store.Store) {
	ctx := context.Background()
	u := NewUser("a@b.com")
	require.NoError(t, st.Users().CreateUser(ctx, u))

	byID, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, byID.Email)
	require.Equal(t, u.PasswordHash, byID.PasswordHash)
	require.False(t, byID.Active)
	require.NotNil(t, byID.ActivationID)
	require.Equal(t, *u.ActivationID, *byID.ActivationID)
	require.Nil(t, byID.PasswordResetID)
	require.Empty(t, byID.Tokens)
	require.WithinDuration(t, u.CreatedAt, byID.CreatedAt, time.Second)

	byEmail, err := st.Users().GetUserByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	_, err = st.Users().GetUserByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.Users().GetUserByEmail(ctx, "nobody@b.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testDuplicateEmail(t *testing.T, st store.Store) {
	ctx := context.Background()
	require.NoError(t, st.Users().CreateUser(ctx, NewUser("a@b.com")))

	err := st.Users().CreateUser(ctx, NewUser("a@b.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func testDuplicateTokens(t *testing.T, st store.Store) {
	ctx := context.Background()

	first := NewUser("a@b.com")
	first.PasswordResetID = ptr("sig")
	require.NoError(t, st.Users().CreateUser(ctx, first))

	sameActivation := NewUser("c@d.com")
	sameActivation.ActivationID = first.ActivationID
	require.ErrorIs(t, st.Users().CreateUser(ctx, sameActivation), store.ErrAlreadyExists)

	sameReset := NewUser("e@f.com")
	sameReset.PasswordResetID = ptr("sig")
	require.ErrorIs(t, st.Users().CreateUser(ctx, sameReset), store.ErrAlreadyExists)

	// Users without outstanding tokens never collide
	for _, email := range []string{"g@h.com", "i@j.com"} {
		u := NewUser(email)
		u.ActivationID = nil
		require.NoError(t, st.Users().CreateUser(ctx, u))
	}
}

func testActivateUser(t *testing.T, st store.Store) {
	ctx := context.Background()
	u := NewUser("a@b.com")
	require.NoError(t, st.Users().CreateUser(ctx, u))

	got, err := st.Users().ActivateUser(ctx, *u.ActivationID)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.True(t, got.Active)
	require.Nil(t, got.ActivationID)

	// Single use
	_, err = st.Users().ActivateUser(ctx, *u.ActivationID)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Users().ActivateUser(ctx, "")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testPasswordReset(t *testing.T, st store.Store) {
	ctx := context.Background()
	u := NewUser("a@b.com")
	require.NoError(t, st.Users().CreateUser(ctx, u))

	_, err := st.Users().SetPasswordResetID(ctx, "nobody@b.com", "sig")
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err := st.Users().SetPasswordResetID(ctx, "a@b.com", "sig-1")
	require.NoError(t, err)
	require.NotNil(t, got.PasswordResetID)
	require.Equal(t, "sig-1", *got.PasswordResetID)

	// A newer request replaces the outstanding signature
	_, err = st.Users().SetPasswordResetID(ctx, "a@b.com", "sig-2")
	require.NoError(t, err)

	// Clearing with a stale signature leaves the newer one alone
	require.NoError(t, st.Users().ClearPasswordResetID(ctx, "a@b.com", "sig-1"))
	got, err = st.Users().GetUserByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.Equal(t, "sig-2", *got.PasswordResetID)

	_, err = st.Users().ResetPassword(ctx, "sig-1", "new-hash")
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err = st.Users().ResetPassword(ctx, "sig-2", "new-hash")
	require.NoError(t, err)
	require.Equal(t, "new-hash", got.PasswordHash)
	require.Nil(t, got.PasswordResetID)

	// Single use
	_, err = st.Users().ResetPassword(ctx, "sig-2", "other-hash")
	require.ErrorIs(t, err, store.ErrNotFound)

	// Clearing the matching signature works
	_, err = st.Users().SetPasswordResetID(ctx, "a@b.com", "sig-3")
	require.NoError(t, err)
	require.NoError(t, st.Users().ClearPasswordResetID(ctx, "a@b.com", "sig-3"))
	got, err = st.Users().GetUserByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.Nil(t, got.PasswordResetID)
}

// racers is how many goroutines contend for one token.
const racers = 20

// race runs fn from racers goroutines at once and returns how many calls
// succeeded. Failures other than store.ErrNotFound are returned as well.
func race(fn func() error) (int, []error) {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	start := make(chan struct{})
	for range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := fn()

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case !errors.Is(err, store.ErrNotFound):
				failures = append(failures, err)
			}
		}()
	}
	close(start)
	wg.Wait()
	return successes, failures
}

func testConcurrentSingleUse(t *testing.T, st store.Store) {
	ctx := context.Background()
	u := NewUser("a@b.com")
	require.NoError(t, st.Users().CreateUser(ctx, u))

	n, failures := race(func() error {
		_, err := st.Users().ActivateUser(ctx, *u.ActivationID)
		return err
	})
	require.Empty(t, failures)
	require.Equal(t, 1, n, "activation id consumed more than once")

	_, err := st.Users().SetPasswordResetID(ctx, "a@b.com", "sig")
	require.NoError(t, err)

	n, failures = race(func() error {
		_, err := st.Users().ResetPassword(ctx, "sig", "new-hash")
		return err
	})
	require.Empty(t, failures)
	require.Equal(t, 1, n, "reset signature consumed more than once")

	got, err := st.Users().GetUserByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.True(t, got.Active)
	require.Nil(t, got.PasswordResetID)
	require.Equal(t, "new-hash", got.PasswordHash)
}

func testDeleteUserByEmail(t *testing.T, st store.Store) {
	ctx := context.Background()
	u := NewUser("a@b.com")
	require.NoError(t, st.Users().CreateUser(ctx, u))
	require.NoError(t, st.Users().AddSession(ctx, u.ID, session("hash", time.Hour)))

	require.NoError(t, st.Users().DeleteUserByEmail(ctx, "a@b.com"))
	_, err := st.Users().GetUserByEmail(ctx, "a@b.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	// Deleting again is harmless, and the email is free again
	require.NoError(t, st.Users().DeleteUserByEmail(ctx, "a@b.com"))
	require.NoError(t, st.Users().CreateUser(ctx, NewUser("a@b.com")))
}

func session(hash string, ttl time.Duration) domain.Session {
	now := time.Now().UTC().Truncate(time.Second)
	return domain.Session{
		Access:    domain.AccessAuth,
		TokenHash: hash,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func testSessions(t *testing.T, st store.Store) {
	ctx := context.Background()
	u := NewUser("a@b.com")
	require.NoError(t, st.Users().CreateUser(ctx, u))

	require.ErrorIs(t, st.Users().AddSession(ctx, idx.New().String(), session("x", time.Hour)), store.ErrNotFound)

	require.NoError(t, st.Users().AddSession(ctx, u.ID, session("one", time.Hour)))
	require.NoError(t, st.Users().AddSession(ctx, u.ID, session("two", time.Hour)))

	got, err := st.Users().GetUserBySession(ctx, u.ID, "two")
	require.NoError(t, err)
	require.Len(t, got.Tokens, 2)
	require.Equal(t, "one", got.Tokens[0].TokenHash)
	require.Equal(t, "two", got.Tokens[1].TokenHash)
	require.Equal(t, domain.AccessAuth, got.Tokens[0].Access)

	_, err = st.Users().GetUserBySession(ctx, u.ID, "three")
	require.ErrorIs(t, err, store.ErrNotFound)

	// Removing one session leaves the other intact
	require.NoError(t, st.Users().RemoveSession(ctx, u.ID, "one"))
	require.NoError(t, st.Users().RemoveSession(ctx, u.ID, "one"))

	_, err = st.Users().GetUserBySession(ctx, u.ID, "one")
	require.ErrorIs(t, err, store.ErrNotFound)
	got, err = st.Users().GetUserBySession(ctx, u.ID, "two")
	require.NoError(t, err)
	require.Len(t, got.Tokens, 1)
}

func testDeleteExpiredSessions(t *testing.T, st store.Store) {
	ctx := context.Background()
	u := NewUser("a@b.com")
	require.NoError(t, st.Users().CreateUser(ctx, u))

	require.NoError(t, st.Users().AddSession(ctx, u.ID, session("expired", -time.Minute)))
	require.NoError(t, st.Users().AddSession(ctx, u.ID, session("live", time.Hour)))

	n, err := st.Users().DeleteExpiredSessions(ctx, time.Now())
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got.Tokens, 1)
	require.Equal(t, "live", got.Tokens[0].TokenHash)

	n, err = st.Users().DeleteExpiredSessions(ctx, time.Now())
	require.NoError(t, err)
	require.EqualValues(t, 0, n)
}
