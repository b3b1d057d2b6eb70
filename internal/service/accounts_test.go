package service

import (
	"context"
	"strings"
	"testing"

	"github.com/snnyvrz/libmanage/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAccounts(t *testing.T) *Accounts {
	t.Helper()
	return NewAccounts(testutil.NewTestDB(t), WithBcryptCost(bcrypt.MinCost))
}

func Test_Register_And_Login(t *testing.T) {
	s := newTestAccounts(t)
	ctx := context.Background()

	user, err := s.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "s3cret", user.Password)

	logged, err := s.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
}

func Test_Register_Duplicate(t *testing.T) {
	s := newTestAccounts(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", "pw")
	require.NoError(t, err)

	_, err = s.Register(ctx, "alice", "other")
	assert.True(t, IsKind(err, KindConflict))
}

func Test_Register_MissingFields(t *testing.T) {
	s := newTestAccounts(t)

	_, err := s.Register(context.Background(), " ", "pw")

	assert.True(t, IsKind(err, KindInvalidInput))
}

func Test_Register_UsernameTooLong(t *testing.T) {
	s := newTestAccounts(t)

	_, err := s.Register(context.Background(), strings.Repeat("u", 151), "pw")

	assert.True(t, IsKind(err, KindInvalidInput))
	assert.Equal(t, "username must be at most 150 characters", MessageOf(err))
}

func Test_Login_SameMessageForUnknownUser(t *testing.T) {
	s := newTestAccounts(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", "pw")
	require.NoError(t, err)

	_, wrongPassword := s.Login(ctx, "alice", "nope")
	_, unknownUser := s.Login(ctx, "mallory", "nope")

	assert.True(t, IsKind(wrongPassword, KindUnauthorized))
	assert.True(t, IsKind(unknownUser, KindUnauthorized))
	assert.Equal(t, MessageOf(wrongPassword), MessageOf(unknownUser))
}

func Test_UpdatePassword(t *testing.T) {
	s := newTestAccounts(t)
	ctx := context.Background()

	user, err := s.Register(ctx, "alice", "old")
	require.NoError(t, err)

	require.NoError(t, s.UpdatePassword(ctx, user.ID, "new"))

	_, err = s.Login(ctx, "alice", "old")
	assert.True(t, IsKind(err, KindUnauthorized))
	_, err = s.Login(ctx, "alice", "new")
	assert.NoError(t, err)

	assert.True(t, IsKind(s.UpdatePassword(ctx, user.ID, ""), KindInvalidInput))
	assert.True(t, IsKind(s.UpdatePassword(ctx, user.ID+5, "x"), KindNotFound))
}
