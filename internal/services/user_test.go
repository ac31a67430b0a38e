package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/languageloom/languageloom-backend/internal/db"
	"github.com/languageloom/languageloom-backend/internal/models"
)

func TestUpsertUser_Idempotent(t *testing.T) {
	t.Parallel()
	svc := NewUserService(db.NewMemoryStore())
	ctx := context.Background()
	body := map[string]interface{}{"email": "tutor@example.com", "role": "instructor"}

	_, err := svc.UpsertUser(ctx, "tutor@example.com", body)
	require.NoError(t, err)
	_, err = svc.UpsertUser(ctx, "tutor@example.com", body)
	require.NoError(t, err)

	users, err := svc.UserList(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "instructor", users[0]["role"])
}

func TestUpsertUser_EmptyBody(t *testing.T) {
	t.Parallel()
	svc := NewUserService(db.NewMemoryStore())
	_, err := svc.UpsertUser(context.Background(), "a@example.com", map[string]interface{}{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSetRole(t *testing.T) {
	t.Parallel()
	svc := NewUserService(db.NewMemoryStore())
	ctx := context.Background()

	res, err := svc.SetRole(ctx, "ghost@example.com", "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.MatchedCount, "role changes never create users")

	_, err = svc.UpsertUser(ctx, "a@example.com", map[string]interface{}{"name": "A"})
	require.NoError(t, err)
	res, err = svc.SetRole(ctx, "a@example.com", "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ModifiedCount)

	_, err = svc.SetRole(ctx, "a@example.com", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRoles(t *testing.T) {
	t.Parallel()
	svc := NewUserService(db.NewMemoryStore())
	ctx := context.Background()

	for email, fields := range map[string]map[string]interface{}{
		"admin@example.com":      {"role": "admin"},
		"instructor@example.com": {"role": "instructor"},
		"student@example.com":    {"name": "Student"},
	} {
		_, err := svc.UpsertUser(ctx, email, fields)
		require.NoError(t, err)
	}

	tests := map[string]models.RoleStatus{
		"admin@example.com":      {IsAdmin: true},
		"instructor@example.com": {IsInstructor: true},
		"student@example.com":    {},
		"unknown@example.com":    {},
	}
	for email, want := range tests {
		got, err := svc.Roles(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, want, got, email)
	}
}
