package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/languageloom/languageloom-backend/internal/db"
)

func TestSelectionAndEnrollmentAreIndependent(t *testing.T) {
	t.Parallel()
	store := db.NewMemoryStore()
	selections := NewSelectionService(store)
	enrollments := NewEnrollmentService(store)
	ctx := context.Background()

	doc := map[string]interface{}{"email": "student@example.com", "classId": "abc"}
	sel, err := selections.Create(ctx, doc)
	require.NoError(t, err)
	_, err = enrollments.Create(ctx, doc)
	require.NoError(t, err)

	res, err := selections.Delete(ctx, sel.InsertedID.(primitive.ObjectID))
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.DeletedCount)

	selected, err := selections.ListByEmail(ctx, "student@example.com")
	require.NoError(t, err)
	assert.Empty(t, selected)

	enrolled, err := enrollments.ListByEmail(ctx, "student@example.com")
	require.NoError(t, err)
	assert.Len(t, enrolled, 1)
}
