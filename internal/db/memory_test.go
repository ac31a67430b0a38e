package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMemoryCollection_UpsertByEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	users := NewMemoryCollection()

	filter := bson.M{"email": "a@example.com"}
	update := bson.M{"$set": bson.M{"email": "a@example.com", "role": "instructor"}}

	first, err := users.UpdateOne(ctx, filter, update, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.UpsertedCount)
	assert.NotNil(t, first.UpsertedID)

	second, err := users.UpdateOne(ctx, filter, update, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), second.MatchedCount)
	assert.Equal(t, int64(0), second.ModifiedCount)
	assert.Equal(t, int64(0), second.UpsertedCount)

	docs, err := users.Find(ctx, filter)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "instructor", docs[0]["role"])
}

func TestMemoryCollection_UpsertUsesFilterFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	classes := NewMemoryCollection()
	id := primitive.NewObjectID()

	res, err := classes.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"feedback": "great"}}, true)
	require.NoError(t, err)
	assert.Equal(t, id, res.UpsertedID)

	doc, err := classes.FindOne(ctx, bson.M{"_id": id})
	require.NoError(t, err)
	assert.Equal(t, "great", doc["feedback"])
}

func TestMemoryCollection_UpdateWithoutUpsertMissesQuietly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	classes := NewMemoryCollection()

	res, err := classes.UpdateOne(ctx, bson.M{"_id": primitive.NewObjectID()}, bson.M{"$set": bson.M{"status": "approved"}}, false)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.MatchedCount)
	assert.Equal(t, 0, classes.Len())
}

func TestMemoryCollection_RejectsBadUpdates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	classes := NewMemoryCollection()

	_, err := classes.UpdateOne(ctx, bson.M{}, bson.M{"$set": bson.M{}}, true)
	assert.Error(t, err)

	_, err = classes.UpdateOne(ctx, bson.M{}, bson.M{"$inc": bson.M{"n": 1}}, true)
	assert.Error(t, err)

	_, err = classes.UpdateOne(ctx, bson.M{}, bson.M{"$set": bson.M{"_id": "x"}}, true)
	assert.Error(t, err)
}

func TestMemoryCollection_DeleteOne(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	classes := NewMemoryCollection()

	ins, err := classes.InsertOne(ctx, bson.M{"name": "Spanish A1", "email": "tutor@example.com"})
	require.NoError(t, err)
	_, err = classes.InsertOne(ctx, bson.M{"name": "French B2", "email": "tutor@example.com"})
	require.NoError(t, err)

	res, err := classes.DeleteOne(ctx, bson.M{"_id": ins.InsertedID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.DeletedCount)

	docs, err := classes.Find(ctx, bson.M{})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "French B2", docs[0]["name"])

	res, err = classes.DeleteOne(ctx, bson.M{"_id": ins.InsertedID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.DeletedCount)
}

func TestMemoryCollection_FindReturnsCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	coll := NewMemoryCollection()

	_, err := coll.InsertOne(ctx, bson.M{"email": "a@example.com", "tags": bson.A{"x"}})
	require.NoError(t, err)

	docs, err := coll.Find(ctx, bson.M{"email": "a@example.com"})
	require.NoError(t, err)
	docs[0]["email"] = "mutated"

	doc, err := coll.FindOne(ctx, bson.M{"email": "a@example.com"})
	require.NoError(t, err)
	require.NotNil(t, doc)
}

func TestMemoryCollection_FindOneMissing(t *testing.T) {
	t.Parallel()
	doc, err := NewMemoryCollection().FindOne(context.Background(), bson.M{"email": "nobody@example.com"})
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestMemoryCollection_HonoursCancelledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryCollection().Find(ctx, bson.M{})
	assert.ErrorIs(t, err, context.Canceled)
}
