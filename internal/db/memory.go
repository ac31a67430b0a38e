package db

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryCollection is an in-process Collection used for local development and tests.
// Documents keep insertion order.
type MemoryCollection struct {
	mu   sync.RWMutex
	docs []bson.M
}

// NewMemoryCollection returns an empty in-memory collection.
func NewMemoryCollection() *MemoryCollection {
	return &MemoryCollection{}
}

// Len reports how many documents are stored.
func (c *MemoryCollection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

func (c *MemoryCollection) Find(ctx context.Context, filter bson.M) ([]bson.M, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	docs := make([]bson.M, 0)
	for _, doc := range c.docs {
		if matches(doc, filter) {
			docs = append(docs, copyDoc(doc))
		}
	}
	return docs, nil
}

func (c *MemoryCollection) FindOne(ctx context.Context, filter bson.M) (bson.M, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, doc := range c.docs {
		if matches(doc, filter) {
			return copyDoc(doc), nil
		}
	}
	return nil, nil
}

func (c *MemoryCollection) InsertOne(ctx context.Context, doc bson.M) (*InsertResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stored := copyDoc(doc)
	if _, ok := stored["_id"]; !ok {
		stored["_id"] = primitive.NewObjectID()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.docs {
		if reflect.DeepEqual(existing["_id"], stored["_id"]) {
			return nil, fmt.Errorf("duplicate key: _id %v", stored["_id"])
		}
	}
	c.docs = append(c.docs, stored)
	return &InsertResult{Acknowledged: true, InsertedID: stored["_id"]}, nil
}

func (c *MemoryCollection) UpdateOne(ctx context.Context, filter, update bson.M, upsert bool) (*UpdateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	set, err := setOperand(update)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, doc := range c.docs {
		if !matches(doc, filter) {
			continue
		}
		modified := int64(0)
		for k, v := range set {
			if cur, ok := doc[k]; !ok || !reflect.DeepEqual(cur, v) {
				modified = 1
			}
			doc[k] = copyValue(v)
		}
		return &UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: modified}, nil
	}

	if !upsert {
		return &UpdateResult{Acknowledged: true}, nil
	}

	created := copyDoc(filter)
	for k, v := range set {
		created[k] = copyValue(v)
	}
	if _, ok := created["_id"]; !ok {
		created["_id"] = primitive.NewObjectID()
	}
	c.docs = append(c.docs, created)
	return &UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: created["_id"]}, nil
}

func (c *MemoryCollection) DeleteOne(ctx context.Context, filter bson.M) (*DeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, doc := range c.docs {
		if matches(doc, filter) {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return &DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return &DeleteResult{Acknowledged: true}, nil
}

func setOperand(update bson.M) (bson.M, error) {
	if len(update) != 1 {
		return nil, fmt.Errorf("update must contain exactly one operator, got %d", len(update))
	}
	raw, ok := update["$set"]
	if !ok {
		return nil, fmt.Errorf("unsupported update operator")
	}
	set, ok := raw.(bson.M)
	if !ok {
		return nil, fmt.Errorf("$set operand must be a document")
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("'$set' is empty")
	}
	if _, ok := set["_id"]; ok {
		return nil, fmt.Errorf("performing an update on the path '_id' would modify the immutable field '_id'")
	}
	return set, nil
}

func matches(doc, filter bson.M) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

func copyDoc(doc bson.M) bson.M {
	out := make(bson.M, len(doc))
	for k, v := range doc {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case bson.M:
		return copyDoc(t)
	case map[string]interface{}:
		return copyDoc(t)
	case bson.A:
		out := make(bson.A, len(t))
		for i := range t {
			out[i] = copyValue(t[i])
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i := range t {
			out[i] = copyValue(t[i])
		}
		return out
	default:
		return v
	}
}
