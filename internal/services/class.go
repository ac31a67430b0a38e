package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/languageloom/languageloom-backend/internal/db"
	"github.com/languageloom/languageloom-backend/internal/lock"
	"github.com/languageloom/languageloom-backend/internal/logging"
	"github.com/languageloom/languageloom-backend/internal/models"
)

// ClassService owns the classes collection. Every write to one class runs under
// that class's lock so concurrent PATCH/PUT/DELETE calls apply one at a time.
type ClassService struct {
	collection db.Collection
	selected   db.Collection
	locker     lock.Locker
}

func NewClassService(store *db.Store, locker lock.Locker) *ClassService {
	return &ClassService{
		collection: store.Classes,
		selected:   store.SelectedClasses,
		locker:     locker,
	}
}

// ListClasses returns every class, or only those owned by email when it is set.
func (s *ClassService) ListClasses(ctx context.Context, email string) ([]bson.M, error) {
	filter := bson.M{}
	if email != "" {
		filter["email"] = email
	}

	ctx, cancel := storeContext(ctx)
	defer cancel()
	return s.collection.Find(ctx, filter)
}

// GetClass looks the id up in the selected-classes collection, which is what the
// checkout page resolves class ids against.
func (s *ClassService) GetClass(ctx context.Context, id primitive.ObjectID) (bson.M, error) {
	ctx, cancel := storeContext(ctx)
	defer cancel()
	return s.selected.FindOne(ctx, bson.M{"_id": id})
}

func (s *ClassService) CreateClass(ctx context.Context, class map[string]interface{}) (*db.InsertResult, error) {
	ctx, cancel := storeContext(ctx)
	defer cancel()
	return s.collection.InsertOne(ctx, bson.M(class))
}

// PatchClass writes exactly one class field, chosen by models.ResolveClassPatch.
func (s *ClassService) PatchClass(ctx context.Context, id primitive.ObjectID, body map[string]interface{}) (*db.UpdateResult, error) {
	patch, err := models.ResolveClassPatch(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	logging.FromContext(ctx).Debug("patching class", "class_id", id.Hex(), "field", patch.Kind.Field())
	return s.update(ctx, id, bson.M{patch.Kind.Field(): patch.Value}, false)
}

// SetFeedback upserts the feedback field of a class.
func (s *ClassService) SetFeedback(ctx context.Context, id primitive.ObjectID, feedback interface{}) (*db.UpdateResult, error) {
	if feedback == nil {
		return nil, fmt.Errorf("%w: feedback is required", ErrInvalidInput)
	}
	return s.update(ctx, id, bson.M{"feedback": feedback}, true)
}

// ReplaceClass sets every field of the body on the class, creating it when missing.
func (s *ClassService) ReplaceClass(ctx context.Context, id primitive.ObjectID, class map[string]interface{}) (*db.UpdateResult, error) {
	set := withoutID(class)
	if len(set) == 0 {
		return nil, fmt.Errorf("%w: class body is empty", ErrInvalidInput)
	}
	return s.update(ctx, id, bson.M(set), true)
}

func (s *ClassService) DeleteClass(ctx context.Context, id primitive.ObjectID) (*db.DeleteResult, error) {
	unlock, err := s.locker.Lock(ctx, classLockKey(id))
	if err != nil {
		return nil, fmt.Errorf("lock class %s: %w", id.Hex(), err)
	}
	defer unlock()

	ctx, cancel := storeContext(ctx)
	defer cancel()
	return s.collection.DeleteOne(ctx, bson.M{"_id": id})
}

func (s *ClassService) update(ctx context.Context, id primitive.ObjectID, set bson.M, upsert bool) (*db.UpdateResult, error) {
	unlock, err := s.locker.Lock(ctx, classLockKey(id))
	if err != nil {
		return nil, fmt.Errorf("lock class %s: %w", id.Hex(), err)
	}
	defer unlock()

	ctx, cancel := storeContext(ctx)
	defer cancel()
	return s.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}, upsert)
}

func classLockKey(id primitive.ObjectID) string {
	return "class:" + id.Hex()
}
