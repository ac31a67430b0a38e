package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/languageloom/languageloom-backend/internal/db"
)

// EnrollmentService manages one per-student class list: either pending selections
// or confirmed enrollments. The two lists never touch each other.
type EnrollmentService struct {
	collection db.Collection
}

// NewSelectionService serves the selectedClasses collection.
func NewSelectionService(store *db.Store) *EnrollmentService {
	return &EnrollmentService{collection: store.SelectedClasses}
}

// NewEnrollmentService serves the enrolledClass collection.
func NewEnrollmentService(store *db.Store) *EnrollmentService {
	return &EnrollmentService{collection: store.EnrolledClasses}
}

func (s *EnrollmentService) Create(ctx context.Context, doc map[string]interface{}) (*db.InsertResult, error) {
	ctx, cancel := storeContext(ctx)
	defer cancel()
	return s.collection.InsertOne(ctx, bson.M(doc))
}

func (s *EnrollmentService) ListByEmail(ctx context.Context, email string) ([]bson.M, error) {
	ctx, cancel := storeContext(ctx)
	defer cancel()
	return s.collection.Find(ctx, bson.M{"email": email})
}

func (s *EnrollmentService) Delete(ctx context.Context, id primitive.ObjectID) (*db.DeleteResult, error) {
	ctx, cancel := storeContext(ctx)
	defer cancel()
	return s.collection.DeleteOne(ctx, bson.M{"_id": id})
}
