package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/languageloom/languageloom-backend/internal/db"
)

type InstructorService struct {
	collection db.Collection
}

func NewInstructorService(store *db.Store) *InstructorService {
	return &InstructorService{collection: store.Instructors}
}

func (s *InstructorService) InstructorList(ctx context.Context) ([]bson.M, error) {
	ctx, cancel := storeContext(ctx)
	defer cancel()
	return s.collection.Find(ctx, bson.M{})
}
