package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/languageloom/languageloom-backend/internal/db"
	"github.com/languageloom/languageloom-backend/internal/models"
)

type UserService struct {
	collection db.Collection
}

func NewUserService(store *db.Store) *UserService {
	return &UserService{collection: store.Users}
}

// UpsertUser writes fields onto the user keyed by email, creating it when missing.
func (s *UserService) UpsertUser(ctx context.Context, email string, fields map[string]interface{}) (*db.UpdateResult, error) {
	set := withoutID(fields)
	if len(set) == 0 {
		return nil, fmt.Errorf("%w: user body is empty", ErrInvalidInput)
	}

	ctx, cancel := storeContext(ctx)
	defer cancel()
	return s.collection.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M(set)}, true)
}

// GetUser returns the user document or nil when no user has that email.
func (s *UserService) GetUser(ctx context.Context, email string) (bson.M, error) {
	ctx, cancel := storeContext(ctx)
	defer cancel()
	return s.collection.FindOne(ctx, bson.M{"email": email})
}

// SetRole changes the role of an existing user. Missing users are not created.
func (s *UserService) SetRole(ctx context.Context, email string, role interface{}) (*db.UpdateResult, error) {
	if role == nil {
		return nil, fmt.Errorf("%w: role is required", ErrInvalidInput)
	}

	ctx, cancel := storeContext(ctx)
	defer cancel()
	return s.collection.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"role": role}}, false)
}

// Roles reports whether the user is an admin or an instructor. Unknown users are neither.
func (s *UserService) Roles(ctx context.Context, email string) (models.RoleStatus, error) {
	user, err := s.GetUser(ctx, email)
	if err != nil {
		return models.RoleStatus{}, err
	}
	role, _ := user["role"].(string)
	return models.RoleStatusFor(role), nil
}

func (s *UserService) UserList(ctx context.Context) ([]bson.M, error) {
	ctx, cancel := storeContext(ctx)
	defer cancel()
	return s.collection.Find(ctx, bson.M{})
}
