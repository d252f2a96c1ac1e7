package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/anverma/filecab"
)

// userDoc is the bson shape of a user document.
type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
}

func (d userDoc) toDomain() filecab.User {
	return filecab.User{
		ID:             d.ID.Hex(),
		Email:          d.Email,
		PasswordDigest: d.Password,
	}
}

// UserRepo implements filecab.UserRepo on a MongoDB collection.
type UserRepo struct {
	coll *mongo.Collection
}

func (r *UserRepo) Insert(ctx context.Context, email, passwordDigest string) (filecab.User, error) {
	res, err := r.coll.InsertOne(ctx, userDoc{Email: email, Password: passwordDigest})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return filecab.User{}, filecab.NewValidationError("Already exist")
		}
		return filecab.User{}, fmt.Errorf("insert user: %w: %w", filecab.ErrStoreUnavailable, err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return filecab.User{}, fmt.Errorf("insert user: unexpected inserted id type %T", res.InsertedID)
	}

	return filecab.User{ID: id.Hex(), Email: email, PasswordDigest: passwordDigest}, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (filecab.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepo) FindByCredentials(ctx context.Context, email, passwordDigest string) (filecab.User, error) {
	return r.findOne(ctx, bson.M{"email": email, "password": passwordDigest})
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (filecab.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return filecab.User{}, fmt.Errorf("find user: %w", filecab.ErrNotFound)
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (filecab.User, error) {
	var doc userDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return filecab.User{}, fmt.Errorf("find user: %w", filecab.ErrNotFound)
		}
		return filecab.User{}, fmt.Errorf("find user: %w: %w", filecab.ErrStoreUnavailable, err)
	}
	return doc.toDomain(), nil
}
