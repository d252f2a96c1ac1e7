package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anverma/filecab"
)

// fileDoc is the bson shape of a file document. ParentID is the string "0"
// for top-level files, otherwise the hex id of the parent folder.
type fileDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"userId"`
	Name        string             `bson:"name"`
	Type        string             `bson:"type"`
	IsPublic    bool               `bson:"isPublic"`
	ParentID    string             `bson:"parentId"`
	LocalBlobID string             `bson:"localBlobId,omitempty"`
}

func (d fileDoc) toDomain() filecab.File {
	return filecab.File{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		Name:        d.Name,
		Type:        filecab.FileType(d.Type),
		IsPublic:    d.IsPublic,
		ParentID:    d.ParentID,
		LocalBlobID: d.LocalBlobID,
	}
}

// FileRepo implements filecab.FileRepo on a MongoDB collection.
type FileRepo struct {
	coll *mongo.Collection
}

func (r *FileRepo) Insert(ctx context.Context, f filecab.File) (filecab.File, error) {
	doc := fileDoc{
		UserID:      f.UserID,
		Name:        f.Name,
		Type:        string(f.Type),
		IsPublic:    f.IsPublic,
		ParentID:    f.ParentID,
		LocalBlobID: f.LocalBlobID,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return filecab.File{}, fmt.Errorf("insert file: %w: %w", filecab.ErrStoreUnavailable, err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return filecab.File{}, fmt.Errorf("insert file: unexpected inserted id type %T", res.InsertedID)
	}

	f.ID = id.Hex()
	return f, nil
}

func (r *FileRepo) FindByID(ctx context.Context, id string) (filecab.File, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return filecab.File{}, fmt.Errorf("find file: %w", filecab.ErrNotFound)
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *FileRepo) FindByIDAndOwner(ctx context.Context, id, userID string) (filecab.File, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return filecab.File{}, fmt.Errorf("find file: %w", filecab.ErrNotFound)
	}
	return r.findOne(ctx, bson.M{"_id": oid, "userId": userID})
}

// FindByParent pages through the direct children of parentID for one owner.
// The aggregation relies on _id insertion order, which is stable enough for
// page-by-page traversal absent concurrent writes.
func (r *FileRepo) FindByParent(ctx context.Context, userID, parentID string, skip, limit int64) ([]filecab.File, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID, "parentId": parentID}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
		{{Key: "$skip", Value: skip}},
		{{Key: "$limit", Value: limit}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list files: %w: %w", filecab.ErrStoreUnavailable, err)
	}
	defer func() { _ = cur.Close(ctx) }()

	files := []filecab.File{}
	for cur.Next(ctx) {
		var doc fileDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("list files: decode: %w", err)
		}
		files = append(files, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list files: %w: %w", filecab.ErrStoreUnavailable, err)
	}

	return files, nil
}

func (r *FileRepo) SetPublic(ctx context.Context, id, userID string, public bool) (filecab.File, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return filecab.File{}, fmt.Errorf("update file: %w", filecab.ErrNotFound)
	}

	after := options.After
	var doc fileDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "userId": userID},
		bson.M{"$set": bson.M{"isPublic": public}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return filecab.File{}, fmt.Errorf("update file: %w", filecab.ErrNotFound)
		}
		return filecab.File{}, fmt.Errorf("update file: %w: %w", filecab.ErrStoreUnavailable, err)
	}

	return doc.toDomain(), nil
}

func (r *FileRepo) findOne(ctx context.Context, filter bson.M) (filecab.File, error) {
	var doc fileDoc
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return filecab.File{}, fmt.Errorf("find file: %w", filecab.ErrNotFound)
		}
		return filecab.File{}, fmt.Errorf("find file: %w: %w", filecab.ErrStoreUnavailable, err)
	}
	return doc.toDomain(), nil
}
