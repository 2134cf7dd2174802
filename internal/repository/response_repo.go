package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"formdesk/internal/model"
)

// ResponseRepo handles MongoDB operations for submitted responses
type ResponseRepo interface {
	Create(ctx context.Context, response *model.Response) (string, error)
	GetByID(ctx context.Context, id string) (*model.Response, error)
	GetByFormAndUser(ctx context.Context, formID, userID string) (*model.Response, error)
	Update(ctx context.Context, response *model.Response) error
	SetRowPointer(ctx context.Context, id string, row int64) error
	ListByForm(ctx context.Context, formID string, q model.PageQuery) ([]*model.Response, int64, error)
	ListByUser(ctx context.Context, userID string, q model.PageQuery) ([]*model.Response, int64, error)
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a new response repository
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{
		collection: db.Collection("responses"),
	}
}

func (r *responseRepo) Create(ctx context.Context, response *model.Response) (string, error) {
	now := time.Now()
	response.CreatedAt = now
	response.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, response)
	if err != nil {
		return "", err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		response.ID = oid.Hex()
	}
	return response.ID, nil
}

func (r *responseRepo) GetByID(ctx context.Context, id string) (*model.Response, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var response model.Response
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&response)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	response.ID = id
	return &response, nil
}

func (r *responseRepo) GetByFormAndUser(ctx context.Context, formID, userID string) (*model.Response, error) {
	var response model.Response
	err := r.collection.FindOne(ctx, bson.M{"formId": formID, "userId": userID}).Decode(&response)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Update replaces the document; the storage layer is last-writer-wins, two
// concurrent edits race and the later write persists.
func (r *responseRepo) Update(ctx context.Context, response *model.Response) error {
	oid, err := primitive.ObjectIDFromHex(response.ID)
	if err != nil {
		return err
	}

	response.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"answers":   response.Answers,
		"updatedAt": response.UpdatedAt,
	}}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *responseRepo) SetRowPointer(ctx context.Context, id string, row int64) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"googleSheetRowNumber": row},
	})
	return err
}

func (r *responseRepo) ListByForm(ctx context.Context, formID string, q model.PageQuery) ([]*model.Response, int64, error) {
	filter := bson.M{"formId": formID}
	if q.Search != "" {
		filter["userId"] = bson.M{"$regex": q.Search, "$options": "i"}
	}
	return r.list(ctx, filter, q)
}

func (r *responseRepo) ListByUser(ctx context.Context, userID string, q model.PageQuery) ([]*model.Response, int64, error) {
	filter := bson.M{"userId": userID}
	if q.Search != "" {
		filter["formId"] = bson.M{"$regex": q.Search, "$options": "i"}
	}
	return r.list(ctx, filter, q)
}

func (r *responseRepo) list(ctx context.Context, filter bson.M, q model.PageQuery) ([]*model.Response, int64, error) {
	q = q.Normalize()

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(q.Skip()).
		SetLimit(q.Limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var responses []*model.Response
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}
