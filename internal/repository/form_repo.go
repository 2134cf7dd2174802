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

// FormRepo handles MongoDB operations for forms. Deletion is a status flag;
// every lookup except ListByCreator filters DELETED out.
type FormRepo interface {
	Create(ctx context.Context, form *model.Form) (string, error)
	GetByID(ctx context.Context, id string) (*model.Form, error)
	Update(ctx context.Context, form *model.Form) error
	UpdateStatus(ctx context.Context, id string, status model.FormStatus) error
	List(ctx context.Context, q model.PageQuery) ([]*model.Form, int64, error)
	ListByCreator(ctx context.Context, creatorID string, includeDeleted bool) ([]*model.Form, error)
}

type formRepo struct {
	collection *mongo.Collection
}

// NewFormRepo creates a new form repository
func NewFormRepo(db *mongo.Database) FormRepo {
	return &formRepo{
		collection: db.Collection("forms"),
	}
}

func (r *formRepo) Create(ctx context.Context, form *model.Form) (string, error) {
	form.CreatedAt = time.Now()
	form.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, form)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	return oid.Hex(), nil
}

func (r *formRepo) GetByID(ctx context.Context, id string) (*model.Form, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var form model.Form
	err = r.collection.FindOne(ctx, bson.M{
		"_id":    oid,
		"status": bson.M{"$ne": model.FormDeleted},
	}).Decode(&form)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	form.ID = id
	return &form, nil
}

// Update writes the mutable fields with $set. The stored _id is an ObjectID
// while form.ID carries its hex string; a whole-document replace would try
// to rewrite the immutable _id with a different BSON type and be rejected.
func (r *formRepo) Update(ctx context.Context, form *model.Form) error {
	oid, err := primitive.ObjectIDFromHex(form.ID)
	if err != nil {
		return err
	}

	form.UpdatedAt = time.Now()
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": formUpdateDoc(form)})
	return err
}

// formUpdateDoc lists the fields an update may touch; _id and createdBy
// stay out.
func formUpdateDoc(form *model.Form) bson.M {
	return bson.M{
		"title":             form.Title,
		"description":       form.Description,
		"questions":         form.Questions,
		"status":            form.Status,
		"allowEditResponse": form.AllowEditResponse,
		"googleSheetUrl":    form.GoogleSheetURL,
		"redirectUrl":       form.RedirectURL,
		"updatedAt":         form.UpdatedAt,
	}
}

func (r *formRepo) UpdateStatus(ctx context.Context, id string, status model.FormStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"status": status, "updatedAt": time.Now()},
	})
	return err
}

func (r *formRepo) List(ctx context.Context, q model.PageQuery) ([]*model.Form, int64, error) {
	q = q.Normalize()

	filter := bson.M{"status": bson.M{"$ne": model.FormDeleted}}
	if q.Search != "" {
		filter["title"] = bson.M{"$regex": q.Search, "$options": "i"}
	}

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

	var forms []*model.Form
	if err := cursor.All(ctx, &forms); err != nil {
		return nil, 0, err
	}
	return forms, total, nil
}

func (r *formRepo) ListByCreator(ctx context.Context, creatorID string, includeDeleted bool) ([]*model.Form, error) {
	filter := bson.M{"createdBy": creatorID}
	if !includeDeleted {
		filter["status"] = bson.M{"$ne": model.FormDeleted}
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var forms []*model.Form
	if err := cursor.All(ctx, &forms); err != nil {
		return nil, err
	}
	return forms, nil
}
