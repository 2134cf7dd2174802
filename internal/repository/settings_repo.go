package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"formdesk/internal/model"
)

// SettingsRepo handles the singleton system settings document
type SettingsRepo interface {
	GetOrCreate(ctx context.Context) (*model.SystemSettings, error)
	Update(ctx context.Context, heartbeatWindowHours float64) (*model.SystemSettings, error)
}

type settingsRepo struct {
	collection *mongo.Collection
}

// NewSettingsRepo creates a new settings repository
func NewSettingsRepo(db *mongo.Database) SettingsRepo {
	return &settingsRepo{
		collection: db.Collection("systemSettings"),
	}
}

// GetOrCreate returns the singleton, inserting it with defaults on first
// access. The upsert keeps "exactly one document" true under concurrent
// first readers.
func (r *settingsRepo) GetOrCreate(ctx context.Context) (*model.SystemSettings, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	update := bson.M{"$setOnInsert": bson.M{
		"heartbeatWindowHours": model.DefaultHeartbeatWindowHours,
		"updatedAt":            time.Now(),
	}}

	var settings model.SystemSettings
	err := r.collection.FindOneAndUpdate(ctx, bson.M{}, update, opts).Decode(&settings)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepo) Update(ctx context.Context, heartbeatWindowHours float64) (*model.SystemSettings, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	update := bson.M{"$set": bson.M{
		"heartbeatWindowHours": heartbeatWindowHours,
		"updatedAt":            time.Now(),
	}}

	var settings model.SystemSettings
	err := r.collection.FindOneAndUpdate(ctx, bson.M{}, update, opts).Decode(&settings)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}
