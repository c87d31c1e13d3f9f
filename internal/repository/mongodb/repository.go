package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

const reportsCollection = "herd_reports"

// Repository defines the interface for report storage.
type Repository interface {
	SaveHerdReport(ctx context.Context, report models.HerdReport) error
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	repo := &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: reportsCollection,
	}

	_, err = repo.collection().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ensure report date index: %w", err)
	}

	return repo, nil
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// SaveHerdReport stores the report of a day, replacing an earlier one.
func (r *MongoDBRepository) SaveHerdReport(ctx context.Context, report models.HerdReport) error {
	_, err := r.collection().ReplaceOne(ctx,
		bson.M{"date": report.Date},
		report,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert herd report: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
