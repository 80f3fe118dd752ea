package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/progress-bot/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoCollection = "state"
	mongoDocumentID = "document"
)

type mongoDocument struct {
	ID      string    `bson:"_id"`
	SavedAt time.Time `bson:"saved_at"`

	models.Document `bson:",inline"`
}

// MongoDocumentRepository keeps the whole document as a single MongoDB record.
type MongoDocumentRepository struct {
	col *mongo.Collection
}

func NewMongoDocumentRepository(db *mongo.Database) DocumentRepository {
	return &MongoDocumentRepository{col: db.Collection(mongoCollection)}
}

// ConnectMongo opens a client and verifies it with a ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

func (r *MongoDocumentRepository) Load(ctx context.Context) (*models.Document, error) {
	var stored mongoDocument
	err := r.col.FindOne(ctx, bson.M{"_id": mongoDocumentID}).Decode(&stored)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadDocument, err)
	}
	doc := stored.Document
	doc.Normalize()
	return &doc, nil
}

func (r *MongoDocumentRepository) Save(ctx context.Context, doc *models.Document) error {
	stored := mongoDocument{ID: mongoDocumentID, Document: *doc, SavedAt: time.Now().UTC()}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": mongoDocumentID}, stored, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveDocument, err)
	}
	return nil
}
