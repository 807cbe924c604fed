package repositories_mongo

import (
	"context"
	"time"

	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/drujensen/gaurika/internal/domain/errs"
	"github.com/drujensen/gaurika/internal/domain/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// historyDocumentID names the single document that holds the conversation.
const historyDocumentID = "context_history"

type historyDocument struct {
	ID        string             `bson:"_id"`
	Messages  []entities.Message `bson:"messages"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

type MongoHistoryRepository struct {
	collection *mongo.Collection
}

func NewMongoHistoryRepository(collection *mongo.Collection) *MongoHistoryRepository {
	return &MongoHistoryRepository{
		collection: collection,
	}
}

func (r *MongoHistoryRepository) LoadHistory(ctx context.Context) ([]entities.Message, error) {
	var doc historyDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": historyDocumentID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return []entities.Message{}, nil
	}
	if err != nil {
		return nil, errs.InternalErrorf("failed to load history: %v", err)
	}

	if doc.Messages == nil {
		return []entities.Message{}, nil
	}
	return doc.Messages, nil
}

func (r *MongoHistoryRepository) SaveHistory(ctx context.Context, history []entities.Message) error {
	if history == nil {
		history = []entities.Message{}
	}

	doc := historyDocument{
		ID:        historyDocumentID,
		Messages:  history,
		UpdatedAt: time.Now(),
	}

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": historyDocumentID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errs.InternalErrorf("failed to save history: %v", err)
	}

	return nil
}

var _ interfaces.HistoryRepository = (*MongoHistoryRepository)(nil)
