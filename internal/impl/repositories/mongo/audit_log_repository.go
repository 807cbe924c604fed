package repositories_mongo

import (
	"context"

	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/drujensen/gaurika/internal/domain/errs"
	"github.com/drujensen/gaurika/internal/domain/interfaces"

	"go.mongodb.org/mongo-driver/mongo"
)

type MongoAuditLogRepository struct {
	collection *mongo.Collection
}

func NewMongoAuditLogRepository(collection *mongo.Collection) *MongoAuditLogRepository {
	return &MongoAuditLogRepository{
		collection: collection,
	}
}

func (r *MongoAuditLogRepository) AppendEntry(ctx context.Context, entry *entities.AuditEntry) error {
	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return errs.InternalErrorf("failed to append audit entry: %v", err)
	}
	return nil
}

var _ interfaces.AuditLogRepository = (*MongoAuditLogRepository)(nil)
