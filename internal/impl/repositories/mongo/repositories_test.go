package repositories_mongo

import (
	"context"
	"testing"

	"github.com/drujensen/gaurika/internal/domain/entities"
	"github.com/drujensen/gaurika/internal/domain/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoHistoryRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("load empty", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "gaurika.history", mtest.FirstBatch))

		history, err := NewMongoHistoryRepository(mt.Coll).LoadHistory(context.Background())
		require.NoError(t, err)
		assert.Empty(t, history)
		assert.NotNil(t, history)
	})

	mt.Run("load stored", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "gaurika.history", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: historyDocumentID},
			{Key: "messages", Value: bson.A{
				bson.D{{Key: "role", Value: "system"}, {Key: "content", Value: "You are Gaurika."}},
				bson.D{{Key: "role", Value: "user"}, {Key: "content", Value: "hi"}},
			}},
		}))

		history, err := NewMongoHistoryRepository(mt.Coll).LoadHistory(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []entities.Message{
			{Role: entities.RoleSystem, Content: "You are Gaurika."},
			{Role: entities.RoleUser, Content: "hi"},
		}, history)
	})

	mt.Run("save upserts", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		err := NewMongoHistoryRepository(mt.Coll).SaveHistory(context.Background(), []entities.Message{{Role: entities.RoleUser, Content: "hi"}})
		assert.NoError(t, err)
	})

	mt.Run("save failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 11600, Message: "interrupted"}))

		err := NewMongoHistoryRepository(mt.Coll).SaveHistory(context.Background(), nil)
		assert.IsType(t, &errs.InternalError{}, err)
	})
}

func TestMongoAuditLogRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("append", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := NewMongoAuditLogRepository(mt.Coll).AppendEntry(context.Background(), entities.NewAuditEntry("ls", "a.txt", entities.AuditSourceTool))
		assert.NoError(t, err)
	})

	mt.Run("append failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		err := NewMongoAuditLogRepository(mt.Coll).AppendEntry(context.Background(), entities.NewAuditEntry("ls", "a.txt", entities.AuditSourceTool))
		assert.IsType(t, &errs.InternalError{}, err)
	})
}
