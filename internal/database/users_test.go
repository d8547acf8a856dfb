package database

import (
	"context"
	"testing"
	"time"

	"github.com/isdelr/credential-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "testdb." + UsersCollection

	mt.Run("find by username returns user", func(mt *mtest.T) {
		created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "u-1"},
			{Key: "username", Value: "alice"},
			{Key: "password", Value: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$a2V5"},
			{Key: "created_at", Value: primitive.NewDateTimeFromTime(created)},
		}))

		user, err := NewUserRepository(mt.DB).FindByUsername(context.Background(), "alice")
		require.NoError(mt, err)
		require.NotNil(mt, user)
		assert.Equal(mt, "u-1", user.ID)
		assert.Equal(mt, "alice", user.Username)
		assert.Equal(mt, created, user.CreatedAt.UTC())

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "find", started.CommandName)
		filter := started.Command.Lookup("filter").Document()
		assert.Equal(mt, "alice", filter.Lookup("username").StringValue())
	})

	mt.Run("operator payload is matched literally", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		payload := `{"$ne": ""}`
		user, err := NewUserRepository(mt.DB).FindByUsername(context.Background(), payload)
		require.NoError(mt, err)
		assert.Nil(mt, user)

		filter := mt.GetStartedEvent().Command.Lookup("filter").Document()
		// the filter value is a string, not an embedded operator document
		assert.Equal(mt, payload, filter.Lookup("username").StringValue())
	})

	mt.Run("find by username not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		user, err := NewUserRepository(mt.DB).FindByUsername(context.Background(), "nobody")
		require.NoError(mt, err)
		assert.Nil(mt, user)
	})

	mt.Run("find by username failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Name: "BadValue", Message: "boom",
		}))

		user, err := NewUserRepository(mt.DB).FindByUsername(context.Background(), "alice")
		assert.Error(mt, err)
		assert.Nil(mt, user)
	})

	mt.Run("find by id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "u-2"},
			{Key: "username", Value: "bob"},
		}))

		user, err := NewUserRepository(mt.DB).FindByID(context.Background(), "u-2")
		require.NoError(mt, err)
		require.NotNil(mt, user)
		assert.Equal(mt, "bob", user.Username)
	})

	mt.Run("insert", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := NewUserRepository(mt.DB).Insert(context.Background(), &models.User{
			ID: "u-3", Username: "carol", PasswordHash: "$argon2id$...", CreatedAt: time.Now().UTC(),
		})
		require.NoError(mt, err)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "insert", started.CommandName)
	})

	mt.Run("insert duplicate username", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "E11000 duplicate key error collection: testdb.users index: username_unique",
		}))

		err := NewUserRepository(mt.DB).Insert(context.Background(), &models.User{ID: "u-4", Username: "alice"})
		assert.ErrorIs(mt, err, ErrDuplicateKey)
	})

	mt.Run("insert failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 1, Name: "InternalError", Message: "disk full",
		}))

		err := NewUserRepository(mt.DB).Insert(context.Background(), &models.User{ID: "u-5", Username: "dave"})
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, ErrDuplicateKey)
	})
}
