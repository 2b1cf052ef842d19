package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMongoStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Skipf("mongo container unavailable: %v", err)
	}
	defer func() {
		_ = mongoContainer.Terminate(ctx)
	}()

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	base, err := ConnectMongo(ctx, uri, "postboard")
	require.NoError(t, err)
	defer func() {
		_ = base.Close(ctx)
	}()
	require.NoError(t, waitReady(ctx, base, 0))

	testStoreContract(t, func(t *testing.T) PostStore {
		// A fresh database per subtest keeps collections empty.
		return NewMongoStore(base.client, "test_"+primitive.NewObjectID().Hex())
	})
}

func TestPostDocumentToModel(t *testing.T) {
	oid := primitive.NewObjectID()
	created := time.Date(2024, 1, 2, 3, 4, 5, 6000000, time.UTC)

	post := postDocument{ID: oid, Title: "t", Content: "c", Created: created}.toModel()
	assert.Equal(t, oid.Hex(), post.ID)
	assert.True(t, created.Equal(post.Created))

	// Documents stored without a created field.
	legacy := postDocument{ID: oid, Title: "t", Content: "c"}.toModel()
	assert.False(t, legacy.Created.IsZero())
	assert.WithinDuration(t, time.Now(), legacy.Created, 5*time.Second)
}
