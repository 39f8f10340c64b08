package roster

import (
	"context"
	"os"
	"testing"

	"github.com/JaimeTPT/google-calendar-st-api/internal/test_utils"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

var db *pgxpool.Pool

func TestMain(m *testing.M) {
	container, connect := test_utils.TestWithDB()
	db = connect()
	code := m.Run()
	db.Close()
	_ = container.Terminate(context.Background())
	os.Exit(code)
}

func TestRepositoryImpl_Identities(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(db)

	identities := []WorkspaceIdentity{
		{Id: "u-1", DisplayName: "Jo Field", Email: "jo@co.com", Active: true},
		{Id: "u-2", DisplayName: "Zoe Left", Email: "zoe@co.com", Active: false},
	}
	assert.NoError(t, repo.StoreIdentities(ctx, identities))

	stored, err := repo.ListIdentities(ctx)
	assert.NoError(t, err)
	assert.Equal(t, identities, stored)

	// a subsequent store replaces the roster wholesale
	assert.NoError(t, repo.StoreIdentities(ctx, identities[:1]))
	stored, err = repo.ListIdentities(ctx)
	assert.NoError(t, err)
	assert.Len(t, stored, 1)
	assert.Equal(t, "jo@co.com", stored[0].Email)
}

func TestRepositoryImpl_Workers(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(db)

	workers := []Worker{
		{Id: 7, UserAccountId: 70, Name: "Jo Field", Email: "jo@co.com", Active: true},
		{Id: 9, UserAccountId: 90, Name: "Zoe Left", Email: "", Active: false},
	}
	assert.NoError(t, repo.StoreWorkers(ctx, workers))

	stored, err := repo.ListWorkers(ctx)
	assert.NoError(t, err)
	assert.Equal(t, workers, stored)
}

func TestRepositoryImpl_Links(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(db)

	links := map[string]IdentityLink{
		"jo@co.com": {
			WorkspaceId:    "u-1",
			WorkspaceEmail: "jo@co.com",
			WorkspaceName:  "jo field",
			WorkerId:       7,
			WorkerName:     "jo field",
			WorkerEmail:    "jo@co.com",
			Active:         true,
		},
	}
	assert.NoError(t, repo.StoreLinks(ctx, links))

	stored, err := repo.ListLinks(ctx)
	assert.NoError(t, err)
	assert.Equal(t, links, stored)

	// storing an empty map clears all links
	assert.NoError(t, repo.StoreLinks(ctx, map[string]IdentityLink{}))
	stored, err = repo.ListLinks(ctx)
	assert.NoError(t, err)
	assert.Empty(t, stored)
}
