package personal

import (
	"context"
	"os"
	"testing"
	"time"

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

func TestSnapshotRepositoryImpl_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := NewSnapshotRepository(db)

	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	events := []Event{
		{
			SourceEventId:  "e1",
			AppointmentId:  "501",
			OwnerEmail:     "jo@co.com",
			CreatedAt:      start.Add(-24 * time.Hour),
			UpdatedAt:      start.Add(-time.Hour),
			CreatorEmail:   "jo@co.com",
			OrganizerEmail: "jo@co.com",
			Title:          "OOO - dentist",
			Description:    "root canal",
			StartTime:      start,
			EndTime:        start.Add(time.Hour),
			Timezone:       "UTC",
		},
		{
			SourceEventId: "e2",
			AppointmentId: AppointmentUnset,
			OwnerEmail:    "jo@co.com",
			Title:         "OOO all week",
			AllDay:        true,
			StartDate:     "2025-03-10",
			EndDate:       "2025-03-15",
		},
	}
	assert.NoError(t, repo.SaveSnapshot(ctx, "jo@co.com", events))

	loaded, err := repo.LoadSnapshot(ctx, "jo@co.com")
	assert.NoError(t, err)
	assert.Len(t, loaded, 2)
	assert.Equal(t, "e1", loaded[0].SourceEventId)
	assert.Equal(t, "501", loaded[0].AppointmentId)
	assert.True(t, loaded[0].StartTime.Equal(start))
	assert.True(t, loaded[0].EndTime.Equal(start.Add(time.Hour)))
	assert.Equal(t, "e2", loaded[1].SourceEventId)
	assert.True(t, loaded[1].AllDay)
	assert.False(t, loaded[1].Mirrored())
	assert.True(t, loaded[1].StartTime.IsZero())
}

func TestSnapshotRepositoryImpl_SaveReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	repo := NewSnapshotRepository(db)

	first := []Event{
		{SourceEventId: "e1", OwnerEmail: "sam@co.com", Title: "Personal errand"},
		{SourceEventId: "e2", OwnerEmail: "sam@co.com", Title: "OOO"},
	}
	assert.NoError(t, repo.SaveSnapshot(ctx, "sam@co.com", first))

	second := []Event{
		{SourceEventId: "e2", AppointmentId: "600", OwnerEmail: "sam@co.com", Title: "OOO"},
	}
	assert.NoError(t, repo.SaveSnapshot(ctx, "sam@co.com", second))

	loaded, err := repo.LoadSnapshot(ctx, "sam@co.com")
	assert.NoError(t, err)
	assert.Len(t, loaded, 1)
	assert.Equal(t, "e2", loaded[0].SourceEventId)
	assert.Equal(t, "600", loaded[0].AppointmentId)
}

func TestSnapshotRepositoryImpl_ListOwners(t *testing.T) {
	ctx := context.Background()
	repo := NewSnapshotRepository(db)

	assert.NoError(t, repo.SaveSnapshot(ctx, "a@co.com", []Event{{SourceEventId: "e1", OwnerEmail: "a@co.com"}}))
	assert.NoError(t, repo.SaveSnapshot(ctx, "b@co.com", []Event{{SourceEventId: "e1", OwnerEmail: "b@co.com"}}))

	owners, err := repo.ListOwners(ctx)
	assert.NoError(t, err)
	assert.Contains(t, owners, "a@co.com")
	assert.Contains(t, owners, "b@co.com")
}

func TestSnapshotRepositoryImpl_EmptySnapshot(t *testing.T) {
	ctx := context.Background()
	repo := NewSnapshotRepository(db)

	loaded, err := repo.LoadSnapshot(ctx, "nobody@co.com")
	assert.NoError(t, err)
	assert.Empty(t, loaded)

	// saving an empty snapshot clears the owner's rows
	assert.NoError(t, repo.SaveSnapshot(ctx, "a@co.com", []Event{{SourceEventId: "e1", OwnerEmail: "a@co.com"}}))
	assert.NoError(t, repo.SaveSnapshot(ctx, "a@co.com", nil))
	loaded, err = repo.LoadSnapshot(ctx, "a@co.com")
	assert.NoError(t, err)
	assert.Empty(t, loaded)
}
