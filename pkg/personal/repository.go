package personal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// SnapshotRepository persists the per-owner personal-event snapshot that the
// reconciler diffs against. A snapshot is always read and replaced wholesale
// for one owner, and only after that owner's whole action batch was attempted.
type SnapshotRepository interface {
	LoadSnapshot(ctx context.Context, ownerEmail string) ([]Event, error)
	SaveSnapshot(ctx context.Context, ownerEmail string, events []Event) error
	ListOwners(ctx context.Context) ([]string, error)
}

type SnapshotRepositoryImpl struct {
	db *pgxpool.Pool
}

func NewSnapshotRepository(db *pgxpool.Pool) *SnapshotRepositoryImpl {
	return &SnapshotRepositoryImpl{db: db}
}

func (r *SnapshotRepositoryImpl) LoadSnapshot(ctx context.Context, ownerEmail string) ([]Event, error) {
	query := `SELECT source_event_id, appointment_id, created_at, updated_at, creator_email, organizer_email,
					title, description, all_day, start_time, end_time, timezone, start_date, end_date
				FROM personal_event WHERE owner_email = $1 ORDER BY position`
	rows, err := r.db.Query(ctx, query, ownerEmail)
	if err != nil {
		log.Errorf("failed to query snapshot for %s: %v", ownerEmail, err)
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		var createdAt, updatedAt, startTime, endTime sql.NullTime
		err := rows.Scan(
			&event.SourceEventId,
			&event.AppointmentId,
			&createdAt,
			&updatedAt,
			&event.CreatorEmail,
			&event.OrganizerEmail,
			&event.Title,
			&event.Description,
			&event.AllDay,
			&startTime,
			&endTime,
			&event.Timezone,
			&event.StartDate,
			&event.EndDate,
		)
		if err != nil {
			log.Errorf("failed to scan personal event: %v", err)
			return nil, err
		}
		event.OwnerEmail = ownerEmail
		if createdAt.Valid {
			event.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			event.UpdatedAt = updatedAt.Time
		}
		if startTime.Valid {
			event.StartTime = startTime.Time
		}
		if endTime.Valid {
			event.EndTime = endTime.Time
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over snapshot rows: %v", err)
		return nil, err
	}
	return events, nil
}

func (r *SnapshotRepositoryImpl) SaveSnapshot(ctx context.Context, ownerEmail string, events []Event) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM personal_event WHERE owner_email = $1`, ownerEmail); err != nil {
		err := fmt.Errorf("could not clear snapshot for %s: %w", ownerEmail, err)
		log.Error(err)
		return err
	}

	query := `INSERT INTO personal_event (owner_email, source_event_id, appointment_id, created_at, updated_at,
					creator_email, organizer_email, title, description, all_day, start_time, end_time, timezone,
					start_date, end_date, position)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	for position, event := range events {
		_, err := tx.Exec(ctx, query,
			ownerEmail,
			event.SourceEventId,
			event.AppointmentId,
			nullableTime(event.CreatedAt),
			nullableTime(event.UpdatedAt),
			event.CreatorEmail,
			event.OrganizerEmail,
			event.Title,
			event.Description,
			event.AllDay,
			nullableTime(event.StartTime),
			nullableTime(event.EndTime),
			event.Timezone,
			event.StartDate,
			event.EndDate,
			position,
		)
		if err != nil {
			err := fmt.Errorf("could not store personal event %s for %s: %w", event.SourceEventId, ownerEmail, err)
			log.Error(err)
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *SnapshotRepositoryImpl) ListOwners(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT owner_email FROM personal_event ORDER BY owner_email`)
	if err != nil {
		log.Errorf("failed to query snapshot owners: %v", err)
		return nil, err
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			log.Errorf("failed to scan snapshot owner: %v", err)
			return nil, err
		}
		owners = append(owners, owner)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over snapshot owners: %v", err)
		return nil, err
	}
	return owners, nil
}

func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
