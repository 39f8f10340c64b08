package roster

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Repository persists the two rosters and the resolved links. All three are
// written wholesale once per cycle, mirroring how the sync driver treats them.
type Repository interface {
	StoreIdentities(ctx context.Context, identities []WorkspaceIdentity) error
	ListIdentities(ctx context.Context) ([]WorkspaceIdentity, error)
	StoreWorkers(ctx context.Context, workers []Worker) error
	ListWorkers(ctx context.Context) ([]Worker, error)
	StoreLinks(ctx context.Context, links map[string]IdentityLink) error
	ListLinks(ctx context.Context) (map[string]IdentityLink, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) StoreIdentities(ctx context.Context, identities []WorkspaceIdentity) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM workspace_identity`); err != nil {
		err := fmt.Errorf("could not clear workspace identities: %w", err)
		log.Error(err)
		return err
	}
	query := `INSERT INTO workspace_identity (email, workspace_id, display_name, active) VALUES ($1, $2, $3, $4)`
	for _, identity := range identities {
		if _, err := tx.Exec(ctx, query, identity.Email, identity.Id, identity.DisplayName, identity.Active); err != nil {
			err := fmt.Errorf("could not store workspace identity %s: %w", identity.Email, err)
			log.Error(err)
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *RepositoryImpl) ListIdentities(ctx context.Context) ([]WorkspaceIdentity, error) {
	query := `SELECT email, workspace_id, display_name, active FROM workspace_identity ORDER BY email`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		log.Errorf("failed to query workspace identities: %v", err)
		return nil, err
	}
	defer rows.Close()

	var identities []WorkspaceIdentity
	for rows.Next() {
		var identity WorkspaceIdentity
		if err := rows.Scan(&identity.Email, &identity.Id, &identity.DisplayName, &identity.Active); err != nil {
			log.Errorf("failed to scan workspace identity: %v", err)
			return nil, err
		}
		identities = append(identities, identity)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over workspace identities: %v", err)
		return nil, err
	}
	return identities, nil
}

func (r *RepositoryImpl) StoreWorkers(ctx context.Context, workers []Worker) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM technician`); err != nil {
		err := fmt.Errorf("could not clear technicians: %w", err)
		log.Error(err)
		return err
	}
	query := `INSERT INTO technician (id, user_account_id, name, email, active) VALUES ($1, $2, $3, $4, $5)`
	for _, worker := range workers {
		if _, err := tx.Exec(ctx, query, worker.Id, worker.UserAccountId, worker.Name, worker.Email, worker.Active); err != nil {
			err := fmt.Errorf("could not store technician %d: %w", worker.Id, err)
			log.Error(err)
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *RepositoryImpl) ListWorkers(ctx context.Context) ([]Worker, error) {
	query := `SELECT id, user_account_id, name, email, active FROM technician ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		log.Errorf("failed to query technicians: %v", err)
		return nil, err
	}
	defer rows.Close()

	var workers []Worker
	for rows.Next() {
		var worker Worker
		if err := rows.Scan(&worker.Id, &worker.UserAccountId, &worker.Name, &worker.Email, &worker.Active); err != nil {
			log.Errorf("failed to scan technician: %v", err)
			return nil, err
		}
		workers = append(workers, worker)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over technicians: %v", err)
		return nil, err
	}
	return workers, nil
}

func (r *RepositoryImpl) StoreLinks(ctx context.Context, links map[string]IdentityLink) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM identity_link`); err != nil {
		err := fmt.Errorf("could not clear identity links: %w", err)
		log.Error(err)
		return err
	}
	query := `INSERT INTO identity_link (workspace_email, workspace_id, workspace_name, technician_id, technician_name, technician_email, active)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, link := range links {
		_, err := tx.Exec(ctx, query,
			link.WorkspaceEmail,
			link.WorkspaceId,
			link.WorkspaceName,
			link.WorkerId,
			link.WorkerName,
			link.WorkerEmail,
			link.Active,
		)
		if err != nil {
			err := fmt.Errorf("could not store identity link %s: %w", link.WorkspaceEmail, err)
			log.Error(err)
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *RepositoryImpl) ListLinks(ctx context.Context) (map[string]IdentityLink, error) {
	query := `SELECT workspace_email, workspace_id, workspace_name, technician_id, technician_name, technician_email, active
				FROM identity_link ORDER BY workspace_email`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		log.Errorf("failed to query identity links: %v", err)
		return nil, err
	}
	defer rows.Close()

	links := make(map[string]IdentityLink)
	for rows.Next() {
		var link IdentityLink
		err := rows.Scan(
			&link.WorkspaceEmail,
			&link.WorkspaceId,
			&link.WorkspaceName,
			&link.WorkerId,
			&link.WorkerName,
			&link.WorkerEmail,
			&link.Active,
		)
		if err != nil {
			log.Errorf("failed to scan identity link: %v", err)
			return nil, err
		}
		links[link.WorkspaceEmail] = link
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over identity links: %v", err)
		return nil, err
	}
	return links, nil
}
