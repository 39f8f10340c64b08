package roster

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Service merges freshly fetched rosters with the persisted ones and
// recomputes identity links. Entries missing from a fresh fetch are carried
// over as inactive so that their history (and any in-flight mirrored events)
// survives.
type Service interface {
	RefreshIdentities(ctx context.Context, fetched []WorkspaceIdentity) ([]WorkspaceIdentity, error)
	RefreshWorkers(ctx context.Context, fetched []Worker) ([]Worker, error)
	RefreshLinks(ctx context.Context, identities []WorkspaceIdentity, workers []Worker) (map[string]IdentityLink, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) RefreshIdentities(ctx context.Context, fetched []WorkspaceIdentity) ([]WorkspaceIdentity, error) {
	saved, err := s.repo.ListIdentities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load saved workspace identities: %w", err)
	}

	fetchedByEmail := make(map[string]bool, len(fetched))
	for _, identity := range fetched {
		fetchedByEmail[identity.Email] = true
	}

	merged := fetched
	for _, identity := range saved {
		if fetchedByEmail[identity.Email] {
			continue
		}
		log.Infof("workspace identity %s no longer in directory, marking inactive", identity.Email)
		identity.Active = false
		merged = append(merged, identity)
	}

	if err := s.repo.StoreIdentities(ctx, merged); err != nil {
		return nil, fmt.Errorf("failed to store workspace identities: %w", err)
	}
	return merged, nil
}

func (s *ServiceImpl) RefreshWorkers(ctx context.Context, fetched []Worker) ([]Worker, error) {
	saved, err := s.repo.ListWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load saved technicians: %w", err)
	}

	fetchedById := make(map[int64]bool, len(fetched))
	for _, worker := range fetched {
		fetchedById[worker.Id] = true
	}

	merged := fetched
	for _, worker := range saved {
		if fetchedById[worker.Id] {
			continue
		}
		log.Infof("technician %d no longer in roster, marking inactive", worker.Id)
		worker.Active = false
		merged = append(merged, worker)
	}

	if err := s.repo.StoreWorkers(ctx, merged); err != nil {
		return nil, fmt.Errorf("failed to store technicians: %w", err)
	}
	return merged, nil
}

func (s *ServiceImpl) RefreshLinks(ctx context.Context, identities []WorkspaceIdentity, workers []Worker) (map[string]IdentityLink, error) {
	links := Match(identities, workers)
	log.Debugf("matched %d of %d workspace identities to technicians", len(links), len(identities))
	if err := s.repo.StoreLinks(ctx, links); err != nil {
		return nil, fmt.Errorf("failed to store identity links: %w", err)
	}
	return links, nil
}
