package roster

import "context"

type StubRepository struct {
	Identities []WorkspaceIdentity
	Workers    []Worker
	Links      map[string]IdentityLink
}

func (s *StubRepository) StoreIdentities(ctx context.Context, identities []WorkspaceIdentity) error {
	s.Identities = identities
	return nil
}

func (s *StubRepository) ListIdentities(ctx context.Context) ([]WorkspaceIdentity, error) {
	return s.Identities, nil
}

func (s *StubRepository) StoreWorkers(ctx context.Context, workers []Worker) error {
	s.Workers = workers
	return nil
}

func (s *StubRepository) ListWorkers(ctx context.Context) ([]Worker, error) {
	return s.Workers, nil
}

func (s *StubRepository) StoreLinks(ctx context.Context, links map[string]IdentityLink) error {
	s.Links = links
	return nil
}

func (s *StubRepository) ListLinks(ctx context.Context) (map[string]IdentityLink, error) {
	if s.Links == nil {
		return map[string]IdentityLink{}, nil
	}
	return s.Links, nil
}
