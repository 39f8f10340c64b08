package personal

import (
	"context"
	"sort"
)

type StubSnapshotRepository struct {
	Snapshots map[string][]Event
	SaveCount int
}

func NewStubSnapshotRepository() *StubSnapshotRepository {
	return &StubSnapshotRepository{Snapshots: make(map[string][]Event)}
}

func (s *StubSnapshotRepository) LoadSnapshot(ctx context.Context, ownerEmail string) ([]Event, error) {
	return s.Snapshots[ownerEmail], nil
}

func (s *StubSnapshotRepository) SaveSnapshot(ctx context.Context, ownerEmail string, events []Event) error {
	s.Snapshots[ownerEmail] = events
	s.SaveCount++
	return nil
}

func (s *StubSnapshotRepository) ListOwners(ctx context.Context) ([]string, error) {
	owners := make([]string, 0, len(s.Snapshots))
	for owner := range s.Snapshots {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	return owners, nil
}
