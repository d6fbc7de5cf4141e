package service

import (
	"context"
	"fmt"
	"time"

	"branchboard-core/internal/application/dto"
	"branchboard-core/internal/domain/recent"
)

const defaultRecentLimit = 20

// RecentService handles the recent-repositories use cases. Only the
// connection (owner, name, targets, last opened) is remembered; merge
// results are never persisted.
type RecentService struct {
	recentRepo recent.Repository
}

// NewRecentService creates a new recent-repositories service.
func NewRecentService(recentRepo recent.Repository) *RecentService {
	return &RecentService{recentRepo: recentRepo}
}

// RecordOpened records that a repository was opened in the dashboard,
// creating or refreshing its entry.
func (s *RecentService) RecordOpened(ctx context.Context, owner, name string, targets []string) (*dto.RecentEntryResponse, error) {
	existing, err := s.recentRepo.FindByOwnerAndName(ctx, owner, name)
	if err == nil {
		existing.Touch(targets)
		saved, err := s.recentRepo.Save(ctx, existing)
		if err != nil {
			return nil, fmt.Errorf("failed to refresh recent entry: %w", err)
		}
		return s.toDTO(saved), nil
	}
	if !recent.IsEntryNotFound(err) {
		// A transient lookup failure must not fall into the create path.
		return nil, fmt.Errorf("failed to look up recent entry: %w", err)
	}

	entry, err := recent.NewEntry(owner, name, targets)
	if err != nil {
		return nil, err
	}
	saved, err := s.recentRepo.Save(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to save recent entry: %w", err)
	}

	return s.toDTO(saved), nil
}

// ListRecent returns recently opened repositories, most recent first.
func (s *RecentService) ListRecent(ctx context.Context, limit int) (*dto.RecentListResponse, error) {
	if limit < 1 || limit > 100 {
		limit = defaultRecentLimit
	}

	entries, err := s.recentRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent entries: %w", err)
	}

	responses := make([]*dto.RecentEntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = s.toDTO(entry)
	}

	return &dto.RecentListResponse{Entries: responses}, nil
}

// Forget removes a recent entry.
func (s *RecentService) Forget(ctx context.Context, id string) error {
	entryID, err := recent.ParseEntryID(id)
	if err != nil {
		return recent.ErrInvalidEntryData("id", err)
	}
	return s.recentRepo.Delete(ctx, entryID)
}

// toDTO converts a recent entry to its API representation.
func (s *RecentService) toDTO(entry *recent.Entry) *dto.RecentEntryResponse {
	return &dto.RecentEntryResponse{
		ID:         entry.ID().String(),
		Owner:      entry.Owner(),
		Name:       entry.Name(),
		FullName:   entry.FullName(),
		Targets:    entry.Targets(),
		LastOpened: entry.LastOpened().Format(time.RFC3339),
	}
}
