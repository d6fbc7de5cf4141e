package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"branchboard-core/internal/application/dto"
	"branchboard-core/internal/domain/branch"
	"branchboard-core/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const unknownAuthor = "Unknown"

// ReconciliationService is the top-level reconciliation use case: it
// enumerates a repository's branches, filters them by naming convention and
// resolves each qualifying branch's merge status against every configured
// target. Only enumeration failure aborts a call; every per-branch and
// per-target failure degrades that single data point.
type ReconciliationService struct {
	provider   branch.ProviderClient
	comparator *mergeComparator
	// maxConcurrent bounds the branch fan-out as a safety valve against
	// very large repositories; zero means unbounded.
	maxConcurrent int
	now           func() time.Time
}

// NewReconciliationService creates a new reconciliation service.
func NewReconciliationService(provider branch.ProviderClient, maxConcurrent int) *ReconciliationService {
	return &ReconciliationService{
		provider:      provider,
		comparator:    newMergeComparator(provider, time.Now),
		maxConcurrent: maxConcurrent,
		now:           time.Now,
	}
}

// Reconcile computes merge statuses for all qualifying branches of the
// repository, sorted by last update descending.
func (s *ReconciliationService) Reconcile(ctx context.Context, handle branch.RepositoryHandle) (*dto.ReconcileResponse, error) {
	records, err := s.reconcile(ctx, handle, nil)
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].LastUpdated().Equal(records[j].LastUpdated()) {
			return records[i].Name() < records[j].Name()
		}
		return records[i].LastUpdated().After(records[j].LastUpdated())
	})

	responses := make([]*dto.BranchResponse, len(records))
	for i, rec := range records {
		responses[i] = s.toDTO(rec)
	}

	return &dto.ReconcileResponse{
		Repository: handle.FullName(),
		Targets:    handle.Targets().Names(),
		Branches:   responses,
	}, nil
}

// ReconcileStream runs the same computation but hands each branch to
// onRecord as soon as it completes, in completion order. The callback is
// never invoked concurrently.
func (s *ReconciliationService) ReconcileStream(ctx context.Context, handle branch.RepositoryHandle, onRecord func(*dto.BranchResponse)) error {
	var mu sync.Mutex
	emit := func(rec *branch.Record) {
		resp := s.toDTO(rec)
		mu.Lock()
		onRecord(resp)
		mu.Unlock()
	}

	_, err := s.reconcile(ctx, handle, emit)
	return err
}

// DeleteBranch removes a single branch. Provider failures are surfaced
// verbatim: deletion is an explicit user action, never degraded.
func (s *ReconciliationService) DeleteBranch(ctx context.Context, handle branch.RepositoryHandle, name string) error {
	if name == "" {
		return branch.ErrInvalidHandle("branch", fmt.Errorf("branch name cannot be empty"))
	}
	return s.provider.DeleteBranch(ctx, handle, name)
}

// DeleteBranches removes a set of branches, one independent provider call
// per name. One failure never stops the remaining deletions; each outcome is
// reported per name.
func (s *ReconciliationService) DeleteBranches(ctx context.Context, handle branch.RepositoryHandle, names []string) *dto.BulkDeleteResponse {
	response := &dto.BulkDeleteResponse{
		Results: make([]dto.DeleteBranchResponse, 0, len(names)),
	}

	for _, name := range names {
		result := dto.DeleteBranchResponse{Name: name}
		if err := s.DeleteBranch(ctx, handle, name); err != nil {
			result.Error = err.Error()
			response.Failed++
			logger.Warn("branch deletion failed",
				zap.String("repo", handle.FullName()),
				zap.String("branch", name),
				zap.Error(err),
			)
		} else {
			result.Deleted = true
			response.Deleted++
		}
		response.Results = append(response.Results, result)
	}

	return response
}

// reconcile is the shared engine behind Reconcile and ReconcileStream.
func (s *ReconciliationService) reconcile(ctx context.Context, handle branch.RepositoryHandle, emit func(*branch.Record)) ([]*branch.Record, error) {
	started := s.now()

	refs, err := s.listAllBranches(ctx, handle)
	if err != nil {
		// Without a complete branch list nothing else is possible; an
		// incomplete one would silently hide branches from the user.
		return nil, fmt.Errorf("failed to enumerate branches: %w", err)
	}

	qualifying := make([]qualifyingRef, 0, len(refs))
	for _, ref := range refs {
		category := branch.Classify(ref.Name)
		if category.IsQualifying() {
			qualifying = append(qualifying, qualifyingRef{ref: ref, category: category})
		}
	}

	logger.Info("reconciliation started",
		zap.String("repo", handle.FullName()),
		zap.Int("branches", len(refs)),
		zap.Int("qualifying", len(qualifying)),
		zap.Strings("targets", handle.Targets().Names()),
	)

	records := make([]*branch.Record, len(qualifying))

	g, gctx := errgroup.WithContext(ctx)
	if s.maxConcurrent > 0 {
		g.SetLimit(s.maxConcurrent)
	}

	for i, q := range qualifying {
		i, q := i, q
		g.Go(func() error {
			rec := s.buildRecord(gctx, handle, q)
			records[i] = rec
			if emit != nil {
				emit(rec)
			}
			return nil
		})
	}

	// Workers only write their own slot and never return errors; the join
	// is the single barrier before results are read.
	_ = g.Wait()

	logger.Info("reconciliation finished",
		zap.String("repo", handle.FullName()),
		zap.Int("records", len(records)),
		zap.Duration("elapsed", s.now().Sub(started)),
	)

	return records, nil
}

type qualifyingRef struct {
	ref      branch.Ref
	category branch.Category
}

// listAllBranches pages through the provider's branch listing until no next
// page remains. All-or-nothing: any page failure fails the enumeration.
func (s *ReconciliationService) listAllBranches(ctx context.Context, handle branch.RepositoryHandle) ([]branch.Ref, error) {
	var all []branch.Ref

	page := 1
	for {
		result, err := s.provider.ListBranches(ctx, handle, page)
		if err != nil {
			return nil, err
		}

		all = append(all, result.Refs...)

		if result.NextPage == 0 || len(result.Refs) == 0 {
			break
		}
		page = result.NextPage
	}

	return all, nil
}

// buildRecord assembles one branch's record: tip-commit metadata (degraded
// to defaults on failure) plus one merge status per configured target, in
// configured order, computed concurrently.
func (s *ReconciliationService) buildRecord(ctx context.Context, handle branch.RepositoryHandle, q qualifyingRef) *branch.Record {
	author := unknownAuthor
	avatar := ""
	lastUpdated := s.now()

	detail, err := s.provider.GetCommit(ctx, handle, q.ref.TipSHA)
	if err != nil {
		logger.Warn("tip commit lookup failed, using defaults",
			zap.String("repo", handle.FullName()),
			zap.String("branch", q.ref.Name),
			zap.Error(err),
		)
	} else {
		if detail.AuthorLogin != "" {
			author = detail.AuthorLogin
		} else if detail.AuthorName != "" {
			author = detail.AuthorName
		}
		avatar = detail.AvatarURL
		if !detail.AuthoredAt.IsZero() {
			lastUpdated = detail.AuthoredAt
		}
	}

	targets := handle.Targets().Names()
	statuses := make([]branch.MergeStatus, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		i, target := i, target
		wg.Add(1)
		go func() {
			defer wg.Done()
			statuses[i] = s.comparator.Compare(ctx, handle, q.ref.Name, target)
		}()
	}
	wg.Wait()

	return branch.NewRecord(q.ref.Name, q.category, lastUpdated, author, avatar, statuses)
}

// toDTO converts a domain record to its API representation.
func (s *ReconciliationService) toDTO(rec *branch.Record) *dto.BranchResponse {
	statuses := make([]dto.MergeStatusResponse, len(rec.Statuses()))
	for i, st := range rec.Statuses() {
		var mergeDate *string
		if st.LastMergeDate != nil {
			formatted := st.LastMergeDate.Format(time.RFC3339)
			mergeDate = &formatted
		}
		statuses[i] = dto.MergeStatusResponse{
			Target:        st.Target,
			IsMerged:      st.IsMerged,
			CommitsAhead:  st.CommitsAhead,
			CommitsBehind: st.CommitsBehind,
			LastMergeDate: mergeDate,
		}
	}

	return &dto.BranchResponse{
		Name:         rec.Name(),
		Category:     rec.Category().String(),
		LastUpdated:  rec.LastUpdated().Format(time.RFC3339),
		Author:       rec.Author(),
		AuthorAvatar: rec.AuthorAvatar(),
		Statuses:     statuses,
	}
}
