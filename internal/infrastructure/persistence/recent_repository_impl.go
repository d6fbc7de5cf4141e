package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"branchboard-core/internal/database"
	"branchboard-core/internal/domain/recent"

	"github.com/google/uuid"
)

// targetSeparator joins target names for storage. Branch names may contain
// slashes but never newlines.
const targetSeparator = "\n"

// RecentRepoImpl implements the domain recent.Repository interface
type RecentRepoImpl struct {
	db *sql.DB
}

// NewRecentRepository creates a new recent-repositories implementation
func NewRecentRepository(db *database.DB) *RecentRepoImpl {
	return &RecentRepoImpl{db: db.GetConnection()}
}

// EnsureSchema creates the recents table when it does not exist yet.
func (r *RecentRepoImpl) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS recent_repositories (
			id UUID PRIMARY KEY,
			owner TEXT NOT NULL,
			name TEXT NOT NULL,
			targets TEXT NOT NULL,
			last_opened TIMESTAMPTZ NOT NULL,
			UNIQUE (owner, name)
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure recents schema: %w", err)
	}
	return nil
}

// Save persists an entry (create or update via upsert on owner/name). The
// RETURNING clause reports the id the row actually carries: on a conflict
// the stored row keeps its original id, not the one being inserted.
func (r *RecentRepoImpl) Save(ctx context.Context, entry *recent.Entry) (*recent.Entry, error) {
	var storedID uuid.UUID
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO recent_repositories (id, owner, name, targets, last_opened)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (owner, name)
		DO UPDATE SET targets = EXCLUDED.targets, last_opened = EXCLUDED.last_opened
		RETURNING id`,
		entry.ID().UUID(),
		entry.Owner(),
		entry.Name(),
		strings.Join(entry.Targets(), targetSeparator),
		entry.LastOpened(),
	).Scan(&storedID)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert recent entry: %w", err)
	}

	entryID, err := recent.ParseEntryID(storedID.String())
	if err != nil {
		return nil, err
	}
	return recent.Rehydrate(entryID, entry.Owner(), entry.Name(), entry.Targets(), entry.LastOpened()), nil
}

// FindByOwnerAndName retrieves an entry by its repository identity
func (r *RecentRepoImpl) FindByOwnerAndName(ctx context.Context, owner, name string) (*recent.Entry, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner, name, targets, last_opened
		FROM recent_repositories
		WHERE owner = $1 AND name = $2`,
		owner, name,
	)

	entry, err := r.scanEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, recent.ErrEntryNotFound(owner + "/" + name)
		}
		return nil, fmt.Errorf("failed to get recent entry: %w", err)
	}
	return entry, nil
}

// ListRecent returns entries ordered by last-opened descending, bounded
func (r *RecentRepoImpl) ListRecent(ctx context.Context, limit int) ([]*recent.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner, name, targets, last_opened
		FROM recent_repositories
		ORDER BY last_opened DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent entries: %w", err)
	}
	defer rows.Close()

	var entries []*recent.Entry
	for rows.Next() {
		entry, err := r.scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recent entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recent entries: %w", err)
	}

	return entries, nil
}

// Delete removes an entry by ID
func (r *RecentRepoImpl) Delete(ctx context.Context, id recent.EntryID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM recent_repositories WHERE id = $1`, id.UUID())
	if err != nil {
		return fmt.Errorf("failed to delete recent entry: %w", err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return recent.ErrEntryNotFound(id.String())
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *RecentRepoImpl) scanEntry(row rowScanner) (*recent.Entry, error) {
	var (
		id         uuid.UUID
		owner      string
		name       string
		targets    string
		lastOpened sql.NullTime
	)

	if err := row.Scan(&id, &owner, &name, &targets, &lastOpened); err != nil {
		return nil, err
	}

	entryID, err := recent.ParseEntryID(id.String())
	if err != nil {
		return nil, err
	}

	return recent.Rehydrate(
		entryID,
		owner,
		name,
		strings.Split(targets, targetSeparator),
		lastOpened.Time,
	), nil
}
