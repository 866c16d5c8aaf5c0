package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/infinito/platform/internal/models"
)

// changelogRepository implements access to release notes
type changelogRepository struct {
	db *sql.DB
}

// NewChangelogRepository creates a new changelog repository
func NewChangelogRepository(db *sql.DB) *changelogRepository {
	return &changelogRepository{
		db: db,
	}
}

const changelogColumns = `id, version, title, type, keywords, release_date, created_at`

func scanChangelog(s rowScanner) (models.ChangelogEntry, error) {
	var e models.ChangelogEntry
	var keywords []byte
	if err := s.Scan(&e.ID, &e.Version, &e.Title, &e.Type, &keywords, &e.ReleaseDate, &e.CreatedAt); err != nil {
		return e, err
	}
	e.Keywords = []string{}
	if len(keywords) > 0 {
		if err := json.Unmarshal(keywords, &e.Keywords); err != nil {
			return e, fmt.Errorf("failed to decode keywords: %w", err)
		}
	}
	return e, nil
}

// List returns every entry, newest release first
func (r *changelogRepository) List(ctx context.Context) ([]models.ChangelogEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+changelogColumns+` FROM changelog_entries ORDER BY release_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query changelog: %w", err)
	}
	defer rows.Close()

	entries := []models.ChangelogEntry{}
	for rows.Next() {
		e, err := scanChangelog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan changelog entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return entries, nil
}

// Latest returns the newest entry
func (r *changelogRepository) Latest(ctx context.Context) (*models.ChangelogEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+changelogColumns+` FROM changelog_entries ORDER BY release_date DESC, id DESC LIMIT 1`)
	e, err := scanChangelog(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("changelog entry %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest changelog entry: %w", err)
	}
	return &e, nil
}

// Create inserts an entry and sets its ID
func (r *changelogRepository) Create(ctx context.Context, e *models.ChangelogEntry) error {
	keywords, err := json.Marshal(nonNil(e.Keywords))
	if err != nil {
		return fmt.Errorf("failed to encode keywords: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO changelog_entries (version, title, type, keywords, release_date) VALUES (?, ?, ?, ?, ?)`,
		e.Version, e.Title, e.Type, keywords, e.ReleaseDate,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("version %s %w", e.Version, models.ErrConflict)
		}
		return fmt.Errorf("failed to create changelog entry: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	e.ID = int(id)
	return nil
}

// Update replaces an entry
func (r *changelogRepository) Update(ctx context.Context, e *models.ChangelogEntry) error {
	keywords, err := json.Marshal(nonNil(e.Keywords))
	if err != nil {
		return fmt.Errorf("failed to encode keywords: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE changelog_entries SET version = ?, title = ?, type = ?, keywords = ?, release_date = ? WHERE id = ?`,
		e.Version, e.Title, e.Type, keywords, e.ReleaseDate, e.ID,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("version %s %w", e.Version, models.ErrConflict)
		}
		return fmt.Errorf("failed to update changelog entry: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		var exists int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM changelog_entries WHERE id = ?`, e.ID).Scan(&exists)
		if err == sql.ErrNoRows {
			return fmt.Errorf("changelog entry %w", models.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check changelog entry: %w", err)
		}
	}
	return nil
}

// Delete removes an entry. Deleting a missing entry is a no-op.
func (r *changelogRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM changelog_entries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete changelog entry: %w", err)
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
