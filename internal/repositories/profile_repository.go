package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/infinito/platform/internal/models"
)

// profileRepository implements access to the profiles table
type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB) *profileRepository {
	return &profileRepository{
		db: db,
	}
}

const profileColumns = `id, name, email, avatar_url, role, COALESCE(device_type, ''), password_hash, created_at`

// scanProfile scans a row selected with profileColumns
func scanProfile(row rowScanner) (*models.Profile, error) {
	p := &models.Profile{}
	var role, device string
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &p.AvatarURL, &role, &device, &p.PasswordHash, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Role = models.Role(role)
	p.DeviceType = models.ParseDevice(device)
	return p, nil
}

// Create inserts a new profile and sets its ID
func (r *profileRepository) Create(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (name, email, avatar_url, role, password_hash)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, p.Name, p.Email, p.AvatarURL, string(p.Role), p.PasswordHash)
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("%w: email already registered", models.ErrConflict)
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	p.ID = int(id)
	return nil
}

// GetByEmail retrieves a profile by email
func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = ? LIMIT 1`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile by email: %w", err)
	}
	return p, nil
}

// GetByID retrieves a profile by ID
func (r *profileRepository) GetByID(ctx context.Context, id int) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = ? LIMIT 1`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile by id: %w", err)
	}
	return p, nil
}

// UpdatePassword replaces the password hash of the profile with the given email
func (r *profileRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE profiles SET password_hash = ? WHERE email = ?`, passwordHash, email)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("profile %w", models.ErrNotFound)
	}
	return nil
}

// GetDevice returns the stored device preference of a user. A NULL column yields the default device.
func (r *profileRepository) GetDevice(ctx context.Context, userID int) (models.DeviceType, error) {
	var device sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT device_type FROM profiles WHERE id = ? LIMIT 1`, userID).Scan(&device)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("profile %w", models.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get device preference: %w", err)
	}
	return models.ParseDevice(device.String), nil
}

// UpdateDevice stores the device preference of a user
func (r *profileRepository) UpdateDevice(ctx context.Context, userID int, device models.DeviceType) error {
	result, err := r.db.ExecContext(ctx, `UPDATE profiles SET device_type = ? WHERE id = ?`, string(device), userID)
	if err != nil {
		return fmt.Errorf("failed to update device preference: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	// MySQL reports 0 affected rows when the value is unchanged, so confirm the row exists
	if rows == 0 {
		if _, err := r.GetDevice(ctx, userID); err != nil {
			return err
		}
	}
	return nil
}

// List returns a page of profiles matching search on name or email, newest first, plus the total match count
func (r *profileRepository) List(ctx context.Context, search string, page, count int) ([]models.Profile, int, error) {
	where := ""
	args := []any{}
	if search != "" {
		where = "WHERE name LIKE ? OR email LIKE ?"
		like := "%" + search + "%"
		args = append(args, like, like)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	query := `SELECT ` + profileColumns + ` FROM profiles ` + where + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, count, (page-1)*count)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	profiles := []models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return profiles, total, nil
}
