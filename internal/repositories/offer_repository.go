package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/infinito/platform/internal/models"
)

// offerRepository implements access to course sidebar offers
type offerRepository struct {
	db *sql.DB
}

// NewOfferRepository creates a new offer repository
func NewOfferRepository(db *sql.DB) *offerRepository {
	return &offerRepository{
		db: db,
	}
}

const offerColumns = `id, offer_key, title, description, button_text, button_url, badge_text,
	price_original, price_promotional, is_active, created_at`

func scanOffer(s rowScanner) (models.SidebarOffer, error) {
	var o models.SidebarOffer
	err := s.Scan(&o.ID, &o.Key, &o.Title, &o.Description, &o.ButtonText, &o.ButtonURL, &o.BadgeText,
		&o.PriceOriginal, &o.PricePromotional, &o.IsActive, &o.CreatedAt)
	return o, err
}

// List returns every offer, newest first
func (r *offerRepository) List(ctx context.Context) ([]models.SidebarOffer, error) {
	return r.query(ctx, `SELECT `+offerColumns+` FROM course_sidebar_offers ORDER BY created_at DESC, id DESC`)
}

// ListActive returns the active offers shown in the course sidebar
func (r *offerRepository) ListActive(ctx context.Context) ([]models.SidebarOffer, error) {
	return r.query(ctx, `SELECT `+offerColumns+` FROM course_sidebar_offers WHERE is_active = TRUE ORDER BY created_at DESC, id DESC`)
}

func (r *offerRepository) query(ctx context.Context, query string) ([]models.SidebarOffer, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}
	defer rows.Close()

	offers := []models.SidebarOffer{}
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return offers, nil
}

// GetByID returns a single offer
func (r *offerRepository) GetByID(ctx context.Context, id int) (*models.SidebarOffer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+offerColumns+` FROM course_sidebar_offers WHERE id = ?`, id)
	o, err := scanOffer(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("offer %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query offer: %w", err)
	}
	return &o, nil
}

// Create inserts an offer. A cross_sell offer is inserted as generic and then
// promoted inside the same transaction so the featured slot never holds two rows.
func (r *offerRepository) Create(ctx context.Context, o *models.SidebarOffer) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	key := o.Key
	if key == models.OfferKeyCrossSell {
		key = models.OfferKeyGeneric
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO course_sidebar_offers
			(offer_key, title, description, button_text, button_url, badge_text, price_original, price_promotional, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		key, o.Title, o.Description, o.ButtonText, o.ButtonURL, o.BadgeText, o.PriceOriginal, o.PricePromotional, o.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	if o.Key == models.OfferKeyCrossSell {
		if err := promote(ctx, tx, int(id)); err != nil {
			return err
		}
		o.IsActive = true
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	o.ID = int(id)
	return nil
}

// Update replaces the editable fields of an offer. Setting the key to cross_sell
// demotes the current featured offer in the same transaction.
func (r *offerRepository) Update(ctx context.Context, o *models.SidebarOffer) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockOffer(ctx, tx, o.ID); err != nil {
		return err
	}

	key := o.Key
	if key == models.OfferKeyCrossSell {
		key = models.OfferKeyGeneric
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE course_sidebar_offers
		SET offer_key = ?, title = ?, description = ?, button_text = ?, button_url = ?, badge_text = ?,
			price_original = ?, price_promotional = ?, is_active = ?
		WHERE id = ?`,
		key, o.Title, o.Description, o.ButtonText, o.ButtonURL, o.BadgeText, o.PriceOriginal, o.PricePromotional, o.IsActive, o.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update offer: %w", err)
	}

	if o.Key == models.OfferKeyCrossSell {
		if err := promote(ctx, tx, o.ID); err != nil {
			return err
		}
		o.IsActive = true
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SetFeatured makes the offer the single cross_sell offer. The previous featured
// offer is demoted to sidebar_generic. Either both changes commit or neither does.
func (r *offerRepository) SetFeatured(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockOffer(ctx, tx, id); err != nil {
		return err
	}
	if err := promote(ctx, tx, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes an offer. Deleting a missing offer is a no-op.
func (r *offerRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM course_sidebar_offers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete offer: %w", err)
	}
	return nil
}

// Stats counts offers by state and key
func (r *offerRepository) Stats(ctx context.Context) (*models.OfferStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(is_active = TRUE), 0),
			COALESCE(SUM(offer_key = 'vip_group'), 0),
			COALESCE(SUM(offer_key = 'cross_sell'), 0)
		FROM course_sidebar_offers
	`

	var s models.OfferStats
	if err := r.db.QueryRowContext(ctx, query).Scan(&s.Total, &s.Active, &s.VIPGroup, &s.CrossSell); err != nil {
		return nil, fmt.Errorf("failed to query offer stats: %w", err)
	}
	return &s, nil
}

// lockOffer takes a row lock on the offer, failing with not found when it does not exist
func lockOffer(ctx context.Context, tx *sql.Tx, id int) error {
	var locked int
	err := tx.QueryRowContext(ctx, `SELECT id FROM course_sidebar_offers WHERE id = ? FOR UPDATE`, id).Scan(&locked)
	if err == sql.ErrNoRows {
		return fmt.Errorf("offer %w", models.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to lock offer: %w", err)
	}
	return nil
}

// promote demotes the current featured offer and promotes id, within tx
func promote(ctx context.Context, tx *sql.Tx, id int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE course_sidebar_offers SET offer_key = 'sidebar_generic' WHERE offer_key = 'cross_sell' AND id <> ?`, id)
	if err != nil {
		return fmt.Errorf("failed to demote featured offer: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE course_sidebar_offers SET offer_key = 'cross_sell', is_active = TRUE WHERE id = ?`, id)
	if err != nil {
		if isDuplicateEntry(err) {
			return fmt.Errorf("featured offer %w", models.ErrConflict)
		}
		return fmt.Errorf("failed to promote offer: %w", err)
	}
	return nil
}
