package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/infinito/platform/internal/models"
)

// supportRepository implements access to support conversations and messages
type supportRepository struct {
	db *sql.DB
}

// NewSupportRepository creates a new support repository
func NewSupportRepository(db *sql.DB) *supportRepository {
	return &supportRepository{
		db: db,
	}
}

// EnsureConversation returns the student's conversation, creating it on first use.
// The unique student_id key makes concurrent first messages converge on one row.
func (r *supportRepository) EnsureConversation(ctx context.Context, studentID int) (int, error) {
	query := `
		INSERT INTO support_conversations (student_id) VALUES (?)
		ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)
	`

	result, err := r.db.ExecContext(ctx, query, studentID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("student %w", models.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to ensure conversation: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get conversation id: %w", err)
	}
	return int(id), nil
}

// ConversationIDByStudent returns the ID of the student's conversation without creating it
func (r *supportRepository) ConversationIDByStudent(ctx context.Context, studentID int) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx, `SELECT id FROM support_conversations WHERE student_id = ?`, studentID).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("conversation %w", models.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query conversation: %w", err)
	}
	return id, nil
}

// GetConversation returns the conversation header with the student's name and email
func (r *supportRepository) GetConversation(ctx context.Context, id int) (*models.SupportConversation, error) {
	query := `
		SELECT sc.id, sc.student_id, p.name, p.email, sc.created_at
		FROM support_conversations sc
		JOIN profiles p ON p.id = sc.student_id
		WHERE sc.id = ?
	`

	var c models.SupportConversation
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.StudentID, &c.StudentName, &c.StudentMail, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("conversation %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}
	return &c, nil
}

// ListConversations returns every conversation header
func (r *supportRepository) ListConversations(ctx context.Context) ([]models.SupportConversation, error) {
	query := `
		SELECT sc.id, sc.student_id, p.name, p.email, sc.created_at
		FROM support_conversations sc
		JOIN profiles p ON p.id = sc.student_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var out []models.SupportConversation
	for rows.Next() {
		var c models.SupportConversation
		if err := rows.Scan(&c.ID, &c.StudentID, &c.StudentName, &c.StudentMail, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

const messageColumns = `id, conversation_id, sender_id, sender_type, content, created_at`

// ListMessages returns every support message in creation order
func (r *supportRepository) ListMessages(ctx context.Context) ([]models.SupportMessage, error) {
	return r.queryMessages(ctx, `SELECT `+messageColumns+` FROM support_messages ORDER BY created_at, id`)
}

// ListConversationMessages returns the messages of one conversation in creation order
func (r *supportRepository) ListConversationMessages(ctx context.Context, conversationID int) ([]models.SupportMessage, error) {
	return r.queryMessages(ctx,
		`SELECT `+messageColumns+` FROM support_messages WHERE conversation_id = ? ORDER BY created_at, id`,
		conversationID,
	)
}

func (r *supportRepository) queryMessages(ctx context.Context, query string, args ...any) ([]models.SupportMessage, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query support messages: %w", err)
	}
	defer rows.Close()

	messages := []models.SupportMessage{}
	for rows.Next() {
		var m models.SupportMessage
		var senderID sql.NullInt64
		if err := rows.Scan(&m.ID, &m.ConversationID, &senderID, &m.SenderType, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan support message: %w", err)
		}
		if senderID.Valid {
			id := int(senderID.Int64)
			m.SenderID = &id
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return messages, nil
}

// CreateMessage inserts a message and sets its ID
func (r *supportRepository) CreateMessage(ctx context.Context, m *models.SupportMessage) error {
	var senderID sql.NullInt64
	if m.SenderID != nil {
		senderID = sql.NullInt64{Int64: int64(*m.SenderID), Valid: true}
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO support_messages (conversation_id, sender_id, sender_type, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.ConversationID, senderID, m.SenderType, m.Content, m.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("conversation %w", models.ErrNotFound)
		}
		return fmt.Errorf("failed to create support message: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	m.ID = int(id)
	return nil
}

// DeleteMessage removes a message. Deleting a missing message is a no-op.
func (r *supportRepository) DeleteMessage(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM support_messages WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete support message: %w", err)
	}
	return nil
}

// CountBySender counts messages per sender type
func (r *supportRepository) CountBySender(ctx context.Context) (*models.SupportStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(sender_type = 'admin'), 0),
			COALESCE(SUM(sender_type = 'student'), 0),
			COALESCE(SUM(sender_type = 'bot'), 0)
		FROM support_messages
	`

	var s models.SupportStats
	if err := r.db.QueryRowContext(ctx, query).Scan(&s.Total, &s.Admin, &s.Users, &s.Bot); err != nil {
		return nil, fmt.Errorf("failed to query support stats: %w", err)
	}
	return &s, nil
}
