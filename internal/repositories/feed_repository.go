package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/infinito/platform/internal/models"
)

// feedRepository implements access to community posts, comments and likes
type feedRepository struct {
	db *sql.DB
}

// NewFeedRepository creates a new feed repository
func NewFeedRepository(db *sql.DB) *feedRepository {
	return &feedRepository{
		db: db,
	}
}

// ListPosts returns a page of posts, newest first, with author names and comment counts
func (r *feedRepository) ListPosts(ctx context.Context, page, count int) ([]models.Post, error) {
	query := `
		SELECT p.id, p.author_id, pr.name, p.content, p.likes_count,
			(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id), p.created_at
		FROM posts p
		JOIN profiles pr ON pr.id = p.author_id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, count, (page-1)*count)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.Content, &p.LikesCount, &p.CommentCount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return posts, nil
}

// CreatePost inserts a post and sets its ID
func (r *feedRepository) CreatePost(ctx context.Context, p *models.Post) error {
	result, err := r.db.ExecContext(ctx, `INSERT INTO posts (author_id, content) VALUES (?, ?)`, p.AuthorID, p.Content)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	p.ID = int(id)
	return nil
}

// DeletePost removes a post with its comments and likes. Deleting a missing post is a no-op.
func (r *feedRepository) DeletePost(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// ListComments returns the comments of a post, oldest first
func (r *feedRepository) ListComments(ctx context.Context, postID int) ([]models.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.author_id, pr.name, c.content, c.created_at
		FROM comments c
		JOIN profiles pr ON pr.id = c.author_id
		WHERE c.post_id = ?
		ORDER BY c.created_at, c.id
	`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.AuthorName, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return comments, nil
}

// CreateComment inserts a comment and sets its ID
func (r *feedRepository) CreateComment(ctx context.Context, c *models.Comment) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (post_id, author_id, content) VALUES (?, ?, ?)`,
		c.PostID, c.AuthorID, c.Content,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("post %w", models.ErrNotFound)
		}
		return fmt.Errorf("failed to create comment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	c.ID = int(id)
	return nil
}

// DeleteComment removes a comment. Deleting a missing comment is a no-op.
func (r *feedRepository) DeleteComment(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// Like records a like from userID on a post. Liking twice counts once.
// It reports whether a new like was recorded.
func (r *feedRepository) Like(ctx context.Context, postID, userID int) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var locked int
	err = tx.QueryRowContext(ctx, `SELECT id FROM posts WHERE id = ? FOR UPDATE`, postID).Scan(&locked)
	if err == sql.ErrNoRows {
		return false, fmt.Errorf("post %w", models.ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("failed to lock post: %w", err)
	}

	result, err := tx.ExecContext(ctx, `INSERT IGNORE INTO post_likes (post_id, user_id) VALUES (?, ?)`, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to like post: %w", err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if inserted > 0 {
		if _, err := tx.ExecContext(ctx, `UPDATE posts SET likes_count = likes_count + 1 WHERE id = ?`, postID); err != nil {
			return false, fmt.Errorf("failed to increment likes: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return inserted > 0, nil
}
