package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/infinito/platform/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupFeedTestRepository creates a feed repository with a mock database
func setupFeedTestRepository(t *testing.T) (*feedRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewFeedRepository(db)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func TestFeedRepository_ListPosts(t *testing.T) {
	repo, mock, cleanup := setupFeedTestRepository(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "author_id", "name", "content", "likes_count", "comments", "created_at"}).
		AddRow(3, 1, "Ana", "Olá turma", 4, 2, now)
	mock.ExpectQuery(`FROM posts p\s+JOIN profiles pr`).WithArgs(20, 20).WillReturnRows(rows)

	posts, err := repo.ListPosts(context.Background(), 2, 20)

	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Ana", posts[0].AuthorName)
	assert.Equal(t, 2, posts[0].CommentCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedRepository_CreateComment_MissingPost(t *testing.T) {
	repo, mock, cleanup := setupFeedTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`INSERT INTO comments`).WithArgs(9, 1, "Oi").
		WillReturnError(&mysql.MySQLError{Number: 1452, Message: "foreign key constraint fails"})

	err := repo.CreateComment(context.Background(), &models.Comment{PostID: 9, AuthorID: 1, Content: "Oi"})

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedRepository_Like(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedLiked bool
		expectedError error
		anyError      bool
	}{
		{
			name: "first like increments counter",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT id FROM posts WHERE id = \? FOR UPDATE`).WithArgs(3).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
				mock.ExpectExec(`INSERT IGNORE INTO post_likes`).WithArgs(3, 7).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`UPDATE posts SET likes_count = likes_count \+ 1`).WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			expectedLiked: true,
		},
		{
			name: "repeated like is ignored",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`FOR UPDATE`).WithArgs(3).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
				mock.ExpectExec(`INSERT IGNORE INTO post_likes`).WithArgs(3, 7).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectCommit()
			},
			expectedLiked: false,
		},
		{
			name: "missing post",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`FOR UPDATE`).WithArgs(3).WillReturnError(sql.ErrNoRows)
				mock.ExpectRollback()
			},
			expectedError: models.ErrNotFound,
		},
		{
			name: "counter update failure rolls back",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`FOR UPDATE`).WithArgs(3).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
				mock.ExpectExec(`INSERT IGNORE INTO post_likes`).WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`UPDATE posts SET likes_count`).WillReturnError(errors.New("lock wait timeout"))
				mock.ExpectRollback()
			},
			anyError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupFeedTestRepository(t)
			defer cleanup()
			tt.setupMock(mock)

			liked, err := repo.Like(context.Background(), 3, 7)

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
			case tt.anyError:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedLiked, liked)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestFeedRepository_DeletePost(t *testing.T) {
	repo, mock, cleanup := setupFeedTestRepository(t)
	defer cleanup()

	mock.ExpectExec(`DELETE FROM posts WHERE id = \?`).WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.DeletePost(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}
