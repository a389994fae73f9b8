package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gwonyoung/aibuup/internal/model"
)

// PostgresCommentRepo는 PostgreSQL을 사용한 댓글 리포지토리.
type PostgresCommentRepo struct {
	db *sql.DB
}

// NewPostgresCommentRepo는 PostgresCommentRepo를 생성한다.
func NewPostgresCommentRepo(db *sql.DB) *PostgresCommentRepo {
	return &PostgresCommentRepo{db: db}
}

// ListByPostID는 게시글의 댓글을 작성일 오름차순으로 반환한다.
func (r *PostgresCommentRepo) ListByPostID(ctx context.Context, postID string) ([]*model.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, post_id, user_id, author_name, role, text, created_at
		 FROM comments
		 WHERE post_id = $1
		 ORDER BY created_at ASC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		c := &model.Comment{}
		var userID sql.NullString
		if err := rows.Scan(&c.ID, &c.PostID, &userID, &c.AuthorName, &c.Role, &c.Text, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		c.UserID = userID.String
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate comments: %w", err)
	}

	return comments, nil
}

// FindByID는 지정 ID의 댓글을 조회한다. 없으면 nil을 반환한다.
func (r *PostgresCommentRepo) FindByID(ctx context.Context, id string) (*model.Comment, error) {
	c := &model.Comment{}
	var userID sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, post_id, user_id, author_name, role, text, created_at
		 FROM comments WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.PostID, &userID, &c.AuthorName, &c.Role, &c.Text, &c.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	c.UserID = userID.String

	return c, nil
}

// Create는 댓글을 생성한다.
func (r *PostgresCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	var userID any
	if comment.UserID != "" {
		userID = comment.UserID
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (id, post_id, user_id, author_name, role, text, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		comment.ID, comment.PostID, userID, comment.AuthorName, comment.Role, comment.Text, comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// DeleteByID는 지정 ID의 댓글을 삭제한다.
func (r *PostgresCommentRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM comments WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("comment not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ CommentRepository = (*PostgresCommentRepo)(nil)
