package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/gwonyoung/aibuup/internal/model"
)

// PostgresPostRepo는 PostgreSQL을 사용한 게시글 리포지토리.
type PostgresPostRepo struct {
	db *sql.DB
}

// NewPostgresPostRepo는 PostgresPostRepo를 생성한다.
func NewPostgresPostRepo(db *sql.DB) *PostgresPostRepo {
	return &PostgresPostRepo{db: db}
}

// FindByID는 지정 ID의 게시글을 조회한다. 없으면 nil을 반환한다.
func (r *PostgresPostRepo) FindByID(ctx context.Context, id string) (*model.Post, error) {
	post := &model.Post{}
	var userID sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, author, category, content, tool, cost, daily_time, result, likes, user_id, created_at
		 FROM posts WHERE id = $1`,
		id,
	).Scan(&post.ID, &post.Title, &post.Author, &post.Category, &post.Content,
		&post.Tool, &post.Cost, &post.DailyTime, &post.Result, &post.Likes, &userID, &post.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	post.UserID = userID.String

	return post, nil
}

// List는 카테고리별 게시글 목록을 작성일 내림차순으로 반환한다.
// category가 빈 문자열이면 전체를 대상으로 하되 excludeCategories에
// 포함된 카테고리는 제외한다. 총 건수도 함께 반환한다.
func (r *PostgresPostRepo) List(ctx context.Context, category string, excludeCategories []string, limit, offset int) ([]*model.Post, int, error) {
	var (
		where string
		args  []any
	)
	switch {
	case category != "":
		where = `WHERE category = $1`
		args = append(args, category)
	case len(excludeCategories) > 0:
		where = `WHERE category <> ALL($1)`
		args = append(args, pq.Array(excludeCategories))
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM posts `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT id, title, author, category, content, tool, cost, daily_time, result, likes, user_id, created_at
		 FROM posts %s
		 ORDER BY created_at DESC
		 LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		p := &model.Post{}
		var userID sql.NullString
		if err := rows.Scan(&p.ID, &p.Title, &p.Author, &p.Category, &p.Content,
			&p.Tool, &p.Cost, &p.DailyTime, &p.Result, &p.Likes, &userID, &p.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan post: %w", err)
		}
		p.UserID = userID.String
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate posts: %w", err)
	}

	return posts, total, nil
}

// Create는 게시글을 생성한다.
func (r *PostgresPostRepo) Create(ctx context.Context, post *model.Post) error {
	var userID any
	if post.UserID != "" {
		userID = post.UserID
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, title, author, category, content, tool, cost, daily_time, result, likes, user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		post.ID, post.Title, post.Author, post.Category, post.Content,
		post.Tool, post.Cost, post.DailyTime, post.Result, post.Likes, userID, post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// DeleteByID는 지정 ID의 게시글을 삭제한다.
// 연관된 comments, post_likes는 CASCADE 삭제된다.
func (r *PostgresPostRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM posts WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("post not found: %s", id)
	}
	return nil
}

// Like는 좋아요를 1회 기록하고 갱신된 좋아요 수를 반환한다.
// post_likes의 PK 충돌을 이용해 동일 사용자의 중복 좋아요를 차단한다.
func (r *PostgresPostRepo) Like(ctx context.Context, postID, userID string) (int, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO post_likes (post_id, user_id)
		 VALUES ($1, $2)
		 ON CONFLICT (post_id, user_id) DO NOTHING`,
		postID, userID,
	)
	if err != nil {
		return 0, false, fmt.Errorf("failed to insert like: %w", err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	var likes int
	if inserted == 0 {
		// 중복 좋아요: 현재 수만 조회하여 반환
		if err := tx.QueryRowContext(ctx,
			`SELECT likes FROM posts WHERE id = $1`, postID,
		).Scan(&likes); err != nil {
			return 0, false, fmt.Errorf("failed to read likes: %w", err)
		}
		return likes, true, nil
	}

	if err := tx.QueryRowContext(ctx,
		`UPDATE posts SET likes = likes + 1 WHERE id = $1 RETURNING likes`,
		postID,
	).Scan(&likes); err != nil {
		return 0, false, fmt.Errorf("failed to increment likes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return likes, false, nil
}

// compile-time interface check
var _ PostRepository = (*PostgresPostRepo)(nil)
