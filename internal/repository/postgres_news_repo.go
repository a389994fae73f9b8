package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gwonyoung/aibuup/internal/model"
)

// PostgresNewsRepo는 PostgreSQL을 사용한 뉴스 리포지토리.
type PostgresNewsRepo struct {
	db *sql.DB
}

// NewPostgresNewsRepo는 PostgresNewsRepo를 생성한다.
func NewPostgresNewsRepo(db *sql.DB) *PostgresNewsRepo {
	return &PostgresNewsRepo{db: db}
}

// List는 뉴스 목록을 등록일 내림차순으로 반환한다.
func (r *PostgresNewsRepo) List(ctx context.Context) ([]*model.News, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, category, date, summary, content, image_url, created_at
		 FROM news
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	defer rows.Close()

	var items []*model.News
	for rows.Next() {
		n := &model.News{}
		if err := rows.Scan(&n.ID, &n.Title, &n.Category, &n.Date, &n.Summary, &n.Content, &n.ImageURL, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan news: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate news: %w", err)
	}

	return items, nil
}

// FindByID는 지정 ID의 뉴스를 조회한다. 없으면 nil을 반환한다.
func (r *PostgresNewsRepo) FindByID(ctx context.Context, id string) (*model.News, error) {
	n := &model.News{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, category, date, summary, content, image_url, created_at
		 FROM news WHERE id = $1`,
		id,
	).Scan(&n.ID, &n.Title, &n.Category, &n.Date, &n.Summary, &n.Content, &n.ImageURL, &n.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find news: %w", err)
	}

	return n, nil
}

// Create는 뉴스를 생성한다.
func (r *PostgresNewsRepo) Create(ctx context.Context, news *model.News) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO news (id, title, category, date, summary, content, image_url, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		news.ID, news.Title, news.Category, news.Date, news.Summary, news.Content, news.ImageURL, news.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create news: %w", err)
	}
	return nil
}

// ExistsByTitle은 동일 제목의 뉴스 존재 여부를 반환한다.
func (r *PostgresNewsRepo) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM news WHERE title = $1)`,
		title,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check news existence: %w", err)
	}
	return exists, nil
}

// DeleteByID는 지정 ID의 뉴스를 삭제한다.
func (r *PostgresNewsRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM news WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete news: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("news not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ NewsRepository = (*PostgresNewsRepo)(nil)
