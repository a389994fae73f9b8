package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gwonyoung/aibuup/internal/model"
)

// PostgresNewsSourceRepo는 PostgreSQL을 사용한 뉴스 수집 소스 리포지토리.
type PostgresNewsSourceRepo struct {
	db *sql.DB
}

// NewPostgresNewsSourceRepo는 PostgresNewsSourceRepo를 생성한다.
func NewPostgresNewsSourceRepo(db *sql.DB) *PostgresNewsSourceRepo {
	return &PostgresNewsSourceRepo{db: db}
}

// List는 등록된 수집 소스 전체를 반환한다.
func (r *PostgresNewsSourceRepo) List(ctx context.Context) ([]*model.NewsSource, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, url, category, last_fetched_at, created_at
		 FROM news_sources
		 ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list news sources: %w", err)
	}
	defer rows.Close()

	var sources []*model.NewsSource
	for rows.Next() {
		s := &model.NewsSource{}
		var lastFetchedAt sql.NullTime
		if err := rows.Scan(&s.ID, &s.URL, &s.Category, &lastFetchedAt, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan news source: %w", err)
		}
		if lastFetchedAt.Valid {
			t := lastFetchedAt.Time
			s.LastFetchedAt = &t
		}
		sources = append(sources, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate news sources: %w", err)
	}

	return sources, nil
}

// Create는 수집 소스를 등록한다.
func (r *PostgresNewsSourceRepo) Create(ctx context.Context, source *model.NewsSource) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO news_sources (id, url, category, created_at)
		 VALUES ($1, $2, $3, $4)`,
		source.ID, source.URL, source.Category, source.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create news source: %w", err)
	}
	return nil
}

// UpdateLastFetchedAt은 소스의 마지막 수집 시각을 갱신한다.
func (r *PostgresNewsSourceRepo) UpdateLastFetchedAt(ctx context.Context, id string, fetchedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE news_sources SET last_fetched_at = $1 WHERE id = $2`,
		fetchedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update last fetched at: %w", err)
	}
	return nil
}

// DeleteByID는 지정 ID의 수집 소스를 삭제한다.
func (r *PostgresNewsSourceRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM news_sources WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete news source: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("news source not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ NewsSourceRepository = (*PostgresNewsSourceRepo)(nil)
