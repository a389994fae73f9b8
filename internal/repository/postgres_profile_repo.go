package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gwonyoung/aibuup/internal/model"
)

// PostgresProfileRepo는 PostgreSQL을 사용한 프로필 리포지토리.
type PostgresProfileRepo struct {
	db *sql.DB
}

// NewPostgresProfileRepo는 PostgresProfileRepo를 생성한다.
func NewPostgresProfileRepo(db *sql.DB) *PostgresProfileRepo {
	return &PostgresProfileRepo{db: db}
}

// FindByID는 지정 ID의 프로필을 조회한다. 없으면 nil을 반환한다.
func (r *PostgresProfileRepo) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	profile := &model.Profile{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, nickname, role, created_at FROM profiles WHERE id = $1`,
		id,
	).Scan(&profile.ID, &profile.Email, &profile.Nickname, &profile.Role, &profile.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	return profile, nil
}

// List는 전체 프로필을 가입일 내림차순으로 반환한다.
func (r *PostgresProfileRepo) List(ctx context.Context) ([]*model.Profile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, nickname, role, created_at
		 FROM profiles
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*model.Profile
	for rows.Next() {
		p := &model.Profile{}
		if err := rows.Scan(&p.ID, &p.Email, &p.Nickname, &p.Role, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}

	return profiles, nil
}

// UpdateRole은 프로필의 등급을 변경한다.
func (r *PostgresProfileRepo) UpdateRole(ctx context.Context, id string, role model.Role) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET role = $1 WHERE id = $2`,
		role, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("profile not found: %s", id)
	}
	return nil
}

// DeleteByID는 지정 ID의 프로필과 계정을 삭제한다.
// users를 삭제하면 profiles, sessions가 CASCADE 삭제된다.
func (r *PostgresProfileRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM users WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("profile not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ ProfileRepository = (*PostgresProfileRepo)(nil)
