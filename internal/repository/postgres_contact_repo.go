package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gwonyoung/aibuup/internal/model"
)

// PostgresContactRepo는 PostgreSQL을 사용한 문의 리포지토리.
type PostgresContactRepo struct {
	db *sql.DB
}

// NewPostgresContactRepo는 PostgresContactRepo를 생성한다.
func NewPostgresContactRepo(db *sql.DB) *PostgresContactRepo {
	return &PostgresContactRepo{db: db}
}

// Create는 문의를 저장한다.
func (r *PostgresContactRepo) Create(ctx context.Context, contact *model.Contact) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (id, name, email, message, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		contact.ID, contact.Name, contact.Email, contact.Message, contact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ContactRepository = (*PostgresContactRepo)(nil)
