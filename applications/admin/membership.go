package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SQLMembership reads the admins table.
type SQLMembership struct {
	db *sqlx.DB
}

func NewSQLMembership(db *sqlx.DB) *SQLMembership {
	return &SQLMembership{db: db}
}

func (m *SQLMembership) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	var id uuid.UUID
	err := m.db.GetContext(ctx, &id, `SELECT user_id FROM admins WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("AdminMembership.IsAdmin: %w", err)
	}
	return true, nil
}
