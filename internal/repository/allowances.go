package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
)

// 余额超出 INTEGER 范围时 PostgreSQL 返回的错误码
const numericValueOutOfRange = "22003"

// AdjustAvailableDays 在数据库中原子地增减余额，返回调整后的余额
func (r *Repository) AdjustAvailableDays(ctx context.Context, userID int64, delta int, allowNegative bool) (int, error) {
	query := `
		UPDATE users
		SET available_days = available_days + $1, updated_at = NOW(), version = version + 1
		WHERE id = $2
	`
	if !allowNegative {
		query += ` AND available_days + $1 >= 0`
	}
	query += ` RETURNING available_days`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var balance int
	if err := r.dbpool.QueryRowContext(ctx, query, delta, userID).Scan(&balance); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.Code == numericValueOutOfRange:
			return 0, domain.ErrAllowanceOutOfRange
		case !errors.Is(err, sql.ErrNoRows):
			return 0, err
		}

		// 区分员工不存在和余额不足两种情况
		exists, err := r.userExists(ctx, userID)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, domain.ErrEmployeeNotFound
		}
		return 0, domain.ErrNegativeAllowance
	}

	return balance, nil
}

// SetAvailableDays 以 version 做乐观锁，期间余额被其他操作改动过则返回冲突
func (r *Repository) SetAvailableDays(ctx context.Context, userID int64, days int, version int32) error {
	query := `
		UPDATE users
		SET available_days = $1, updated_at = NOW(), version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var newVersion int32
	if err := r.dbpool.QueryRowContext(ctx, query, days, userID, version).Scan(&newVersion); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrAllowanceConflict
		}
		return err
	}

	return nil
}

func (r *Repository) userExists(ctx context.Context, userID int64) (bool, error) {
	exists := false
	if err := r.dbpool.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
