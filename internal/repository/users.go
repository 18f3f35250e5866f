package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
)

const userColumns = `id, email, password_hash, first_name, last_name, role, company_id, available_days, department, created_at, updated_at, version`

func userDst(user *domain.User) []any {
	return []any{
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.CompanyID,
		&user.AvailableDays,
		&user.Department,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Version,
	}
}

func (r *Repository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	user := &domain.User{}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(userDst(user)...); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	user := &domain.User{}
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(userDst(user)...); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, role, company_id, available_days, department)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at, version
	`

	args := []any{user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Role, user.CompanyID, user.AvailableDays, user.Department}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt, &user.Version); err != nil {
		return err
	}

	return nil
}

// UpdateUser 不会修改假期余额，余额只能通过 allowances.go 中的方法变更
func (r *Repository) UpdateUser(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET
			email = $1,
			password_hash = $2,
			first_name = $3,
			last_name = $4,
			role = $5,
			company_id = $6,
			department = $7,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING available_days, updated_at, version
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{user.Email, user.PasswordHash, user.FirstName, user.LastName, user.Role, user.CompanyID, user.Department, user.ID, user.Version}
	dst := []any{&user.AvailableDays, &user.UpdatedAt, &user.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) getUsers(ctx context.Context, query string, args ...any) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user := &domain.User{}
		if err := rows.Scan(userDst(user)...); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *Repository) GetUsersByCompany(ctx context.Context, companyID int64) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE company_id = $1 ORDER BY last_name, first_name, id`
	return r.getUsers(ctx, query, companyID)
}

func (r *Repository) GetAdminsByCompany(ctx context.Context, companyID int64) ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE company_id = $1 AND role = 'admin' ORDER BY id`
	return r.getUsers(ctx, query, companyID)
}

func (r *Repository) CheckEmailIfExists(ctx context.Context, email string) (bool, error) {
	isExists := false

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}
