package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
)

// ErrInvitationCodeInvalid 表示邀请码不存在或已被使用
var ErrInvitationCodeInvalid = errors.New("invitation code is invalid or already used")

func weekdaysToArray(days []time.Weekday) []int64 {
	arr := make([]int64, 0, len(days))
	for _, d := range days {
		arr = append(arr, int64(d))
	}
	return arr
}

func arrayToWeekdays(arr []int64) []time.Weekday {
	days := make([]time.Weekday, 0, len(arr))
	for _, d := range arr {
		days = append(days, time.Weekday(d))
	}
	return days
}

func (r *Repository) GetCompanyByID(ctx context.Context, id int64) (*domain.Company, error) {
	query := `
		SELECT name, website, logo, working_days, created_at, updated_at, version
		FROM companies WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	company := &domain.Company{ID: id}
	workingDays := []int64{}

	dst := []any{&company.Name, &company.Website, &company.Logo, pq.Array(&workingDays), &company.CreatedAt, &company.UpdatedAt, &company.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}
	company.WorkingDays = arrayToWeekdays(workingDays)

	return company, nil
}

// UpdateCompany 同时更新基本信息和工作日
func (r *Repository) UpdateCompany(ctx context.Context, company *domain.Company) error {
	query := `
		UPDATE companies
		SET
			name = $1,
			website = $2,
			logo = $3,
			working_days = $4,
			updated_at = NOW(),
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{company.Name, company.Website, company.Logo, pq.Array(weekdaysToArray(company.WorkingDays)), company.ID, company.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&company.UpdatedAt, &company.Version); err != nil {
		return err
	}

	return nil
}

// CreateCompanyWithAdmin 创建公司并让 user 成为该公司的管理员
func (r *Repository) CreateCompanyWithAdmin(ctx context.Context, company *domain.Company, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO companies (name, website, logo, working_days)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at, version
	`
	args := []any{company.Name, company.Website, company.Logo, pq.Array(weekdaysToArray(company.WorkingDays))}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&company.ID, &company.CreatedAt, &company.UpdatedAt, &company.Version); err != nil {
		return err
	}

	query = `
		UPDATE users
		SET company_id = $1, role = 'admin', updated_at = NOW(), version = version + 1
		WHERE id = $2 AND version = $3 AND company_id IS NULL
		RETURNING role, company_id, updated_at, version
	`
	dst := []any{&user.Role, &user.CompanyID, &user.UpdatedAt, &user.Version}
	if err := tx.QueryRowContext(ctx, query, company.ID, user.ID, user.Version).Scan(dst...); err != nil {
		return err
	}

	return tx.Commit()
}

// JoinCompanyWithCode 核销邀请码并让 user 以普通员工身份加入对应公司
func (r *Repository) JoinCompanyWithCode(ctx context.Context, user *domain.User, code string, department *string) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var companyID int64
	query := `
		UPDATE invitation_codes
		SET used = TRUE, updated_at = NOW()
		WHERE code = $1 AND used = FALSE
		RETURNING company_id
	`
	if err := tx.QueryRowContext(ctx, query, code).Scan(&companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrInvitationCodeInvalid
		}
		return err
	}

	query = `
		UPDATE users
		SET company_id = $1, role = 'employee', department = $2, updated_at = NOW(), version = version + 1
		WHERE id = $3 AND version = $4 AND company_id IS NULL
		RETURNING role, company_id, department, updated_at, version
	`
	dst := []any{&user.Role, &user.CompanyID, &user.Department, &user.UpdatedAt, &user.Version}
	if err := tx.QueryRowContext(ctx, query, companyID, department, user.ID, user.Version).Scan(dst...); err != nil {
		return err
	}

	return tx.Commit()
}
