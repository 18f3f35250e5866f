package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/timeoff"
)

const requestColumns = `id, user_id, company_id, type, start_date, end_date, reason, status, working_days_count, manager_id, notes, created_at, updated_at`

const requestColumnsWithAlias = `r.id, r.user_id, r.company_id, r.type, r.start_date, r.end_date, r.reason, r.status, r.working_days_count, r.manager_id, r.notes, r.created_at, r.updated_at`

func requestDst(req *domain.TimeOffRequest) []any {
	return []any{
		&req.ID,
		&req.UserID,
		&req.CompanyID,
		&req.Type,
		&req.StartDate,
		&req.EndDate,
		&req.Reason,
		&req.Status,
		&req.WorkingDaysCount,
		&req.ManagerID,
		&req.Notes,
		&req.CreatedAt,
		&req.UpdatedAt,
	}
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryRequests(ctx context.Context, q queryer, query string, args ...any) ([]*domain.TimeOffRequest, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []*domain.TimeOffRequest{}
	for rows.Next() {
		req := &domain.TimeOffRequest{}
		if err := rows.Scan(requestDst(req)...); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

const blockingRequestsQuery = `SELECT ` + requestColumns + ` FROM time_off_requests WHERE user_id = $1 AND status IN ('pending', 'approved')`

/**********************************************
 * 以下方法实现 timeoff.Store
 **********************************************/

var _ timeoff.Store = (*Repository)(nil)

func (r *Repository) GetEmployee(ctx context.Context, id int64) (*domain.User, error) {
	user, err := r.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *Repository) GetCompany(ctx context.Context, id int64) (*domain.Company, error) {
	company, err := r.GetCompanyByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, err
	}
	return company, nil
}

func (r *Repository) GetCompanyHolidays(ctx context.Context, companyID int64) ([]domain.CompanyHoliday, error) {
	return r.GetHolidaysByCompany(ctx, companyID)
}

func (r *Repository) GetBlockingRequestsByUser(ctx context.Context, userID int64) ([]*domain.TimeOffRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return queryRequests(ctx, r.dbpool, blockingRequestsQuery, userID)
}

func (r *Repository) GetTimeOffRequest(ctx context.Context, id int64) (*domain.TimeOffRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM time_off_requests WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	req := &domain.TimeOffRequest{}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(requestDst(req)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}

	return req, nil
}

// CreateTimeOffRequest 先对员工记录加行锁，同一员工的并发提交会在这里排队，
// 只有 check 通过才会插入
func (r *Repository) CreateTimeOffRequest(ctx context.Context, req *domain.TimeOffRequest, check timeoff.CheckFunc) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	employee := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	if err := tx.QueryRowContext(ctx, query, req.UserID).Scan(userDst(employee)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrEmployeeNotFound
		}
		return err
	}

	existing, err := queryRequests(ctx, tx, blockingRequestsQuery, req.UserID)
	if err != nil {
		return err
	}

	if err := check(employee, existing); err != nil {
		return err
	}

	query = `
		INSERT INTO time_off_requests (user_id, company_id, type, start_date, end_date, reason, status, working_days_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	args := []any{req.UserID, req.CompanyID, req.Type, req.StartDate, req.EndDate, req.Reason, req.Status, req.WorkingDaysCount, req.CreatedAt, req.UpdatedAt}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&req.ID); err != nil {
		return err
	}

	return tx.Commit()
}

// ReviewTimeOffRequest 只会更新仍处于待审批状态的申请，批准时在同一事务中扣减余额
func (r *Repository) ReviewTimeOffRequest(ctx context.Context, review timeoff.Review) (*domain.TimeOffRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE time_off_requests
		SET status = $1, manager_id = $2, notes = $3, updated_at = $4
		WHERE id = $5 AND status = 'pending'
		RETURNING ` + requestColumns

	req := &domain.TimeOffRequest{}
	args := []any{review.Status, review.ManagerID, review.Notes, review.ReviewedAt, review.RequestID}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(requestDst(req)...); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		exists := false
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM time_off_requests WHERE id = $1)`, review.RequestID).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, domain.ErrRequestNotFound
		}
		return nil, domain.ErrRequestNotPending
	}

	if review.DebitDays && req.WorkingDaysCount > 0 {
		query = `
			UPDATE users
			SET available_days = available_days - $1, updated_at = NOW(), version = version + 1
			WHERE id = $2
		`
		if !review.AllowNegative {
			query += ` AND available_days >= $1`
		}
		query += ` RETURNING available_days`

		var balance int
		if err := tx.QueryRowContext(ctx, query, req.WorkingDaysCount, req.UserID).Scan(&balance); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, domain.ErrInsufficientAllowance
			}
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return req, nil
}

/**********************************************
 * 查询列表
 **********************************************/

func (r *Repository) GetTimeOffRequestsByUser(ctx context.Context, userID int64) ([]*domain.TimeOffRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM time_off_requests WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return queryRequests(ctx, r.dbpool, query, userID)
}

const requestDetailQuery = `
	SELECT ` + requestColumnsWithAlias + `,
		u.first_name, u.last_name, u.email, u.department,
		m.first_name, m.last_name
	FROM time_off_requests r
	JOIN users u ON u.id = r.user_id
	LEFT JOIN users m ON m.id = r.manager_id
`

func scanRequestDetail(scan func(dst ...any) error) (*domain.TimeOffRequestDetail, error) {
	detail := &domain.TimeOffRequestDetail{}
	var (
		firstName, lastName               string
		managerFirstName, managerLastName sql.NullString
	)

	dst := append(requestDst(&detail.TimeOffRequest), &firstName, &lastName, &detail.EmployeeEmail, &detail.Department, &managerFirstName, &managerLastName)
	if err := scan(dst...); err != nil {
		return nil, err
	}

	detail.EmployeeName = (&domain.User{FirstName: firstName, LastName: lastName}).FullName()
	if managerFirstName.Valid {
		name := (&domain.User{FirstName: managerFirstName.String, LastName: managerLastName.String}).FullName()
		detail.ManagerName = &name
	}

	return detail, nil
}

// GetTimeOffRequestDetailsByCompany 按创建时间倒序返回，status 为空时返回全部
func (r *Repository) GetTimeOffRequestDetailsByCompany(ctx context.Context, companyID int64, status *domain.RequestStatus) ([]*domain.TimeOffRequestDetail, error) {
	query := requestDetailQuery + ` WHERE r.company_id = $1 AND ($2::TEXT IS NULL OR r.status = $2) ORDER BY r.created_at DESC, r.id DESC`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var statusArg any
	if status != nil {
		statusArg = string(*status)
	}

	rows, err := r.dbpool.QueryContext(ctx, query, companyID, statusArg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := []*domain.TimeOffRequestDetail{}
	for rows.Next() {
		detail, err := scanRequestDetail(rows.Scan)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return details, nil
}

func (r *Repository) GetTimeOffRequestDetail(ctx context.Context, id int64) (*domain.TimeOffRequestDetail, error) {
	query := requestDetailQuery + ` WHERE r.id = $1`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanRequestDetail(r.dbpool.QueryRowContext(ctx, query, id).Scan)
}
