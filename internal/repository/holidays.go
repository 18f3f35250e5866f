package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
)

func (r *Repository) GetHolidaysByCompany(ctx context.Context, companyID int64) ([]domain.CompanyHoliday, error) {
	query := `
		SELECT id, company_id, name, date, is_recurring, created_at, updated_at
		FROM company_holidays
		WHERE company_id = $1
		ORDER BY date
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holidays := []domain.CompanyHoliday{}
	for rows.Next() {
		var h domain.CompanyHoliday
		dst := []any{&h.ID, &h.CompanyID, &h.Name, &h.Date, &h.IsRecurring, &h.CreatedAt, &h.UpdatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return holidays, nil
}

func (r *Repository) GetHolidayByID(ctx context.Context, id int64) (*domain.CompanyHoliday, error) {
	query := `
		SELECT company_id, name, date, is_recurring, created_at, updated_at
		FROM company_holidays WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	h := &domain.CompanyHoliday{ID: id}
	dst := []any{&h.CompanyID, &h.Name, &h.Date, &h.IsRecurring, &h.CreatedAt, &h.UpdatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return h, nil
}

func (r *Repository) CreateHoliday(ctx context.Context, h *domain.CompanyHoliday) error {
	query := `
		INSERT INTO company_holidays (company_id, name, date, is_recurring)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{h.CompanyID, h.Name, h.Date, h.IsRecurring}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateHoliday(ctx context.Context, h *domain.CompanyHoliday) error {
	query := `
		UPDATE company_holidays
		SET name = $1, date = $2, is_recurring = $3, updated_at = NOW()
		WHERE id = $4 AND company_id = $5
		RETURNING updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{h.Name, h.Date, h.IsRecurring, h.ID, h.CompanyID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&h.UpdatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteHoliday(ctx context.Context, id, companyID int64) error {
	query := `
		DELETE FROM company_holidays WHERE id = $1 AND company_id = $2
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id, companyID)
	if err != nil {
		return err
	}

	return nil
}
