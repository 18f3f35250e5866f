package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
)

func (r *Repository) CreateInvitationCode(ctx context.Context, ic *domain.InvitationCode) error {
	query := `
		INSERT INTO invitation_codes (code, company_id)
		VALUES ($1, $2)
		RETURNING id, used, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, ic.Code, ic.CompanyID).Scan(&ic.ID, &ic.Used, &ic.CreatedAt, &ic.UpdatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetInvitationCodesByCompany(ctx context.Context, companyID int64) ([]*domain.InvitationCode, error) {
	query := `
		SELECT id, code, company_id, used, created_at, updated_at
		FROM invitation_codes
		WHERE company_id = $1
		ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := []*domain.InvitationCode{}
	for rows.Next() {
		ic := &domain.InvitationCode{}
		if err := rows.Scan(&ic.ID, &ic.Code, &ic.CompanyID, &ic.Used, &ic.CreatedAt, &ic.UpdatedAt); err != nil {
			return nil, err
		}
		codes = append(codes, ic)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return codes, nil
}
