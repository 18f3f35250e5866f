package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
)

func (r *Repository) count(ctx context.Context, query string, args ...any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var n int
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *Repository) CountCompanyRequestsByStatus(ctx context.Context, companyID int64, status domain.RequestStatus) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM time_off_requests WHERE company_id = $1 AND status = $2`, companyID, string(status))
}

func (r *Repository) CountUserRequestsByStatus(ctx context.Context, userID int64, status domain.RequestStatus) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM time_off_requests WHERE user_id = $1 AND status = $2`, userID, string(status))
}

func (r *Repository) CountUserRequests(ctx context.Context, userID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM time_off_requests WHERE user_id = $1`, userID)
}

func (r *Repository) CountCompanyEmployees(ctx context.Context, companyID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE company_id = $1`, companyID)
}

func (r *Repository) CountUnusedInvitationCodes(ctx context.Context, companyID int64) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM invitation_codes WHERE company_id = $1 AND used = FALSE`, companyID)
}
