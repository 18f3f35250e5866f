package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/notify"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/timeoff"
)

type discardChannel struct{}

func (discardChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return nil
}

type HandlerTestSuite struct {
	suite.Suite
	mock    sqlmock.Sqlmock
	handler *Handler
	now     time.Time
}

func (s *HandlerTestSuite) SetupTest() {
	db, mock, err := sqlmock.New()
	s.Require().NoError(err)

	cfg := &config.Config{}
	cfg.Database.QueryTimeout = 5
	cfg.Database.TransactionTimeout = 5
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.CookieName = "token"
	cfg.JWT.Expiration = 1
	cfg.RabbitMQ.PublishTimeout = 5
	cfg.RabbitMQ.MailQueue = "email_queue"
	cfg.Allowance.DefaultDays = 25
	cfg.Allowance.AllowNegative = true
	cfg.Allowance.DebitOnApproval = true
	cfg.Allowance.MaxRequestDays = 366
	cfg.Allowance.MaxAdjustment = 3650

	repo := repository.NewRepository(cfg, db)
	svc := timeoff.NewService(timeoff.ServiceDeps{Config: cfg, Store: repo})
	pub := notify.NewPublisher(cfg, discardChannel{}, repo)

	h, err := NewHandler(cfg, repo, svc, pub, nil)
	s.Require().NoError(err)
	h.RegisterRoutes()

	s.mock = mock
	s.handler = h
	s.now = time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
}

func (s *HandlerTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestHandler(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) user(id int64, role domain.Role) *domain.User {
	companyID := int64(1)
	return &domain.User{ID: id, Email: "user@example.com", Role: role, CompanyID: &companyID}
}

func (s *HandlerTestSuite) do(method, path string, body any, user *domain.User) (*httptest.ResponseRecorder, Response) {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if user != nil {
		token, _, err := s.handler.generateToken(user)
		s.Require().NoError(err)
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}

	rec := httptest.NewRecorder()
	s.handler.Mux.ServeHTTP(rec, req)

	var resp Response
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func (s *HandlerTestSuite) requestRow(status domain.RequestStatus) *sqlmock.Rows {
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{"id", "user_id", "company_id", "type", "start_date", "end_date", "reason", "status", "working_days_count", "manager_id", "notes", "created_at", "updated_at"}).
		AddRow(int64(7), int64(2), int64(1), "vacation", start, end, "", string(status), int64(5), nil, nil, s.now, s.now)
}

func (s *HandlerTestSuite) outsider(id int64, role domain.Role) *domain.User {
	companyID := int64(2)
	return &domain.User{ID: id, Email: "outsider@example.com", Role: role, CompanyID: &companyID}
}

func (s *HandlerTestSuite) requestDetailRow() *sqlmock.Rows {
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{"id", "user_id", "company_id", "type", "start_date", "end_date", "reason", "status", "working_days_count", "manager_id", "notes", "created_at", "updated_at", "first_name", "last_name", "email", "department", "first_name", "last_name"}).
		AddRow(int64(7), int64(2), int64(1), "vacation", start, end, "", "pending", int64(5), nil, nil, s.now, s.now, "San", "Zhang", "zhangsan@example.com", nil, nil, nil)
}

func (s *HandlerTestSuite) TestAuth() {
	s.Run("should reject requests without a token", func() {
		rec, resp := s.do(http.MethodGet, "/time-off-requests/mine", nil, nil)
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.False(resp.Success)
	})

	s.Run("should reject a forged token", func() {
		req := httptest.NewRequest(http.MethodGet, "/time-off-requests/mine", nil)
		req.AddCookie(&http.Cookie{Name: "token", Value: "not-a-jwt"})
		rec := httptest.NewRecorder()
		s.handler.Mux.ServeHTTP(rec, req)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("should require onboarding", func() {
		rec, _ := s.do(http.MethodGet, "/time-off-requests/mine", nil, &domain.User{ID: 3, Role: domain.RoleEmployee})
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("should attach a request id", func() {
		rec, _ := s.do(http.MethodGet, "/time-off-requests/mine", nil, nil)
		s.NotEmpty(rec.Header().Get("X-Request-ID"))
	})
}

func (s *HandlerTestSuite) TestRegister() {
	s.Run("should report a duplicate email", func() {
		s.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		rec, resp := s.do(http.MethodPost, "/auth/register", map[string]any{
			"email":     "bob@example.com",
			"password":  "password123",
			"firstName": "Bob",
			"lastName":  "Li",
		}, nil)
		s.Equal(http.StatusConflict, rec.Code)
		s.False(resp.Success)
	})

	s.Run("should validate the body", func() {
		rec, _ := s.do(http.MethodPost, "/auth/register", map[string]any{"email": "nope"}, nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerTestSuite) TestPreviewTimeOffRequest() {
	s.Run("should reject an end date before the start date", func() {
		rec, resp := s.do(http.MethodPost, "/time-off-requests/preview", map[string]any{
			"startDate": "2024-06-07",
			"endDate":   "2024-06-03",
			"type":      "vacation",
		}, s.user(2, domain.RoleEmployee))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(domain.ErrMissingDates.Error(), resp.Message)
	})

	s.Run("should reject malformed dates", func() {
		rec, resp := s.do(http.MethodPost, "/time-off-requests/preview", map[string]any{
			"startDate": "06/03/2024",
			"endDate":   "2024-06-07",
			"type":      "vacation",
		}, s.user(2, domain.RoleEmployee))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(domain.ErrMissingDates.Error(), resp.Message)
	})

	s.Run("should reject an unknown type", func() {
		rec, resp := s.do(http.MethodPost, "/time-off-requests/preview", map[string]any{
			"startDate": "2024-06-03",
			"endDate":   "2024-06-07",
			"type":      "sabbatical",
		}, s.user(2, domain.RoleEmployee))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(domain.ErrInvalidRequestType.Error(), resp.Message)
	})

	s.Run("should reject a range that is too long", func() {
		rec, resp := s.do(http.MethodPost, "/time-off-requests/preview", map[string]any{
			"startDate": "1000-01-01",
			"endDate":   "9999-12-31",
			"type":      "vacation",
		}, s.user(2, domain.RoleEmployee))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(domain.ErrRangeTooLong.Error(), resp.Message)
	})
}

func (s *HandlerTestSuite) TestGetTimeOffRequest() {
	s.Run("should hide requests of another company", func() {
		s.mock.ExpectQuery(regexp.QuoteMeta("WHERE r.id = $1")).
			WithArgs(int64(7)).
			WillReturnRows(s.requestDetailRow())
		crossRec, crossResp := s.do(http.MethodGet, "/time-off-requests/7/", nil, s.outsider(3, domain.RoleAdmin))

		s.mock.ExpectQuery(regexp.QuoteMeta("WHERE r.id = $1")).
			WithArgs(int64(9999)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		missingRec, missingResp := s.do(http.MethodGet, "/time-off-requests/9999/", nil, s.outsider(3, domain.RoleAdmin))

		s.Equal(http.StatusNotFound, crossRec.Code)
		s.Equal(missingRec.Code, crossRec.Code)
		s.Equal(missingResp, crossResp)
	})

	s.Run("should forbid colleagues", func() {
		s.mock.ExpectQuery(regexp.QuoteMeta("WHERE r.id = $1")).
			WithArgs(int64(7)).
			WillReturnRows(s.requestDetailRow())

		rec, _ := s.do(http.MethodGet, "/time-off-requests/7/", nil, s.user(4, domain.RoleEmployee))
		s.Equal(http.StatusForbidden, rec.Code)
	})
}

func (s *HandlerTestSuite) TestGetCompanyTimeOffRequests() {
	s.Run("should be limited to admins", func() {
		rec, _ := s.do(http.MethodGet, "/time-off-requests/", nil, s.user(2, domain.RoleEmployee))
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("should reject an unknown status filter", func() {
		rec, _ := s.do(http.MethodGet, "/time-off-requests/?status=cancelled", nil, s.user(1, domain.RoleAdmin))
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerTestSuite) TestReviewTimeOffRequest() {
	s.Run("should forbid employees", func() {
		s.mock.ExpectQuery(regexp.QuoteMeta("FROM time_off_requests WHERE id = $1")).
			WithArgs(int64(7)).
			WillReturnRows(s.requestRow(domain.RequestStatusPending))

		rec, _ := s.do(http.MethodPost, "/time-off-requests/7/review", map[string]any{"status": "approved"}, s.user(2, domain.RoleEmployee))
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("should refuse to review twice", func() {
		s.mock.ExpectQuery(regexp.QuoteMeta("FROM time_off_requests WHERE id = $1")).
			WithArgs(int64(7)).
			WillReturnRows(s.requestRow(domain.RequestStatusApproved))

		rec, resp := s.do(http.MethodPost, "/time-off-requests/7/review", map[string]any{"status": "rejected"}, s.user(1, domain.RoleAdmin))
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal(domain.ErrRequestNotPending.Error(), resp.Message)
	})

	s.Run("should report a missing request", func() {
		s.mock.ExpectQuery(regexp.QuoteMeta("FROM time_off_requests WHERE id = $1")).
			WithArgs(int64(8)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		rec, _ := s.do(http.MethodPost, "/time-off-requests/8/review", map[string]any{"status": "approved"}, s.user(1, domain.RoleAdmin))
		s.Equal(http.StatusNotFound, rec.Code)
	})

	s.Run("should answer another company like a missing request", func() {
		s.mock.ExpectQuery(regexp.QuoteMeta("FROM time_off_requests WHERE id = $1")).
			WithArgs(int64(7)).
			WillReturnRows(s.requestRow(domain.RequestStatusPending))
		crossRec, crossResp := s.do(http.MethodPost, "/time-off-requests/7/review", map[string]any{"status": "approved"}, s.outsider(3, domain.RoleAdmin))

		s.mock.ExpectQuery(regexp.QuoteMeta("FROM time_off_requests WHERE id = $1")).
			WithArgs(int64(9999)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		missingRec, missingResp := s.do(http.MethodPost, "/time-off-requests/9999/review", map[string]any{"status": "approved"}, s.outsider(3, domain.RoleAdmin))

		s.Equal(http.StatusNotFound, crossRec.Code)
		s.Equal(missingRec.Code, crossRec.Code)
		s.Equal(missingResp, crossResp)
		s.Equal(domain.ErrRequestNotFound.Error(), crossResp.Message)
	})

	s.Run("should validate the decision", func() {
		rec, _ := s.do(http.MethodPost, "/time-off-requests/7/review", map[string]any{"status": "pending"}, s.user(1, domain.RoleAdmin))
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerTestSuite) TestSetEmployeeAllowance() {
	s.Run("should reject a negative allowance", func() {
		rec, resp := s.do(http.MethodPut, "/employees/2/allowance", map[string]any{"availableDays": -1}, s.user(1, domain.RoleAdmin))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal(domain.ErrInvalidAllowance.Error(), resp.Message)
	})

	s.Run("should reject a fractional allowance", func() {
		rec, _ := s.do(http.MethodPut, "/employees/2/allowance", map[string]any{"availableDays": 2.5}, s.user(1, domain.RoleAdmin))
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("should be limited to admins", func() {
		rec, _ := s.do(http.MethodPut, "/employees/2/allowance", map[string]any{"availableDays": 10}, s.user(2, domain.RoleEmployee))
		s.Equal(http.StatusForbidden, rec.Code)
	})
}

func (s *HandlerTestSuite) TestAdjustEmployeeAllowance() {
	s.Run("should reject an oversized delta", func() {
		for _, delta := range []int{3651, -3651, 100000} {
			rec, resp := s.do(http.MethodPost, "/employees/2/allowance/adjust", map[string]any{"delta": delta}, s.user(1, domain.RoleAdmin))
			s.Equal(http.StatusBadRequest, rec.Code)
			s.False(resp.Success)
		}
	})

	s.Run("should require a delta", func() {
		rec, _ := s.do(http.MethodPost, "/employees/2/allowance/adjust", map[string]any{}, s.user(1, domain.RoleAdmin))
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerTestSuite) TestUpdateWorkingDays() {
	s.Run("should reject an invalid weekday", func() {
		rec, _ := s.do(http.MethodPut, "/company/working-days", map[string]any{"workingDays": []int{1, 9}}, s.user(1, domain.RoleAdmin))
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerTestSuite) TestGetEmployeeDashboard() {
	s.mock.MatchExpectationsInOrder(false)

	s.mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "first_name", "last_name", "role", "company_id", "available_days", "department", "created_at", "updated_at", "version"}).
			AddRow(int64(2), "bob@example.com", "hash", "Bob", "Li", "employee", int64(1), int64(18), nil, s.now, s.now, int64(1)))
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM time_off_requests WHERE user_id = $1 AND status = $2")).
		WithArgs(int64(2), "approved").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM time_off_requests WHERE user_id = $1 AND status = $2")).
		WithArgs(int64(2), "pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM time_off_requests WHERE user_id = $1")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(5)))

	rec, resp := s.do(http.MethodGet, "/dashboard/employee", nil, s.user(2, domain.RoleEmployee))
	s.Require().Equal(http.StatusOK, rec.Code)
	s.True(resp.Success)

	data := resp.Data.(map[string]any)
	s.EqualValues(5, data["totalRequests"])
	s.EqualValues(3, data["approvedRequests"])
	s.EqualValues(1, data["pendingRequests"])
	s.EqualValues(18, data["availableDays"])
}
