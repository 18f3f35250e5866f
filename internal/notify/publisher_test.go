package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
)

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(ctx, exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) GetEmployee(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDirectory) GetAdminsByCompany(ctx context.Context, companyID int64) ([]*domain.User, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]*domain.User), args.Error(1)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.RabbitMQ.PublishTimeout = 5
	cfg.RabbitMQ.MailQueue = "email_queue"
	return cfg
}

func decode(t *testing.T, msg amqp.Publishing) map[string]any {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal(msg.Body, &v))
	return v
}

func sampleRequest() *domain.TimeOffRequest {
	return &domain.TimeOffRequest{
		ID:               42,
		UserID:           2,
		CompanyID:        1,
		Type:             domain.TimeOffTypeVacation,
		StartDate:        time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC),
		Status:           domain.RequestStatusPending,
		WorkingDaysCount: 5,
	}
}

var anyCtx = mock.MatchedBy(func(ctx context.Context) bool { return true })

func TestRequestCreatedNotifiesAdmins(t *testing.T) {
	ch := &mockChannel{}
	dir := &mockDirectory{}
	p := NewPublisher(testConfig(), ch, dir)

	employee := &domain.User{ID: 2, Email: "bob@example.com", FirstName: "Bob", LastName: "Li"}
	admins := []*domain.User{
		{ID: 1, Email: "ada@example.com", FirstName: "Ada"},
		{ID: 3, Email: "eve@example.com", FirstName: "Eve"},
	}
	dir.On("GetEmployee", anyCtx, int64(2)).Return(employee, nil)
	dir.On("GetAdminsByCompany", anyCtx, int64(1)).Return(admins, nil)

	var published []amqp.Publishing
	ch.On("PublishWithContext", anyCtx, "", "email_queue", true, false, mock.Anything).
		Run(func(args mock.Arguments) {
			published = append(published, args.Get(5).(amqp.Publishing))
		}).
		Return(nil)

	require.NoError(t, p.RequestCreated(context.Background(), sampleRequest()))

	require.Len(t, published, 2)
	first := decode(t, published[0])
	assert.Equal(t, domain.MailTypeRequestCreated, first["type"])
	assert.Equal(t, "ada@example.com", first["to"])
	data := first["data"].(map[string]any)
	assert.Equal(t, "Bob Li", data["employeeName"])
	assert.Equal(t, "2024-06-03", data["startDate"])
	assert.Equal(t, float64(5), data["workingDaysCount"])
	assert.Equal(t, "application/json", published[0].ContentType)
	assert.Equal(t, amqp.Persistent, published[0].DeliveryMode)
}

func TestRequestReviewedNotifiesEmployee(t *testing.T) {
	ch := &mockChannel{}
	dir := &mockDirectory{}
	p := NewPublisher(testConfig(), ch, dir)

	dir.On("GetEmployee", anyCtx, int64(2)).Return(&domain.User{ID: 2, Email: "bob@example.com", FirstName: "Bob"}, nil)

	var published amqp.Publishing
	ch.On("PublishWithContext", anyCtx, "", "email_queue", true, false, mock.Anything).
		Run(func(args mock.Arguments) {
			published = args.Get(5).(amqp.Publishing)
		}).
		Return(nil).Once()

	req := sampleRequest()
	req.Status = domain.RequestStatusApproved
	notes := "批准"
	req.Notes = &notes

	require.NoError(t, p.RequestReviewed(context.Background(), req))

	v := decode(t, published)
	assert.Equal(t, domain.MailTypeRequestReviewed, v["type"])
	assert.Equal(t, "bob@example.com", v["to"])
	data := v["data"].(map[string]any)
	assert.Equal(t, "approved", data["status"])
	assert.Equal(t, "批准", data["notes"])
	ch.AssertExpectations(t)
}

func TestPublishFailure(t *testing.T) {
	ch := &mockChannel{}
	dir := &mockDirectory{}
	p := NewPublisher(testConfig(), ch, dir)

	boom := errors.New("channel closed")
	dir.On("GetEmployee", anyCtx, int64(2)).Return(&domain.User{ID: 2, Email: "bob@example.com"}, nil)
	ch.On("PublishWithContext", anyCtx, "", "email_queue", true, false, mock.Anything).Return(boom)

	err := p.RequestReviewed(context.Background(), sampleRequest())
	assert.ErrorIs(t, err, boom)
}
