// Package notify 把需要发送的邮件投递到 RabbitMQ，由 cmd/mail 消费并发送。
package notify

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/timeoff"
)

// Channel 是 *amqp.Channel 中用到的部分
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Directory interface {
	GetEmployee(ctx context.Context, id int64) (*domain.User, error)
	GetAdminsByCompany(ctx context.Context, companyID int64) ([]*domain.User, error)
}

type Publisher struct {
	cfg       *config.Config
	ch        Channel
	directory Directory
}

var _ timeoff.Hook = (*Publisher)(nil)

func NewPublisher(cfg *config.Config, ch Channel, directory Directory) *Publisher {
	return &Publisher{
		cfg:       cfg,
		ch:        ch,
		directory: directory,
	}
}

func (p *Publisher) Publish(ctx context.Context, msg domain.MailMessage) error {
	// 序列化邮件
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(p.cfg.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		ctx,
		"",
		p.cfg.RabbitMQ.MailQueue,
		true,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

// RequestCreated 通知公司的所有管理员有新的待审批申请
func (p *Publisher) RequestCreated(ctx context.Context, req *domain.TimeOffRequest) error {
	employee, err := p.directory.GetEmployee(ctx, req.UserID)
	if err != nil {
		return err
	}

	admins, err := p.directory.GetAdminsByCompany(ctx, req.CompanyID)
	if err != nil {
		return err
	}

	for _, admin := range admins {
		if admin.ID == employee.ID {
			continue
		}
		msg := domain.MailMessage{
			Type: domain.MailTypeRequestCreated,
			To:   admin.Email,
			Data: domain.RequestCreatedMailData{
				AdminName:        admin.FullName(),
				EmployeeName:     employee.FullName(),
				Type:             string(req.Type),
				StartDate:        calendar.FormatDate(req.StartDate),
				EndDate:          calendar.FormatDate(req.EndDate),
				WorkingDaysCount: req.WorkingDaysCount,
				Reason:           req.Reason,
			},
		}
		if err := p.Publish(ctx, msg); err != nil {
			return err
		}
	}

	return nil
}

// RequestReviewed 把审批结果告诉申请人
func (p *Publisher) RequestReviewed(ctx context.Context, req *domain.TimeOffRequest) error {
	employee, err := p.directory.GetEmployee(ctx, req.UserID)
	if err != nil {
		return err
	}

	notes := ""
	if req.Notes != nil {
		notes = *req.Notes
	}

	return p.Publish(ctx, domain.MailMessage{
		Type: domain.MailTypeRequestReviewed,
		To:   employee.Email,
		Data: domain.RequestReviewedMailData{
			EmployeeName: employee.FullName(),
			Status:       string(req.Status),
			StartDate:    calendar.FormatDate(req.StartDate),
			EndDate:      calendar.FormatDate(req.EndDate),
			Notes:        notes,
		},
	})
}
