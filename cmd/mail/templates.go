package main

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templateFS embed.FS

type mailTemplate struct {
	subject string
	tmpl    *template.Template
}

var subjects = map[string]string{
	domain.MailTypeResetPassword:   "请假系统 - 重置密码",
	domain.MailTypeRequestCreated:  "请假系统 - 新的请假申请",
	domain.MailTypeRequestReviewed: "请假系统 - 请假申请审批结果",
	domain.MailTypeInvitationCode:  "请假系统 - 加入公司邀请",
}

// loadTemplates 在启动时解析全部模板，模板有误时直接退出
func loadTemplates() (map[string]mailTemplate, error) {
	templates := make(map[string]mailTemplate, len(subjects))
	for mailType, subject := range subjects {
		tmpl, err := template.ParseFS(templateFS, fmt.Sprintf("templates/%s.html", mailType))
		if err != nil {
			return nil, err
		}
		templates[mailType] = mailTemplate{subject: subject, tmpl: tmpl}
	}
	return templates, nil
}

func buildMessage(templates map[string]mailTemplate, from string, mailMessage domain.MailMessage) (*mail.Msg, error) {
	t, ok := templates[mailMessage.Type]
	if !ok {
		return nil, fmt.Errorf("不支持的邮件类型: %s", mailMessage.Type)
	}

	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := m.To(mailMessage.To); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}
	if err := m.SetBodyHTMLTemplate(t.tmpl, mailMessage.Data); err != nil {
		return nil, fmt.Errorf("无法设置邮件正文: %w", err)
	}
	m.Subject(t.subject)

	return m, nil
}
