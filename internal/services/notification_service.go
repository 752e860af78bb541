// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/openprocure/procure-backend/internal/config"
	"github.com/openprocure/procure-backend/internal/models"
)

// NotificationService persists domain events and hands them to the delivery
// collaborator (email here; real-time transport is out of scope). Delivery
// failure never rolls back a lifecycle decision that already committed.
type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

// RecordTransitionEvent stores the {requestKey, fromStatus, toStatus} domain
// event emitted after a successful transition.
func (s *NotificationService) RecordTransitionEvent(request *models.ProcurementRequest, from, to models.RequestStatus) error {
	notification := &models.Notification{
		Type:       "request_transition",
		Title:      fmt.Sprintf("Request %s moved to %s", request.Key, to),
		Message:    fmt.Sprintf("Procurement request '%s' transitioned from %s to %s", request.Title, from, to),
		Priority:   "medium",
		RequestKey: request.Key,
		Data: models.JSONB{
			"request_key": request.Key,
			"from_status": string(from),
			"to_status":   string(to),
		},
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create transition notification: %w", err)
	}

	go s.sendTransitionEmail(request, from, to)

	return nil
}

// RecordNegotiationEvent stores the event raised when the final proposal
// locks a negotiation.
func (s *NotificationService) RecordNegotiationEvent(request *models.ProcurementRequest, optimizedCost float64) error {
	notification := &models.Notification{
		Type:       "negotiation_locked",
		Title:      fmt.Sprintf("Final proposal submitted for %s", request.Key),
		Message:    fmt.Sprintf("Negotiation for '%s' is locked, optimized cost %.2f", request.Title, optimizedCost),
		Priority:   "high",
		RequestKey: request.Key,
		Data: models.JSONB{
			"request_key":    request.Key,
			"optimized_cost": optimizedCost,
		},
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create negotiation notification: %w", err)
	}

	return nil
}

func (s *NotificationService) sendTransitionEmail(request *models.ProcurementRequest, from, to models.RequestStatus) {
	if s.config == nil || s.config.Email.SMTPUsername == "" {
		return
	}

	var creator models.User
	if err := s.db.First(&creator, request.CreatorID).Error; err != nil {
		logrus.WithError(err).WithField("request_key", request.Key).
			Warn("Skipping transition email, creator not found")
		return
	}

	data := map[string]interface{}{
		"Username":   creator.Username,
		"RequestKey": request.Key,
		"Title":      request.Title,
		"FromStatus": string(from),
		"ToStatus":   string(to),
		"RequestURL": fmt.Sprintf("%s/requests/%s", s.config.Frontend.BaseURL, request.Key),
	}

	subject := fmt.Sprintf("Request %s: %s", request.Key, to)
	body, err := s.renderTemplate(transitionEmailBody, data)
	if err != nil {
		logrus.WithError(err).Error("Failed to render transition email template")
		return
	}

	if err := s.sendEmail(creator.Email, subject, body); err != nil {
		logrus.WithError(err).WithField("request_key", request.Key).
			Error("Failed to send transition email")
	}
}

const transitionEmailBody = `
<p>Hi {{.Username}},</p>
<p>Your procurement request <strong>{{.RequestKey}}</strong> ({{.Title}})
moved from {{.FromStatus}} to <strong>{{.ToStatus}}</strong>.</p>
<p><a href="{{.RequestURL}}">View the request</a></p>
`

func (s *NotificationService) renderTemplate(tmpl string, data map[string]interface{}) (string, error) {
	t, err := template.New("email").Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	cfg := s.config.Email
	addr := cfg.SMTPHost + ":" + cfg.SMTPPort
	auth := smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)

	msg := []byte(fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		cfg.FromName, cfg.FromEmail, to, subject, body,
	))

	return smtp.SendMail(addr, auth, cfg.FromEmail, []string{to}, msg)
}
