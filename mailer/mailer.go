// Package mailer renders and delivers transactional email. Delivery goes
// through a Resend-style JSON API; every attempt, sent or failed, is
// recorded as an EmailLog row. Failures never propagate to callers.
package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"net/http"
	texttemplate "text/template"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"bistroboard/models"
)

const dashboardURL = "https://bistroboard.app/dashboard"

// Config holds delivery settings.
type Config struct {
	Enabled   bool
	APIKey    string
	Endpoint  string
	FromEmail string
}

type Mailer struct {
	db     *gorm.DB
	log    *logrus.Logger
	client *http.Client
	cfg    Config
}

func New(db *gorm.DB, log *logrus.Logger, cfg Config) *Mailer {
	return &Mailer{
		db:     db,
		log:    log,
		client: &http.Client{Timeout: 10 * time.Second},
		cfg:    cfg,
	}
}

// SendAsync dispatches an email on a background goroutine. The triggering
// request never waits on, or fails because of, delivery.
func (m *Mailer) SendAsync(templateType, toEmail string, data map[string]any, userID *uint, metadata map[string]any) {
	go func() {
		if err := m.Send(templateType, toEmail, data, userID, metadata); err != nil {
			m.log.WithFields(logrus.Fields{
				"template": templateType,
				"to":       toEmail,
			}).WithError(err).Error("email delivery failed")
		}
	}()
}

// Send renders the template and delivers synchronously, logging the result.
func (m *Mailer) Send(templateType, toEmail string, data map[string]any, userID *uint, metadata map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["dashboard_url"]; !ok {
		data["dashboard_url"] = dashboardURL
	}

	tpl, err := m.lookupTemplate(templateType)
	if err != nil {
		return m.logResult(templateType, toEmail, "", userID, metadata, err, "")
	}

	subject, err := renderText(tpl.Subject, data)
	if err != nil {
		return m.logResult(templateType, toEmail, "", userID, metadata, err, "")
	}
	htmlBody, err := renderHTML(tpl.HTMLBody, data)
	if err != nil {
		return m.logResult(templateType, toEmail, subject, userID, metadata, err, "")
	}
	textBody, err := renderText(tpl.TextBody, data)
	if err != nil {
		return m.logResult(templateType, toEmail, subject, userID, metadata, err, "")
	}

	if !m.cfg.Enabled {
		m.log.WithField("template", templateType).Debugf("email disabled, skipping send to %s", toEmail)
		return m.logResult(templateType, toEmail, subject, userID, metadata, nil, "disabled")
	}

	providerID, err := m.deliver(toEmail, subject, htmlBody, textBody)
	return m.logResult(templateType, toEmail, subject, userID, metadata, err, providerID)
}

// Templates returns the effective template set, DB overrides applied.
func (m *Mailer) Templates() map[string]Template {
	out := make(map[string]Template, len(defaultTemplates))
	for k, v := range defaultTemplates {
		out[k] = v
	}
	var rows []models.EmailTemplate
	m.db.Where("is_active = ?", true).Find(&rows)
	for _, row := range rows {
		out[row.TemplateType] = Template{Subject: row.Subject, HTMLBody: row.HTMLBody, TextBody: row.TextBody}
	}
	return out
}

// TemplateTypes lists the available template types.
func (m *Mailer) TemplateTypes() []string {
	set := m.Templates()
	types := make([]string, 0, len(set))
	for k := range set {
		types = append(types, k)
	}
	return types
}

func (m *Mailer) lookupTemplate(templateType string) (Template, error) {
	var row models.EmailTemplate
	if err := m.db.Where("template_type = ? AND is_active = ?", templateType, true).First(&row).Error; err == nil {
		return Template{Subject: row.Subject, HTMLBody: row.HTMLBody, TextBody: row.TextBody}, nil
	}
	tpl, ok := defaultTemplates[templateType]
	if !ok {
		return Template{}, fmt.Errorf("unknown email template type: %s", templateType)
	}
	return tpl, nil
}

type deliveryRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
}

type deliveryResponse struct {
	ID string `json:"id"`
}

func (m *Mailer) deliver(to, subject, htmlBody, textBody string) (string, error) {
	payload, err := json.Marshal(deliveryRequest{
		From:    m.cfg.FromEmail,
		To:      []string{to},
		Subject: subject,
		HTML:    htmlBody,
		Text:    textBody,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, m.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}
	var dr deliveryResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return "", nil // delivered; provider id is best-effort
	}
	return dr.ID, nil
}

func (m *Mailer) logResult(templateType, toEmail, subject string, userID *uint, metadata map[string]any, sendErr error, providerID string) error {
	entry := models.EmailLog{
		UserID:       userID,
		ToEmail:      toEmail,
		TemplateType: templateType,
		Subject:      subject,
		Status:       models.EmailSent,
		ProviderID:   providerID,
		Metadata:     datatypes.JSONMap(metadata),
	}
	if sendErr != nil {
		entry.Status = models.EmailFailed
		entry.ErrorMessage = sendErr.Error()
	}
	if err := m.db.Create(&entry).Error; err != nil {
		m.log.WithError(err).Error("failed to write email log")
	}
	return sendErr
}

func renderText(tpl string, data map[string]any) (string, error) {
	t, err := texttemplate.New("email").Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderHTML(tpl string, data map[string]any) (string, error) {
	t, err := htmltemplate.New("email").Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
