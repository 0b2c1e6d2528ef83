package sender

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/config"

	gopkgmail "gopkg.in/gomail.v2"
)

//go:embed templates/*
var templatesFS embed.FS

type EmailNotification struct {
	To       string
	Subject  string
	Template string
	Data     any
}

// money печатает сумму в минимальных единицах как рупии с пайсами.
func money(minor int64) string {
	return fmt.Sprintf("₹%d.%02d", minor/100, minor%100)
}

var funcs = map[string]any{"money": money}

type EmailSender struct {
	cfg *config.Notifier
}

func NewEmailSender(cfg *config.Notifier) *EmailSender {
	return &EmailSender{cfg: cfg}
}

func (s *EmailSender) SendEmail(n EmailNotification) error {
	plainBody, htmlBody, err := Render(n.Template, n.Data)
	if err != nil {
		return err
	}

	m := gopkgmail.NewMessage()
	m.SetHeader("From", s.cfg.SMTPFrom)
	m.SetHeader("To", n.To)
	m.SetHeader("Subject", n.Subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	d := gopkgmail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPassword)
	d.SSL = s.cfg.SMTPPort == 465
	return d.DialAndSend(m)
}

// Render собирает текстовую и HTML-версии письма из встроенных шаблонов.
func Render(tmplName string, data any) (plain, html string, err error) {
	txt, err := texttemplate.New(tmplName+".txt").Funcs(funcs).ParseFS(templatesFS, "templates/"+tmplName+".txt")
	if err != nil {
		return "", "", fmt.Errorf("parse plain: %w", err)
	}
	var pbuf bytes.Buffer
	if err := txt.Execute(&pbuf, data); err != nil {
		return "", "", fmt.Errorf("render plain: %w", err)
	}

	h, err := htmltemplate.New(tmplName+".html").Funcs(funcs).ParseFS(templatesFS, "templates/"+tmplName+".html")
	if err != nil {
		return "", "", fmt.Errorf("parse html: %w", err)
	}
	var hbuf bytes.Buffer
	if err := h.Execute(&hbuf, data); err != nil {
		return "", "", fmt.Errorf("render html: %w", err)
	}
	return pbuf.String(), hbuf.String(), nil
}
