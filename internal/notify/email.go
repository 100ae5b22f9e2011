// Package notify emails the pipeline outcome to the reviewing team. Delivery
// failure is reported to the orchestrator, never retried here.
package notify

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"

	"skyvault/internal/pipeline"
)

// SMTPConfig carries the mail relay settings.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	To       []string
}

// EmailNotifier sends a summary email with the draft PDF attached when
// rendering produced one.
type EmailNotifier struct {
	cfg SMTPConfig
}

func NewEmail(cfg SMTPConfig) *EmailNotifier {
	return &EmailNotifier{cfg: cfg}
}

func (n *EmailNotifier) Notify(ctx context.Context, result pipeline.Result, doc *pipeline.DocumentHandle) error {
	if n.cfg.Host == "" {
		return fmt.Errorf("smtp host not configured")
	}

	msg, err := n.buildMessage(result, doc)
	if err != nil {
		return err
	}

	addr := n.cfg.Host + ":" + n.cfg.Port
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)

	// TLS first, plain SMTP as fallback for relays without STARTTLS.
	if err := n.sendTLS(addr, auth, msg); err != nil {
		if err := smtp.SendMail(addr, auth, n.cfg.From, n.cfg.To, msg); err != nil {
			return fmt.Errorf("send mail: %w", err)
		}
	}
	return nil
}

func (n *EmailNotifier) sendTLS(addr string, auth smtp.Auth, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: n.cfg.Host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return err
	}
	if err := client.Mail(n.cfg.From); err != nil {
		return err
	}
	for _, rcpt := range n.cfg.To {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

const mimeBoundary = "kyc-draft-boundary"

func (n *EmailNotifier) buildMessage(result pipeline.Result, doc *pipeline.DocumentHandle) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(n.cfg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", Subject(result))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mimeBoundary)

	fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(Body(result))
	b.WriteString("\r\n")

	if doc != nil {
		payload, err := os.ReadFile(doc.Path)
		if err != nil {
			return nil, fmt.Errorf("read attachment: %w", err)
		}
		fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
		b.WriteString("Content-Type: application/pdf\r\n")
		b.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&b, "Content-Disposition: attachment; filename=%q\r\n\r\n", filepath.Base(doc.Path))
		b.WriteString(wrapBase64(base64.StdEncoding.EncodeToString(payload)))
		b.WriteString("\r\n")
	}

	fmt.Fprintf(&b, "--%s--\r\n", mimeBoundary)
	return []byte(b.String()), nil
}

// Subject summarizes the run for inbox scanning.
func Subject(result pipeline.Result) string {
	if result.Status == pipeline.StatusExtractionFailed {
		return "KYC extraction FAILED - manual intake required"
	}

	name := "Unknown Client"
	if result.Record != nil {
		if full := result.Record.ClientName.Full(); full != "" {
			name = full
		}
	}

	suffix := ""
	if result.Validation != nil {
		suffix = fmt.Sprintf(" [%s]", result.Validation.Classification)
		if count := len(result.Validation.RedFlags); count > 0 {
			suffix += fmt.Sprintf(" - %d red flag(s)", count)
		}
	}
	return "KYC draft ready: " + name + suffix
}

// Body is the plain-text review summary.
func Body(result pipeline.Result) string {
	var b strings.Builder

	if result.Status == pipeline.StatusExtractionFailed {
		b.WriteString("Extraction failed; no record was produced.\r\n\r\n")
		for _, stageErr := range result.Errors {
			fmt.Fprintf(&b, "%s: %s\r\n", stageErr.Stage, stageErr.Err)
		}
		return b.String()
	}

	v := result.Validation
	if v != nil {
		fmt.Fprintf(&b, "Classification: %s\r\n", v.Classification)
		fmt.Fprintf(&b, "Reason: %s\r\n", v.Exemption.AccreditationReason)
		if !v.DataComplete {
			b.WriteString("NOTE: classification is best-effort; financial inputs were missing.\r\n")
		}
		b.WriteString("\r\n")

		if len(v.RedFlags) > 0 {
			b.WriteString("RED FLAGS:\r\n")
			for _, flag := range v.RedFlags {
				fmt.Fprintf(&b, "  - %s\r\n", flag)
			}
			b.WriteString("\r\n")
		}
		if len(v.Warnings) > 0 {
			b.WriteString("Warnings:\r\n")
			for _, warn := range v.Warnings {
				fmt.Fprintf(&b, "  - %s\r\n", warn)
			}
			b.WriteString("\r\n")
		}
		if len(v.MissingRequired) > 0 {
			b.WriteString("Missing required fields:\r\n")
			for _, field := range v.MissingRequired {
				fmt.Fprintf(&b, "  - %s\r\n", field)
			}
			b.WriteString("\r\n")
		}
		if v.FollowUpNeeded {
			b.WriteString("FOLLOW-UP with the client is recommended before filing.\r\n\r\n")
		}
	}

	if rec := result.Record; rec != nil && len(rec.FollowUpQuestions) > 0 {
		b.WriteString("Suggested follow-up questions:\r\n")
		for _, q := range rec.FollowUpQuestions {
			fmt.Fprintf(&b, "  - %s\r\n", q)
		}
		b.WriteString("\r\n")
	}

	for _, stageErr := range result.Errors {
		fmt.Fprintf(&b, "Stage error (%s): %s\r\n", stageErr.Stage, stageErr.Err)
	}

	return b.String()
}

// wrapBase64 folds encoded content to RFC-compliant 76-char lines.
func wrapBase64(s string) string {
	var b strings.Builder
	for len(s) > 76 {
		b.WriteString(s[:76])
		b.WriteString("\r\n")
		s = s[76:]
	}
	b.WriteString(s)
	return b.String()
}
