// Package notify sends account emails through the Brevo transactional API.
package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/rs/zerolog"
	brevo "github.com/sendinblue/APIv3-go-library/v2/lib"
)

//go:embed templates/*.html
var templates embed.FS

const welcomeSubject = "Welcome to Store Ratings"

// Config holds the Brevo credentials and sender identity.
type Config struct {
	APIKey      string
	SenderName  string
	SenderEmail string
	// LoginURL is linked from the welcome email when set.
	LoginURL string
	// BasePath overrides the Brevo API endpoint.
	BasePath string
}

// BrevoNotifier implements ports.Notifier.
type BrevoNotifier struct {
	client   *brevo.APIClient
	sender   brevo.SendSmtpEmailSender
	welcome  *template.Template
	loginURL string
}

func NewBrevoNotifier(cfg Config) (*BrevoNotifier, error) {
	tmpl, err := template.ParseFS(templates, "templates/welcome.html")
	if err != nil {
		return nil, fmt.Errorf("parse welcome template: %w", err)
	}

	bc := brevo.NewConfiguration()
	bc.AddDefaultHeader("api-key", cfg.APIKey)
	if cfg.BasePath != "" {
		bc.BasePath = cfg.BasePath
	}

	return &BrevoNotifier{
		client:   brevo.NewAPIClient(bc),
		sender:   brevo.SendSmtpEmailSender{Name: cfg.SenderName, Email: cfg.SenderEmail},
		welcome:  tmpl,
		loginURL: strings.TrimRight(cfg.LoginURL, "/"),
	}, nil
}

// Welcome emails a newly registered account.
func (n *BrevoNotifier) Welcome(ctx context.Context, name, email string) error {
	var body bytes.Buffer
	data := map[string]string{"Name": name, "Email": email, "LoginURL": n.loginURL}
	if err := n.welcome.Execute(&body, data); err != nil {
		return fmt.Errorf("render welcome email: %w", err)
	}

	sender := n.sender
	_, _, err := n.client.TransactionalEmailsApi.SendTransacEmail(ctx, brevo.SendSmtpEmail{
		Sender:      &sender,
		To:          []brevo.SendSmtpEmailTo{{Name: name, Email: email}},
		Subject:     welcomeSubject,
		HtmlContent: body.String(),
	})
	if err != nil {
		return fmt.Errorf("brevo send: %w", err)
	}
	return nil
}

// LogNotifier stands in when no Brevo key is configured.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Welcome(_ context.Context, _, email string) error {
	n.log.Debug().Str("email", email).Msg("welcome email skipped, no mail provider configured")
	return nil
}
