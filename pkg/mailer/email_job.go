package mailer

import "github.com/daryha/buzzletBack/pkg/mailer/templates"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (+Data) or a literal Subject/Text/HTML is set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// NewWelcomeJob builds the message sent after registration.
func NewWelcomeJob(to, name, appName string) EmailJob {
	return EmailJob{
		To:       to,
		Template: templates.Welcome,
		Data: map[string]any{
			"Name":    name,
			"Email":   to,
			"AppName": appName,
		},
	}
}
