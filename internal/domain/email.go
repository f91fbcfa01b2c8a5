package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// InviteEmailData holds data for the shared invite link email.
type InviteEmailData struct {
	GroupLeader string
	Instructor  string
	ClassDate   string
	InviteURL   string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	// SendInviteLink mails the shared invite URL to a member parent.
	SendInviteLink(ctx context.Context, to string, data *InviteEmailData) error
}
