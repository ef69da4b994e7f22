package models

// EmailMessage is an outgoing transactional email.
type EmailMessage struct {
	To          string
	CC          []string
	BCC         []string
	Subject     string
	Content     string
	HTMLContent string
	// Categories and CustomArgs are echoed back in delivery webhooks.
	Categories []string
	CustomArgs map[string]string
}
