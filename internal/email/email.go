// Package email delivers transactional mail. The sendgrid service is used
// when an API key is configured; otherwise the console service logs what
// would have been sent, which keeps local development key-free.
package email

import (
	"saarthi/internal/config"
	"saarthi/pkg/logger"
)

type Message struct {
	ToName    string
	ToAddress string
	Subject   string
	TextBody  string
	HTMLBody  string
}

// Service sends messages asynchronously; failures are logged, never
// surfaced to the caller.
type Service interface {
	Send(msg *Message)
}

func NewService(cfg *config.Config) Service {
	if cfg.Email.SendgridKey != "" {
		return newSendgridService(cfg)
	}
	logger.Warn("SENDGRID_API_KEY not set, emails will be logged instead of sent")
	return &consoleService{}
}

type consoleService struct{}

func (consoleService) Send(msg *Message) {
	logger.Info("email to %s <%s>: %s", msg.ToName, msg.ToAddress, msg.Subject)
}
