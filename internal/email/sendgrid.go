package email

import (
	"net/http"

	"saarthi/internal/config"
	"saarthi/pkg/logger"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

type sendgridService struct {
	key  string
	from *sgmail.Email
}

var _ Service = (*sendgridService)(nil)

func newSendgridService(cfg *config.Config) *sendgridService {
	return &sendgridService{
		key:  cfg.Email.SendgridKey,
		from: sgmail.NewEmail(cfg.Email.FromName, cfg.Email.FromAddress),
	}
}

func (svc *sendgridService) Send(msg *Message) {
	go svc.send(msg)
}

func (svc *sendgridService) prepare(msg *Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToAddress))

	m := sgmail.NewV3Mail()
	m.SetFrom(svc.from)
	m.AddPersonalizations(p)

	if msg.TextBody != "" {
		m.AddContent(sgmail.NewContent("text/plain", msg.TextBody))
	}
	if msg.HTMLBody != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTMLBody))
	}
	return m
}

func (svc *sendgridService) send(msg *Message) {
	req := sendgrid.GetRequest(svc.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(svc.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		logger.Error("sending email: %v", err)
	} else if res.StatusCode >= http.StatusBadRequest {
		logger.Error("sending email - status: %d - body: %s", res.StatusCode, res.Body)
	}
}
