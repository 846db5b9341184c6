// Package mail delivers provisioning credentials over SMTP. Sends run behind
// a circuit breaker so a dead relay stops consuming goroutines quickly.
package mail

import (
	"fmt"

	"github.com/go-mail/mail/v2"
	"github.com/sony/gobreaker"
)

type Mailer struct {
	dialer  *mail.Dialer
	sender  string
	breaker *gobreaker.CircuitBreaker
}

func New(host string, port int, username, password, sender string) *Mailer {
	return &Mailer{
		dialer: mail.NewDialer(host, port, username, password),
		sender: sender,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "smtp",
		}),
	}
}

func (m *Mailer) SendCredentials(to, name, username, password string) error {
	msg := mail.NewMessage()
	msg.SetHeader("To", to)
	msg.SetHeader("From", m.sender)
	msg.SetHeader("Subject", "Your TaskFlow account")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nYour TaskFlow account has been created.\n\nUsername: %s\nPassword: %s\n\nPlease change the password after your first login.\n",
		name, username, password,
	))

	_, err := m.breaker.Execute(func() (interface{}, error) {
		return nil, m.dialer.DialAndSend(msg)
	})
	return err
}
