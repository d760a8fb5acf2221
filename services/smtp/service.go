// Package smtp delivers composed messages over an authenticated TLS
// session, either implicit TLS or STARTTLS upgrade by configuration.
package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"

	"github.com/pkg/errors"

	"github.com/poggig1971/telpress-rassegna-bot/config"
	"github.com/poggig1971/telpress-rassegna-bot/interfaces"
	"github.com/poggig1971/telpress-rassegna-bot/internal/logger"
)

const (
	SecuritySSL      = "ssl"
	SecurityStartTLS = "starttls"
)

type SMTPClient struct {
	cfg *config.SMTPConfig
	log logger.Logger
}

func NewSMTPClient(cfg *config.SMTPConfig, log logger.Logger) interfaces.Mailer {
	return &SMTPClient{cfg: cfg, log: log}
}

func (s *SMTPClient) Send(ctx context.Context, from string, recipients []string, message []byte) error {
	if s.cfg.Host == "" {
		return errors.New("smtp host not configured")
	}
	if len(recipients) == 0 {
		return errors.New("no envelope recipients")
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if s.cfg.Security == SecurityStartTLS {
		return s.sendWithSTARTTLS(addr, auth, from, recipients, message)
	}
	return s.sendWithImplicitTLS(addr, auth, from, recipients, message)
}

func (s *SMTPClient) sendWithSTARTTLS(addr string, auth smtp.Auth, from string, recipients []string, message []byte) error {
	conn, err := net.DialTimeout("tcp", addr, s.cfg.Timeout)
	if err != nil {
		return errors.Wrap(err, "failed to connect to SMTP server")
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return errors.Wrap(err, "failed to create SMTP client")
	}
	defer client.Close()

	tlsConfig := &tls.Config{ServerName: s.cfg.Host}
	if err = client.StartTLS(tlsConfig); err != nil {
		return errors.Wrap(err, "failed to start TLS")
	}

	return s.transact(client, auth, from, recipients, message)
}

func (s *SMTPClient) sendWithImplicitTLS(addr string, auth smtp.Auth, from string, recipients []string, message []byte) error {
	tlsConfig := &tls.Config{ServerName: s.cfg.Host}
	dialer := &net.Dialer{Timeout: s.cfg.Timeout}

	conn, err := tls.DialWithDialer(dialer, "tcp", addr, tlsConfig)
	if err != nil {
		return errors.Wrap(err, "failed to connect to SMTP server")
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return errors.Wrap(err, "failed to create SMTP client")
	}
	defer client.Close()

	return s.transact(client, auth, from, recipients, message)
}

// transact runs the authenticated MAIL/RCPT/DATA exchange on an already
// negotiated TLS connection.
func (s *SMTPClient) transact(client *smtp.Client, auth smtp.Auth, from string, recipients []string, message []byte) error {
	if err := client.Auth(auth); err != nil {
		return errors.Wrap(err, "SMTP authentication failed")
	}

	if err := client.Mail(from); err != nil {
		return errors.Wrap(err, "SMTP MAIL command failed")
	}

	for _, recipient := range recipients {
		if err := client.Rcpt(recipient); err != nil {
			return errors.Wrapf(err, "SMTP RCPT command failed for %s", recipient)
		}
	}

	dataWriter, err := client.Data()
	if err != nil {
		return errors.Wrap(err, "SMTP DATA command failed")
	}

	if _, err = dataWriter.Write(message); err != nil {
		return errors.Wrap(err, "failed to write message data")
	}

	if err = dataWriter.Close(); err != nil {
		return errors.Wrap(err, "failed to close data writer")
	}

	return client.Quit()
}
