package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
)

// TLS policies accepted in SMTPConfig.TLS.
const (
	TLSOpportunistic = "opportunistic"
	TLSMandatory     = "mandatory"
	TLSImplicit      = "ssl"
	TLSNone          = "none"
)

// smtpAuthFailed is the reply code for rejected credentials.
const smtpAuthFailed = 535

// authFailedPrefix is how go-mail wraps an AUTH command failure.
const authFailedPrefix = "SMTP AUTH failed: "

type SMTPConfig struct {
	Host     string
	Port     int
	Username string // empty disables SMTP AUTH
	Password string
	From     string
	TLS      string
	Timeout  time.Duration
}

// SMTPNotifier sends mail through an SMTP relay.
type SMTPNotifier struct {
	from string
	host string
	opts []mail.Option
}

// NewSMTPNotifier validates cfg. No connection is made until the first Send.
func NewSMTPNotifier(cfg SMTPConfig) (*SMTPNotifier, error) {
	if cfg.Host == "" {
		return nil, errors.New("mailer: SMTP host is required")
	}
	if cfg.From == "" {
		return nil, errors.New("mailer: SMTP from address is required")
	}

	var opts []mail.Option
	if cfg.Port > 0 {
		opts = append(opts, mail.WithPort(cfg.Port))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}

	switch strings.ToLower(cfg.TLS) {
	case "", TLSOpportunistic:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	case TLSMandatory:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	case TLSImplicit:
		opts = append(opts, mail.WithSSL())
	case TLSNone:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	default:
		return nil, fmt.Errorf("mailer: unknown TLS policy %q", cfg.TLS)
	}

	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	return &SMTPNotifier{from: cfg.From, host: cfg.Host, opts: opts}, nil
}

// Send dials the relay and delivers msg. Each call uses its own connection.
func (n *SMTPNotifier) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.From(n.from); err != nil {
		return fmt.Errorf("mailer: from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("mailer: to: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}

	client, err := mail.NewClient(n.host, n.opts...)
	if err != nil {
		return fmt.Errorf("mailer: client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return classify(err)
	}
	return nil
}

// classify wraps relay authentication failures in ErrProviderAuth.
func classify(err error) error {
	if isAuthFailure(err) {
		return fmt.Errorf("%w: %v", ErrProviderAuth, err)
	}
	return fmt.Errorf("mailer: send: %w", err)
}

func isAuthFailure(err error) bool {
	var tp *textproto.Error
	if errors.As(err, &tp) {
		return tp.Code == smtpAuthFailed
	}
	// go-mail prefixes relay AUTH rejections; the reply code must follow it.
	_, reply, ok := strings.Cut(err.Error(), authFailedPrefix)
	if !ok {
		return false
	}
	code := strconv.Itoa(smtpAuthFailed)
	return strings.HasPrefix(reply, code+" ") || strings.HasPrefix(reply, code+"-")
}
