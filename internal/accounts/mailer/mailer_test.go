package mailer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTemplates(t *testing.T) {
	tpl := MustLoadTemplates()
	link := "http://localhost:3000/activate?activationID=abc&x=<y>"

	msg, err := tpl.Activation("a@b.com", link)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", msg.To)
	require.Equal(t, activationSubject, msg.Subject)
	require.Contains(t, msg.Text, link, "text part is not escaped")
	require.Contains(t, msg.HTML, "activationID=abc")
	require.NotContains(t, msg.HTML, "<y>", "html part escapes the link")

	msg, err = tpl.PasswordReset("a@b.com", "http://localhost:3000/resetpassword?email=a%40b.com&signature=sig")
	require.NoError(t, err)
	require.Equal(t, resetSubject, msg.Subject)
	require.Contains(t, msg.Text, "signature=sig")
	require.Contains(t, msg.HTML, "signature=sig")
}

func TestNewSMTPNotifier(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SMTPConfig
		wantErr bool
	}{
		{"minimal", SMTPConfig{Host: "smtp.example.com", Port: 587, From: "no-reply@example.com"}, false},
		{"with auth", SMTPConfig{Host: "smtp.example.com", Port: 587, From: "a@b.com", Username: "u", Password: "p", TLS: TLSMandatory}, false},
		{"implicit tls", SMTPConfig{Host: "smtp.example.com", Port: 465, From: "a@b.com", TLS: TLSImplicit}, false},
		{"no tls", SMTPConfig{Host: "mailpit", Port: 1025, From: "a@b.com", TLS: TLSNone}, false},
		{"missing host", SMTPConfig{Port: 587, From: "a@b.com"}, true},
		{"missing from", SMTPConfig{Host: "smtp.example.com", Port: 587}, true},
		{"bad tls", SMTPConfig{Host: "smtp.example.com", Port: 587, From: "a@b.com", TLS: "sometimes"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewSMTPNotifier(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, n)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		auth bool
	}{
		{"textproto 535", &textproto.Error{Code: 535, Msg: "5.7.8 Authentication credentials invalid"}, true},
		{"wrapped textproto 535", errors.Join(errors.New("dial"), &textproto.Error{Code: 535, Msg: "nope"}), true},
		{"textproto 550", &textproto.Error{Code: 550, Msg: "mailbox unavailable"}, false},
		{"go-mail auth failure", errors.New("dial failed: SMTP AUTH failed: 535 5.7.8 bad credentials"), true},
		{"auth not advertised", errors.New("dial failed: server does not support SMTP AUTH"), false},
		{"auth type not supported", errors.New("dial failed: server does not support SMTP AUTH type: PLAIN"), false},
		{"535 outside the reply code", errors.New("send failed: 550 message 535 rejected"), false},
		{"auth failure with another code", errors.New("dial failed: SMTP AUTH failed: 454 4.7.0 try later"), false},
		{"network", errors.New("dial tcp: connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(tt.err)
			require.Equal(t, tt.auth, errors.Is(err, ErrProviderAuth))
		})
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := &LogNotifier{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	err := n.Send(context.Background(), Message{To: "a@b.com", Subject: "hi", Text: "link"})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "to=a@b.com")
	require.Contains(t, buf.String(), "subject=hi")
}
