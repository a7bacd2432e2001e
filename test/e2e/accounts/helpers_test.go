package accounts_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aussiebroadwan/accounts/pkg/accountsdk"
)

/*
 * Container setup for the accounts service end-to-end tests. Every test gets
 * its own service and Mailpit instance on a private network; emails are read
 * back through Mailpit's HTTP API.
 */

const (
	testImageName = "accounts-test:latest"
	mailpitImage  = "axllent/mailpit:v1.21"
	mailpitAlias  = "mailpit"

	testEmail    = "a@b.com"
	testPassword = "pw12345!"
)

var (
	activationRe = regexp.MustCompile(`activationID=([A-Za-z0-9_-]+)`)
	signatureRe  = regexp.MustCompile(`signature=([A-Za-z0-9_-]+)`)
)

// TestMain builds the service image once for the whole suite.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Accounts Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Accounts Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/accounts/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	cmd := exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName)
	_ = cmd.Run()
}

// env is a running service plus the Mailpit instance it sends through.
type env struct {
	client     *accountsdk.SDKClient
	mailpitURL string
}

func setupAccounts(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	nw, err := network.New(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = nw.Remove(ctx) })

	mailpit, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:          mailpitImage,
			ExposedPorts:   []string{"8025/tcp", "1025/tcp"},
			Networks:       []string{nw.Name},
			NetworkAliases: map[string][]string{nw.Name: {mailpitAlias}},
			WaitingFor: wait.ForHTTP("/livez").
				WithPort("8025/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { terminate(t, mailpit) })

	accounts, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"8080/tcp"},
			Networks:     []string{nw.Name},
			Env: map[string]string{
				"ENV":            "test",
				"LOG_LEVEL":      "info",
				"LOG_FORMAT":     "json",
				"AUTH_ISSUER":    "accounts-e2e",
				"AUTH_ALGORITHM": "HS256",
				"JWT_SECRET":     "e2e-secret-e2e-secret-e2e-secret-e2e",
				"CLIENT_URL":     "http://client.test/",
				"MAIL_DRIVER":    "smtp",
				"SMTP_HOST":      mailpitAlias,
				"SMTP_PORT":      "1025",
				"SMTP_TLS":       "none",
				"SMTP_FROM":      "no-reply@accounts.test",
			},
			WaitingFor: wait.ForHTTP("/livez").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { terminate(t, accounts) })

	return &env{
		client:     accountsdk.NewSDKClient(endpoint(t, accounts, "8080")),
		mailpitURL: endpoint(t, mailpit, "8025"),
	}
}

func endpoint(t *testing.T, c testcontainers.Container, port string) string {
	t.Helper()
	ctx := context.Background()

	mapped, err := c.MappedPort(ctx, port)
	require.NoError(t, err)
	host, err := c.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mapped.Port())
}

func terminate(t *testing.T, c testcontainers.Container) {
	if err := c.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

type mailpitList struct {
	Messages []struct {
		ID      string `json:"ID"`
		Subject string `json:"Subject"`
		To      []struct {
			Address string `json:"Address"`
		} `json:"To"`
	} `json:"messages"`
}

type mailpitMessage struct {
	Text string `json:"Text"`
	HTML string `json:"HTML"`
}

func getJSON(url string, dst any) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// latestMail waits for a message to `to` with subject and returns its text
// part. Mailpit lists newest first.
func (e *env) latestMail(t *testing.T, to, subject string) string {
	t.Helper()

	var text string
	require.Eventually(t, func() bool {
		var list mailpitList
		if err := getJSON(e.mailpitURL+"/api/v1/messages", &list); err != nil {
			return false
		}

		for _, m := range list.Messages {
			if m.Subject != subject || len(m.To) == 0 || m.To[0].Address != to {
				continue
			}
			var msg mailpitMessage
			if err := getJSON(e.mailpitURL+"/api/v1/message/"+m.ID, &msg); err != nil {
				return false
			}
			text = msg.Text
			return true
		}
		return false
	}, 10*time.Second, 200*time.Millisecond, "no %q mail for %s", subject, to)

	return text
}

// activationID extracts the activation id from the latest activation mail.
func (e *env) activationID(t *testing.T, to string) string {
	t.Helper()

	m := activationRe.FindStringSubmatch(e.latestMail(t, to, "Activate your account"))
	require.Len(t, m, 2)
	return m[1]
}

// resetSignature extracts the signature from the latest password reset mail.
func (e *env) resetSignature(t *testing.T, to string) string {
	t.Helper()

	m := signatureRe.FindStringSubmatch(e.latestMail(t, to, "Reset your password"))
	require.Len(t, m, 2)
	return m[1]
}
