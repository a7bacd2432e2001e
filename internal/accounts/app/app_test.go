package app

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewServesHealth(t *testing.T) {
	dir := t.TempDir()

	application, err := New(Config{
		Env:                  "dev",
		LogLevel:             "error",
		LogFormat:            "text",
		Port:                 0,
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
		StoreDriver:          StoreSQLite,
		DatabaseFile:         filepath.Join(dir, "accounts.db"),
		PepperFile:           filepath.Join(dir, "pepper"),
		Issuer:               "accounts-test",
		Algorithm:            "EdDSA",
		SessionTTL:           time.Hour,
		ClientURL:            "http://client.test/",
		MailDriver:           MailLog,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.db.Close() })

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.FileExists(t, filepath.Join(dir, "pepper"))
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{StoreDriver: "postgres", MailDriver: MailLog})
	require.Error(t, err)
}
