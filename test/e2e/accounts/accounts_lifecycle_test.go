package accounts_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/accounts/pkg/accountsdk"
)

func TestRegisterActivateLogin(t *testing.T) {
	e := setupAccounts(t)
	ctx := context.Background()

	require.NoError(t, e.client.Register(ctx, testEmail, testPassword))

	err := e.client.Register(ctx, testEmail, testPassword)
	require.True(t, accountsdk.IsStatus(err, http.StatusBadRequest))

	_, err = e.client.Login(ctx, testEmail, testPassword)
	require.True(t, accountsdk.IsStatus(err, http.StatusBadRequest), "inactive accounts cannot log in")

	activationID := e.activationID(t, testEmail)
	require.NoError(t, e.client.Activate(ctx, activationID))
	require.True(t, accountsdk.IsStatus(e.client.Activate(ctx, activationID), http.StatusNotFound))

	session, err := e.client.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)
	require.NotEmpty(t, session.Token())

	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, testEmail, me.Email)

	_, err = e.client.Login(ctx, testEmail, "wrong-password")
	require.True(t, accountsdk.IsStatus(err, http.StatusUnauthorized))

	require.NoError(t, session.Logout(ctx))
	_, err = session.Me(ctx)
	require.True(t, accountsdk.IsStatus(err, http.StatusUnauthorized))
}

func TestForgotAndResetPassword(t *testing.T) {
	e := setupAccounts(t)
	ctx := context.Background()

	require.NoError(t, e.client.Register(ctx, testEmail, testPassword))
	require.NoError(t, e.client.Activate(ctx, e.activationID(t, testEmail)))

	require.True(t, accountsdk.IsStatus(e.client.ForgotPassword(ctx, "nobody@b.com"), http.StatusNotFound))

	require.NoError(t, e.client.ForgotPassword(ctx, testEmail))
	signature := e.resetSignature(t, testEmail)

	require.NoError(t, e.client.ResetPassword(ctx, signature, "new-password"))
	require.True(t, accountsdk.IsStatus(e.client.ResetPassword(ctx, signature, "new-password"), http.StatusNotFound))

	_, err := e.client.Login(ctx, testEmail, testPassword)
	require.True(t, accountsdk.IsStatus(err, http.StatusUnauthorized))

	_, err = e.client.Login(ctx, testEmail, "new-password")
	require.NoError(t, err)
}
