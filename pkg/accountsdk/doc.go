/*
Package accountsdk is a Go client for the accounts service.

# Overview

SDKClient wraps the public endpoints: registration, activation, the
forgot/reset password flow, login and the health probes. A successful login
returns a Session, which carries the session token and wraps the endpoints
that need it.

	client := accountsdk.NewSDKClient("http://localhost:8080")

	if err := client.Register(ctx, "a@b.com", "pw12345!"); err != nil {
		return err
	}

	// activationID arrives by email
	if err := client.Activate(ctx, activationID); err != nil {
		return err
	}

	session, err := client.Login(ctx, "a@b.com", "pw12345!")
	if err != nil {
		return err
	}
	defer session.Logout(ctx)

	me, err := session.Me(ctx)

# Errors

Non-2xx responses are returned as *APIError, carrying the status code and the
service's message:

	var apiErr *accountsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		// no such user
	}

IsStatus is a shorthand for the above.
*/
package accountsdk
