package accountsdk

// CredentialsRequest is the body of POST /users and POST /users/login.
type CredentialsRequest struct {
	Email    string `json:"email" example:"a@b.com"`
	Password string `json:"password" example:"pw12345!"`
}

// ActivateRequest is the body of POST /users/activate.
type ActivateRequest struct {
	ActivationID string `json:"activationID"`
}

// ForgotPasswordRequest is the body of POST /users/forgotpassword.
type ForgotPasswordRequest struct {
	Email string `json:"email" example:"a@b.com"`
}

// PasswordResetRequest is the body of POST /users/passwordreset.
type PasswordResetRequest struct {
	PasswordResetID string `json:"passwordResetID"`
	Password        string `json:"password"`
}

// LoginResponse carries the session token issued by POST /users/login.
type LoginResponse struct {
	Token string `json:"token"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// HealthResponse is returned by /livez and /readyz. Checks is only set by
// /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency.
type HealthChecks struct {
	Store  string `json:"store"`
	Signer string `json:"signer"`
}
