package sqlite

const userColumns = `id, email, password_hash, active, activation_id, password_reset_id, created_at, updated_at`

const (
	createUser = `
INSERT INTO users (id, email, password_hash, active, activation_id, password_reset_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	getUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	getUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = ?`

	activateUser = `
UPDATE users SET active = 1, activation_id = NULL, updated_at = ?
WHERE activation_id = ?
RETURNING ` + userColumns

	setPasswordResetID = `
UPDATE users SET password_reset_id = ?, updated_at = ?
WHERE email = ?
RETURNING ` + userColumns

	clearPasswordResetID = `
UPDATE users SET password_reset_id = NULL, updated_at = ?
WHERE email = ? AND password_reset_id = ?`

	resetPassword = `
UPDATE users SET password_hash = ?, password_reset_id = NULL, updated_at = ?
WHERE password_reset_id = ?
RETURNING ` + userColumns

	deleteUserByEmail = `DELETE FROM users WHERE email = ?`

	listSessions = `
SELECT access, token_hash, created_at, expires_at FROM sessions
WHERE user_id = ?
ORDER BY rowid`

	addSession = `
INSERT INTO sessions (user_id, access, token_hash, created_at, expires_at)
VALUES (?, ?, ?, ?, ?)`

	touchUser = `UPDATE users SET updated_at = ? WHERE id = ?`

	hasSession = `SELECT 1 FROM sessions WHERE user_id = ? AND token_hash = ?`

	removeSession = `DELETE FROM sessions WHERE user_id = ? AND token_hash = ?`

	deleteExpiredSessions = `DELETE FROM sessions WHERE expires_at <= ?`
)
