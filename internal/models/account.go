package models

// Account is a staff user account. The password is write-only: it appears in
// payloads going to the backend but is never round-tripped for display.
type Account struct {
	ID           string `json:"_id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	IsSuperAdmin bool   `json:"isSuperAdmin"`
}

// AccountPayload is the writable subset of an account record.
type AccountPayload struct {
	Username     string `json:"username"`
	Name         string `json:"name"`
	Password     string `json:"password,omitempty"`
	IsSuperAdmin bool   `json:"isSuperAdmin"`
}

// Credentials is the login form submission.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
