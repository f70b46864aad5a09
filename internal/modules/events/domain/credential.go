package domain

import "strings"

// Credential is the (user, password, database) triple forwarded to Odoo.
// It is resolved per request and never stored by the proxy.
type Credential struct {
	User     string
	Password string
	Database string
}

// Complete reports whether the fields required by the remote login are present.
func (c Credential) Complete() bool {
	return strings.TrimSpace(c.User) != "" && c.Password != ""
}

// String renders the credential without the password.
func (c Credential) String() string {
	return "user=" + c.User + " db=" + c.Database
}
