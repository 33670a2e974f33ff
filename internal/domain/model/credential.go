package model

import "time"

// Credential is a decrypted secret for an external service ("github").
type Credential struct {
	Service   string
	Value     string
	UpdatedAt time.Time
}
