package models

import "time"

// User represents a user account in the system.
//
// PasswordHash holds an encoded argon2id hash, never the plaintext. It is
// stored under "password" so lookups return the hashed credential.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	PasswordHash string    `json:"password,omitempty" bson:"password"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
}

// Public returns a copy of the user with the credential stripped.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}
