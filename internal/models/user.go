package models

// User represents a registered account. Users are created at registration and
// never deleted through the API.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	HashedPassword string `json:"-"` // Never expose this to the client
}
