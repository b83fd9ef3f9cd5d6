package model

// User is a duel participant profile. Identity is deliberately trivial:
// a seeded account checked at login, nothing more.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Wins     int    `json:"wins"`
	Rating   int    `json:"rating"`
}
