package domain

import "time"

// Session is the in-memory record of one authenticated browsing session.
// It only ever lives in the session manager; nothing is persisted, so a
// process restart signs everyone out.
type Session struct {
	Email        string
	UserID       string // identity provider's localId
	IDToken      string
	RefreshToken string // carried but unused: expiry forces a re-login
	CreatedAt    time.Time
}
