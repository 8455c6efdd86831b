package session

import "time"

// Session identifies one coordinating run. Each session owns exactly one
// round ledger, written only from that session's round-advance loop.
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Records   uint64    `json:"records"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SessionPage struct {
	Offset   uint64    `json:"offset"`
	Limit    uint64    `json:"limit"`
	Total    uint64    `json:"total"`
	Sessions []Session `json:"sessions"`
}
