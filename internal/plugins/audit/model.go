// Package audit records account security events: signups, logins, password
// resets and changes, and profile edits. Entries are written after the
// action succeeds and are only ever read by administrators.
//
// Audit failures never block the primary operation; the recorder logs them
// and moves on.
package audit

import "time"

// Entry is a single recorded account event.
type Entry struct {
	ID        int64          `json:"id"`
	UserID    string         `json:"userId"`
	Action    string         `json:"action"`
	IP        string         `json:"ip,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`

	// UserEmail is joined from the users table for the admin listing. Not
	// stored in audit_log.
	UserEmail string `json:"userEmail,omitempty"`
}
