// Package moderation holds the submission lifecycle: validation, the
// moderator allow-list, and the engine that moves posts between the
// pending queue and the public feed.
package moderation

import "strings"

// AccessGate answers whether an email belongs to a moderator. The
// allow-list is fixed at construction; an empty list admits nobody.
type AccessGate struct {
	allowed map[string]struct{}
}

// NewAccessGate builds a gate from the configured admin emails.
// Entries are compared case-insensitively.
func NewAccessGate(emails []string) *AccessGate {
	allowed := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}
		allowed[email] = struct{}{}
	}
	return &AccessGate{allowed: allowed}
}

// Allow reports whether the email may perform privileged operations.
func (g *AccessGate) Allow(email string) bool {
	_, ok := g.allowed[strings.ToLower(strings.TrimSpace(email))]
	return ok
}
