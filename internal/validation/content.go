// Package validation screens anonymous submissions before they reach storage.
package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/wan8ting/mystery-meet/internal/models"
)

// Policy holds the tunable admission rules for submissions.
type Policy struct {
	MinAge          int
	MaxIntroLen     int
	BannedWords     []string
	RequireNickname bool
}

// Submission is the raw, untrusted input from an anonymous visitor.
type Submission struct {
	Nickname string `json:"nickname"`
	Age      int    `json:"age"`
	Contact  string `json:"contact"`
	Intro    string `json:"intro"`
	Consent  bool   `json:"consent"`
}

// Validator applies the admission checks in a fixed order:
// age floor, required fields, intro length, banned words, consent.
// The first failing check decides the error; later checks never run.
type Validator struct {
	policy Policy
}

// NewValidator returns a Validator for the given policy. Banned words are
// matched as case-insensitive substrings, so they are lowered once here.
func NewValidator(policy Policy) *Validator {
	lowered := make([]string, 0, len(policy.BannedWords))
	for _, w := range policy.BannedWords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			lowered = append(lowered, w)
		}
	}
	policy.BannedWords = lowered
	return &Validator{policy: policy}
}

// Validate screens in and, on success, returns a normalized draft post:
// fields trimmed, status forced to pending, report counter zeroed.
func (v *Validator) Validate(in Submission) (*models.Post, error) {
	if in.Age < v.policy.MinAge {
		return nil, models.NewAgeTooLowError(v.policy.MinAge)
	}

	nickname := strings.TrimSpace(in.Nickname)
	contact := strings.TrimSpace(in.Contact)
	intro := strings.TrimSpace(in.Intro)

	if v.policy.RequireNickname && nickname == "" {
		return nil, models.NewMissingFieldError("Nickname")
	}

	// Contact is intentionally not required; submitters may stay unreachable.
	if intro == "" || utf8.RuneCountInString(intro) > v.policy.MaxIntroLen {
		return nil, models.NewIntroInvalidError(v.policy.MaxIntroLen)
	}

	if v.containsBanned(intro) || v.containsBanned(nickname) {
		return nil, models.NewBannedContentError()
	}

	if !in.Consent {
		return nil, models.NewConsentRequiredError()
	}

	return &models.Post{
		Nickname:     nickname,
		Age:          in.Age,
		Contact:      contact,
		Intro:        intro,
		Status:       models.StatusPending,
		ReportsCount: 0,
	}, nil
}

func (v *Validator) containsBanned(text string) bool {
	if text == "" {
		return false
	}
	lowered := strings.ToLower(text)
	for _, w := range v.policy.BannedWords {
		if strings.Contains(lowered, w) {
			return true
		}
	}
	return false
}
