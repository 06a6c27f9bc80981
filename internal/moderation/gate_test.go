package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessGateAllow(t *testing.T) {
	t.Parallel()

	gate := NewAccessGate([]string{"Mod@Example.com", "  second@example.com  ", ""})

	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{name: "exact match", email: "mod@example.com", want: true},
		{name: "case insensitive", email: "MOD@EXAMPLE.COM", want: true},
		{name: "trimmed entry", email: "second@example.com", want: true},
		{name: "unknown email", email: "intruder@example.com", want: false},
		{name: "empty email", email: "", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, gate.Allow(tc.email))
		})
	}
}

func TestAccessGateEmptyListAdmitsNobody(t *testing.T) {
	t.Parallel()

	gate := NewAccessGate(nil)
	assert.False(t, gate.Allow("anyone@example.com"))
	assert.False(t, gate.Allow(""))
}
