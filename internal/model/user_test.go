package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw    string
		want   Role
		wantOK bool
	}{
		{"user", RoleUser, true},
		{"admin", RoleAdmin, true},
		{" ADMIN ", RoleAdmin, true},
		{"", "", false},
		{"superuser", "", false},
	}

	for _, tc := range tests {
		got, ok := ParseRole(tc.raw)
		assert.Equal(t, tc.wantOK, ok, tc.raw)
		assert.Equal(t, tc.want, got, tc.raw)
	}
}
