package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCurrentUsername(t *testing.T) {
	assert.NotEmpty(t, GetCurrentUsername())
}

func TestResolveActor(t *testing.T) {
	tests := []struct {
		name       string
		flag       string
		configured string
		want       string
	}{
		{"flag wins", "alice", "bob", "alice"},
		{"config fallback", "  ", "bob", "bob"},
		{"os fallback", "", "", GetCurrentUsername()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveActor(tt.flag, tt.configured))
		})
	}
}
