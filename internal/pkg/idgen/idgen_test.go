package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		id, err := New()
		require.NoError(t, err)
		require.True(t, Valid(id), id)
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"5f8d0d55b54764421b7156c9", true},
		{"5F8D0D55B54764421B7156C9", true},
		{"5f8d0d55b54764421b7156c", false},
		{"5f8d0d55b54764421b7156c90", false},
		{"zf8d0d55b54764421b7156c9", false},
		{"", false},
		{"me", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Valid(tt.id), tt.id)
	}
}
