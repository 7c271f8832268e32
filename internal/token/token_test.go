package token

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := Generate()
		require.NoError(t, err)
		assert.False(t, seen[tok], "duplicate token generated")
		seen[tok] = true
	}
}

func TestGenerate_URLSafe(t *testing.T) {
	tok, err := Generate()
	require.NoError(t, err)

	assert.NotEmpty(t, tok)
	assert.Equal(t, tok, url.PathEscape(tok), "token must not need escaping in a path")
}
