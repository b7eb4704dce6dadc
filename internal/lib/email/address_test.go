package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	addr, err := Parse("  Someone@Seller.COM.AU ")
	require.NoError(t, err)
	assert.Equal(t, "someone@seller.com.au", addr.String())
	assert.Equal(t, "seller.com.au", addr.Domain())

	for _, raw := range []string{"", "no-at-sign", "@domain.com", "local@"} {
		_, err := Parse(raw)
		assert.Error(t, err, raw)
	}
}

func TestSameDomain(t *testing.T) {
	a, err := Parse("one@seller.com.au")
	require.NoError(t, err)
	b, err := Parse("two@SELLER.com.au")
	require.NoError(t, err)
	c, err := Parse("one@other.com.au")
	require.NoError(t, err)

	assert.True(t, a.SameDomain(b))
	assert.False(t, a.SameDomain(c))
	assert.False(t, a.Equal(b))
}

func TestGenericDomains(t *testing.T) {
	generic := NewGenericDomains([]string{" Gmail.com ", "hotmail.com"})

	assert.True(t, generic.Contains("gmail.com"))
	assert.True(t, generic.Contains("GMAIL.COM"))
	assert.False(t, generic.Contains("seller.com.au"))
}
