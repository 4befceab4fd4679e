package upi

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentString(t *testing.T) {
	s := PaymentString("growloan@upi", "GrowLoan", 3000, "loan L1")
	require.True(t, strings.HasPrefix(s, "upi://pay?"))

	u, err := url.Parse(s)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "growloan@upi", q.Get("pa"))
	assert.Equal(t, "GrowLoan", q.Get("pn"))
	assert.Equal(t, "3000", q.Get("am"))
	assert.Equal(t, "INR", q.Get("cu"))
	assert.Equal(t, "loan L1", q.Get("tn"))
}

func TestPaymentString_OmitsEmptyNote(t *testing.T) {
	s := PaymentString("growloan@upi", "GrowLoan", 500, "")
	u, err := url.Parse(s)
	require.NoError(t, err)
	assert.False(t, u.Query().Has("tn"))
}
