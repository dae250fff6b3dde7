package session

import (
	"testing"
	"time"

	"imagen-gateway/internal/core"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	user := core.SessionUser{Email: "a@example.com", Name: "A", Picture: "https://img/a.png"}
	tok, err := Issue("secret", user, time.Hour, time.Now())
	require.NoError(t, err)

	got, err := Parse("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, user, *got)
}

func TestParseRejects(t *testing.T) {
	tok, err := Issue("secret", core.SessionUser{Email: "a@example.com"}, time.Hour, time.Now())
	require.NoError(t, err)

	_, err = Parse("other", tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = Parse("", tok)
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = Parse("secret", "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := Issue("secret", core.SessionUser{Email: "a@example.com"}, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = Parse("secret", expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noEmail, err := Issue("secret", core.SessionUser{}, time.Hour, time.Now())
	require.NoError(t, err)
	_, err = Parse("secret", noEmail)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	claims := core.Claims{Email: "a@example.com"}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = Parse("secret", none)
	assert.ErrorIs(t, err, ErrInvalidToken)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = Parse("secret", hs512)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
