package services

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestTokenService_RoundTrip(t *testing.T) {
	s := NewTokenService("secret", 0, 0)
	id := uuid.New()

	tok, exp, err := s.Issue(id, false)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultTokenTTL), exp, 2*time.Second)

	got, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestTokenService_Expiry(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewTokenService("secret", DefaultTokenTTL, ExtendedTokenTTL)
	s.now = fixedClock(issued)
	id := uuid.New()

	short, _, err := s.Issue(id, false)
	require.NoError(t, err)
	long, exp, err := s.Issue(id, true)
	require.NoError(t, err)
	assert.Equal(t, issued.Add(30*24*time.Hour), exp)

	s.now = fixedClock(issued.Add(DefaultTokenTTL - time.Second))
	_, err = s.Verify(short)
	assert.NoError(t, err)

	s.now = fixedClock(issued.Add(DefaultTokenTTL + time.Second))
	_, err = s.Verify(short)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = s.Verify(long)
	assert.NoError(t, err)

	s.now = fixedClock(issued.Add(ExtendedTokenTTL + time.Second))
	_, err = s.Verify(long)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsTampered(t *testing.T) {
	s := NewTokenService("secret", 0, 0)
	tok, _, err := s.Issue(uuid.New(), false)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = s.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsOtherSecret(t *testing.T) {
	tok, _, err := NewTokenService("one", 0, 0).Issue(uuid.New(), false)
	require.NoError(t, err)
	_, err = NewTokenService("two", 0, 0).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		UserID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenService("secret", 0, 0).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	_, err := NewTokenService("secret", 0, 0).Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearer(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer   abc  ", "abc", true},
		{"Bearer ", "", false},
		{"Bearer", "", false},
		{"Basic abc", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		tok, ok := ExtractBearer(tc.header)
		assert.Equal(t, tc.ok, ok, tc.header)
		assert.Equal(t, tc.token, tok, tc.header)
	}
}

func TestTokenService_EmptySecretRefusesToSignOrVerify(t *testing.T) {
	s := NewTokenService("", 0, 0)
	_, _, err := s.Issue(uuid.New(), false)
	assert.ErrorIs(t, err, ErrNoSigningKey)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte{})
	require.NoError(t, err)
	_, err = s.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
