package jwtauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	v := NewVerifier("s3cret", "medremind")

	token, err := v.Issue("user-1", "ana@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.False(t, claims.ExpiresAt.IsZero())
}

func TestVerify_Expired(t *testing.T) {
	v := NewVerifier("s3cret", "")
	v.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := v.Issue("user-1", "", time.Hour)
	require.NoError(t, err)

	v.now = time.Now
	_, err = v.Verify(context.Background(), token)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired), "got %v", err)
}

func TestVerify_WrongSecretOrIssuer(t *testing.T) {
	token, err := NewVerifier("other", "medremind").Issue("user-1", "", 0)
	require.NoError(t, err)

	_, err = NewVerifier("s3cret", "medremind").Verify(context.Background(), token)
	assert.Error(t, err)

	token, err = NewVerifier("s3cret", "someone-else").Issue("user-1", "", 0)
	require.NoError(t, err)
	_, err = NewVerifier("s3cret", "medremind").Verify(context.Background(), token)
	assert.Error(t, err)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{Subject: "user-1"}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = NewVerifier("s3cret", "").Verify(context.Background(), token)
	assert.Error(t, err)
}

func TestVerify_MissingSubject(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = NewVerifier("s3cret", "").Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestVerify_NotConfiguredAndEmpty(t *testing.T) {
	_, err := NewVerifier("", "").Verify(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewVerifier("s3cret", "").Verify(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrTokenEmpty)
}
