package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tailorshop/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testUser(email string) *domain.User {
	return &domain.User{ID: 1, Email: email, Role: domain.RoleCustomer}
}

func TestNewService_RejectsShortKey(t *testing.T) {
	_, err := NewService("too-short", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSigningKey)

	_, err = NewService("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSigningKey)
}

func TestIssueAndExtractSubject(t *testing.T) {
	svc, err := NewService(testSecret, time.Hour)
	require.NoError(t, err)

	user := testUser("customer@example.com")
	tokenString, err := svc.Issue(user)
	require.NoError(t, err)

	subject, err := svc.ExtractSubject(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "customer@example.com", subject)
}

func TestExtractSubject_ExpiredToken(t *testing.T) {
	svc, err := NewService(testSecret, -time.Minute)
	require.NoError(t, err)

	tokenString, err := svc.Issue(testUser("customer@example.com"))
	require.NoError(t, err)

	subject, err := svc.ExtractSubject(tokenString)
	assert.NoError(t, err)
	assert.Empty(t, subject)
}

func TestExtractSubject_TamperedSignature(t *testing.T) {
	svc, err := NewService(testSecret, time.Hour)
	require.NoError(t, err)

	tokenString, err := svc.Issue(testUser("customer@example.com"))
	require.NoError(t, err)

	tampered := tokenString[:len(tokenString)-2] + "xx"
	subject, err := svc.ExtractSubject(tampered)
	assert.NoError(t, err)
	assert.Empty(t, subject)
}

func TestExtractSubject_WrongKey(t *testing.T) {
	issuer, err := NewService(testSecret, time.Hour)
	require.NoError(t, err)
	verifier, err := NewService("ffffffffffffffffffffffffffffffff", time.Hour)
	require.NoError(t, err)

	tokenString, err := issuer.Issue(testUser("customer@example.com"))
	require.NoError(t, err)

	subject, err := verifier.ExtractSubject(tokenString)
	assert.NoError(t, err)
	assert.Empty(t, subject)
}

func TestExtractSubject_MalformedToken(t *testing.T) {
	svc, err := NewService(testSecret, time.Hour)
	require.NoError(t, err)

	for _, bad := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		_, err := svc.ExtractSubject(bad)
		assert.ErrorIs(t, err, ErrMalformedToken, "input %q", bad)
	}
}

func TestIsValid(t *testing.T) {
	svc, err := NewService(testSecret, time.Hour)
	require.NoError(t, err)

	user := testUser("customer@example.com")
	tokenString, err := svc.Issue(user)
	require.NoError(t, err)

	assert.True(t, svc.IsValid(tokenString, user))
	assert.False(t, svc.IsValid(tokenString, testUser("someone-else@example.com")))
	assert.False(t, svc.IsValid("garbage", user))
}
