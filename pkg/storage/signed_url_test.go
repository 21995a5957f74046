package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("test-secret", time.Hour)

	token, expiresAt, err := signer.Generate("exports/job-1", "exports/job-1/employees.csv")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	subject, key, parsedExp, err := signer.Parse(token, false)
	require.NoError(t, err)
	assert.Equal(t, "exports/job-1", subject)
	assert.Equal(t, "exports/job-1/employees.csv", key)
	assert.Equal(t, expiresAt.Unix(), parsedExp.Unix())
}

func TestSignedURLRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("test-secret", time.Hour)
	token, _, err := signer.Generate("exports/job-1", "exports/job-1/guests.csv")
	require.NoError(t, err)

	_, _, _, err = signer.Parse(token+"x", false)
	assert.Error(t, err)

	other := NewSignedURLSigner("another-secret", time.Hour)
	_, _, _, err = other.Parse(token, false)
	assert.Error(t, err)

	_, _, _, err = signer.Parse("not-a-token", false)
	assert.Error(t, err)
}

func TestSignedURLExpiry(t *testing.T) {
	signer := NewSignedURLSigner("test-secret", time.Nanosecond)
	token, _, err := signer.Generate("files/photo", "employees/e1/photo.jpg")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, _, _, err = signer.Parse(token, false)
	assert.Error(t, err)

	subject, key, _, err := signer.Parse(token, true)
	require.NoError(t, err)
	assert.Equal(t, "files/photo", subject)
	assert.Equal(t, "employees/e1/photo.jpg", key)
}
