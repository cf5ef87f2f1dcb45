package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddr(t *testing.T) {
	t.Setenv("APP_ADDR", "")
	assert.Equal(t, ":8080", Addr())

	t.Setenv("APP_ADDR", "127.0.0.1:9000")
	assert.Equal(t, "127.0.0.1:9000", Addr())
}

func TestDevelopment(t *testing.T) {
	t.Setenv("DEVELOPMENT", "1")
	assert.True(t, Development())

	t.Setenv("DEVELOPMENT", "0")
	assert.False(t, Development())
}

func TestIdleTTL(t *testing.T) {
	t.Setenv("SESSION_IDLE_TTL", "")
	ttl, err := IdleTTL()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, ttl)

	t.Setenv("SESSION_IDLE_TTL", "90s")
	ttl, err = IdleTTL()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, ttl)

	t.Setenv("SESSION_IDLE_TTL", "soon")
	_, err = IdleTTL()
	assert.Error(t, err)

	t.Setenv("SESSION_IDLE_TTL", "-1m")
	_, err = IdleTTL()
	assert.Error(t, err)
}

func TestJournal(t *testing.T) {
	t.Setenv("JOURNAL_PATH", "/tmp/moves.log")
	t.Setenv("JOURNAL_MAX_SIZE_MB", "")
	t.Setenv("JOURNAL_MAX_BACKUPS", "7")
	t.Setenv("JOURNAL_MAX_AGE_DAYS", "")

	j, err := NewJournal()
	require.NoError(t, err)
	assert.Equal(t, &Journal{
		Path:       "/tmp/moves.log",
		MaxSizeMB:  50,
		MaxBackups: 7,
		MaxAgeDays: 28,
	}, j)

	t.Setenv("JOURNAL_MAX_BACKUPS", "many")
	_, err = NewJournal()
	assert.Error(t, err)
}

func TestSessionTokenFromEnv(t *testing.T) {
	t.Setenv("SESSION_SECRET", "hunter2")
	t.Setenv("SESSION_TOKEN_LIFETIME", "2h")

	tokens, err := NewSessionToken()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, tokens.Lifetime())

	signed, err := tokens.Sign("abc")
	require.NoError(t, err)
	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "abc", claims.SessionID)
}

func TestSessionTokenFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	require.NoError(t, os.WriteFile(path, []byte("from-file\n"), 0o600))

	t.Setenv("SESSION_SECRET", "")
	os.Unsetenv("SESSION_SECRET")
	t.Setenv("SESSION_SECRET_FILE", path)

	tokens, err := NewSessionToken()
	require.NoError(t, err)
	assert.Equal(t, []byte("from-file"), tokens.secret)
}

func TestSessionTokenRejectsForeignTokens(t *testing.T) {
	tokens, err := NewSessionTokenWithSecret([]byte("ours"), time.Hour)
	require.NoError(t, err)
	other, err := NewSessionTokenWithSecret([]byte("theirs"), time.Hour)
	require.NoError(t, err)

	signed, err := other.Sign("abc")
	require.NoError(t, err)
	_, err = tokens.Parse(signed)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	expired, err := NewSessionTokenWithSecret([]byte("ours"), -time.Minute)
	require.NoError(t, err)
	signed, err = expired.Sign("abc")
	require.NoError(t, err)
	_, err = tokens.Parse(signed)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &SessionClaims{SessionID: "abc"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.Parse(unsigned)
	assert.Error(t, err)

	_, err = NewSessionTokenWithSecret(nil, time.Hour)
	assert.Error(t, err)
}
