package auth

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	return bytes.Repeat([]byte{7}, keyBytesSize)
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, IsHash(hash))
	assert.True(t, VerifyPassword(hash, "correct horse"))
	assert.False(t, VerifyPassword(hash, "Correct horse"))
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	a, err := HashPassword("password1")
	require.NoError(t, err)
	b, err := HashPassword("password1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestHashPassword_Rejects(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)

	_, err = HashPassword(strings.Repeat("a", maxPasswordLength+1))
	assert.Error(t, err)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("$argon2id$garbage", "x"))
	assert.False(t, VerifyPassword("plain", "plain"))
}

func TestPasswords_PlainPolicy(t *testing.T) {
	p := NewPasswords(false)

	sealed, err := p.Seal("hunter22")
	require.NoError(t, err)
	assert.Equal(t, "hunter22", sealed)

	assert.True(t, p.Match("hunter22", "hunter22"))
	assert.False(t, p.Match("hunter22", "Hunter22"))

	odd, err := p.Seal("$argon2id$hunter22")
	require.NoError(t, err)
	assert.True(t, p.Match(odd, "$argon2id$hunter22"))
	assert.True(t, NewPasswords(true).Match(odd, "$argon2id$hunter22"))
	assert.False(t, p.Match(odd, "hunter22"))
}

func TestPasswords_ArgonPolicyAcceptsPlainRecords(t *testing.T) {
	p := NewPasswords(true)

	sealed, err := p.Seal("hunter22")
	require.NoError(t, err)
	assert.True(t, IsHash(sealed))
	assert.True(t, p.Match(sealed, "hunter22"))

	assert.True(t, p.Match("legacy-pass", "legacy-pass"))
	assert.True(t, NewPasswords(false).Match(sealed, "hunter22"))
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	key, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, key, keyBytesSize)

	again, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, key, again)

	info, err := os.Stat(filepath.Join(dir, KeyFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadOrGenerateKey_RejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyFile), []byte("abc"), 0o600))

	_, err := LoadOrGenerateKey(dir)
	assert.Error(t, err)
}

func TestTokenService_IssueVerify(t *testing.T) {
	svc, err := NewTokenService(testKey())
	require.NoError(t, err)

	token := svc.Issue(KindDevice, "dev-abc", time.Hour)

	claims, err := svc.Verify(KindDevice, token)
	require.NoError(t, err)
	assert.Equal(t, "dev-abc", claims.Subject)
	assert.Equal(t, KindDevice, claims.Kind)
	assert.NotEmpty(t, claims.TokenID)
}

func TestTokenService_RejectsWrongKind(t *testing.T) {
	svc, err := NewTokenService(testKey())
	require.NoError(t, err)

	token := svc.Issue(KindSession, "ses-abc", time.Hour)

	_, err = svc.Verify(KindDevice, token)
	assert.Error(t, err)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc, err := NewTokenService(testKey())
	require.NoError(t, err)

	now := time.Now()
	svc.now = func() time.Time { return now }
	token := svc.Issue(KindSession, "ses-abc", time.Minute)

	svc.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = svc.Verify(KindSession, token)
	assert.Error(t, err)
}

func TestTokenService_RejectsForeignKey(t *testing.T) {
	a, err := NewTokenService(testKey())
	require.NoError(t, err)
	b, err := NewTokenService(bytes.Repeat([]byte{9}, keyBytesSize))
	require.NoError(t, err)

	_, err = b.Verify(KindDevice, a.Issue(KindDevice, "dev-abc", time.Hour))
	assert.Error(t, err)

	_, err = a.Verify(KindDevice, "not-a-token")
	assert.Error(t, err)
}

func TestNewTokenService_KeyLength(t *testing.T) {
	_, err := NewTokenService([]byte("short"))
	assert.Error(t, err)
}
