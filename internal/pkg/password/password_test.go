package password

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, Verify("s3cret-pass", hash))
	assert.False(t, Verify("wrong", hash))
}

func TestGenerateBackupCodes(t *testing.T) {
	codes, hashes, err := GenerateBackupCodes(BackupCodeCount)
	require.NoError(t, err)
	require.Len(t, codes, BackupCodeCount)
	require.Len(t, hashes, BackupCodeCount)

	format := regexp.MustCompile(`^[0-9A-F]{4}-[0-9A-F]{4}$`)
	for i, code := range codes {
		assert.Regexp(t, format, code)
		assert.Equal(t, HashToken(code), hashes[i])
	}
}

func TestValidatePassword(t *testing.T) {
	assert.False(t, ValidatePassword("short"))
	assert.True(t, ValidatePassword("long-enough"))
	assert.True(t, ValidatePassword(strings.Repeat("a", MaxLength)))
	assert.False(t, ValidatePassword(strings.Repeat("a", MaxLength+1)))
}
