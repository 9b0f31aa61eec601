package password

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12
)

// Hash hashes a password using bcrypt
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a password with a hash
func Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// HashToken hashes a token using SHA256 (for refresh tokens)
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// Password length bounds in bytes; bcrypt ignores input past 72 bytes
const (
	MinLength = 8
	MaxLength = 72
)

// ValidatePassword checks if password meets requirements
func ValidatePassword(password string) bool {
	return len(password) >= MinLength && len(password) <= MaxLength
}

// BackupCodeCount is the number of 2FA recovery codes issued at setup
const BackupCodeCount = 8

// GenerateBackupCodes returns n random recovery codes (XXXX-XXXX, hex upper)
// and their SHA256 hashes for storage.
func GenerateBackupCodes(n int) (codes []string, hashes []string, err error) {
	codes = make([]string, 0, n)
	hashes = make([]string, 0, n)
	buf := make([]byte, 4)
	for i := 0; i < n; i++ {
		if _, err := rand.Read(buf); err != nil {
			return nil, nil, err
		}
		raw := strings.ToUpper(hex.EncodeToString(buf))
		code := raw[:4] + "-" + raw[4:]
		codes = append(codes, code)
		hashes = append(hashes, HashToken(code))
	}
	return codes, hashes, nil
}
