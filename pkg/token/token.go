package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Share codes are short enough to read over the phone; vote tokens are long
// enough to be unguessable.
const (
	ShareCodeLen = 8
	VoteTokenLen = 32
)

// randomString returns a random string of length n over the alphanumeric
// alphabet, using crypto/rand.
func randomString(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(out)
}

// NewShareCode generates a poll share code.
func NewShareCode() string {
	return randomString(ShareCodeLen)
}

// NewVoteToken generates a closed-poll vote token for a pollster.
func NewVoteToken() string {
	return randomString(VoteTokenLen)
}

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// HashIP hashes a client IP with a salt. The hash is stable per IP, so
// duplicate-vote checks work by equality without storing the raw address.
func HashIP(ip, salt string) string {
	return SHA256Hex(salt + ip)
}
