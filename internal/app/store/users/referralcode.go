// internal/app/store/users/referralcode.go
package userstore

import (
	"crypto/rand"
)

// codeAlphabet omits 0/O and 1/I so codes survive being read aloud
// or typed from a screenshot.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 8

// NewReferralCode returns a random share code. Uniqueness is enforced
// by the unique index on users.referral_code; callers retry on a
// duplicate key error.
func NewReferralCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform's entropy source is
		// broken; nothing sensible to fall back to.
		panic(err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf)
}
