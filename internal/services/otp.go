package services

import (
	"time"

	"hivedesk/internal/models"
)

// DefaultOTPTTL is how long a freshly issued code stays valid.
const DefaultOTPTTL = 10 * time.Minute

// IssueOTP returns u carrying code, valid for ttl from now. Any earlier code
// is overwritten and can no longer be verified.
func IssueOTP(u models.User, code string, now time.Time, ttl time.Duration) models.User {
	expiry := now.Add(ttl)
	u.OTP = &code
	u.OTPExpiry = &expiry
	u.UpdatedAt = now
	return u
}

// OTPExpired reports whether u has no usable expiry at now. The expiry
// instant itself counts as expired.
func OTPExpired(u models.User, now time.Time) bool {
	if u.OTPExpiry == nil {
		return true
	}
	return !now.Before(*u.OTPExpiry)
}

// ClearOTP returns u with code and expiry removed.
func ClearOTP(u models.User) models.User {
	u.OTP = nil
	u.OTPExpiry = nil
	return u
}

// VerifyOTP checks candidate against the stored code with an exact string
// compare. It never mutates u; consuming the code is the caller's job.
func VerifyOTP(u models.User, candidate string, now time.Time) error {
	if OTPExpired(u, now) {
		return ErrOTPExpired
	}
	if u.OTP == nil || *u.OTP != candidate {
		return ErrOTPMismatch
	}
	return nil
}
