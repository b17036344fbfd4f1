// Package validator holds the format checks applied to waitlist signups
// before anything touches storage.
package validator

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	emailTag         = "required,contains=@"
	walletAddressTag = "required,eth_addr"
	socialHandleTag  = "required,max=15,social_handle"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("social_handle", socialHandle); err != nil {
		panic(err)
	}
	return v
}

// socialHandle allows letters, digits and underscores only.
func socialHandle(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

// IsValidEmail is intentionally permissive: non-empty and containing '@'.
func IsValidEmail(s string) bool {
	return validate.Var(s, emailTag) == nil
}

func IsValidWalletAddress(s string) bool {
	return validate.Var(s, walletAddressTag) == nil
}

// IsValidSocialHandle accepts an optional single leading '@'.
func IsValidSocialHandle(s string) bool {
	return validate.Var(strings.TrimPrefix(s, "@"), socialHandleTag) == nil
}

func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func NormalizeWalletAddress(s string) string {
	return strings.ToLower(s)
}

func NormalizeSocialHandle(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "@"))
}

func NormalizeReferralCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
