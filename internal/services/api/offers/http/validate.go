package http

import (
	"sdexindex/internal/core/asset"
	"sdexindex/internal/platform/net/http/bind"
)

const accountLen = 56

func init() {
	mustTag("asset", "{0} must be native or CODE:ISSUER", func(fl bind.FieldLevel) bool {
		_, err := asset.FromString(fl.Field().String())
		return err == nil
	})
	mustTag("stellar_account", "{0} must be a G... account id", func(fl bind.FieldLevel) bool {
		return isAccount(fl.Field().String())
	})
}

func mustTag(tag, msg string, fn func(bind.FieldLevel) bool) {
	if err := bind.RegisterTag(tag, msg, fn); err != nil {
		panic("offers: register " + tag + ": " + err.Error())
	}
}

// isAccount checks the strkey shape only: length, G prefix and base32 alphabet
func isAccount(s string) bool {
	if len(s) != accountLen || s[0] != 'G' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '2' || c > '7') {
			return false
		}
	}
	return true
}
