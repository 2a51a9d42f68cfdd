package validate

import (
	"github.com/ShiraazMoollatjie/goluhn"
)

// IsPaymentReference checks a gateway payment reference number
// (card-style, Luhn checksummed).
func IsPaymentReference(s string) bool {
	err := goluhn.Validate(s)
	return err == nil
}
