package service

import (
	"math/rand/v2"
	"strconv"
)

// GenerateCouponCode returns a 4-digit numeric code drawn uniformly from
// [1000, 9999]. Codes are not globally unique; the verification ledger's
// unique constraint is what resolves collisions at redemption time.
func GenerateCouponCode() string {
	return strconv.Itoa(1000 + rand.IntN(9000))
}
