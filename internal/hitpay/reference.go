package hitpay

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateReference creates the human-facing order reference that doubles
// as the gateway reference_number. Format: KV-YYYYMMDD-NNNNNN. It is the
// only identifier the webhook can use to find the order again.
func GenerateReference(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		// crypto/rand only fails when the platform entropy source is broken;
		// fall back to the clock rather than refuse checkout.
		n = big.NewInt(now.UnixNano() % 1_000_000)
	}
	return fmt.Sprintf("KV-%s-%06d", now.Format("20060102"), n.Int64())
}
