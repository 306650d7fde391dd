package utils

import (
	"fmt"
	"math/rand/v2"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// ==================== SESSION TOKEN ====================

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// ==================== REFERENCE CODE ====================

const referenceCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var referenceCodePattern = regexp.MustCompile(`^\d{8}-\d{6}-[A-Z0-9]{6}$`)

// GenerateReferenceCode formats YYYYMMDD-HHMMSS-XXXXXX from now plus six
// characters of A-Z0-9.
func GenerateReferenceCode(now time.Time) string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = referenceCharset[rand.IntN(len(referenceCharset))]
	}

	return fmt.Sprintf("%s-%s-%s", now.Format("20060102"), now.Format("150405"), suffix)
}

func IsValidReferenceCode(code string) bool {
	return referenceCodePattern.MatchString(code)
}

// VerificationURL is the payload encoded in a booking's QR code.
func VerificationURL(baseURL, code string) string {
	return baseURL + "/verify-booking?ref=" + url.QueryEscape(code)
}
