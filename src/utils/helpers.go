package utils

import (
	"fmt"
	"hbs/src/config"
	"hbs/src/types"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

var referenceNoPattern = regexp.MustCompile(fmt.Sprintf(`^\d{%d}$`, config.REFERENCE_NO_LENGTH))

// NormalizeReferenceNo strips every whitespace rune from a payment reference.
func NormalizeReferenceNo(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func ValidReferenceNo(s string) bool {
	return referenceNoPattern.MatchString(NormalizeReferenceNo(s))
}

func ValidTransactionType(s string) bool {
	switch types.TransactionType(s) {
	case types.TRANSACTION_BOOKING, types.TRANSACTION_RESERVATION:
		return true
	}
	return false
}

func Slugify(s string) string {
	return slug.Make(s)
}

// ClassifyFeature maps a free-text feature name to a capability.
// Keywords are checked in order bed, wi-fi/internet, tv/television and the first match wins.
func ClassifyFeature(name string) types.Capability {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "bed"):
		return types.CAPABILITY_BED
	case strings.Contains(n, "wi-fi"), strings.Contains(n, "internet"):
		return types.CAPABILITY_WIFI
	case strings.Contains(n, "tv"), strings.Contains(n, "television"):
		return types.CAPABILITY_TV
	}
	return types.CAPABILITY_NONE
}

// Round1 rounds half away from zero to one decimal place.
func Round1(f float64) float64 {
	return math.Round(f*10) / 10
}

// StayHours is the stay length rounded to the nearest whole hour.
func StayHours(checkIn, checkOut time.Time) int {
	return int(math.Round(checkOut.Sub(checkIn).Hours()))
}

// Overlaps reports whether [a,b) and [c,d) intersect.
func Overlaps(a, b, c, d time.Time) bool {
	return a.Before(d) && c.Before(b)
}
