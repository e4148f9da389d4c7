package domain

import (
	"strconv"
	"strings"
	"time"
)

// GeneratePrettyID builds the permanent human-readable slug assigned when an
// auction goes live: model year, brand, model and trim joined with dashes,
// plus a short time-derived suffix to avoid collisions between identical
// cars. Collision avoidance only, nothing security-sensitive.
func GeneratePrettyID(car CarInformation, now time.Time) string {
	parts := []string{
		strconv.Itoa(car.ModelYear),
		car.Brand,
		car.Model,
	}
	if len(car.Trim) > 0 {
		parts = append(parts, car.Trim)
	}
	parts = append(parts, strconv.FormatInt(now.UnixMilli(), 36))

	return strings.ToLower(sanitizeURLString(strings.Join(parts, "-")))
}

// sanitizeURLString replaces every non URL-legal character with a '-'.
func sanitizeURLString(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
