package token

import (
	"fmt"
	"strings"
	"time"
)

// ExpiryUnit says how the backend encodes expires_at
type ExpiryUnit string

const (
	// UnitMilliseconds is the backend contract: int(expire.timestamp() * 1000)
	UnitMilliseconds ExpiryUnit = "milliseconds"
	UnitSeconds      ExpiryUnit = "seconds"
	// UnitAuto treats values below secondsCeiling as seconds
	UnitAuto ExpiryUnit = "auto"
)

// 1e11 seconds is the year 5138, 1e11 milliseconds is March 1973
const secondsCeiling = int64(1e11)

func ParseExpiryUnit(s string) (ExpiryUnit, error) {
	switch u := ExpiryUnit(strings.ToLower(strings.TrimSpace(s))); u {
	case "", "ms", UnitMilliseconds:
		return UnitMilliseconds, nil
	case "s", UnitSeconds:
		return UnitSeconds, nil
	case UnitAuto:
		return UnitAuto, nil
	default:
		return "", fmt.Errorf("unknown expiry unit %q", s)
	}
}

// Normalize converts a raw expires_at value to epoch milliseconds
func Normalize(raw int64, unit ExpiryUnit) int64 {
	switch unit {
	case UnitSeconds:
		return raw * 1000
	case UnitAuto:
		if raw > 0 && raw < secondsCeiling {
			return raw * 1000
		}
		return raw
	default:
		return raw
	}
}

// FromDuration returns the expiry in epoch milliseconds for a token that
// lives for ttl starting at now
func FromDuration(now time.Time, ttl time.Duration) int64 {
	return now.Add(ttl).UnixMilli()
}
