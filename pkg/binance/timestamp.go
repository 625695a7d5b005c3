package binance

import (
	"math"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

// DefaultUnitThreshold separates epoch seconds from epoch milliseconds:
// values below it are seconds, values at or above it are milliseconds.
const DefaultUnitThreshold int64 = 1_000_000_000_000

// LaunchEpoch is the Binance exchange launch date. Earlier timestamps point
// at a seconds/milliseconds mix-up upstream.
var LaunchEpoch = time.Date(2017, time.July, 14, 0, 0, 0, 0, time.UTC)

// TimestampPolicy decides how an epoch value is read and which instants are
// plausible.
type TimestampPolicy struct {
	UnitThreshold int64
	Launch        time.Time
}

// DefaultTimestampPolicy returns the policy used by the package-level decoders.
func DefaultTimestampPolicy() TimestampPolicy {
	return TimestampPolicy{UnitThreshold: DefaultUnitThreshold, Launch: LaunchEpoch}
}

// withDefaults fills zero fields from DefaultTimestampPolicy, so a zero
// policy still tells seconds from milliseconds and rejects pre-launch values.
func (p TimestampPolicy) withDefaults() TimestampPolicy {
	if p.UnitThreshold <= 0 {
		p.UnitThreshold = DefaultUnitThreshold
	}
	if p.Launch.IsZero() {
		p.Launch = LaunchEpoch
	}
	return p
}

// DecodeTimestamp decodes v with DefaultTimestampPolicy.
func DecodeTimestamp(v any) (time.Time, error) {
	return DefaultTimestampPolicy().Decode(v)
}

// Decode converts a digit string, integer or float epoch value into a UTC
// instant. RFC3339 strings are also accepted. The result must not be before
// the policy's launch date.
func (p TimestampPolicy) Decode(v any) (time.Time, error) {
	p = p.withDefaults()
	var (
		t   time.Time
		err error
	)
	switch x := v.(type) {
	case string:
		t, err = p.fromString(x)
	case json.Number:
		if n, nerr := x.Int64(); nerr == nil {
			t = p.fromInt(n)
		} else {
			t, err = p.fromString(string(x))
		}
	case int64:
		t = p.fromInt(x)
	case int:
		t = p.fromInt(int64(x))
	case float64:
		t, err = p.fromFloat(x)
	default:
		return time.Time{}, newDecodeError(InvalidNumber, v, nil)
	}
	if err != nil {
		return time.Time{}, newDecodeError(InvalidNumber, v, nil)
	}

	t = t.UTC()
	if t.Before(p.Launch) {
		return time.Time{}, newDecodeError(TimestampBeforeLaunch, v, nil)
	}
	return t, nil
}

func (p TimestampPolicy) fromString(s string) (time.Time, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return p.fromInt(n), nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && isDecimalLiteral(s) {
		return p.fromFloat(f)
	}
	return time.Parse(time.RFC3339, s)
}

func (p TimestampPolicy) fromInt(n int64) time.Time {
	if n < p.UnitThreshold {
		return time.Unix(n, 0)
	}
	return time.UnixMilli(n)
}

func (p TimestampPolicy) fromFloat(f float64) (time.Time, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
		return time.Time{}, strconv.ErrRange
	}
	// float64 cannot carry nanoseconds at current epochs; keep microseconds
	whole, frac := math.Modf(f)
	if f < float64(p.UnitThreshold) {
		return time.Unix(int64(whole), int64(math.Round(frac*1e6))*int64(time.Microsecond)), nil
	}
	return time.UnixMilli(int64(whole)).Add(time.Duration(math.Round(frac*1e3)) * time.Microsecond), nil
}
