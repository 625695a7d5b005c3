package binance

import "time"

// KlineInterval is the candle width as it appears on the wire ("1m", "4h", ...).
type KlineInterval string

// KlineIntervalMeta holds derived properties of an interval.
type KlineIntervalMeta struct {
	Minutes int
}

const (
	Interval1m  KlineInterval = "1m"
	Interval3m  KlineInterval = "3m"
	Interval5m  KlineInterval = "5m"
	Interval15m KlineInterval = "15m"
	Interval30m KlineInterval = "30m"
	Interval1h  KlineInterval = "1h"
	Interval2h  KlineInterval = "2h"
	Interval4h  KlineInterval = "4h"
	Interval6h  KlineInterval = "6h"
	Interval8h  KlineInterval = "8h"
	Interval12h KlineInterval = "12h"
	Interval1d  KlineInterval = "1d"
	Interval3d  KlineInterval = "3d"
	Interval1w  KlineInterval = "1w"
	Interval1M  KlineInterval = "1M"
)

var validKlineIntervals = map[KlineInterval]KlineIntervalMeta{
	Interval1m:  {Minutes: 1},
	Interval3m:  {Minutes: 3},
	Interval5m:  {Minutes: 5},
	Interval15m: {Minutes: 15},
	Interval30m: {Minutes: 30},
	Interval1h:  {Minutes: 60},
	Interval2h:  {Minutes: 120},
	Interval4h:  {Minutes: 240},
	Interval6h:  {Minutes: 360},
	Interval8h:  {Minutes: 480},
	Interval12h: {Minutes: 720},
	Interval1d:  {Minutes: 1440},  // 24*60
	Interval3d:  {Minutes: 4320},  // 3*24*60
	Interval1w:  {Minutes: 10080}, // 7*24*60
	Interval1M:  {Minutes: 43200}, // 30*24*60, calendar months vary
}

// IsValid checks if the KlineInterval is a valid predefined interval
func (k KlineInterval) IsValid() bool {
	_, ok := validKlineIntervals[k]
	return ok
}

// Duration returns the nominal candle width.
func (k KlineInterval) Duration() time.Duration {
	return time.Duration(validKlineIntervals[k].Minutes) * time.Minute
}

// ParseKlineInterval parses a wire interval. The match is case-sensitive:
// "1m" is one minute and "1M" one month.
func ParseKlineInterval(s string) (KlineInterval, error) {
	interval := KlineInterval(s)
	if !interval.IsValid() {
		return "", &DecodeError{Kind: MalformedFrame, Value: "invalid kline interval " + s}
	}
	return interval, nil
}
