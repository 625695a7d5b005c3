package binance

import (
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// DecodeNumber unifies the wire representations Binance uses for prices and
// quantities: quoted float literals, JSON integers and JSON floats. Anything
// else, including null, is an InvalidNumber error. No rounding is applied.
func DecodeNumber(v any) (float64, error) {
	var (
		f   float64
		err error
	)
	switch x := v.(type) {
	case string:
		if !isDecimalLiteral(x) {
			return 0, newDecodeError(InvalidNumber, v, nil)
		}
		f, err = strconv.ParseFloat(x, 64)
	case json.Number:
		f, err = x.Float64()
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint64:
		f = float64(x)
	default:
		return 0, newDecodeError(InvalidNumber, v, nil)
	}
	if err != nil {
		return 0, newDecodeError(InvalidNumber, v, nil)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, newDecodeError(InvalidNumber, v, nil)
	}
	return f, nil
}

// isDecimalLiteral rejects Go-only float syntax strconv accepts: digit
// separators and hex mantissas.
func isDecimalLiteral(s string) bool {
	if strings.ContainsRune(s, '_') {
		return false
	}
	t := strings.TrimLeft(s, "+-")
	return !strings.HasPrefix(t, "0x") && !strings.HasPrefix(t, "0X")
}

// DecodeOptionalNumber is DecodeNumber for fields the exchange may omit:
// null yields nil instead of an error.
func DecodeOptionalNumber(v any) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	f, err := DecodeNumber(v)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// DecodeQuantity is DecodeNumber restricted to non-negative values.
func DecodeQuantity(v any) (float64, error) {
	f, err := DecodeNumber(v)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, newDecodeError(InvalidNumber, v, nil)
	}
	return f, nil
}

// DecodeInt decodes ids and counters. Floats are accepted only when integral.
func DecodeInt(v any) (int64, error) {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, nil
		}
		f, err := x.Float64()
		if err != nil {
			return 0, newDecodeError(InvalidNumber, v, nil)
		}
		return integral(f, v)
	case string:
		n, err := strconv.ParseInt(x, 10, 64)
		if err != nil {
			return 0, newDecodeError(InvalidNumber, v, nil)
		}
		return n, nil
	case float64:
		return integral(x, v)
	case int:
		return int64(x), nil
	case int64:
		return x, nil
	default:
		return 0, newDecodeError(InvalidNumber, v, nil)
	}
}

func integral(f float64, v any) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) ||
		f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, newDecodeError(InvalidNumber, v, nil)
	}
	return int64(f), nil
}
