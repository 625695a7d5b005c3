package binance

import (
	"bytes"
	"errors"
	"io"
	"time"

	json "github.com/goccy/go-json"
)

// parseValue parses a JSON document into plain values, keeping numbers as
// json.Number so integer ids survive without float rounding.
func parseValue(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &DecodeError{Kind: MalformedFrame, Value: "invalid json", Err: err}
	}
	// one message is exactly one document
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, &DecodeError{Kind: MalformedFrame, Value: "trailing data", Err: err}
	}
	return v, nil
}

// frame is the outer object of one stream message.
type frame map[string]any

func parseFrame(raw []byte) (frame, error) {
	v, err := parseValue(raw)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, malformed("", "expected object, got "+describe(v))
	}
	return frame(obj), nil
}

func (f frame) field(key string) (any, error) {
	v, ok := f[key]
	if !ok {
		return nil, malformed(key, "missing")
	}
	return v, nil
}

func (f frame) object(key string) (frame, error) {
	v, err := f.field(key)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, malformed(key, "expected object, got "+describe(v))
	}
	return frame(obj), nil
}

func (f frame) str(key string) (string, error) {
	v, err := f.field(key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", malformed(key, "expected string, got "+describe(v))
	}
	return s, nil
}

// event checks the "e" discriminator so a frame of another stream kind is not
// decoded into the wrong record.
func (f frame) event(want string) (string, error) {
	e, err := f.str("e")
	if err != nil {
		return "", err
	}
	if e != want {
		return "", malformed("e", "expected event "+want+", got "+e)
	}
	return e, nil
}

func (f frame) symbol(key string) (Symbol, error) {
	s, err := f.str(key)
	if err != nil {
		return 0, err
	}
	sym, err := DecodeSymbol(s)
	if err != nil {
		return 0, inField(err, key)
	}
	return sym, nil
}

func (f frame) boolean(key string) (bool, error) {
	v, err := f.field(key)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, malformed(key, "expected bool, got "+describe(v))
	}
	return b, nil
}

func (f frame) number(key string) (float64, error) {
	v, err := f.field(key)
	if err != nil {
		return 0, err
	}
	n, err := DecodeNumber(v)
	return n, inField(err, key)
}

func (f frame) quantity(key string) (float64, error) {
	v, err := f.field(key)
	if err != nil {
		return 0, err
	}
	n, err := DecodeQuantity(v)
	return n, inField(err, key)
}

func (f frame) integer(key string) (int64, error) {
	v, err := f.field(key)
	if err != nil {
		return 0, err
	}
	n, err := DecodeInt(v)
	return n, inField(err, key)
}

func (f frame) quotes(key string) ([]QuotePair, error) {
	v, err := f.field(key)
	if err != nil {
		return nil, err
	}
	qs, err := DecodeQuotePairs(v)
	return qs, inField(err, key)
}

func (f frame) timestamp(p TimestampPolicy, key string) (time.Time, error) {
	v, err := f.field(key)
	if err != nil {
		return time.Time{}, err
	}
	t, err := p.Decode(v)
	return t, inField(err, key)
}

// optionalTimestamp yields nil when the key is absent or null.
func (f frame) optionalTimestamp(p TimestampPolicy, key string) (*time.Time, error) {
	v, ok := f[key]
	if !ok || v == nil {
		return nil, nil
	}
	t, err := p.Decode(v)
	if err != nil {
		return nil, inField(err, key)
	}
	return &t, nil
}
