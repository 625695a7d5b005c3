package binance

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrorKind classifies why a wire value could not be decoded.
type ErrorKind int

const (
	InvalidNumber ErrorKind = iota + 1
	IncompleteQuote
	UnknownSymbol
	TimestampBeforeLaunch
	MalformedFrame
)

// Sentinels matched through errors.Is on any *DecodeError of the same kind.
var (
	ErrInvalidNumber         = errors.New("invalid number")
	ErrIncompleteQuote       = errors.New("incomplete quote")
	ErrUnknownSymbol         = errors.New("unknown symbol")
	ErrTimestampBeforeLaunch = errors.New("timestamp before launch")
	ErrMalformedFrame        = errors.New("malformed frame")
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidNumber:
		return "InvalidNumber"
	case IncompleteQuote:
		return "IncompleteQuote"
	case UnknownSymbol:
		return "UnknownSymbol"
	case TimestampBeforeLaunch:
		return "TimestampBeforeLaunch"
	case MalformedFrame:
		return "MalformedFrame"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case InvalidNumber:
		return ErrInvalidNumber
	case IncompleteQuote:
		return ErrIncompleteQuote
	case UnknownSymbol:
		return ErrUnknownSymbol
	case TimestampBeforeLaunch:
		return ErrTimestampBeforeLaunch
	default:
		return ErrMalformedFrame
	}
}

// DecodeError reports a single failed frame. Field is the wire key that failed
// (empty when the failure is not tied to one key) and Value a short rendering
// of the offending wire value.
type DecodeError struct {
	Kind  ErrorKind
	Field string
	Value string
	Err   error
}

func (e *DecodeError) Error() string {
	msg := "binance: " + e.Kind.sentinel().Error()
	if e.Field != "" {
		msg += fmt.Sprintf(" in field %q", e.Field)
	}
	if e.Value != "" {
		msg += ": " + e.Value
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

// KindOf returns the kind of the first *DecodeError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

func newDecodeError(kind ErrorKind, value any, cause error) *DecodeError {
	return &DecodeError{Kind: kind, Value: describe(value), Err: cause}
}

func malformed(field, reason string) *DecodeError {
	return &DecodeError{Kind: MalformedFrame, Field: field, Value: reason}
}

// inField attaches the wire key to a decode error that does not carry one yet.
func inField(err error, field string) error {
	var de *DecodeError
	if !errors.As(err, &de) || de.Field != "" {
		return err
	}
	cp := *de
	cp.Field = field
	return &cp
}

const maxDescribed = 64

// describe renders a wire value for error messages, truncated so a large
// payload never ends up in a log line twice.
func describe(v any) string {
	var s string
	switch x := v.(type) {
	case nil:
		s = "null"
	case string:
		s = fmt.Sprintf("%q", x)
	case []any:
		s = fmt.Sprintf("array(len=%d)", len(x))
	case map[string]any:
		s = fmt.Sprintf("object(keys=%d)", len(x))
	default:
		s = fmt.Sprint(x)
	}
	if len(s) > maxDescribed {
		cut := maxDescribed
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	return s
}
