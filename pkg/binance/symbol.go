package binance

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed symbols.txt
var symbolTable string

// Symbol is one of the trading pairs listed in symbols.txt. The zero value is
// not a valid symbol.
type Symbol uint16

// Quote is the quote asset of a trading pair, e.g. BTC in BNBBTC.
type Quote string

const (
	QuoteBNB  Quote = "BNB"
	QuoteBTC  Quote = "BTC"
	QuoteETH  Quote = "ETH"
	QuoteUSDT Quote = "USDT"
	QuoteTUSD Quote = "TUSD"
	QuotePAX  Quote = "PAX"
	QuoteUSDC Quote = "USDC"
	QuoteXRP  Quote = "XRP"
)

// longest suffixes first so USDT is never mistaken for a shorter quote
var quoteSuffixes = []Quote{QuoteUSDT, QuoteTUSD, QuoteUSDC, QuotePAX, QuoteBNB, QuoteBTC, QuoteETH, QuoteXRP}

var (
	symbolNames  = []string{""}
	symbolQuotes = []Quote{""}
	symbolIndex  = map[string]Symbol{}
)

func init() {
	for _, line := range strings.Split(symbolTable, "\n") {
		name := strings.TrimSpace(line)
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		if _, dup := symbolIndex[name]; dup {
			panic("binance: duplicate symbol in table: " + name)
		}
		symbolIndex[name] = Symbol(len(symbolNames))
		symbolNames = append(symbolNames, name)
		symbolQuotes = append(symbolQuotes, quoteOf(name))
	}
}

func quoteOf(name string) Quote {
	for _, q := range quoteSuffixes {
		if strings.HasSuffix(name, string(q)) && len(name) > len(q) {
			return q
		}
	}
	return ""
}

// DecodeSymbol matches s exactly, case included, against the symbol table.
func DecodeSymbol(s string) (Symbol, error) {
	sym, ok := symbolIndex[s]
	if !ok {
		return 0, &DecodeError{Kind: UnknownSymbol, Value: s}
	}
	return sym, nil
}

// MustSymbol is DecodeSymbol for names known at compile time.
func MustSymbol(s string) Symbol {
	sym, err := DecodeSymbol(s)
	if err != nil {
		panic(err)
	}
	return sym
}

// IsValid reports whether s is a member of the table.
func (s Symbol) IsValid() bool {
	return s > 0 && int(s) < len(symbolNames)
}

// String returns the exchange name, e.g. "BNBBTC".
func (s Symbol) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("Symbol(%d)", uint16(s))
	}
	return symbolNames[s]
}

// WireString returns the lowercase name used in stream URLs.
func (s Symbol) WireString() string {
	return strings.ToLower(s.String())
}

// Quote returns the quote asset of the pair.
func (s Symbol) Quote() Quote {
	if !s.IsValid() {
		return ""
	}
	return symbolQuotes[s]
}

// Base returns the pair with its quote asset stripped, e.g. "BNB" for BNBBTC.
func (s Symbol) Base() string {
	return strings.TrimSuffix(s.String(), string(s.Quote()))
}

func (s Symbol) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("binance: cannot marshal %s", s)
	}
	return []byte(s.String()), nil
}

func (s *Symbol) UnmarshalText(text []byte) error {
	sym, err := DecodeSymbol(string(text))
	if err != nil {
		return err
	}
	*s = sym
	return nil
}

// AllSymbols lists the table in file order.
func AllSymbols() []Symbol {
	out := make([]Symbol, 0, len(symbolNames)-1)
	for i := 1; i < len(symbolNames); i++ {
		out = append(out, Symbol(i))
	}
	return out
}

// SymbolsByQuote lists every pair quoted in q.
func SymbolsByQuote(q Quote) []Symbol {
	var out []Symbol
	for i := 1; i < len(symbolNames); i++ {
		if symbolQuotes[i] == q {
			out = append(out, Symbol(i))
		}
	}
	return out
}
