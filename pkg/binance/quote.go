package binance

// QuotePair is one price level of an order book.
type QuotePair struct {
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// DecodeQuotePair accepts the two shapes a level arrives in and picks one by
// looking at the value:
//
//	["0.0024", "10", []]                  stream and REST payloads
//	{"price": 0.0024, "quantity": 10}     rows read back from storage
//
// In the array shape nested arrays are reserved fields and are skipped, and
// anything after the first two numbers is ignored.
func DecodeQuotePair(v any) (QuotePair, error) {
	switch x := v.(type) {
	case []any:
		return quoteFromSequence(x)
	case map[string]any:
		return quoteFromMap(x)
	default:
		return QuotePair{}, &DecodeError{Kind: MalformedFrame, Value: describe(v)}
	}
}

func quoteFromSequence(elems []any) (QuotePair, error) {
	var (
		nums [2]float64
		raws [2]any
		n    int
	)
	for _, el := range elems {
		if n == len(nums) {
			break
		}
		if _, ok := el.([]any); ok {
			continue
		}
		f, err := DecodeNumber(el)
		if err != nil {
			return QuotePair{}, err
		}
		nums[n], raws[n] = f, el
		n++
	}
	if n < len(nums) {
		return QuotePair{}, &DecodeError{Kind: IncompleteQuote, Value: describe(elems)}
	}
	if nums[1] < 0 {
		return QuotePair{}, newDecodeError(InvalidNumber, raws[1], nil)
	}
	return QuotePair{Price: nums[0], Quantity: nums[1]}, nil
}

func quoteFromMap(m map[string]any) (QuotePair, error) {
	rawPrice, ok := m["price"]
	if !ok {
		return QuotePair{}, &DecodeError{Kind: IncompleteQuote, Field: "price", Value: "missing"}
	}
	rawQty, ok := m["quantity"]
	if !ok {
		return QuotePair{}, &DecodeError{Kind: IncompleteQuote, Field: "quantity", Value: "missing"}
	}
	price, err := DecodeNumber(rawPrice)
	if err != nil {
		return QuotePair{}, inField(err, "price")
	}
	qty, err := DecodeQuantity(rawQty)
	if err != nil {
		return QuotePair{}, inField(err, "quantity")
	}
	return QuotePair{Price: price, Quantity: qty}, nil
}

// DecodeQuotePairs decodes a list of levels. An empty list yields an empty,
// non-nil slice.
func DecodeQuotePairs(v any) ([]QuotePair, error) {
	elems, ok := v.([]any)
	if !ok {
		return nil, &DecodeError{Kind: MalformedFrame, Value: describe(v)}
	}
	out := make([]QuotePair, 0, len(elems))
	for _, el := range elems {
		q, err := DecodeQuotePair(el)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

// UnmarshalJSON lets QuotePair sit directly in JSON documents of either shape.
func (q *QuotePair) UnmarshalJSON(data []byte) error {
	v, err := parseValue(data)
	if err != nil {
		return err
	}
	decoded, err := DecodeQuotePair(v)
	if err != nil {
		return err
	}
	*q = decoded
	return nil
}
