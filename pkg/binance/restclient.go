package binance

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

// DefaultRESTBaseURL is the spot REST API host.
const DefaultRESTBaseURL = "https://api.binance.com"

// maxKlineLimit is the largest page /api/v3/klines returns.
const maxKlineLimit = 1000

// APIError is the error body Binance returns with a non-200 status.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       int    `json:"code"`
	Message    string `json:"msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("binance error: status=%d code=%d msg=%s", e.StatusCode, e.Code, e.Message)
}

type RESTClient struct {
	baseURL    string
	httpClient *http.Client
	decoder    Decoder
}

func NewRESTClient(baseURL string, timeout time.Duration, decoder Decoder) *RESTClient {
	return &RESTClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		decoder:    decoder,
	}
}

// GetKlines fetches candles for [start, end] page by page and decodes every
// row with the client's decoder.
func (c *RESTClient) GetKlines(ctx context.Context, symbol Symbol, interval KlineInterval,
	start, end time.Time) ([]KlineRecord, error) {
	if !interval.IsValid() {
		return nil, fmt.Errorf("invalid kline interval %q", interval)
	}

	var out []KlineRecord
	from := start
	for !from.After(end) {
		q := url.Values{}
		q.Set("symbol", symbol.String())
		q.Set("interval", string(interval))
		q.Set("startTime", strconv.FormatInt(from.UnixMilli(), 10))
		q.Set("endTime", strconv.FormatInt(end.UnixMilli(), 10))
		q.Set("limit", strconv.Itoa(maxKlineLimit))

		body, err := c.get(ctx, "/api/v3/klines", q)
		if err != nil {
			return nil, err
		}
		v, err := parseValue(body)
		if err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		rows, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("decode response: expected array, got %s", describe(v))
		}

		asOf := time.Now().UTC()
		for i, raw := range rows {
			row, ok := raw.([]any)
			if !ok {
				return nil, fmt.Errorf("kline row %d: expected array, got %s", i, describe(raw))
			}
			k, err := c.decoder.DecodeKlineRow(symbol, interval, row, asOf)
			if err != nil {
				return nil, fmt.Errorf("kline row %d: %w", i, err)
			}
			out = append(out, k)
		}

		if len(rows) < maxKlineLimit {
			break
		}
		// month candles vary in length, so continue after the last close
		from = out[len(out)-1].CloseTime.Add(time.Millisecond)
	}
	return out, nil
}

// GetDepthSnapshot fetches the top `limit` levels of the order book.
func (c *RESTClient) GetDepthSnapshot(ctx context.Context, symbol Symbol, limit int) (PartialBookDepth, error) {
	q := url.Values{}
	q.Set("symbol", symbol.String())
	q.Set("limit", strconv.Itoa(limit))

	body, err := c.get(ctx, "/api/v3/depth", q)
	if err != nil {
		return PartialBookDepth{}, err
	}
	depth, err := c.decoder.DecodePartialBookDepth(symbol, body)
	if err != nil {
		return PartialBookDepth{}, fmt.Errorf("decode depth snapshot: %w", err)
	}
	return depth, nil
}

func (c *RESTClient) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path + "?" + query.Encode()

	// Construct the GET request with context for timeout/cancel support
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(body, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = string(body)
		}
		return nil, apiErr
	}
	return body, nil
}
