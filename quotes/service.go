package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"go-currency-bot/domain"
	"io"
	"math"
	"net/http"
	"time"
)

const ApiUrl = "https://api.freecurrencyapi.com/v1/latest"

// Service wraps the remote quote REST API
type Service interface {
	// Latest loads the full current rate snapshot.
	Latest(ctx context.Context) (domain.Rates, error)
}

// StatusError the quote service answered with a non-2xx status
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.Code, http.StatusText(e.Code))
}

// Temporary reports whether repeating the request could succeed.
func (e *StatusError) Temporary() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests
}

// ErrNoData the response carried no data object
var ErrNoData = errors.New("response has no data")

// service quote API client
type service struct {
	// url endpoint returning the latest rates
	url string

	// apiKey sent in the apikey header
	apiKey string

	// client for HTTP requests
	client http.Client
}

// NewService constructs a valid quote Service.
func NewService(url string, apiKey string, timeout time.Duration) Service {
	if url == "" {
		url = ApiUrl
	}
	return &service{
		url:    url,
		apiKey: apiKey,
		client: http.Client{
			Timeout: timeout,
		},
	}
}

// Latest loads the current rates for every currency the service knows.
func (s *service) Latest(ctx context.Context) (domain.Rates, error) {
	type Response struct {
		Data map[string]float64 `json:"data"` // maps currency codes to rates
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building http request: %w", err)
	}
	request.Header.Set("apikey", s.apiKey)
	request.Header.Set("Accept", "application/json")

	httpResponse, err := s.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode > 299 {
		return nil, &StatusError{Code: httpResponse.StatusCode}
	}

	bytes, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, fmt.Errorf("reading json: %w", err)
	}

	var response Response
	err = json.Unmarshal(bytes, &response)
	if err != nil {
		return nil, fmt.Errorf("decoding json: %w", err)
	}
	if response.Data == nil {
		return nil, ErrNoData
	}

	rates := make(domain.Rates, len(response.Data))
	for k, v := range response.Data {
		if math.IsNaN(v) || v <= 0 {
			return nil, fmt.Errorf("bad rate value for %v: %v", k, v)
		}
		rates[domain.Currency(k)] = domain.Rate(v)
	}

	return rates, nil
}
