package quotes

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"go-currency-bot/domain"
	"net/http"
	"net/url"
	"testing"
	"time"
)

type mock struct {
	errs  []error
	calls int
}

func (m *mock) Latest(_ context.Context) (domain.Rates, error) {
	m.calls++
	if m.calls <= len(m.errs) {
		return nil, m.errs[m.calls-1]
	}
	return domain.Rates{"USD": 1.0}, nil
}

func transportError() error {
	return &url.Error{Op: "Get", URL: "http://quotes", Err: errors.New("connection refused")}
}

func TestRetryingService_Latest(t *testing.T) {
	tests := []struct {
		name      string
		retries   uint64
		errs      []error
		wantCalls int
		wantErr   bool
	}{
		{"first attempt", 2, nil, 1, false},
		{"transport error then ok", 2, []error{transportError()}, 2, false},
		{"server errors exhaust retries", 2, []error{&StatusError{Code: 503}, &StatusError{Code: 502}, &StatusError{Code: 500}}, 3, true},
		{"client error is not retried", 2, []error{&StatusError{Code: http.StatusUnauthorized}}, 1, true},
		{"decode error is not retried", 2, []error{ErrNoData}, 1, true},
		{"no retries", 0, []error{transportError()}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mock{errs: tt.errs}
			s := NewRetryingService(tt.retries, time.Millisecond, m)

			rates, err := s.Latest(context.Background())

			assert.Equal(t, tt.wantCalls, m.calls)
			if tt.wantErr {
				assert.NotNil(t, err)
				assert.Nil(t, rates)
			} else {
				assert.Nil(t, err)
				assert.Equal(t, domain.Rates{"USD": 1.0}, rates)
			}
		})
	}
}

func TestRetryingService_LatestKeepsCause(t *testing.T) {
	m := &mock{errs: []error{&StatusError{Code: http.StatusForbidden}}}
	s := NewRetryingService(3, time.Millisecond, m)

	_, err := s.Latest(context.Background())

	var status *StatusError
	assert.True(t, errors.As(err, &status))
	assert.Equal(t, http.StatusForbidden, status.Code)
}
