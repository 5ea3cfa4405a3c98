package rates

import (
	"context"
	"errors"
	"github.com/go-kit/log"
	"go-currency-bot/domain"
	"go-currency-bot/metrics"
	"go-currency-bot/quotes"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"
)

// tickerLength names of this length are taken to be tickers rather than aliases
const tickerLength = 3

var errNotLoaded = errors.New("rates not loaded yet")

// snapshot one immutable generation of rates. A failed refresh produces a snapshot with err set.
type snapshot struct {
	rates     domain.Rates
	fetchedAt time.Time
	err       error
}

// Table holds the most recent rate snapshot and resolves currency names to tickers.
// Table is safe for concurrent use: a refresh swaps the whole snapshot, so readers
// observe either the old or the new rates, never a mix.
type Table struct {
	// source fetches new snapshots
	source quotes.Service

	// aliases maps human-readable names to tickers, read-only
	aliases domain.Aliases

	current atomic.Pointer[snapshot]

	// refreshing serializes Refresh so a slow fetch never overwrites a newer snapshot
	refreshing sync.Mutex

	logger log.Logger
}

// New constructs a Table holding no rates. Lookups fail until the first successful Refresh.
func New(source quotes.Service, aliases domain.Aliases, logger log.Logger) *Table {
	t := &Table{
		source:  source,
		aliases: aliases,
		logger:  logger,
	}
	t.current.Store(&snapshot{err: fetchError(errNotLoaded)})
	return t
}

func fetchError(cause error) error {
	return domain.Errorf(domain.KindRateFetch, cause, "Unable get currency rates from server")
}

// Refresh fetches a new snapshot and replaces the current one with it.
// On failure the current snapshot is discarded, there is no fallback to stale rates.
// Concurrent calls run one at a time, in the order they acquire the table.
func (t *Table) Refresh(ctx context.Context) error {
	t.refreshing.Lock()
	defer t.refreshing.Unlock()

	rates, err := t.source.Latest(ctx)
	if err != nil {
		err = fetchError(err)
		t.current.Store(&snapshot{err: err})
		t.logger.Log("msg", "refresh failed", "err", err)
		return err
	}

	next := &snapshot{
		rates:     rates,
		fetchedAt: time.Now(),
	}
	t.current.Store(next)
	metrics.UpdateSnapshot(len(rates), next.fetchedAt)
	t.logger.Log("msg", "refreshed rates", "tickers", len(rates))
	return nil
}

// load returns the current snapshot rates or the error that replaced them
func (t *Table) load() (domain.Rates, error) {
	s := t.current.Load()
	if s.err != nil {
		return nil, s.err
	}
	return s.rates, nil
}

// Rate returns the rate of ticker rounded to 2 decimal places.
func (t *Table) Rate(ticker domain.Currency) (domain.Rate, error) {
	rates, err := t.load()
	if err != nil {
		return 0, err
	}
	rate, ok := rates[ticker]
	if !ok {
		return 0, domain.Errorf(domain.KindUnknownTicker, nil, "Currency - %v is not in the currency list. /help", ticker)
	}
	return rate.Cents(), nil
}

// Currency resolves a user supplied name to a ticker in the current snapshot.
// A name of exactly three characters is treated as a ticker in any case,
// anything else is looked up as an alias.
func (t *Table) Currency(name string) (domain.Currency, error) {
	rates, err := t.load()
	if err != nil {
		return "", err
	}

	if utf8.RuneCountInString(name) == tickerLength {
		ticker := domain.Currency(strings.ToUpper(name))
		if _, ok := rates[ticker]; !ok {
			return "", domain.Errorf(domain.KindUnrecognizedCurrency, nil, "Currency - %v is not in the currency list. /help", ticker)
		}
		return ticker, nil
	}

	alias := strings.ToLower(name)
	ticker, ok := t.aliases[alias]
	if !ok {
		return "", domain.Errorf(domain.KindUnrecognizedCurrency, nil, "Alternative currency name - %v is not correct. /help", alias)
	}
	if _, ok := rates[ticker]; !ok {
		return "", domain.Errorf(domain.KindUnrecognizedCurrency, nil, "Currency - %v is not in the currency list. /help", ticker)
	}
	return ticker, nil
}

// Snapshot returns a copy of the current rates and when they were fetched.
func (t *Table) Snapshot() (domain.Rates, time.Time, error) {
	s := t.current.Load()
	if s.err != nil {
		return nil, time.Time{}, s.err
	}
	rates := make(domain.Rates, len(s.rates))
	for k, v := range s.rates {
		rates[k] = v
	}
	return rates, s.fetchedAt, nil
}

// Tickers lists the tickers of the current snapshot in order. Empty if no rates are loaded.
func (t *Table) Tickers() []domain.Currency {
	rates, err := t.load()
	if err != nil {
		return nil
	}
	tickers := make([]domain.Currency, 0, len(rates))
	for k := range rates {
		tickers = append(tickers, k)
	}
	sort.Slice(tickers, func(i, j int) bool { return tickers[i] < tickers[j] })
	return tickers
}

// FetchedAt returns when the current rates were fetched, zero if none are loaded.
func (t *Table) FetchedAt() time.Time {
	return t.current.Load().fetchedAt
}

// Aliases returns the alias table.
func (t *Table) Aliases() domain.Aliases {
	return t.aliases
}
