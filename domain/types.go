package domain

import (
	"strconv"
	"strings"
)

// Currency a currency ticker, e.g. "USD"
type Currency string

// Rate price of one unit of a currency in the quote service's reference unit
type Rate float64

// Cents rounds the rate to 2 decimal places the way formatting with %.2f and parsing back does.
func (r Rate) Cents() Rate {
	f, _ := strconv.ParseFloat(r.String(), 64)
	return Rate(f)
}

func (r Rate) String() string {
	return strconv.FormatFloat(float64(r), 'f', 2, 64)
}

// Rates a snapshot of ticker to rate pairs fetched in one call to the quote service
type Rates map[Currency]Rate

// Aliases maps lowercase human-readable currency names to tickers
type Aliases map[string]Currency

// NewAliases builds Aliases from raw name to ticker pairs, normalising case on both sides.
func NewAliases(names map[string]string) Aliases {
	aliases := make(Aliases, len(names))
	for name, ticker := range names {
		aliases[strings.ToLower(name)] = Currency(strings.ToUpper(ticker))
	}
	return aliases
}

// Request a single conversion request as typed by a user
type Request struct {
	// Buy currency to buy, ticker or alias
	Buy string
	// Sell currency to sell, ticker or alias
	Sell string
	// Amount of Buy currency, unparsed
	Amount string
}

// Conversion result of a successful conversion
type Conversion struct {
	Buy  Currency
	Sell Currency
	// Amount the amount to buy exactly as requested
	Amount string
	// SellAmount amount of Sell currency needed, formatted to 2 decimal places
	SellAmount string
}
