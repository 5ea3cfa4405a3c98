package bot

import (
	"context"
	"errors"
	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"go-currency-bot/domain"
	"go-currency-bot/exchange"
	"go-currency-bot/rates"
	"testing"
)

type source struct {
	rates domain.Rates
	err   error
}

func (s *source) Latest(_ context.Context) (domain.Rates, error) {
	return s.rates, s.err
}

var aliases = domain.NewAliases(map[string]string{
	"dollar": "USD",
	"доллар": "USD",
	"euro":   "EUR",
})

func newHandler(t *testing.T, s *source) *Handler {
	table := rates.New(s, aliases, log.NewNopLogger())
	if s.err == nil {
		assert.Nil(t, table.Refresh(context.Background()))
	}
	return NewHandler(exchange.NewService(table), table)
}

func TestHandler_Reply(t *testing.T) {
	handler := newHandler(t, &source{rates: domain.Rates{"USD": 1.0, "EUR": 0.85}})

	tests := []struct {
		name string
		text string
		want string
	}{
		{"tickers", "USD EUR 100", "100 USD = 85.00 EUR"},
		{"aliases", "dollar euro 50", "50 USD = 42.50 EUR"},
		{"lower case tickers", "usd eur 50", "50 USD = 42.50 EUR"},
		{"same currency", "usd usd 10", "User input error: \nSell and Buy currencies can not be the same!"},
		{"two tokens", "USD EUR", "User input error: \nWrong amount of input parameters. 3 parameters needed.\n"},
		{"four tokens", "USD EUR 10 20", "User input error: \nWrong amount of input parameters. 3 parameters needed.\n"},
		{"double space", "USD  EUR 10", "User input error: \nWrong amount of input parameters. 3 parameters needed.\n"},
		{"unknown command", "/rates", "User input error: \nWrong amount of input parameters. 3 parameters needed.\n"},
		{"bad amount", "USD EUR abc", "User input error: \nAmount = abc is not valid number!"},
		{"unknown ticker", "USD GBP 1", "User input error: \nCurrency - GBP is not in the currency list. /help"},
		{"unknown alias", "pound EUR 1", "User input error: \nAlternative currency name - pound is not correct. /help"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, handler.Reply(context.Background(), tt.text))
		})
	}
}

func TestHandler_ReplyExecutionError(t *testing.T) {
	handler := newHandler(t, &source{err: errors.New("connection refused")})

	got := handler.Reply(context.Background(), "USD EUR 10")

	assert.Equal(t, "Execution error: \nUnable get currency rates from server", got)
}

type failing struct{}

func (failing) Convert(_ context.Context, _ domain.Request) (domain.Conversion, error) {
	return domain.Conversion{}, errors.New("boom")
}

func TestHandler_ReplyForeignError(t *testing.T) {
	handler := NewHandler(failing{}, rates.New(&source{}, aliases, log.NewNopLogger()))

	assert.Equal(t, "Execution error: \nboom", handler.Reply(context.Background(), "USD EUR 10"))
}

func TestParseRequest(t *testing.T) {
	request, err := ParseRequest("dollar euro 50")

	assert.Nil(t, err)
	assert.Equal(t, domain.Request{Buy: "dollar", Sell: "euro", Amount: "50"}, request)

	_, err = ParseRequest("USD EUR")
	assert.Equal(t, domain.KindBadCommand, domain.KindOf(err))
}

func TestHandler_Help(t *testing.T) {
	handler := newHandler(t, &source{rates: domain.Rates{"USD": 1.0, "EUR": 0.85, "RUB": 91.0}})

	want := "Hello alice!\n" +
		"You can get price for amount of currency you want to buy\n" +
		"Make your input in follow sequence:\n\n" +
		"Currency(to buy) Currency(to sell) Amount(currency to buy)\n\n" +
		"Follow common names can be used as currency names:\n" +
		"EUR / euro\n" +
		"USD / dollar / доллар\n" +
		"or other currency codes can be used from follow list:\n" +
		"EUR, RUB, USD\n"

	assert.Equal(t, want, handler.Help("alice"))
}

func TestHandler_HelpWithoutAliases(t *testing.T) {
	table := rates.New(&source{rates: domain.Rates{"USD": 1.0}}, domain.Aliases{}, log.NewNopLogger())
	assert.Nil(t, table.Refresh(context.Background()))
	handler := NewHandler(exchange.NewService(table), table)

	assert.Contains(t, handler.Help("bob"), "Currency codes can be used from follow list:\nUSD\n")
}
