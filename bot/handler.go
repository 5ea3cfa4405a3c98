package bot

import (
	"context"
	"fmt"
	"go-currency-bot/domain"
	"go-currency-bot/exchange"
	"sort"
	"strings"
)

// Directory lists the currencies a user can ask for, see rates.Table
type Directory interface {
	Tickers() []domain.Currency
	Aliases() domain.Aliases
}

// Handler turns chat text into a reply. Every message gets exactly one reply,
// either a conversion result or an error message.
type Handler struct {
	service   exchange.Service
	directory Directory
}

// NewHandler constructs a valid Handler
func NewHandler(s exchange.Service, d Directory) *Handler {
	return &Handler{
		service:   s,
		directory: d,
	}
}

// Reply converts a "<buy> <sell> <amount>" command and formats the result.
func (h *Handler) Reply(ctx context.Context, text string) string {
	c, err := h.convert(ctx, text)
	if err != nil {
		if domain.KindOf(err).UserInput() {
			return fmt.Sprintf("User input error: \n%s", domain.MessageOf(err))
		}
		return fmt.Sprintf("Execution error: \n%s", domain.MessageOf(err))
	}
	return fmt.Sprintf("%s %s = %s %s", c.Amount, c.Buy, c.SellAmount, c.Sell)
}

func (h *Handler) convert(ctx context.Context, text string) (domain.Conversion, error) {
	request, err := ParseRequest(text)
	if err != nil {
		return domain.Conversion{}, err
	}
	return h.service.Convert(ctx, request)
}

// ParseRequest splits text on single spaces into exactly three tokens.
func ParseRequest(text string) (domain.Request, error) {
	tokens := strings.Split(text, " ")
	if len(tokens) != 3 {
		return domain.Request{}, domain.Errorf(domain.KindBadCommand, nil, "Wrong amount of input parameters. 3 parameters needed.\n")
	}
	return domain.Request{Buy: tokens[0], Sell: tokens[1], Amount: tokens[2]}, nil
}

// Help greets username and explains the command format.
func (h *Handler) Help(username string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s!\n", username)
	b.WriteString("You can get price for amount of currency you want to buy\n")
	b.WriteString("Make your input in follow sequence:\n\n")
	b.WriteString("Currency(to buy) Currency(to sell) Amount(currency to buy)\n\n")

	groups := aliasGroups(h.directory.Aliases())
	if len(groups) > 0 {
		b.WriteString("Follow common names can be used as currency names:\n")
		for _, g := range groups {
			b.WriteString(g)
			b.WriteString("\n")
		}
		b.WriteString("or other currency codes can be used from follow list:\n")
	} else {
		b.WriteString("Currency codes can be used from follow list:\n")
	}

	tickers := h.directory.Tickers()
	codes := make([]string, len(tickers))
	for i, t := range tickers {
		codes[i] = string(t)
	}
	b.WriteString(strings.Join(codes, ", "))
	b.WriteString("\n")
	return b.String()
}

// aliasGroups renders one "USD / dollar / доллар" line per ticker
func aliasGroups(aliases domain.Aliases) []string {
	byTicker := map[domain.Currency][]string{}
	for name, ticker := range aliases {
		byTicker[ticker] = append(byTicker[ticker], name)
	}

	groups := make([]string, 0, len(byTicker))
	for ticker, names := range byTicker {
		sort.Strings(names)
		groups = append(groups, string(ticker)+" / "+strings.Join(names, " / "))
	}
	sort.Strings(groups)
	return groups
}
