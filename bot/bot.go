package bot

import (
	"context"
	"fmt"
	"github.com/go-kit/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go-currency-bot/metrics"
)

// API the subset of tgbotapi.BotAPI the bot needs
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot answers Telegram messages with a Handler
type Bot struct {
	api     API
	handler *Handler

	// pollTimeout long polling timeout in seconds
	pollTimeout int

	logger log.Logger
}

// NewAPI connects to Telegram with token.
func NewAPI(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}
	return api, nil
}

// New constructs a valid Bot
func New(api API, handler *Handler, pollTimeout int, logger log.Logger) *Bot {
	return &Bot{
		api:         api,
		handler:     handler,
		pollTimeout: pollTimeout,
		logger:      logger,
	}
}

// Run polls for updates and replies to each text message until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	config := tgbotapi.NewUpdate(0)
	config.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(config)
	defer b.api.StopReceivingUpdates()

	b.logger.Log("msg", "polling for updates", "timeout", b.pollTimeout)
	for {
		select {
		case <-ctx.Done():
			b.logger.Log("msg", "stopped polling")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handle(ctx, update)
		}
	}
}

// handle replies to one update. Failures are logged, never returned, so one bad message
// cannot stop the loop.
func (b *Bot) handle(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.Chat == nil || message.Text == "" {
		return
	}
	metrics.MessagesTotal.WithLabelValues("telegram").Inc()

	var text string
	switch {
	case message.IsCommand() && (message.Command() == "start" || message.Command() == "help"):
		text = b.handler.Help(username(message))
	default:
		text = b.handler.Reply(ctx, message.Text)
	}

	reply := tgbotapi.NewMessage(message.Chat.ID, text)
	reply.ReplyToMessageID = message.MessageID
	if _, err := b.api.Send(reply); err != nil {
		b.logger.Log("msg", "sending reply failed", "chat", message.Chat.ID, "err", err)
	}
}

func username(message *tgbotapi.Message) string {
	if message.Chat.UserName != "" {
		return message.Chat.UserName
	}
	if message.From != nil {
		return message.From.UserName
	}
	return ""
}
