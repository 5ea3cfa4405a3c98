package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go-currency-bot/bot"
	"go-currency-bot/config"
	"go-currency-bot/domain"
	"go-currency-bot/exchange"
	"go-currency-bot/http"
	"go-currency-bot/quotes"
	"go-currency-bot/rates"
	"os"
	"os/signal"
	"syscall"
	"time"

	nhttp "net/http"
)

func main() {
	// .env is optional, real deployments pass the environment directly
	_ = godotenv.Load()

	if err := rootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "currency-bot",
		Short:        "Telegram bot converting amounts between currencies",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_PATH"), "path to YAML config file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the bot and the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cfg.Telegram.Token == "" {
				return errors.New("telegram token is required")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, newLogger(cfg.Log.Level))
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "convert BUY SELL AMOUNT",
		Short: "Fetch current rates once and print a single conversion",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Log.Level)
			table := newTable(cfg, logger)
			if err := table.Refresh(cmd.Context()); err != nil {
				return err
			}
			handler := bot.NewHandler(exchange.NewService(table), table)
			fmt.Fprintln(cmd.OutOrStdout(), handler.Reply(cmd.Context(), fmt.Sprintf("%s %s %s", args[0], args[1], args[2])))
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "env",
		Short: "Describe the environment variables read as configuration",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.Usage())
		},
	})

	return root
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(lvl string) log.Logger {
	w := log.NewSyncWriter(os.Stderr)
	logger := log.NewLogfmtLogger(w)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	return level.NewFilter(logger, allowed(lvl))
}

func allowed(lvl string) level.Option {
	switch lvl {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	}
	return level.AllowInfo()
}

func newTable(cfg *config.Config, logger log.Logger) *rates.Table {
	quotesService := quotes.NewService(cfg.Quotes.URL, cfg.Quotes.APIKey, cfg.Quotes.Timeout)
	quotesService = quotes.NewLoggingService(log.With(logger, "component", "quotes_rest"), quotesService)
	quotesService = quotes.NewRetryingService(cfg.Quotes.Retries, cfg.Quotes.Backoff, quotesService)
	quotesService = quotes.NewInstrumentingService(quotesService)

	return rates.New(quotesService, domain.NewAliases(cfg.Aliases), log.With(logger, "component", "rates"))
}

func serve(ctx context.Context, cfg *config.Config, logger log.Logger) error {
	table := newTable(cfg, logger)
	if err := table.Refresh(ctx); err != nil {
		level.Error(logger).Log("msg", "initial rate fetch failed", "err", err)
		return err
	}

	if _, err := rates.Schedule(ctx, cfg.Quotes.Refresh, table, log.With(logger, "component", "schedule")); err != nil {
		return err
	}

	exchangeService := exchange.NewService(table)
	exchangeService = exchange.NewInstrumentingService(exchangeService)
	exchangeService = exchange.NewLoggingService(log.With(logger, "component", "exchange"), exchangeService)

	if cfg.HTTP.Addr != "" {
		server := &nhttp.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           http.NewServer(exchangeService, table, cfg.HTTP.RefreshToken, log.With(logger, "component", "http")),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			level.Info(logger).Log("msg", "http listening", "addr", cfg.HTTP.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, nhttp.ErrServerClosed) {
				level.Error(logger).Log("msg", "http server failed", "err", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			shutdown(shutdownCtx, server, logger)
		}()
	}

	api, err := bot.NewAPI(cfg.Telegram.Token)
	if err != nil {
		return err
	}
	level.Info(logger).Log("msg", "telegram bot initialized", "user", api.Self.UserName)

	handler := bot.NewHandler(exchangeService, table)
	b := bot.New(api, handler, cfg.Telegram.PollTimeout, log.With(logger, "component", "telegram"))
	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// shutdown stops server gracefully, logging connections it could not drain before ctx ended
func shutdown(ctx context.Context, server *nhttp.Server, logger log.Logger) {
	if err := server.Shutdown(ctx); err != nil {
		level.Warn(logger).Log("msg", "http shutdown failed", "err", err)
	}
}
