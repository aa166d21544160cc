package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"SupportBot/handler"
	"SupportBot/repo"

	"github.com/go-telegram/bot"
	"github.com/rs/zerolog/log"
)

func main() {
	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" {
		log.Fatal().Msg("BOT_TOKEN environment variable not set")
	}

	curatorID, err := curatorIDFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("Error reading curator ID")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	h := handler.NewSupportBotHandler(curatorID, repo.NewUserStore(), repo.NewPendingStore())

	opts := []bot.Option{
		bot.WithDefaultHandler(h.Handler),
	}

	b, err := bot.New(botToken, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating bot")
	}

	log.Info().Int64("curator_id", curatorID).Msg("support bot started")
	b.Start(ctx)
	log.Info().Msg("support bot stopped")
}

// curatorIDFromEnv reads the single curator's Telegram ID, configured
// out-of-band.
func curatorIDFromEnv() (int64, error) {
	raw := os.Getenv("CURATOR_ID")
	if raw == "" {
		return 0, fmt.Errorf("CURATOR_ID environment variable not set")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("CURATOR_ID must be a numeric Telegram ID: %v", err)
	}
	return id, nil
}
