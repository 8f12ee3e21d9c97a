package main

import (
	"log"

	"github.com/F4ria/LiteToDoBot/internal/bot"
	"github.com/F4ria/LiteToDoBot/internal/config"
	"github.com/F4ria/LiteToDoBot/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	zl := logger.New(cfg.Debug)

	b, err := bot.Init(cfg, zl)
	if err != nil {
		zl.Fatal().Err(err).Msg("❌ bot initialization failed")
	}

	if err := b.Run(); err != nil {
		zl.Fatal().Err(err).Msg("❌ bot stopped")
	}
}
