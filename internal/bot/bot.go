package bot

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/F4ria/LiteToDoBot/internal/config"
	"github.com/F4ria/LiteToDoBot/internal/handler"
	"github.com/F4ria/LiteToDoBot/internal/model"
	"github.com/F4ria/LiteToDoBot/internal/repository"
)

const updateTimeout = 10 * time.Second

type Bot struct {
	API     *tgbotapi.BotAPI
	DB      *gorm.DB
	Handler *handler.CommandHandler
	Config  *config.Config

	log zerolog.Logger
}

func Init(cfg *config.Config, log zerolog.Logger) (*Bot, error) {
	db, err := openDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	if err := db.AutoMigrate(&model.Task{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("✅ connected to database")

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize bot: %w", err)
	}
	api.Debug = cfg.Debug

	taskRepo := repository.NewTaskRepository(db)
	cmdHandler := handler.NewCommandHandler(taskRepo, log)

	b := &Bot{
		API:     api,
		DB:      db,
		Handler: cmdHandler,
		Config:  cfg,
		log:     log,
	}
	if err := b.registerCommands(); err != nil {
		return nil, err
	}
	return b, nil
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	if cfg.DBDriver == config.DriverPostgres {
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
		)
		return gorm.Open(postgres.Open(dsn), gormCfg)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return gorm.Open(sqlite.Open(filepath.Join(cfg.DataDir, cfg.DBName)), gormCfg)
}

// registerCommands advertises the command set to Telegram, replacing
// whatever a previous run registered.
func (b *Bot) registerCommands() error {
	cmds := handler.Commands()
	botCmds := make([]tgbotapi.BotCommand, len(cmds))
	for i, c := range cmds {
		botCmds[i] = tgbotapi.BotCommand{Command: c.Name, Description: c.Description}
	}

	if _, err := b.API.Request(tgbotapi.NewDeleteMyCommands()); err != nil {
		return fmt.Errorf("failed to delete old commands: %w", err)
	}
	if _, err := b.API.Request(tgbotapi.NewSetMyCommands(botCmds...)); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	return nil
}

// Run blocks until SIGINT/SIGTERM. Webhook mode is used when configured,
// long polling otherwise.
func (b *Bot) Run() error {
	if b.Config.WebhookURL != "" {
		return b.runWebhook()
	}
	return b.runPolling()
}

func (b *Bot) runPolling() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.API.GetUpdatesChan(u)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	b.log.Info().Str("account", b.API.Self.UserName).Msg("🚀 bot running, long polling")
	for {
		select {
		case update := <-updates:
			b.handleUpdate(update)
		case <-quit:
			b.log.Info().Msg("🛑 shutting down bot")
			b.API.StopReceivingUpdates()
			return nil
		}
	}
}

func (b *Bot) runWebhook() error {
	callbackPath := "/webhook/" + b.API.Token

	wh, err := tgbotapi.NewWebhook(b.Config.WebhookURL + callbackPath)
	if err != nil {
		return fmt.Errorf("failed to build webhook config: %w", err)
	}
	if _, err := b.API.Request(wh); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.POST(callbackPath, func(c *gin.Context) {
		var update tgbotapi.Update
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update"})
			return
		}
		b.handleUpdate(update)
		c.Status(http.StatusOK)
	})

	srv := &http.Server{
		Addr:    ":" + b.Config.ServerPort,
		Handler: r,
	}

	go func() {
		b.log.Info().Str("port", b.Config.ServerPort).Msg("🚀 bot running, webhook mode")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			b.log.Fatal().Err(err).Msg("❌ failed to listen")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	b.log.Info().Msg("🛑 shutting down webhook server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// handleUpdate runs one inbound message as an independent unit of work. A
// failure here never takes down the receive loop.
func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Interface("panic", r).Msg("update handler panicked")
		}
	}()

	m := update.Message
	if m == nil {
		// Edited messages re-trigger only the commands marked editable.
		m = update.EditedMessage
		if m == nil || !handler.IsEditable(m.Text) {
			return
		}
	}
	if m.From == nil || m.Text == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	reply := b.Handler.Handle(ctx, handler.Message{
		UserID:   m.From.ID,
		UserName: displayName(m.From),
		ChatID:   m.Chat.ID,
		Text:     m.Text,
	})

	out := tgbotapi.NewMessage(m.Chat.ID, reply)
	out.ReplyToMessageID = m.MessageID
	if _, err := b.API.Send(out); err != nil {
		b.log.Error().Err(err).Int64("chat_id", m.Chat.ID).Msg("failed to send reply")
	}
}

func displayName(u *tgbotapi.User) string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
