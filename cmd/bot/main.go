package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"github.com/Zornetta/Chatbot-Barista/internal/config"
	"github.com/Zornetta/Chatbot-Barista/internal/db"
	"github.com/Zornetta/Chatbot-Barista/internal/dialogue"
	"github.com/Zornetta/Chatbot-Barista/internal/events"
	"github.com/Zornetta/Chatbot-Barista/internal/llm"
	"github.com/Zornetta/Chatbot-Barista/internal/menu"
	"github.com/Zornetta/Chatbot-Barista/internal/nlp"
	"github.com/Zornetta/Chatbot-Barista/internal/pricing"
	"github.com/Zornetta/Chatbot-Barista/internal/receipts"
)

const welcomeText = "¡Hola! Soy tu barista virtual. ¿Qué te gustaría ordenar hoy?"

// Telegram front end. Each chat id is its own conversation session.
func main() {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Fatal("❌ Missing env var: TELEGRAM_BOT_TOKEN")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := config.Default()
	if path, err := config.FindConfig(); err == nil {
		loaded, err := config.Load(path)
		if err != nil {
			log.Fatal("❌ Config load failed: ", err)
		}
		cfg = loaded
	}

	menuRepo, err := menu.NewJSONRepository(cfg.Data.MenuPath)
	if err != nil {
		log.Fatal("❌ Menu load failed: ", err)
	}

	intents, err := nlp.LoadIntents(cfg.Data.IntentsPath)
	if err != nil {
		log.Fatal("❌ Intents load failed: ", err)
	}

	var classifier nlp.Classifier = nlp.NewKeywordClassifier(intents)
	if os.Getenv("OPENAI_API_KEY") != "" {
		openaiClassifier, err := llm.NewOpenAIClassifier(nlp.IntentNames(intents))
		if err != nil {
			log.Fatal("❌ OpenAI init failed: ", err)
		}
		classifier = openaiClassifier
	}

	var receiptRepo receipts.Repository = receipts.NewInMemoryRepository()
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pool, err := db.Connect(ctx, dsn)
		if err != nil {
			log.Fatal("❌ Postgres connection failed: ", err)
		}
		defer pool.Close()
		receiptRepo = receipts.NewPostgresRepository(pool)
	}

	var publisher events.Publisher
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		rabbit, err := events.DialRabbit(url)
		if err != nil {
			log.Fatal("❌ RabbitMQ connection failed: ", err)
		}
		defer rabbit.Close()
		publisher = rabbit
	}

	receiptSvc := receipts.NewService(receiptRepo, nil, publisher, logger)

	orch := dialogue.NewOrchestrator(
		menuRepo,
		nlp.NewCatalogExtractor(menuRepo),
		classifier,
		pricing.NewEngine(cfg.Pricing.Surcharges),
		dialogue.Options{
			ConfidenceThreshold: cfg.Dialogue.ConfidenceThreshold,
			DirectIntents:       cfg.Dialogue.DirectIntents,
			Archiver:            receiptSvc,
			Logger:              logger,
		},
	)
	sessions := dialogue.NewSessions(orch)

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Fatal("❌ Telegram init failed: ", err)
	}
	log.Printf("🤖 Bot authorized as @%s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	for update := range bot.GetUpdatesChan(u) {
		if update.Message == nil || update.Message.Text == "" {
			continue
		}

		chatID := update.Message.Chat.ID
		sessionID := strconv.FormatInt(chatID, 10)

		if update.Message.IsCommand() {
			handleCommand(bot, sessions, chatID, sessionID, update.Message.Command())
			continue
		}

		_, resp := sessions.Converse(ctx, sessionID, update.Message.Text)
		send(bot, chatID, resp.Text, resp.SuggestedActions)
	}
}

func handleCommand(bot *tgbotapi.BotAPI, sessions *dialogue.Sessions, chatID int64, sessionID, command string) {
	switch command {
	case "start":
		sessions.End(sessionID)
		send(bot, chatID, welcomeText, []string{"Ver menú", "Hacer pedido", "Consultar precios"})
	default:
		send(bot, chatID, "Escríbeme lo que necesitas, por ejemplo: quiero un latte grande.", nil)
	}
}

func send(bot *tgbotapi.BotAPI, chatID int64, text string, actions []string) {
	msg := tgbotapi.NewMessage(chatID, text)

	if len(actions) > 0 {
		rows := make([][]tgbotapi.KeyboardButton, 0, len(actions))
		for _, action := range actions {
			rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(action)))
		}
		keyboard := tgbotapi.NewReplyKeyboard(rows...)
		keyboard.ResizeKeyboard = true
		msg.ReplyMarkup = keyboard
	} else {
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	}

	if _, err := bot.Send(msg); err != nil {
		slog.Error("send telegram message", "chat", chatID, "error", err)
	}
}
