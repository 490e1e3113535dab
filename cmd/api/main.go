package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/Zornetta/Chatbot-Barista/internal/auth"
	"github.com/Zornetta/Chatbot-Barista/internal/chat"
	"github.com/Zornetta/Chatbot-Barista/internal/config"
	"github.com/Zornetta/Chatbot-Barista/internal/db"
	"github.com/Zornetta/Chatbot-Barista/internal/dialogue"
	"github.com/Zornetta/Chatbot-Barista/internal/events"
	"github.com/Zornetta/Chatbot-Barista/internal/llm"
	"github.com/Zornetta/Chatbot-Barista/internal/menu"
	"github.com/Zornetta/Chatbot-Barista/internal/nlp"
	"github.com/Zornetta/Chatbot-Barista/internal/pricing"
	"github.com/Zornetta/Chatbot-Barista/internal/receipts"
	"github.com/Zornetta/Chatbot-Barista/internal/router"
	"github.com/Zornetta/Chatbot-Barista/internal/storage"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("❌ Missing env var: JWT_SECRET")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx := context.Background()

	// ───────────────────────── CONFIG ─────────────────────────
	cfg := config.Default()
	if path, err := config.FindConfig(); err == nil {
		loaded, err := config.Load(path)
		if err != nil {
			log.Fatal("❌ Config load failed: ", err)
		}
		cfg = loaded
		log.Println("✅ Config loaded from", path)
	}

	// ───────────────────────── DATA ─────────────────────────
	menuRepo, err := menu.NewJSONRepository(cfg.Data.MenuPath)
	if err != nil {
		log.Fatal("❌ Menu load failed: ", err)
	}

	intents, err := nlp.LoadIntents(cfg.Data.IntentsPath)
	if err != nil {
		log.Fatal("❌ Intents load failed: ", err)
	}

	// ───────────────────────── CLASSIFIER ─────────────────────────
	var classifier nlp.Classifier
	if os.Getenv("OPENAI_API_KEY") != "" {
		openaiClassifier, err := llm.NewOpenAIClassifier(nlp.IntentNames(intents))
		if err != nil {
			log.Fatal("❌ OpenAI init failed: ", err)
		}
		classifier = openaiClassifier
		log.Println("✅ Intent classifier: OpenAI")
	} else {
		classifier = nlp.NewKeywordClassifier(intents)
		log.Println("✅ Intent classifier: keyword fallback")
	}

	// ───────────────────────── DB ─────────────────────────
	var (
		userRepo    auth.UserRepository
		receiptRepo receipts.Repository
	)
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		pool, err := db.Connect(ctx, dsn)
		if err != nil {
			log.Fatal("❌ Postgres connection failed: ", err)
		}
		defer pool.Close()

		userRepo = auth.NewPostgresUserRepository(pool)
		receiptRepo = receipts.NewPostgresRepository(pool)
		log.Println("✅ Connected to PostgreSQL")
	} else {
		userRepo = auth.NewInMemoryUserRepository()
		receiptRepo = receipts.NewInMemoryRepository()
		log.Println("⚠️  DATABASE_URL not set, using in-memory stores")
	}

	// ───────────────────────── STORAGE ─────────────────────────
	var store receipts.ObjectStore
	if os.Getenv("R2_ENDPOINT") != "" {
		r2Client, err := storage.NewR2Client(ctx)
		if err != nil {
			log.Fatal("❌ R2 init failed: ", err)
		}
		store = r2Client
		log.Println("✅ Receipt documents upload to R2")
	}

	// ───────────────────────── EVENTS ─────────────────────────
	var publisher events.Publisher
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		rabbit, err := events.DialRabbit(url)
		if err != nil {
			log.Fatal("❌ RabbitMQ connection failed: ", err)
		}
		defer rabbit.Close()
		publisher = rabbit
		log.Println("✅ Connected to RabbitMQ")
	}

	// ───────────────────────── SERVICES ─────────────────────────
	receiptSvc := receipts.NewService(receiptRepo, store, publisher, logger)

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

	// ───────────────────────── HANDLERS ─────────────────────────
	authHandler := auth.NewHandler(auth.NewService(userRepo))
	chatHandler := chat.NewHandler(sessions)
	adminHandler := chat.NewAdminHandler(receiptSvc, menuRepo)

	r := router.New(router.Deps{
		Auth:  authHandler,
		Chat:  chatHandler,
		Admin: adminHandler,
	})

	// ───────────────────────── START ─────────────────────────
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Println("🚀 API running at http://localhost:" + port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("❌ Server stopped: ", err)
	}
}
