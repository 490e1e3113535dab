package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Zornetta/Chatbot-Barista/internal/config"
	"github.com/Zornetta/Chatbot-Barista/internal/dialogue"
	"github.com/Zornetta/Chatbot-Barista/internal/llm"
	"github.com/Zornetta/Chatbot-Barista/internal/menu"
	"github.com/Zornetta/Chatbot-Barista/internal/nlp"
	"github.com/Zornetta/Chatbot-Barista/internal/pricing"
	"github.com/Zornetta/Chatbot-Barista/internal/receipts"
)

// Console front end: one local session, no server. Receipts stay in memory,
// so a completed purchase still gets a number to show.
func main() {
	_ = godotenv.Load()

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

	receiptSvc := receipts.NewService(receipts.NewInMemoryRepository(), nil, nil, nil)

	orch := dialogue.NewOrchestrator(
		menuRepo,
		nlp.NewCatalogExtractor(menuRepo),
		classifier,
		pricing.NewEngine(cfg.Pricing.Surcharges),
		dialogue.Options{
			ConfidenceThreshold: cfg.Dialogue.ConfidenceThreshold,
			DirectIntents:       cfg.Dialogue.DirectIntents,
			Archiver:            receiptSvc,
		},
	)

	state := dialogue.NewState("console")
	ctx := context.Background()

	fmt.Println("☕ Barista virtual. Escribe 'salir' para terminar.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Tú: ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if lower := strings.ToLower(input); lower == "salir" || lower == "exit" {
			fmt.Println("Barista: ¡Hasta pronto!")
			break
		}

		render(orch.ProcessMessage(ctx, state, input))
	}

	if err := scanner.Err(); err != nil {
		log.Fatal("❌ Input error: ", err)
	}
}

func render(resp *dialogue.Response) {
	fmt.Println("Barista:", resp.Text)

	if resp.Order != nil {
		fmt.Println()
		fmt.Println("Tu orden:")
		for _, line := range resp.Order.Items {
			fmt.Printf("  - %s (%s) x%d: $%.2f\n", line.Name, line.Size, line.Quantity, line.Total)
		}
		fmt.Printf("  Total: $%.2f\n", resp.Order.Total)
	}

	if len(resp.SuggestedActions) > 0 {
		fmt.Println()
		fmt.Println("Acciones sugeridas:")
		for i, action := range resp.SuggestedActions {
			fmt.Printf("  %d. %s\n", i+1, action)
		}
	}
	fmt.Println()
}
