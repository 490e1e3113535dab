package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Zornetta/Chatbot-Barista/internal/events"
)

// Prints a preparation ticket for every paid order published by the chat
// services. Baristas run one of these next to the espresso machine.
func main() {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	log.Println("🧾 Orders worker starting...")

	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		log.Fatal("❌ Missing env var: RABBITMQ_URL")
	}

	queue := os.Getenv("ORDERS_QUEUE")
	if queue == "" {
		queue = "paid_orders"
	}

	consumer, err := events.DialRabbitConsumer(url, queue, "orders-worker")
	if err != nil {
		log.Fatal("❌ RabbitMQ connection failed: ", err)
	}
	defer consumer.Close()

	log.Printf("✅ Consuming from %s. Press Ctrl+C to stop.", queue)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := consumer.Consume(ctx, printTicket); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal("❌ Consumer stopped: ", err)
	}

	log.Println("👋 Orders worker shutting down")
}

func printTicket(_ context.Context, evt events.OrderPaid) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n========= %s =========\n", evt.OrderNumber)
	for _, line := range evt.Items {
		fmt.Fprintf(&b, "%dx %s (%s)\n", line.Quantity, line.Name, line.Size)
		for _, c := range line.Customizations {
			fmt.Fprintf(&b, "   + %s\n", strings.Replace(c, ":", ": ", 1))
		}
	}
	fmt.Fprintf(&b, "Total: $%.2f (%s)\n", evt.Total, evt.PaymentMethod)
	fmt.Fprintf(&b, "Pagado: %s\n", evt.PaidAt.Format("15:04:05"))

	log.Print(b.String())
	return nil
}
