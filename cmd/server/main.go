// Command server runs the Salonhub-to-Klaviyo bridge: webhook intake,
// the daily sync scheduler and the operational HTTP endpoints.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/hairlooks/salonbridge/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("salonbridge: %v", err)
	}
}
