package main

import (
	"context"
	"log"

	"github.com/LesnyRumcajs/pdp-hackathon/internal/relay"
	"github.com/LesnyRumcajs/pdp-hackathon/internal/relay/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()
	app := relay.NewApp(cfg)

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}
}
