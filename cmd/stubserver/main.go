// Command stubserver runs a local stand-in for the remote post service,
// seeded with fake data, for development and manual testing of the client.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"linkr/internal/config"
	"linkr/internal/stubserver"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := stubserver.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := stubserver.Seed(db); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	srv := stubserver.NewServer(cfg, db)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down stub server...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Stub server shutdown error: %v", err)
		}
	}()

	log.Printf("Stub server starting on port %s...", cfg.StubPort)
	log.Fatal(srv.Listen(":" + cfg.StubPort))
}
