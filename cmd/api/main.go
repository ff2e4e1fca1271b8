package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/SAGARJHA0511/MealCount/config"
	"github.com/SAGARJHA0511/MealCount/internal/server"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create the server
	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)

	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	// Gracefully shutdown the server
	log.Println("Shutting down server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
