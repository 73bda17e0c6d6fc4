package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	gorillahandlers "github.com/gorilla/handlers"

	"energy_optimizer/internal/api"
	"energy_optimizer/internal/ingest"
	"energy_optimizer/internal/model"
	"energy_optimizer/internal/optimizer"
	"energy_optimizer/internal/store"
	"energy_optimizer/internal/synth"
	"energy_optimizer/internal/ws"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	dataFile := flag.String("data", "", "CSV file to preload into a demo building")
	demo := flag.Bool("demo", false, "seed a demo building with synthetic data")
	flag.Parse()

	dataStore := store.New()
	models := optimizer.NewRegistry()
	hub := ws.NewHub()

	if *dataFile != "" {
		if err := preloadCSV(dataStore, *dataFile); err != nil {
			log.Fatalf("Failed to load %s: %v", *dataFile, err)
		}
	} else if *demo {
		seedDemo(dataStore)
	}

	server := api.NewServer(dataStore, models, hub)
	handler := gorillahandlers.LoggingHandler(os.Stdout, server.Router())

	log.Printf("Starting server on %s", listenAddr(*addr))
	if err := http.ListenAndServe(listenAddr(*addr), handler); err != nil {
		log.Fatal(err)
	}
}

// listenAddr lets a PORT env var (the usual container convention)
// override the flag.
func listenAddr(flagAddr string) string {
	if port := os.Getenv("PORT"); port != "" {
		return ":" + port
	}
	return flagAddr
}

func preloadCSV(s *store.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	records, err := ingest.ParseCSV(f)
	if err != nil {
		return err
	}

	if err := s.AddBuilding("demo", model.DefaultBuildingConfig()); err != nil {
		return err
	}
	if err := s.AddRecords("demo", records); err != nil {
		return err
	}
	log.Printf("Loaded %d records from %s into building %q", len(records), path, "demo")
	return nil
}

func seedDemo(s *store.Store) {
	start := time.Now().UTC().Truncate(time.Hour).AddDate(0, 0, -30)
	records := synth.Generate(start, 30*24, 42)

	if err := s.AddBuilding("demo", model.DefaultBuildingConfig()); err != nil {
		log.Fatalf("Failed to seed demo building: %v", err)
	}
	if err := s.AddRecords("demo", records); err != nil {
		log.Fatalf("Failed to seed demo records: %v", err)
	}
	log.Printf("Seeded demo building with %d synthetic records", len(records))
}
