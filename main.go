package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"kazikapp/internal/catalog"
	"kazikapp/internal/handlers"
	"kazikapp/internal/hub"
	"kazikapp/internal/logging"
	"kazikapp/internal/storage"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logging.Debugf("no .env file: %v", err)
	}
	logging.Debug = *debug || os.Getenv("DEBUG") != ""
	if env := os.Getenv("LISTEN_ADDR"); env != "" && *addr == ":8080" {
		*addr = env
	}

	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" {
		log.Fatal("BOT_TOKEN is required")
	}

	var store *storage.Store
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := storage.New(dsn)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		store = storage.NewStore(db)
	} else {
		logging.Infof("DATABASE_URL not set, running without persistence")
	}

	h := hub.New(catalog.Demo(), store, os.Getenv("MEDIA_BASE"))
	if store != nil {
		ctx := context.Background()
		users, err := store.LoadUsers(ctx)
		if err != nil {
			log.Fatalf("load users: %v", err)
		}
		items, err := store.LoadItems(ctx)
		if err != nil {
			log.Fatalf("load items: %v", err)
		}
		h.Restore(users, items)
	}

	handler := handlers.New(h, botToken)
	logging.Infof("kazikapp %s listening on %s", Version(), *addr)
	log.Fatal(http.ListenAndServe(*addr, handler.Routes()))
}
