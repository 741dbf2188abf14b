package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/lmeyer/kartenbox/internal/config"
	"github.com/lmeyer/kartenbox/internal/deckstore"
	"github.com/lmeyer/kartenbox/internal/importer"
	"github.com/lmeyer/kartenbox/internal/storage"
	"github.com/lmeyer/kartenbox/internal/web"
)

func main() {
	f := pflag.NewFlagSet("kartenbox", pflag.ExitOnError)
	f.String("config", "", "Path to a YAML config file")
	f.String("db", "kartenbox.db", "Path to the SQLite storage file")
	f.String("addr", ":8080", "HTTP listen address")
	f.String("log-level", "info", "Log level (debug|info|warn|error)")
	f.Bool("seed-examples", true, "Seed newly created decks with example cards")
	f.String("cache-dir", "repos", "Cache directory for imported git repositories")
	f.String("import", "", "Import markdown decks from a directory or git URL, then exit")
	if err := f.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	setupLogger(cfg.Server.LogLevel)

	db, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		slog.Error("failed to open storage", "path", cfg.Storage.Path, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("storage opened", "path", cfg.Storage.Path)

	repo := deckstore.New(db, slog.Default(), deckstore.Config{
		SeedExampleCards: cfg.Decks.SeedExampleCards,
	})

	if source, _ := f.GetString("import"); source != "" {
		runImport(repo, source, cfg.Import.CacheDir)
		return
	}

	srv, err := web.NewServer(repo, slog.Default())
	if err != nil {
		slog.Error("failed to build server", "error", err)
		os.Exit(1)
	}

	slog.Info("listening", "addr", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, srv); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func runImport(repo *deckstore.Repository, source, cacheDir string) {
	res, err := importer.Run(context.Background(), repo, source, cacheDir)
	if err != nil {
		slog.Error("import failed", "source", source, "error", err)
		os.Exit(1)
	}

	fmt.Printf("Imported %d decks, %d cards (%d duplicates skipped), %d errors.\n",
		res.DecksCreated, res.CardsCreated, res.CardsSkipped, len(res.Errors))
	if len(res.Errors) > 0 {
		fmt.Println("\nErrors:")
		for _, e := range res.Errors {
			fmt.Printf("- %s\n", e)
		}
		os.Exit(1)
	}
}

func setupLogger(level string) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}
