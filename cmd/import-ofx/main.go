package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kwhalen/ledgerline/internal/infrastructure/config"
	"github.com/kwhalen/ledgerline/internal/infrastructure/storage"
	"github.com/kwhalen/ledgerline/internal/ofx"
)

func main() {
	var (
		configFile string
		dbPath     string
		dryRun     bool
	)
	flag.StringVar(&configFile, "config", "config.yaml", "Configuration file path")
	flag.StringVar(&dbPath, "db", "", "Path to database file (uses config if not specified)")
	flag.BoolVar(&dryRun, "dry-run", false, "Parse files but do not write to the database")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: import-ofx [flags] file.ofx [file.ofx ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if dbPath == "" {
		cfg := config.LoadOrEnvWithPath(configFile)
		dbPath = cfg.Storage.DatabasePath
	}

	parser := ofx.NewParser()

	var parsed []*storage.Transaction
	for _, path := range flag.Args() {
		f, err := os.Open(path)
		if err != nil {
			log.Fatalf("opening %s: %v", path, err)
		}
		txs, err := parser.ParseFile(f)
		_ = f.Close()
		if err != nil {
			log.Fatalf("parsing %s: %v", path, err)
		}
		fmt.Printf("%s: %d transactions\n", path, len(txs))
		parsed = append(parsed, txs...)
	}

	if dryRun {
		for _, t := range parsed {
			fmt.Printf("  %s  %10.2f  %s\n", t.Timestamp.Format("2006-01-02"), t.Amount, t.Payee)
		}
		fmt.Printf("dry run: %d transactions parsed, nothing written\n", len(parsed))
		return
	}

	store, err := storage.NewStorage(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = store.Close() }()

	inserted, err := store.SaveTransactions(parsed)
	if err != nil {
		log.Fatalf("saving transactions: %v", err)
	}

	fmt.Printf("imported %d new transactions (%d duplicates skipped)\n", inserted, len(parsed)-inserted)
}
