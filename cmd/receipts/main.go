package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/kwhalen/ledgerline/internal/application/service"
	"github.com/kwhalen/ledgerline/internal/domain/matcher"
	"github.com/kwhalen/ledgerline/internal/infrastructure/config"
	"github.com/kwhalen/ledgerline/internal/infrastructure/logging"
	"github.com/kwhalen/ledgerline/internal/infrastructure/storage"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: receipts [flags] <command>

commands:
  list                      show pending receipts with their best matches
  add <filename>            register a receipt from its filename
  accept-all                assign every receipt with exactly one match
  assign <receipt> <txID>   manually assign a receipt to a transaction`)
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	var configFile string
	flag.StringVar(&configFile, "config", "config.yaml", "Configuration file path")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
	}

	cfg := config.LoadOrEnvWithPath(configFile)
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "receipts")

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = store.Close() }()

	matchCfg := matcher.Config{
		DateWindowDays:   cfg.Matching.DateWindowDays,
		NarrowWindowDays: cfg.Matching.NarrowWindowDays,
		AmountTolerance:  cfg.Matching.AmountTolerance,
	}
	reconcile := service.NewReconcileService(store, matchCfg, nil, logger)

	switch flag.Arg(0) {
	case "list":
		runList(reconcile)
	case "add":
		if flag.NArg() < 2 {
			usage()
		}
		r, err := reconcile.CreateFromFilename(flag.Arg(1))
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("created receipt %s (%s)\n", r.ID, r.Name)
	case "accept-all":
		result, err := reconcile.AcceptAll()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("assigned: %d  needs review: %d  no match: %d\n",
			result.Assigned, result.NeedsReview, result.NoMatch)
	case "assign":
		if flag.NArg() < 3 {
			usage()
		}
		txID, err := strconv.ParseInt(flag.Arg(2), 10, 64)
		if err != nil {
			log.Fatalf("transaction ID must be an integer: %v", err)
		}
		if err := reconcile.Assign(flag.Arg(1), txID); err != nil {
			log.Fatal(err)
		}
		fmt.Println("assigned")
	default:
		usage()
	}
}

func runList(reconcile *service.ReconcileService) {
	matches, err := reconcile.ListWithMatches()
	if err != nil {
		log.Fatal(err)
	}
	if len(matches) == 0 {
		fmt.Println("no pending receipts")
		return
	}

	for _, rm := range matches {
		status := "no match"
		switch {
		case rm.MatchCount == 1:
			status = fmt.Sprintf("-> #%d %s (score %d)",
				rm.BestMatch.ID, rm.BestMatch.Payee, rm.BestScore)
		case rm.MatchCount > 1:
			status = fmt.Sprintf("needs review (%d candidates)", rm.MatchCount)
		}
		fmt.Printf("%-36s  %-30s  %s\n", rm.Receipt.ID, rm.Receipt.Name, status)
	}
}
