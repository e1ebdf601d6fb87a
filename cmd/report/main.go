package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/kwhalen/ledgerline/internal/domain/reports"
	"github.com/kwhalen/ledgerline/internal/infrastructure/config"
	"github.com/kwhalen/ledgerline/internal/infrastructure/storage"
)

func main() {
	var (
		configFile string
		year       int
		level      int
		months     bool
		asJSON     bool
	)
	flag.StringVar(&configFile, "config", "config.yaml", "Configuration file path")
	flag.IntVar(&year, "year", time.Now().Year(), "Report year")
	flag.IntVar(&level, "level", 0, "Category depth override (0 = report default)")
	flag.BoolVar(&months, "months", false, "Force month columns on")
	flag.BoolVar(&asJSON, "json", false, "Emit JSON instead of a text table")
	flag.Parse()

	cfg := config.LoadOrEnvWithPath(configFile)

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = store.Close() }()

	builder := reports.NewBuilder(store)

	if flag.NArg() == 0 {
		fmt.Println("available reports:")
		for _, d := range builder.Definitions() {
			fmt.Printf("  %-20s %s\n", d.Slug, d.Description)
		}
		return
	}

	params := reports.Parameters{
		Slug:      flag.Arg(0),
		Year:      year,
		NumLevels: level,
	}
	if months {
		params.WithMonthColumns = &months
	}

	report, err := builder.Build(params)
	if err != nil {
		log.Fatal(err)
	}

	table := report.ToTable()

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(table); err != nil {
			log.Fatal(err)
		}
		return
	}

	printTable(table)
}

// printTable renders the report as an aligned text grid.
func printTable(t reports.Table) {
	fmt.Printf("%s (%s)\n\n", t.Name, t.Description)

	nameWidth := 4
	for _, row := range t.Rows {
		w := len(row.Name) + row.Level*2
		if w > nameWidth {
			nameWidth = w
		}
	}

	fmt.Printf("%-*s", nameWidth+2, "")
	for _, col := range t.Columns {
		fmt.Printf("%12s", col.Name)
	}
	fmt.Println()

	for _, row := range t.Rows {
		indent := strings.Repeat("  ", row.Level)
		fmt.Printf("%-*s", nameWidth+2, indent+row.Name)
		for _, col := range t.Columns {
			v := row.Values[col.UniqueID]
			if col.DisplayAsPercent {
				fmt.Printf("%11.0f%%", v*100)
			} else {
				fmt.Printf("%12.2f", v)
			}
		}
		fmt.Println()
	}

	fmt.Printf("\ngrand total: %.2f\n", t.GrandTotal)
}
