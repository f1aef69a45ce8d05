package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/lmoreira/balanco/internal/ledger"
	"github.com/lmoreira/balanco/internal/logger"
	"github.com/lmoreira/balanco/internal/money"
	"github.com/lmoreira/balanco/internal/report"
	"github.com/lmoreira/balanco/internal/settle"
	"github.com/lmoreira/balanco/internal/snapshot"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "balances":
		runBalances(log)
	case "settle":
		runSettle(log)
	case "check":
		runCheck(log)
	case "report":
		runReport(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Balanco CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  balanco <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  balances  Reconstruct account balances from the transaction history")
	fmt.Println("  settle    Compute who owes whom across shared expenses")
	fmt.Println("  check     Report ledger consistency issues")
	fmt.Println("  report    Summarize income and expenses for one month")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'balanco <command> -h' for more information on a command.")
}

func runBalances(log zerolog.Logger) {
	fs := flag.NewFlagSet("balances", flag.ExitOnError)
	file := fs.String("file", "", "Path to the snapshot JSON file")
	cutoff := fs.String("cutoff", "", "Optional cutoff date (YYYY-MM-DD): balances as of end of that day")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("Error: -file is required")
	}

	snap, err := snapshot.Load(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load snapshot")
	}

	var cutoffDate *time.Time
	if *cutoff != "" {
		d, err := time.Parse("2006-01-02", *cutoff)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid -cutoff, want YYYY-MM-DD")
		}
		cutoffDate = &d
	}

	ctx := logger.WithContext(context.Background(), log)
	accounts := ledger.Reconstruct(ctx, snap.Accounts, snap.Transactions, cutoffDate)

	for _, acc := range accounts {
		fmt.Printf("%-24s %-12s %12s %s\n", acc.Name, acc.Kind, acc.Balance.StringFixed(2), acc.Currency)
	}
}

func runSettle(log zerolog.Logger) {
	fs := flag.NewFlagSet("settle", flag.ExitOnError)
	file := fs.String("file", "", "Path to the snapshot JSON file")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("Error: -file is required")
	}

	snap, err := snapshot.Load(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load snapshot")
	}

	ctx := logger.WithContext(context.Background(), log)
	transfers := settle.CalculateDebts(ctx, snap.Transactions, snap.Participants)

	for _, line := range settle.FormatInstructions(transfers, snap.Participants) {
		fmt.Println(line)
	}
}

func runCheck(log zerolog.Logger) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	file := fs.String("file", "", "Path to the snapshot JSON file")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("Error: -file is required")
	}

	snap, err := snapshot.Load(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load snapshot")
	}

	issues := ledger.Check(snap.Accounts, snap.Transactions)
	if len(issues) == 0 {
		fmt.Println("Nenhuma inconsistência encontrada.")
		return
	}
	for _, issue := range issues {
		fmt.Println(issue)
	}
	os.Exit(1)
}

func runReport(log zerolog.Logger) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	file := fs.String("file", "", "Path to the snapshot JSON file")
	month := fs.String("month", "", "Month to summarize (YYYY-MM)")
	currency := fs.String("currency", "BRL", "Reference currency for totals")
	rates := fs.String("rates", "", "Conversion rates, e.g. USD=5.2,EUR=6.1")
	fs.Parse(os.Args[2:])

	if *file == "" || *month == "" {
		log.Fatal().Msg("Usage: balanco report -file PATH -month YYYY-MM")
	}

	snap, err := snapshot.Load(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load snapshot")
	}

	start, err := time.Parse("2006-01", *month)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid -month, want YYYY-MM")
	}

	rateTable, err := parseRates(*rates)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid -rates")
	}

	ctx := logger.WithContext(context.Background(), log)
	conv := money.NewConverter(*currency, rateTable)
	period := report.MonthlyPeriod(start.Year(), start.Month())
	summary := report.Summarize(ctx, snap.Accounts, snap.Transactions, period, conv)

	fmt.Printf("Período:  %s a %s\n", summary.Period.Start.Format("2006-01-02"), summary.Period.End.Format("2006-01-02"))
	fmt.Printf("Receitas: %s %s\n", summary.Income.StringFixed(2), summary.Currency)
	fmt.Printf("Despesas: %s %s\n", summary.Expense.StringFixed(2), summary.Currency)
	fmt.Printf("Saúde:    %s\n", summary.Health)
}

func parseRates(spec string) (map[string]decimal.Decimal, error) {
	if spec == "" {
		return nil, nil
	}
	table := make(map[string]decimal.Decimal)
	for _, pair := range strings.Split(spec, ",") {
		code, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("parseRates: malformed pair %q", pair)
		}
		rate, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("parseRates: rate for %s: %w", code, err)
		}
		table[strings.ToUpper(strings.TrimSpace(code))] = rate
	}
	return table, nil
}
