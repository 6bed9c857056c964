// loot loads a loot table and draws random drops from it.
//
// Usage:
//
//	loot [command] [options]
//
// Commands:
//
//	show    - Print the loot table
//	draw    - Print the table, then draw several drops
//	sim     - Monte Carlo check of draw frequencies against drop chances
//	import  - Store a CSV loot table in the database
//	tables  - List loot tables stored in the database
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/lawnchairsociety/loottable/internal/config"
	"github.com/lawnchairsociety/loottable/internal/database"
	"github.com/lawnchairsociety/loottable/internal/logger"
	"github.com/lawnchairsociety/loottable/internal/loot"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err := run(os.Args[1], os.Args[2:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "loot: %v\n", err)
		os.Exit(1)
	}
}

// run dispatches a subcommand, writing its results to out
func run(command string, args []string, out io.Writer) error {
	switch command {
	case "show":
		return runShow(args, out)
	case "draw":
		return runDraw(args, out)
	case "sim":
		return runSim(args, out)
	case "import":
		return runImport(args, out)
	case "tables":
		return runTables(args, out)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		printUsage(os.Stderr)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Loot Table

Loads name,tries records and draws weighted random loot. Each record's drop
chance is derived from the tries after which it should have dropped with the
configured confidence.

Usage: loot <command> [options]

Commands:
  show    Print the loot table
  draw    Print the table, then draw several drops
  sim     Compare observed draw frequencies with expected shares
  import  Store a CSV loot table in the database
  tables  List loot tables stored in the database

Examples:
  loot show -source loot.csv
  loot draw -n 20 -seed 42
  loot sim -n 100000 -confidence 0.9
  loot import -source dragon.csv -name dragon
  loot draw -table dragon

Use "loot <command> -h" for more information about a command.`)
}

// options are the flags shared by every command
type options struct {
	fs         *flag.FlagSet
	configPath *string
	logging    *string
	source     *string
	encoding   *string
	table      *string
	confidence *float64
	policy     *string
	seed       *int64
	draws      *int
}

func newOptions(name string) *options {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	return &options{
		fs:         fs,
		configPath: fs.String("config", "loot.yaml", "Path to config file (.yaml or .toml)"),
		logging:    fs.String("logging", "logging.yaml", "Path to logging config YAML file"),
		source:     fs.String("source", "", "Path to CSV loot file (overrides config)"),
		encoding:   fs.String("encoding", "", "Charset of the CSV loot file (overrides config)"),
		table:      fs.String("table", "", "Load the named table from the database instead of a file"),
		confidence: fs.Float64("confidence", 0, "Confidence used to derive drop chances (overrides config)"),
		policy:     fs.String("policy", "", "Bad line policy: fail_fast or collect (overrides config)"),
		seed:       fs.Int64("seed", 0, "Random seed (default: random)"),
		draws:      fs.Int("n", 0, "Number of drops to draw (overrides config)"),
	}
}

// parse reads flags, config and logging settings. Flags given on the
// command line win over config file and environment values.
func (o *options) parse(args []string) (*config.Config, error) {
	if err := o.fs.Parse(args); err != nil {
		return nil, err
	}

	logConfig, err := logger.LoadConfig(*o.logging)
	if err != nil {
		return nil, err
	}
	if err := logger.Initialize(logConfig); err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}

	cfg, err := config.LoadConfig(*o.configPath)
	if err != nil {
		return nil, err
	}

	o.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source":
			cfg.Source.Path = *o.source
		case "encoding":
			cfg.Source.Encoding = *o.encoding
		case "table":
			cfg.Source.Table = *o.table
		case "confidence":
			cfg.Table.Confidence = *o.confidence
		case "policy":
			cfg.Table.Policy = *o.policy
		case "seed":
			cfg.Seed = *o.seed
		case "n":
			cfg.Draws = *o.draws
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadTable loads the configured source into a new table
func loadTable(cfg *config.Config) (*loot.Table, error) {
	var src loot.Source = loot.FileSource{Path: cfg.Source.Path, Encoding: cfg.Source.Encoding}
	name := cfg.Source.Path

	if cfg.Source.Table != "" {
		db, err := database.OpenWithConfig(cfg.Database)
		if err != nil {
			return nil, err
		}
		defer closeDB(db)
		src = db.Source(cfg.Source.Table)
		name = "database table " + cfg.Source.Table
	}

	table, err := loot.Load(src, cfg.TableOptions()...)
	var loadErr *loot.LoadError
	if errors.As(err, &loadErr) {
		// Collect policy: the bad lines were already logged, keep the good ones
		logger.Warning("Loot table loaded with errors", "source", name, "errors", len(loadErr.Errors))
		return table, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	logger.Info("Loot table loaded", "source", name, "entries", table.Size(), "confidence", table.Confidence())
	return table, nil
}

func closeDB(db *database.Database) {
	if err := db.Close(); err != nil {
		logger.Error("Failed to close loot database", "error", err)
	}
}

func printSummary(out io.Writer, table *loot.Table) {
	fmt.Fprintf(out, "%d records in loot table, total drop chance: %4.1f%%\n%s\n",
		table.Size(), 100*table.Total(), table.String())
}

func runShow(args []string, out io.Writer) error {
	cfg, err := newOptions("show").parse(args)
	if err != nil {
		return err
	}
	table, err := loadTable(cfg)
	if err != nil {
		return err
	}
	printSummary(out, table)
	return nil
}

func runDraw(args []string, out io.Writer) error {
	cfg, err := newOptions("draw").parse(args)
	if err != nil {
		return err
	}
	table, err := loadTable(cfg)
	if err != nil {
		return err
	}

	printSummary(out, table)
	fmt.Fprintf(out, "Getting %d loot drops\n", cfg.Draws)
	for i := 0; i < cfg.Draws; i++ {
		fmt.Fprintln(out, table.Get())
	}
	return nil
}

// simRow is one line of the simulation report
type simRow struct {
	entry    loot.Entry
	expected float64
	observed int
}

func runSim(args []string, out io.Writer) error {
	cfg, err := newOptions("sim").parse(args)
	if err != nil {
		return err
	}
	table, err := loadTable(cfg)
	if err != nil {
		return err
	}

	// Identical records share a row
	rows := map[loot.Entry]*simRow{}
	var order []loot.Entry
	shares := table.Shares()
	for i, entry := range table.Entries() {
		row, ok := rows[entry]
		if !ok {
			row = &simRow{entry: entry}
			rows[entry] = row
			order = append(order, entry)
		}
		row.expected += shares[i]
	}
	if table.Size() == 0 {
		empty := loot.EmptyEntry()
		rows[empty] = &simRow{entry: empty, expected: 1}
		order = append(order, empty)
	}

	for i := 0; i < cfg.Draws; i++ {
		rows[table.Draw()].observed++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return rows[order[i]].expected > rows[order[j]].expected
	})

	fmt.Fprintf(out, "=== Loot Simulation ===\n\n")
	fmt.Fprintf(out, "Draws: %d, confidence: %.2f, total drop chance: %.1f%%\n\n",
		cfg.Draws, table.Confidence(), 100*table.Total())
	fmt.Fprintf(out, "%-9s  %5s  %7s  %8s  %8s  %s\n", "Name", "Tries", "Chance", "Expected", "Observed", "Observed tries")
	for _, entry := range order {
		row := rows[entry]
		freq := float64(row.observed) / float64(cfg.Draws)
		observedTries := "-"
		if tries, err := loot.TriesForChance(freq, table.Confidence()); err == nil {
			observedTries = fmt.Sprintf("%d", tries)
		}
		fmt.Fprintf(out, "%-9.9s  %5d  %6.2f%%  %7.2f%%  %7.2f%%  %s\n",
			entry.Name(), entry.Tries(), 100*entry.DropChance(), 100*row.expected, 100*freq, observedTries)
	}
	return nil
}

func runImport(args []string, out io.Writer) error {
	opts := newOptions("import")
	name := opts.fs.String("name", "", "Name to store the loot table under (required)")
	cfg, err := opts.parse(args)
	if err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("import requires -name")
	}

	// Import always reads the CSV file
	cfg.Source.Table = ""
	table, err := loadTable(cfg)
	if err != nil {
		return err
	}
	if table.Size() == 0 {
		return fmt.Errorf("no loot records in %s, refusing to replace table %q", cfg.Source.Path, *name)
	}

	db, err := database.OpenWithConfig(cfg.Database)
	if err != nil {
		return err
	}
	defer closeDB(db)

	if err := db.ImportTable(*name, table.Entries()); err != nil {
		return err
	}
	logger.Info("Loot table imported", "name", *name, "entries", table.Size())
	fmt.Fprintf(out, "Imported %d records into loot table %q\n", table.Size(), *name)
	return nil
}

func runTables(args []string, out io.Writer) error {
	cfg, err := newOptions("tables").parse(args)
	if err != nil {
		return err
	}

	db, err := database.OpenWithConfig(cfg.Database)
	if err != nil {
		return err
	}
	defer closeDB(db)

	names, err := db.TableNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}
