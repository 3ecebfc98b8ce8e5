package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/statemint-dev/statemint/internal/auditlog"
	"github.com/statemint-dev/statemint/internal/classify"
	"github.com/statemint-dev/statemint/internal/config"
	"github.com/statemint-dev/statemint/internal/format"
	"github.com/statemint-dev/statemint/internal/importer"
	"github.com/statemint-dev/statemint/internal/logging"
	"github.com/statemint-dev/statemint/internal/model"
	"github.com/statemint-dev/statemint/internal/normalize"
	"github.com/statemint-dev/statemint/internal/rates"
	"github.com/statemint-dev/statemint/internal/store"
)

// dsnEnv names the environment variable that carries the Postgres DSN so it
// stays out of statemint.yaml.
const dsnEnv = "STATEMINT_DSN"

type importFlags struct {
	bankFile    string
	cryptoFile  string
	manualFile  string
	projectDir  string
	forceFormat string
	refYear     int
	asOf        string
	dryRun      bool
	verbose     bool
}

func newImportCommand() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import statements into the transaction store",
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(flags.projectDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			flags.projectDir = absDir
			return runImport(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.bankFile, "bank", "", "bank statement CSV file")
	cmd.Flags().StringVar(&flags.cryptoFile, "crypto", "", "crypto portfolio dump file")
	cmd.Flags().StringVar(&flags.manualFile, "manual", "", "manual expense log file")
	cmd.Flags().StringVar(&flags.projectDir, "dir", ".", "project directory")
	cmd.Flags().StringVar(&flags.forceFormat, "format", "", "skip detection and use this statement format")
	cmd.Flags().IntVar(&flags.refYear, "ref-year", 0, "reference year for year-less manual entries")
	cmd.Flags().StringVar(&flags.asOf, "as-of", "", "snapshot date for crypto holdings (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "run the pipeline without persisting")
	cmd.Flags().BoolVar(&flags.verbose, "verbose", false, "debug logging")

	return cmd
}

func runImport(cmd *cobra.Command, flags importFlags) error {
	// .env is optional; it usually carries STATEMINT_DSN.
	_ = godotenv.Load(filepath.Join(flags.projectDir, ".env"))

	cfg, err := config.Load(filepath.Join(flags.projectDir, "statemint.yaml"))
	if err != nil {
		return fmt.Errorf("loading project: %w", err)
	}

	inputs := importer.Inputs{}
	var sourceNames []string
	for _, src := range []struct {
		kind model.SourceKind
		path string
	}{
		{model.SourceBank, flags.bankFile},
		{model.SourceCrypto, flags.cryptoFile},
		{model.SourceManual, flags.manualFile},
	} {
		if src.path == "" {
			continue
		}
		data, err := os.ReadFile(src.path)
		if err != nil {
			return fmt.Errorf("reading %s input: %w", src.kind, err)
		}
		inputs[src.kind] = string(data)
		sourceNames = append(sourceNames, string(src.kind))
	}
	if len(inputs) == 0 {
		return fmt.Errorf("nothing to import: pass at least one of --bank, --crypto, --manual")
	}

	formats, err := loadFormats(flags.projectDir)
	if err != nil {
		return err
	}

	rules, err := loadRules(flags.projectDir, cfg)
	if err != nil {
		return err
	}
	classifier, err := classify.NewClassifier(rules, cfg.Thresholds.MinConfidence)
	if err != nil {
		return fmt.Errorf("compiling rules: %w", err)
	}
	transfers := classify.NewTransferFilter(nil, decimal.NewFromFloat(cfg.Thresholds.LargeTransfer))

	st, err := openStore(cfg, flags.dryRun)
	if err != nil {
		return err
	}

	opts := importer.Options{
		Owner:         cfg.Owner,
		Region:        cfg.Region,
		BaseCurrency:  cfg.Currency.Base,
		ReferenceYear: cfg.Dates.ReferenceYear,
		BatchSize:     cfg.Import.BatchSize,
		DescPrefix:    cfg.Import.DescPrefix,
		ForceFormat:   flags.forceFormat,
		FallbackOrder: normalize.DateOrder(cfg.Dates.AmbiguousOrder),
	}
	if flags.refYear != 0 {
		opts.ReferenceYear = flags.refYear
	}
	if flags.asOf != "" {
		asOf, err := time.Parse("2006-01-02", flags.asOf)
		if err != nil {
			return fmt.Errorf("parsing --as-of: %w", err)
		}
		opts.AsOf = asOf
	}

	var rateSource rates.Source
	if len(cfg.Currency.Rates) > 0 {
		table := make(map[string]decimal.Decimal, len(cfg.Currency.Rates))
		for pair, r := range cfg.Currency.Rates {
			table[pair] = decimal.NewFromFloat(r)
		}
		rateSource = rates.NewStatic(table)
	}

	o := importer.New(formats, classifier, transfers, st, rateSource, logging.New(flags.verbose), opts)

	summary, _, runErr := o.Run(cmd.Context(), inputs)
	printSummary(cmd, summary)

	if !flags.dryRun && summary != nil {
		entry := auditlog.FromSummary(summary, time.Now().UTC())
		entry.Sources = strings.Join(sourceNames, " ")
		if err := auditlog.Append(flags.projectDir, []auditlog.Entry{entry}); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to write import log: %v\n", err)
		}
	}

	return runErr
}

// loadFormats returns the built-in registry plus any formats/*.yaml drop-ins.
func loadFormats(dir string) (*format.Registry, error) {
	reg := format.Builtin()
	files, err := filepath.Glob(filepath.Join(dir, "formats", "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("listing format drop-ins: %w", err)
	}
	for _, f := range files {
		if err := reg.LoadFile(f); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// loadRules reads the project rule file, falling back to the built-ins when
// the project has none.
func loadRules(dir string, cfg *config.Config) ([]classify.Rule, error) {
	if cfg.Rules.Path == "" {
		return classify.DefaultRules(), nil
	}
	path := filepath.Join(dir, filepath.FromSlash(cfg.Rules.Path))
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return classify.DefaultRules(), nil
	}
	return classify.LoadRules(path)
}

func openStore(cfg *config.Config, dryRun bool) (store.Store, error) {
	if dryRun {
		return store.NewMemory(), nil
	}
	switch cfg.Store.Driver {
	case "", "memory":
		return store.NewMemory(), nil
	case "postgres":
		dsn := os.Getenv(dsnEnv)
		if dsn == "" {
			dsn = cfg.Store.DSN
		}
		if dsn == "" {
			return nil, fmt.Errorf("postgres store selected but %s is not set", dsnEnv)
		}
		return store.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func printSummary(cmd *cobra.Command, s *model.Summary) {
	if s == nil {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s\n", s.RunID)
	fmt.Fprintf(out, "  processed:  %d\n", s.Processed)
	fmt.Fprintf(out, "  imported:   %d\n", s.Imported)
	fmt.Fprintf(out, "  transfers:  %d\n", s.Transfers)
	fmt.Fprintf(out, "  duplicates: %d\n", s.Duplicates)
	fmt.Fprintf(out, "  skipped:    %d\n", s.Skipped)
	if !s.MinDate.IsZero() {
		fmt.Fprintf(out, "  range:      %s to %s\n",
			s.MinDate.Format("2006-01-02"), s.MaxDate.Format("2006-01-02"))
	}
	for _, w := range s.Warnings {
		fmt.Fprintf(out, "  warning: %s line %d: %s\n", w.Source, w.Line, w.Message)
	}
	for _, e := range s.SourceErrors {
		fmt.Fprintf(out, "  source error: %s: %s\n", e.Source, e.Message)
	}
}
