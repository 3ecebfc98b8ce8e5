package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/statemint-dev/statemint/internal/classify"
	"github.com/statemint-dev/statemint/internal/dedupe"
	"github.com/statemint-dev/statemint/internal/format"
	"github.com/statemint-dev/statemint/internal/model"
	"github.com/statemint-dev/statemint/internal/normalize"
	"github.com/statemint-dev/statemint/internal/rates"
	"github.com/statemint-dev/statemint/internal/store"
)

// Inputs maps each source kind to its raw text.
type Inputs map[model.SourceKind]string

// Options configures one orchestration run.
type Options struct {
	Owner           string
	Region          string
	BaseCurrency    string
	ReferenceYear   int // for manual DD/MM entries
	BatchSize       int // store insert chunk size, default 100
	DescPrefix      int // fingerprint description prefix, 0 = default
	ForceFormat     string
	FallbackOrder   normalize.DateOrder
	AsOf            time.Time // date for crypto snapshots; zero = today
}

// defaultBatchSize bounds a single store call.
const defaultBatchSize = 100

// Orchestrator sequences the pipeline over one or more input sources.
type Orchestrator struct {
	formats    *format.Registry
	classifier *classify.Classifier
	transfers  *classify.TransferFilter
	store      store.Store
	rates      rates.Source // nil disables conversion
	log        zerolog.Logger
	opts       Options
}

// New wires an Orchestrator. rateSource may be nil.
func New(
	formats *format.Registry,
	classifier *classify.Classifier,
	transfers *classify.TransferFilter,
	st store.Store,
	rateSource rates.Source,
	log zerolog.Logger,
	opts Options,
) *Orchestrator {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.FallbackOrder == "" {
		opts.FallbackOrder = normalize.DayFirst
	}
	return &Orchestrator{
		formats:    formats,
		classifier: classifier,
		transfers:  transfers,
		store:      st,
		rates:      rateSource,
		log:        log,
		opts:       opts,
	}
}

// sourceOrder fixes processing order so runs are reproducible.
var sourceOrder = []model.SourceKind{model.SourceBank, model.SourceCrypto, model.SourceManual}

// Run processes every provided source and returns the summary plus the
// transactions that were handed to the store. Row-level problems become
// summary warnings, a broken source becomes a summary source error and the
// other sources continue, but a store failure is fatal: it stops the run and
// is returned as an error. Sources already persisted stay valid.
func (o *Orchestrator) Run(ctx context.Context, inputs Inputs) (*model.Summary, []model.Transaction, error) {
	summary := &model.Summary{RunID: uuid.NewString()}

	seed, err := o.store.Fingerprints(ctx, o.opts.Owner, nil)
	if err != nil {
		return summary, nil, fmt.Errorf("seeding deduplicator: %w", err)
	}
	set := dedupe.NewSet(seed, o.opts.DescPrefix)

	asOf := o.opts.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC().Truncate(24 * time.Hour)
	}

	var imported []model.Transaction
	for _, kind := range sourceOrder {
		text, ok := inputs[kind]
		if !ok {
			continue
		}

		candidates, warnings, err := o.parseSource(kind, text, asOf)
		if err != nil {
			o.log.Warn().Str("source", string(kind)).Err(err).Msg("source abandoned")
			summary.SourceErrors = append(summary.SourceErrors, model.SourceError{
				Source: kind, Message: err.Error(),
			})
			continue
		}

		summary.Warnings = append(summary.Warnings, warnings...)
		summary.Skipped += len(warnings)
		summary.Processed += len(warnings)

		batch := o.gateAndClassify(candidates, set, summary)

		if err := o.persist(ctx, batch); err != nil {
			summary.SourceErrors = append(summary.SourceErrors, model.SourceError{
				Source: kind, Message: err.Error(),
			})
			return summary, imported, fmt.Errorf("persisting %s source: %w", kind, err)
		}

		for _, tx := range batch {
			summary.Imported++
			summary.ObserveDate(tx.Date)
		}
		imported = append(imported, batch...)

		o.log.Info().
			Str("source", string(kind)).
			Int("imported", len(batch)).
			Int("warnings", len(warnings)).
			Msg("source processed")
	}

	o.log.Info().
		Str("run_id", summary.RunID).
		Int("processed", summary.Processed).
		Int("imported", summary.Imported).
		Int("transfers", summary.Transfers).
		Int("duplicates", summary.Duplicates).
		Int("skipped", summary.Skipped).
		Msg("import run complete")

	return summary, imported, nil
}

func (o *Orchestrator) parseSource(kind model.SourceKind, text string, asOf time.Time) ([]model.Transaction, []model.Warning, error) {
	switch kind {
	case model.SourceBank:
		return ParseBank(text, BankOptions{
			Formats:         o.formats,
			ForceFormat:     o.opts.ForceFormat,
			FallbackOrder:   o.opts.FallbackOrder,
			DefaultCurrency: o.opts.BaseCurrency,
		})
	case model.SourceCrypto:
		return ParseCrypto(text, asOf)
	case model.SourceManual:
		return ParseManual(text, ManualOptions{
			ReferenceYear: o.opts.ReferenceYear,
			Currency:      o.opts.BaseCurrency,
		})
	default:
		return nil, nil, fmt.Errorf("unknown source kind %q", kind)
	}
}

// gateAndClassify runs candidates through the transfer and duplicate gates,
// classifies the survivors and applies currency conversion.
func (o *Orchestrator) gateAndClassify(candidates []model.Transaction, set *dedupe.Set, summary *model.Summary) []model.Transaction {
	var batch []model.Transaction
	for _, tx := range candidates {
		summary.Processed++

		if o.transfers.IsInternal(tx.Description, tx.Amount) {
			summary.Transfers++
			continue
		}

		fp, dup := set.Check(tx)
		if dup {
			summary.Duplicates++
			continue
		}
		tx.Fingerprint = fp

		// A parser may pin the category when the source kind already decides
		// it (crypto snapshots); rule scoring only fills the gap.
		if tx.Category == "" {
			res := o.classifier.Classify(tx.Description, tx.Merchant, o.opts.Region)
			tx.Category = res.Category
			tx.Subcategory = res.Subcategory
			tx.Confidence = res.Confidence
			if tx.Merchant == "" {
				tx.Merchant = res.Merchant
			}
		}

		o.convert(&tx, summary)
		batch = append(batch, tx)
	}
	return batch
}

// convert fills AmountBase when a rate source is configured. A missing rate
// is a warning, not an error; the original amount is always kept.
func (o *Orchestrator) convert(tx *model.Transaction, summary *model.Summary) {
	if o.rates == nil || o.opts.BaseCurrency == "" || tx.Currency == "" {
		return
	}
	if tx.Currency == o.opts.BaseCurrency {
		tx.AmountBase = tx.Amount
		tx.BaseCurrency = o.opts.BaseCurrency
		return
	}
	converted, err := rates.Convert(o.rates, tx.Amount, tx.Currency, o.opts.BaseCurrency, tx.Date)
	if err != nil {
		summary.Warn(tx.Source, tx.SourceLine,
			fmt.Sprintf("no %s/%s rate, amount left unconverted", tx.Currency, o.opts.BaseCurrency))
		return
	}
	tx.AmountBase = converted
	tx.BaseCurrency = o.opts.BaseCurrency
}

// persist writes a source's batch in fixed-size chunks.
func (o *Orchestrator) persist(ctx context.Context, batch []model.Transaction) error {
	for start := 0; start < len(batch); start += o.opts.BatchSize {
		end := start + o.opts.BatchSize
		if end > len(batch) {
			end = len(batch)
		}
		if err := o.store.InsertBatch(ctx, o.opts.Owner, batch[start:end]); err != nil {
			return err
		}
	}
	return nil
}
