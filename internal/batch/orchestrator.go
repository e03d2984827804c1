// Package batch provides the high-level orchestration for enrichment runs:
// batching, checkpointing, resumption and per-offer failure isolation.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jmorel/offerlens/internal/db"
	"github.com/jmorel/offerlens/internal/enrich"
)

// Mode selects how a run walks the offer backlog.
type Mode string

const (
	// ModeDryRun enriches a small sample and writes nothing.
	ModeDryRun Mode = "dry-run"
	// ModeFull walks the whole pending backlog.
	ModeFull Mode = "full"
	// ModeResume continues the most recent interrupted or failed run from
	// its checkpoint.
	ModeResume Mode = "resume"
)

// State is the lifecycle of a run. A run moves from Idle to Running and ends
// in exactly one terminal state.
type State string

const (
	StateIdle        State = "idle"
	StateRunning     State = "running"
	StateCompleted   State = "completed"
	StateInterrupted State = "interrupted"
	StateFailed      State = "failed"
)

const (
	DefaultBatchSize      = 50
	DefaultSampleSize     = 10
	DefaultStorageTimeout = 30 * time.Second
)

// Store is the persistence surface the orchestrator needs. *db.DB implements
// it.
type Store interface {
	CreateRun(ctx context.Context, mode string) (uuid.UUID, error)
	FinishRun(ctx context.Context, runID uuid.UUID, status string, processed, skipped, errors int) error
	FetchBatch(ctx context.Context, afterID int64, limit int) ([]db.Offer, error)
	ApplyBatch(ctx context.Context, batch []db.EnrichedOffer, cp db.Checkpoint) error
	CountPending(ctx context.Context) (int, error)
	LatestResumableRun(ctx context.Context) (*db.Run, error)
	GetCheckpoint(ctx context.Context, runID uuid.UUID) (*db.Checkpoint, error)
}

// Enricher computes the enrichment record for one description.
// *enrich.Pipeline implements it.
type Enricher interface {
	Enrich(description string) enrich.Record
}

// RecordCallback observes each enriched offer. The dry-run report hangs off
// it.
type RecordCallback func(offer db.Offer, rec enrich.Record)

// Options configures a run. Zero values fall back to the defaults.
type Options struct {
	Mode           Mode
	BatchSize      int
	SampleSize     int
	StorageTimeout time.Duration
	Logger         *slog.Logger
	OnRecord       RecordCallback
}

// Summary is the outcome of a run.
type Summary struct {
	RunID     uuid.UUID
	State     State
	Processed int
	Skipped   int
	Errors    int
	Batches   int
}

// Orchestrator drives enrichment runs over a Store.
type Orchestrator struct {
	store    Store
	enricher Enricher
	opts     Options
	log      *slog.Logger
}

// New builds an orchestrator. Defaults fill in for zero option values.
func New(store Store, enricher Enricher, opts Options) *Orchestrator {
	if opts.Mode == "" {
		opts.Mode = ModeDryRun
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = DefaultSampleSize
	}
	if opts.StorageTimeout <= 0 {
		opts.StorageTimeout = DefaultStorageTimeout
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{store: store, enricher: enricher, opts: opts, log: log}
}

// Run executes the configured run and returns its summary. Cancellation is
// honored at batch boundaries only: a batch that started persisting always
// lands with its checkpoint before the run stops. The returned error is
// non-nil only for fatal conditions; per-offer failures are counted in the
// summary and never abort the run.
func (o *Orchestrator) Run(ctx context.Context) (Summary, error) {
	switch o.opts.Mode {
	case ModeDryRun:
		return o.runDry(ctx)
	case ModeFull:
		return o.runFull(ctx)
	case ModeResume:
		return o.runResume(ctx)
	default:
		return Summary{State: StateFailed}, fmt.Errorf("unknown run mode %q", o.opts.Mode)
	}
}

// runDry enriches a bounded sample and reports through the record callback.
// Nothing is written: no run row, no checkpoint, no offer update.
func (o *Orchestrator) runDry(ctx context.Context) (Summary, error) {
	sum := Summary{State: StateRunning}

	offers, err := o.fetch(ctx, 0, o.opts.SampleSize)
	if err != nil {
		sum.State = StateFailed
		return sum, err
	}
	o.log.Info("dry run started", "sample_size", o.opts.SampleSize, "fetched", len(offers))

	for _, offer := range offers {
		rec, err := o.enrichOne(offer)
		if err != nil {
			sum.Errors++
			o.logFailure(offer, err)
			continue
		}
		o.logRecord(offer, rec)
		if rec.CleanedText == "" {
			sum.Skipped++
			continue
		}
		sum.Processed++
		if o.opts.OnRecord != nil {
			o.opts.OnRecord(offer, rec)
		}
	}

	sum.Batches = 1
	sum.State = StateCompleted
	return sum, nil
}

// runFull walks the pending backlog batch by batch, persisting each batch
// atomically with its checkpoint.
func (o *Orchestrator) runFull(ctx context.Context) (Summary, error) {
	runID, err := o.store.CreateRun(ctx, string(ModeFull))
	if err != nil {
		return Summary{State: StateFailed}, err
	}
	return o.process(ctx, runID, 0, Summary{RunID: runID, State: StateRunning})
}

// runResume picks up the latest interrupted or failed run at its checkpoint.
// Offers persisted before the interruption are already flagged processed, so
// none is enriched twice.
func (o *Orchestrator) runResume(ctx context.Context) (Summary, error) {
	run, err := o.store.LatestResumableRun(ctx)
	if err != nil {
		return Summary{State: StateFailed}, err
	}
	if run == nil {
		o.log.Info("nothing to resume, starting a full run")
		return o.runFull(ctx)
	}

	sum := Summary{RunID: run.ID, State: StateRunning}
	var afterID int64
	cp, err := o.store.GetCheckpoint(ctx, run.ID)
	if err != nil {
		sum.State = StateFailed
		return sum, err
	}
	if cp != nil {
		afterID = cp.LastOfferID
		sum.Processed = cp.Processed
		sum.Errors = cp.Errors
	}
	o.log.Info("resuming run", "run_id", run.ID, "after_offer_id", afterID)

	return o.process(ctx, run.ID, afterID, sum)
}

func (o *Orchestrator) process(ctx context.Context, runID uuid.UUID, afterID int64, sum Summary) (Summary, error) {
	pending, err := o.store.CountPending(ctx)
	if err == nil {
		o.log.Info("run started", "run_id", runID, "pending", pending, "batch_size", o.opts.BatchSize)
	}

	for {
		// Interruption is only observed here, between batches.
		if ctx.Err() != nil {
			sum.State = StateInterrupted
			o.finish(runID, sum)
			o.log.Warn("run interrupted", "run_id", runID, "processed", sum.Processed)
			return sum, nil
		}

		offers, err := o.fetch(ctx, afterID, o.opts.BatchSize)
		if err != nil {
			sum.State = StateFailed
			o.finish(runID, sum)
			return sum, err
		}
		if len(offers) == 0 {
			break
		}

		var results []db.EnrichedOffer
		for _, offer := range offers {
			rec, err := o.enrichOne(offer)
			if err != nil {
				sum.Errors++
				o.logFailure(offer, err)
				continue
			}
			o.logRecord(offer, rec)
			// Offers whose cleaned text is empty are still persisted so they
			// drop out of the backlog, but they count as skipped, not
			// processed.
			if rec.CleanedText == "" {
				sum.Skipped++
			} else {
				sum.Processed++
				if o.opts.OnRecord != nil {
					o.opts.OnRecord(offer, rec)
				}
			}
			results = append(results, db.EnrichedOffer{OfferID: offer.ID, Record: rec})
		}

		afterID = offers[len(offers)-1].ID
		sum.Batches++

		cp := db.Checkpoint{
			RunID:       runID,
			LastOfferID: afterID,
			Processed:   sum.Processed,
			Errors:      sum.Errors,
		}
		if err := o.apply(ctx, results, cp); err != nil {
			sum.State = StateFailed
			o.finish(runID, sum)
			return sum, fmt.Errorf("batch %d not persisted: %w", sum.Batches, err)
		}
		o.log.Info("batch persisted",
			"run_id", runID, "batch", sum.Batches,
			"offers", len(results), "last_offer_id", afterID)
	}

	sum.State = StateCompleted
	o.finish(runID, sum)
	o.log.Info("run completed",
		"run_id", runID, "processed", sum.Processed,
		"skipped", sum.Skipped, "errors", sum.Errors)
	return sum, nil
}

// logRecord emits one structured entry per enriched offer: the original and
// cleaned descriptions plus every computed field, at debug level so the JSON
// log carries the full payload without flooding the console.
func (o *Orchestrator) logRecord(offer db.Offer, rec enrich.Record) {
	o.log.Debug("offer enriched",
		"offer_id", offer.ID,
		"title", offer.Title,
		"description", offer.Description,
		"cleaned_text", rec.CleanedText,
		"profile", rec.Profile,
		"confidence", rec.ProfileConfidence,
		"technical_skills", rec.AllTechnical,
		"soft_skills", rec.AllSoft,
		"salary", rec.Salary,
		"experience", rec.Experience,
		"education", rec.Education,
		"remote", rec.Remote,
		"contracts", rec.Contracts,
	)
}

// logFailure keeps the offer's context next to the error so a failed record
// can be diagnosed from the log alone.
func (o *Orchestrator) logFailure(offer db.Offer, err error) {
	o.log.Error("enrichment failed",
		"offer_id", offer.ID,
		"title", offer.Title,
		"description", offer.Description,
		"error", err,
	)
}

// enrichOne isolates a single offer: a panic in any stage becomes a counted
// error instead of taking the run down.
func (o *Orchestrator) enrichOne(offer db.Offer) (rec enrich.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("enrichment panicked: %v", r)
		}
	}()
	return o.enricher.Enrich(offer.Description), nil
}

// fetch reads one batch under the storage timeout.
func (o *Orchestrator) fetch(ctx context.Context, afterID int64, limit int) ([]db.Offer, error) {
	fctx, cancel := context.WithTimeout(ctx, o.opts.StorageTimeout)
	defer cancel()
	return o.store.FetchBatch(fctx, afterID, limit)
}

// apply persists one batch, retrying once on a transient storage error
// before escalating.
func (o *Orchestrator) apply(ctx context.Context, batch []db.EnrichedOffer, cp db.Checkpoint) error {
	actx, cancel := context.WithTimeout(ctx, o.opts.StorageTimeout)
	defer cancel()
	err := o.store.ApplyBatch(actx, batch, cp)
	if err == nil {
		return nil
	}
	o.log.Warn("batch persist failed, retrying once", "run_id", cp.RunID, "error", err)

	rctx, cancel := context.WithTimeout(ctx, o.opts.StorageTimeout)
	defer cancel()
	return o.store.ApplyBatch(rctx, batch, cp)
}

// finish closes the run row; in dry-run mode there is none. A failure to
// close never masks the run outcome.
func (o *Orchestrator) finish(runID uuid.UUID, sum Summary) {
	if runID == uuid.Nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), o.opts.StorageTimeout)
	defer cancel()
	if err := o.store.FinishRun(ctx, runID, string(sum.State), sum.Processed, sum.Skipped, sum.Errors); err != nil {
		o.log.Error("failed to close run", "run_id", runID, "error", err)
	}
}
