package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmorel/offerlens/internal/db"
	"github.com/jmorel/offerlens/internal/enrich"
)

type finishCall struct {
	runID     uuid.UUID
	status    string
	processed int
	skipped   int
	errors    int
}

// fakeStore simulates the offers table: ApplyBatch flags offers processed so
// they drop out of subsequent fetches, exactly like the real store.
type fakeStore struct {
	offers    []db.Offer
	processed map[int64]bool

	applied     [][]db.EnrichedOffer
	checkpoints []db.Checkpoint
	finishes    []finishCall
	createdRuns []string

	applyFailures int // fail this many ApplyBatch calls before succeeding
	resumable     *db.Run
	checkpoint    *db.Checkpoint
	afterApply    func()
}

func newFakeStore(n int) *fakeStore {
	s := &fakeStore{processed: make(map[int64]bool)}
	for i := 1; i <= n; i++ {
		s.offers = append(s.offers, db.Offer{
			ID:          int64(i),
			Title:       fmt.Sprintf("offre %d", i),
			Description: fmt.Sprintf("Développeur Python, poste numéro %d", i),
		})
	}
	return s
}

func (s *fakeStore) CreateRun(_ context.Context, mode string) (uuid.UUID, error) {
	s.createdRuns = append(s.createdRuns, mode)
	return uuid.New(), nil
}

func (s *fakeStore) FinishRun(_ context.Context, runID uuid.UUID, status string, processed, skipped, errs int) error {
	s.finishes = append(s.finishes, finishCall{runID, status, processed, skipped, errs})
	return nil
}

func (s *fakeStore) FetchBatch(_ context.Context, afterID int64, limit int) ([]db.Offer, error) {
	var out []db.Offer
	for _, o := range s.offers {
		if o.ID > afterID && !s.processed[o.ID] {
			out = append(out, o)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *fakeStore) ApplyBatch(_ context.Context, batch []db.EnrichedOffer, cp db.Checkpoint) error {
	if s.applyFailures > 0 {
		s.applyFailures--
		return errors.New("storage unavailable")
	}
	s.applied = append(s.applied, batch)
	s.checkpoints = append(s.checkpoints, cp)
	for _, eo := range batch {
		s.processed[eo.OfferID] = true
	}
	if s.afterApply != nil {
		s.afterApply()
	}
	return nil
}

func (s *fakeStore) CountPending(_ context.Context) (int, error) {
	n := 0
	for _, o := range s.offers {
		if !s.processed[o.ID] {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) LatestResumableRun(_ context.Context) (*db.Run, error) {
	return s.resumable, nil
}

func (s *fakeStore) GetCheckpoint(_ context.Context, _ uuid.UUID) (*db.Checkpoint, error) {
	return s.checkpoint, nil
}

// fakeEnricher panics or yields an empty cleaned text on demand, to exercise
// failure isolation and skip accounting.
type fakeEnricher struct {
	panicOn map[int64]bool
	emptyOn map[int64]bool
	seen    int
}

func (e *fakeEnricher) Enrich(description string) enrich.Record {
	e.seen++
	var id int64
	fmt.Sscanf(description, "Développeur Python, poste numéro %d", &id)
	if e.panicOn[id] {
		panic("malformed offer")
	}
	if e.emptyOn[id] {
		return enrich.Record{}
	}
	return enrich.Record{CleanedText: "developpeur python poste numero"}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDryRunIsBoundedAndWritesNothing(t *testing.T) {
	store := newFakeStore(30)
	orch := New(store, &fakeEnricher{}, Options{Mode: ModeDryRun, Logger: quietLogger()})

	var observed []int64
	orch.opts.OnRecord = func(offer db.Offer, _ enrich.Record) {
		observed = append(observed, offer.ID)
	}

	sum, err := orch.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, sum.State)
	assert.Equal(t, DefaultSampleSize, sum.Processed)
	assert.Len(t, observed, DefaultSampleSize)

	assert.Empty(t, store.createdRuns, "dry run must not create a run row")
	assert.Empty(t, store.applied, "dry run must not persist anything")
	assert.Empty(t, store.finishes)
}

func TestFullRunProcessesEverythingInBatches(t *testing.T) {
	store := newFakeStore(120)
	orch := New(store, &fakeEnricher{}, Options{
		Mode: ModeFull, BatchSize: 50, Logger: quietLogger(),
	})

	sum, err := orch.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, sum.State)
	assert.Equal(t, 120, sum.Processed)
	assert.Equal(t, 3, sum.Batches)
	assert.Len(t, store.applied, 3)

	// Checkpoints advance monotonically with the batches they cover.
	require.Len(t, store.checkpoints, 3)
	assert.Equal(t, int64(50), store.checkpoints[0].LastOfferID)
	assert.Equal(t, int64(100), store.checkpoints[1].LastOfferID)
	assert.Equal(t, int64(120), store.checkpoints[2].LastOfferID)
	assert.Equal(t, 120, store.checkpoints[2].Processed)

	require.Len(t, store.finishes, 1)
	assert.Equal(t, "completed", store.finishes[0].status)
}

func TestPerOfferFailureDoesNotAbortRun(t *testing.T) {
	store := newFakeStore(20)
	enricher := &fakeEnricher{panicOn: map[int64]bool{7: true, 13: true}}
	orch := New(store, enricher, Options{Mode: ModeFull, BatchSize: 10, Logger: quietLogger()})

	sum, err := orch.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, sum.State)
	assert.Equal(t, 18, sum.Processed)
	assert.Equal(t, 2, sum.Errors)
	require.Len(t, store.finishes, 1)
	assert.Equal(t, "completed", store.finishes[0].status)
	assert.Equal(t, 2, store.finishes[0].errors)
}

func TestEmptyCleanedTextIsSkippedNotProcessed(t *testing.T) {
	store := newFakeStore(10)
	enricher := &fakeEnricher{emptyOn: map[int64]bool{4: true}}
	orch := New(store, enricher, Options{Mode: ModeFull, BatchSize: 10, Logger: quietLogger()})

	sum, err := orch.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 9, sum.Processed)
	assert.Equal(t, 1, sum.Skipped)

	// The skipped offer is still persisted so it leaves the backlog.
	require.Len(t, store.applied, 1)
	assert.Len(t, store.applied[0], 10)
	assert.True(t, store.processed[4])
	require.Len(t, store.checkpoints, 1)
	assert.Equal(t, 9, store.checkpoints[0].Processed)
}

func TestPerOfferLogCarriesEnrichmentContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store := newFakeStore(3)
	enricher := &fakeEnricher{panicOn: map[int64]bool{2: true}}
	orch := New(store, enricher, Options{Mode: ModeFull, BatchSize: 3, Logger: logger})

	_, err := orch.Run(context.Background())
	require.NoError(t, err)
	logs := buf.String()

	// One entry per enriched offer, carrying both text forms.
	assert.Contains(t, logs, `"msg":"offer enriched"`)
	assert.Contains(t, logs, `"description":"Développeur Python, poste numéro 1"`)
	assert.Contains(t, logs, `"cleaned_text":"developpeur python poste numero"`)

	// The failed offer keeps its original description next to the error.
	assert.Contains(t, logs, `"msg":"enrichment failed"`)
	assert.Contains(t, logs, `"description":"Développeur Python, poste numéro 2"`)
}

func TestStorageRetrySucceeds(t *testing.T) {
	store := newFakeStore(10)
	store.applyFailures = 1
	orch := New(store, &fakeEnricher{}, Options{Mode: ModeFull, BatchSize: 10, Logger: quietLogger()})

	sum, err := orch.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, sum.State)
	assert.Equal(t, 10, sum.Processed)
	assert.Len(t, store.applied, 1)
}

func TestStorageFailureEscalatesAfterRetry(t *testing.T) {
	store := newFakeStore(10)
	store.applyFailures = 2
	orch := New(store, &fakeEnricher{}, Options{Mode: ModeFull, BatchSize: 10, Logger: quietLogger()})

	sum, err := orch.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, sum.State)
	require.Len(t, store.finishes, 1)
	assert.Equal(t, "failed", store.finishes[0].status)
}

func TestInterruptionAtBatchBoundary(t *testing.T) {
	store := newFakeStore(100)
	ctx, cancel := context.WithCancel(context.Background())
	// Cancellation lands mid-run; the in-flight batch must still be
	// persisted before the run stops.
	store.afterApply = cancel

	orch := New(store, &fakeEnricher{}, Options{Mode: ModeFull, BatchSize: 25, Logger: quietLogger()})
	sum, err := orch.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, StateInterrupted, sum.State)
	assert.Equal(t, 25, sum.Processed)
	assert.Len(t, store.applied, 1)
	require.Len(t, store.finishes, 1)
	assert.Equal(t, "interrupted", store.finishes[0].status)
}

func TestResumeContinuesFromCheckpoint(t *testing.T) {
	store := newFakeStore(100)
	runID := uuid.New()
	store.resumable = &db.Run{ID: runID, Mode: "full", Status: "interrupted"}
	store.checkpoint = &db.Checkpoint{RunID: runID, LastOfferID: 40, Processed: 40}
	for i := int64(1); i <= 40; i++ {
		store.processed[i] = true
	}

	orch := New(store, &fakeEnricher{}, Options{Mode: ModeResume, BatchSize: 30, Logger: quietLogger()})
	sum, err := orch.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, sum.State)
	assert.Equal(t, runID, sum.RunID)
	assert.Equal(t, 100, sum.Processed, "checkpoint counters carry over")

	// No offer is enriched twice: fetches start strictly after the
	// checkpoint.
	for _, batch := range store.applied {
		for _, eo := range batch {
			assert.Greater(t, eo.OfferID, int64(40))
		}
	}
	assert.Empty(t, store.createdRuns, "resume reuses the existing run row")
	require.Len(t, store.finishes, 1)
	assert.Equal(t, "completed", store.finishes[0].status)
}

func TestResumeIsIdempotentWhenNothingIsPending(t *testing.T) {
	store := newFakeStore(50)
	runID := uuid.New()
	store.resumable = &db.Run{ID: runID, Mode: "full", Status: "interrupted"}
	store.checkpoint = &db.Checkpoint{RunID: runID, LastOfferID: 50, Processed: 50}
	for i := int64(1); i <= 50; i++ {
		store.processed[i] = true
	}

	orch := New(store, &fakeEnricher{}, Options{Mode: ModeResume, Logger: quietLogger()})
	sum, err := orch.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, sum.State)
	assert.Equal(t, 50, sum.Processed)
	assert.Empty(t, store.applied, "nothing left to persist")
}

func TestResumeWithNothingToResumeFallsBackToFull(t *testing.T) {
	store := newFakeStore(10)
	orch := New(store, &fakeEnricher{}, Options{Mode: ModeResume, BatchSize: 10, Logger: quietLogger()})

	sum, err := orch.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, sum.State)
	assert.Equal(t, []string{"full"}, store.createdRuns)
	assert.Equal(t, 10, sum.Processed)
}

func TestUnknownModeFails(t *testing.T) {
	orch := New(newFakeStore(1), &fakeEnricher{}, Options{Logger: quietLogger()})
	orch.opts.Mode = Mode("sideways")

	sum, err := orch.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, sum.State)
}
