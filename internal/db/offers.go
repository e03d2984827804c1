package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jmorel/offerlens/internal/enrich"
	"github.com/jmorel/offerlens/internal/matcher"
)

// minDescriptionLength filters out stub offers whose description carries no
// usable signal.
const minDescriptionLength = 100

// Offer is one job offer row, reduced to what enrichment needs.
type Offer struct {
	ID          int64
	Title       string
	Description string
}

// EnrichedOffer pairs an offer with its computed enrichment record.
type EnrichedOffer struct {
	OfferID int64
	Record  enrich.Record
}

// Checkpoint records batch progress for a run. It is written in the same
// transaction as the batch's results, so a stored checkpoint always means the
// batch before it is fully persisted.
type Checkpoint struct {
	RunID       uuid.UUID
	LastOfferID int64
	Processed   int
	Errors      int
}

// FetchBatch returns up to limit unprocessed offers with a usable
// description, ordered by ID, starting strictly after afterID.
func (db *DB) FetchBatch(ctx context.Context, afterID int64, limit int) ([]Offer, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, COALESCE(title, ''), description
		 FROM offers
		 WHERE processed = FALSE
		   AND description IS NOT NULL
		   AND LENGTH(description) > $1
		   AND id > $2
		 ORDER BY id
		 LIMIT $3`,
		minDescriptionLength, afterID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch offer batch: %w", err)
	}
	defer rows.Close()

	var offers []Offer
	for rows.Next() {
		var o Offer
		if err := rows.Scan(&o.ID, &o.Title, &o.Description); err != nil {
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read offer batch: %w", err)
	}
	return offers, nil
}

// CountPending returns how many offers are still waiting for enrichment.
func (db *DB) CountPending(ctx context.Context) (int, error) {
	var n int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM offers
		 WHERE processed = FALSE
		   AND description IS NOT NULL
		   AND LENGTH(description) > $1`,
		minDescriptionLength,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending offers: %w", err)
	}
	return n, nil
}

// ApplyBatch persists a batch of enrichment results and the run checkpoint in
// a single transaction: either the whole batch lands together with its
// checkpoint, or nothing does. Re-applying the same batch is safe because
// offer skills are replaced, not appended.
func (db *DB) ApplyBatch(ctx context.Context, batch []EnrichedOffer, cp Checkpoint) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin batch transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	for _, eo := range batch {
		if err := applyOffer(ctx, tx, eo); err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO enrichment_checkpoints (run_id, last_offer_id, processed, errors, updated_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (run_id) DO UPDATE
		 SET last_offer_id = $2, processed = $3, errors = $4, updated_at = NOW()`,
		cp.RunID, cp.LastOfferID, cp.Processed, cp.Errors,
	)
	if err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

func applyOffer(ctx context.Context, tx pgxTx, eo EnrichedOffer) error {
	rec := eo.Record

	var (
		salaryMin, salaryMax, expMin, expMax *int
		eduYears, remoteDays, remotePct      *int
		profile, eduType                     *string
		confidence                           *int
	)
	if rec.Salary != nil {
		salaryMin, salaryMax = &rec.Salary.MinAnnual, &rec.Salary.MaxAnnual
	}
	if rec.Experience != nil {
		expMin = &rec.Experience.MinYears
		if rec.Experience.MaxYears > 0 {
			expMax = &rec.Experience.MaxYears
		}
	}
	if rec.Education != nil {
		eduYears = &rec.Education.YearsPostBac
		if rec.Education.DegreeType != "" {
			eduType = &rec.Education.DegreeType
		}
	}
	if rec.Remote != nil {
		remoteDays, remotePct = &rec.Remote.DaysPerWeek, &rec.Remote.Percent
	}
	if rec.Profile != "" {
		profile, confidence = &rec.Profile, &rec.ProfileConfidence
	}

	_, err := tx.Exec(ctx,
		`UPDATE offers
		 SET cleaned_text = $2, profile = $3, profile_confidence = $4,
		     salary_min = $5, salary_max = $6,
		     experience_min = $7, experience_max = $8,
		     education_years = $9, education_type = $10,
		     remote_days = $11, remote_percent = $12,
		     contract_types = $13, processed = TRUE, enriched_at = NOW()
		 WHERE id = $1`,
		eo.OfferID, rec.CleanedText, profile, confidence,
		salaryMin, salaryMax, expMin, expMax,
		eduYears, eduType, remoteDays, remotePct, rec.Contracts,
	)
	if err != nil {
		return fmt.Errorf("failed to update offer %d: %w", eo.OfferID, err)
	}

	// Replace the skill links so re-enriching an offer never accumulates
	// stale rows.
	if _, err := tx.Exec(ctx,
		`DELETE FROM offer_skills WHERE offer_id = $1`, eo.OfferID); err != nil {
		return fmt.Errorf("failed to clear skills for offer %d: %w", eo.OfferID, err)
	}

	if err := linkSkills(ctx, tx, eo.OfferID, rec.TechnicalSkills, "technical", rec.SkillSources); err != nil {
		return err
	}
	return linkSkills(ctx, tx, eo.OfferID, rec.SoftSkills, "soft", rec.SkillSources)
}

func linkSkills(ctx context.Context, tx pgxTx, offerID int64, byCategory map[string][]string, kind string, sources map[string]matcher.Source) error {
	for category, names := range byCategory {
		for _, name := range names {
			var skillID int64
			err := tx.QueryRow(ctx,
				`INSERT INTO dim_skills (name, category, kind)
				 VALUES ($1, $2, $3)
				 ON CONFLICT (name) DO UPDATE SET category = EXCLUDED.category, kind = EXCLUDED.kind
				 RETURNING id`,
				name, category, kind,
			).Scan(&skillID)
			if err != nil {
				return fmt.Errorf("failed to upsert skill %q: %w", name, err)
			}

			source := string(matcher.SourceLiteral)
			if s, ok := sources[name]; ok {
				source = string(s)
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO offer_skills (offer_id, skill_id, source)
				 VALUES ($1, $2, $3)
				 ON CONFLICT (offer_id, skill_id) DO NOTHING`,
				offerID, skillID, source,
			); err != nil {
				return fmt.Errorf("failed to link skill %q to offer %d: %w", name, offerID, err)
			}
		}
	}
	return nil
}
