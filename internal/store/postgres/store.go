// internal/store/postgres/store.go
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"nanomatch/internal/common/errors"
	"nanomatch/internal/models"

	"github.com/lib/pq"
)

// Store reads SME and influencer profiles from Postgres and writes the match audit table.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store on an open connection pool.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const smeColumns = `id, name, budget, niche, location, target_audience`

const influencerColumns = `id, name, price_per_post, currency, niche, engagement_rate,
       followers_count, location, rating`

// GetSME loads one SME profile, NOT_FOUND when the id is unknown.
func (s *Store) GetSME(ctx context.Context, id string) (models.SME, error) {
	var (
		sme                            models.SME
		name, location, targetAudience sql.NullString
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT `+smeColumns+`
		FROM smes
		WHERE id = $1`, id).Scan(
		&sme.ID, &name, &sme.Budget, &sme.Niche, &location, &targetAudience,
	)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return models.SME{}, errors.NewNotFoundError("sme", id)
		}
		return models.SME{}, mapError("GetSME", err)
	}

	sme.Name = name.String
	sme.Location = location.String
	sme.TargetAudience = targetAudience.String
	return sme, nil
}

// GetInfluencer loads one influencer profile, NOT_FOUND when the id is unknown.
func (s *Store) GetInfluencer(ctx context.Context, id string) (models.Influencer, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+influencerColumns+`
		FROM influencers
		WHERE id = $1`, id)

	inf, err := scanInfluencer(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return models.Influencer{}, errors.NewNotFoundError("influencer", id)
		}
		return models.Influencer{}, mapError("GetInfluencer", err)
	}
	return inf, nil
}

// ListInfluencers returns influencers matching filter. Niche matching is case-insensitive
// and exact. Only rating-desc order is supported; unrated influencers sort last.
func (s *Store) ListInfluencers(ctx context.Context, filter models.InfluencerFilter, order models.SortOrder) ([]models.Influencer, error) {
	if order != "" && order != models.OrderRatingDesc {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("unsupported sort order %q", order))
	}

	query, args := buildListQuery(filter)
	return s.queryInfluencers(ctx, "ListInfluencers", query, args...)
}

// SearchInfluencers returns influencers whose name contains term, ignoring case,
// best rated first. limit <= 0 uses the default search size.
func (s *Store) SearchInfluencers(ctx context.Context, term string, limit int) ([]models.Influencer, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, errors.NewInvalidInputError("search term is required")
	}
	if limit <= 0 {
		limit = models.DefaultSearchLimit
	}

	return s.queryInfluencers(ctx, "SearchInfluencers", `
		SELECT `+influencerColumns+`
		FROM influencers
		WHERE name ILIKE $1 ESCAPE '\'
		ORDER BY rating DESC NULLS LAST, id ASC
		LIMIT $2`, "%"+likeEscaper.Replace(term)+"%", limit)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *Store) queryInfluencers(ctx context.Context, op, query string, args ...interface{}) ([]models.Influencer, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	influencers := []models.Influencer{}
	for rows.Next() {
		inf, err := scanInfluencer(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		influencers = append(influencers, inf)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return influencers, nil
}

// TopInfluencers returns the highest-rated influencers across all niches.
func (s *Store) TopInfluencers(ctx context.Context, limit int) ([]models.Influencer, error) {
	return s.ListInfluencers(ctx, models.InfluencerFilter{Limit: limit}, models.OrderRatingDesc)
}

// RecordMatch inserts one audit row into matches.
func (s *Store) RecordMatch(ctx context.Context, rec models.MatchRecord) error {
	factors, err := json.Marshal(rec.Factors)
	if err != nil {
		return fmt.Errorf("marshal factors: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO matches (id, sme_id, influencer_id, score, label, factors, source, calculated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.SMEID, rec.InfluencerID, rec.Score, string(rec.Label), string(factors), string(rec.Source), rec.CalculatedAt,
	)
	if err != nil {
		return mapError("RecordMatch", err)
	}
	return nil
}

func buildListQuery(filter models.InfluencerFilter) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	add := func(clause string, arg interface{}) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if niche := strings.TrimSpace(filter.Niche); niche != "" {
		add("LOWER(niche) = LOWER($%d)", niche)
	}
	if filter.Location != "" {
		add("location = $%d", filter.Location)
	}
	if filter.MinPrice > 0 {
		add("price_per_post >= $%d", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		add("price_per_post <= $%d", filter.MaxPrice)
	}
	if filter.MinEngagement > 0 {
		add("engagement_rate >= $%d", filter.MinEngagement)
	}

	var b strings.Builder
	b.WriteString("SELECT " + influencerColumns + " FROM influencers")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY rating DESC NULLS LAST, id ASC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	return b.String(), args
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanInfluencer(row scanner) (models.Influencer, error) {
	var (
		inf                             models.Influencer
		name, currency, niche, location sql.NullString
		price, engagement, rating       sql.NullFloat64
		followers                       sql.NullInt64
	)

	if err := row.Scan(
		&inf.ID, &name, &price, &currency, &niche, &engagement,
		&followers, &location, &rating,
	); err != nil {
		return models.Influencer{}, err
	}

	// Missing numeric columns become zero values, which the scorer treats as unscoreable.
	inf.Name = name.String
	inf.PricePerPost = price.Float64
	inf.Currency = currency.String
	inf.Niche = niche.String
	inf.EngagementRate = engagement.Float64
	inf.FollowersCount = int(followers.Int64)
	inf.Location = location.String
	if rating.Valid {
		r := rating.Float64
		inf.Rating = &r
	}
	return inf, nil
}

// mapError classifies a driver error. Query bugs (syntax, undefined column, bad data)
// are internal errors; everything else is treated as a transient outage.
func mapError(op string, err error) error {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "42", "22":
			stdErr := errors.NewInternalError(fmt.Errorf("%s: %w", op, err))
			stdErr.Metadata = map[string]interface{}{"pqCode": string(pqErr.Code)}
			return stdErr
		}
		stdErr := errors.NewStoreUnavailableError(op, err)
		stdErr.Metadata = map[string]interface{}{"pqCode": string(pqErr.Code)}
		return stdErr
	}
	return errors.NewStoreUnavailableError(op, err)
}
