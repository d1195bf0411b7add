// Package store implements the engine's persistence collaborator on
// Postgres. List- and record-valued config fields live in JSONB columns;
// their (de)serialization is confined to this package.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dailyjobs/search-service/internal/model"
)

// Store wraps a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New constructs a Store.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// NewPool connects to databaseURL and verifies connectivity.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return pool, nil
}

const configColumns = `id, user_id, name, keywords, search_logic, custom_logic,
	cadence, location_filter, job_sites, max_job_age, is_active, created_at, last_run`

// LoadActiveConfigs fetches every is_active = true search config.
func (s *Store) LoadActiveConfigs(ctx context.Context) ([]model.SearchConfig, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+configColumns+` FROM search_configs WHERE is_active = true ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query search_configs: %w", err)
	}
	defer rows.Close()

	var configs []model.SearchConfig
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

// LoadConfig fetches one config by id; nil when absent.
func (s *Store) LoadConfig(ctx context.Context, configID string) (*model.SearchConfig, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+configColumns+` FROM search_configs WHERE id = $1`, configID)
	if err != nil {
		return nil, fmt.Errorf("query search_config %s: %w", configID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	cfg, err := scanConfig(rows)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadUser fetches the credential view for one user; nil when absent.
func (s *Store) LoadUser(ctx context.Context, userID string) (*model.UserCredentialView, error) {
	var u model.UserCredentialView
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, notification_email, search_api_key, search_engine_id, mail_configured
		 FROM users WHERE id = $1`, userID,
	).Scan(&u.ID, &u.Email, &u.NotificationEmail, &u.SearchAPIKey, &u.SearchEngineID, &u.MailConfigured)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user %s: %w", userID, err)
	}
	return &u, nil
}

// SaveConfig upserts one search config, encoding its structured fields into
// their JSONB columns. The engine only reads configs; this is the write path
// for tools and tests seeding a database.
func (s *Store) SaveConfig(ctx context.Context, cfg model.SearchConfig) error {
	rawKeywords, rawCadence, rawSites, err := encodeConfigJSON(cfg)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO search_configs (`+configColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			name = EXCLUDED.name,
			keywords = EXCLUDED.keywords,
			search_logic = EXCLUDED.search_logic,
			custom_logic = EXCLUDED.custom_logic,
			cadence = EXCLUDED.cadence,
			location_filter = EXCLUDED.location_filter,
			job_sites = EXCLUDED.job_sites,
			max_job_age = EXCLUDED.max_job_age,
			is_active = EXCLUDED.is_active,
			last_run = EXCLUDED.last_run`,
		cfg.ID, cfg.UserID, cfg.Name, rawKeywords, cfg.SearchLogic, cfg.CustomLogic,
		rawCadence, cfg.LocationFilter, rawSites, cfg.MaxJobAge, cfg.IsActive,
		cfg.CreatedAt, cfg.LastRun,
	); err != nil {
		return fmt.Errorf("upsert search_config %s: %w", cfg.ID, err)
	}
	return nil
}

// AppendPostings writes one run's batch of postings inside a single
// transaction, stamping each posting's row identity first.
func (s *Store) AppendPostings(ctx context.Context, userID, configID string, postings []model.JobPosting) error {
	if len(postings) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin postings batch: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, p := range postings {
		p = stampPosting(p, userID, configID)
		batch.Queue(
			`INSERT INTO job_results (id, user_id, search_config_id, title, link, snippet, job_site, keyword, found_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			p.ID, p.UserID, p.ConfigID,
			p.Title, p.Link, p.Snippet, p.Site, p.Keyword, p.FoundAt,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert postings: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit postings batch: %w", err)
	}
	return nil
}

// UpdateLastRun advances a config's last_run marker.
func (s *Store) UpdateLastRun(ctx context.Context, configID string, t time.Time) error {
	if _, err := s.pool.Exec(ctx,
		`UPDATE search_configs SET last_run = $2 WHERE id = $1`, configID, t); err != nil {
		return fmt.Errorf("update last_run for %s: %w", configID, err)
	}
	return nil
}

// DeletePostings removes all of a user's persisted postings. Used by the
// ad-hoc test run so repeated manual searches do not accumulate.
func (s *Store) DeletePostings(ctx context.Context, userID string) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM job_results WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete postings for user %s: %w", userID, err)
	}
	return nil
}

// stampPosting fills a posting's row identity before insertion.
func stampPosting(p model.JobPosting, userID, configID string) model.JobPosting {
	p.ID = uuid.NewString()
	p.UserID = userID
	p.ConfigID = configID
	return p
}

// encodeConfigJSON renders the list- and record-valued config fields into
// their JSONB column representations.
func encodeConfigJSON(cfg model.SearchConfig) (keywords, cadence, sites []byte, err error) {
	if keywords, err = json.Marshal(cfg.Keywords); err != nil {
		return nil, nil, nil, fmt.Errorf("encode keywords for %s: %w", cfg.ID, err)
	}
	if cadence, err = json.Marshal(cfg.Cadence); err != nil {
		return nil, nil, nil, fmt.Errorf("encode cadence for %s: %w", cfg.ID, err)
	}
	if sites, err = json.Marshal(cfg.JobSites); err != nil {
		return nil, nil, nil, fmt.Errorf("encode job_sites for %s: %w", cfg.ID, err)
	}
	return keywords, cadence, sites, nil
}

// decodeConfigJSON unpacks the JSONB column payloads into cfg's structured
// fields. An absent job_sites payload leaves the default-site substitution
// to the query builder.
func decodeConfigJSON(cfg *model.SearchConfig, rawKeywords, rawCadence, rawSites []byte) error {
	if err := json.Unmarshal(rawKeywords, &cfg.Keywords); err != nil {
		return fmt.Errorf("decode keywords for %s: %w", cfg.ID, err)
	}
	if err := json.Unmarshal(rawCadence, &cfg.Cadence); err != nil {
		return fmt.Errorf("decode cadence for %s: %w", cfg.ID, err)
	}
	if len(rawSites) > 0 {
		if err := json.Unmarshal(rawSites, &cfg.JobSites); err != nil {
			return fmt.Errorf("decode job_sites for %s: %w", cfg.ID, err)
		}
	}
	return nil
}

// scanConfig decodes one search_configs row, unpacking the JSONB columns
// into their structured fields.
func scanConfig(rows pgx.Rows) (model.SearchConfig, error) {
	var (
		cfg         model.SearchConfig
		rawKeywords []byte
		rawCadence  []byte
		rawSites    []byte
	)
	if err := rows.Scan(
		&cfg.ID, &cfg.UserID, &cfg.Name, &rawKeywords, &cfg.SearchLogic, &cfg.CustomLogic,
		&rawCadence, &cfg.LocationFilter, &rawSites, &cfg.MaxJobAge, &cfg.IsActive,
		&cfg.CreatedAt, &cfg.LastRun,
	); err != nil {
		return model.SearchConfig{}, fmt.Errorf("scan search_config: %w", err)
	}
	if err := decodeConfigJSON(&cfg, rawKeywords, rawCadence, rawSites); err != nil {
		return model.SearchConfig{}, err
	}
	return cfg, nil
}
