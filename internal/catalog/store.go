// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog is the local search backend: a SQLite store of article
// records from DergiPark, TR Dizin and YÖK Tez, searched by exact phrase.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/research-view/pkg/types"
)

// DefaultMaxResults applies when neither the query nor the config set one.
const DefaultMaxResults = 15

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
	threshold  string
}

// NewStore opens or creates the catalog database at cfg.Path and creates
// the schema if it does not exist.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.DefaultMaxResults
	if maxResults == 0 {
		maxResults = DefaultMaxResults
	}

	s := &Store{
		db:         db,
		maxResults: maxResults,
		threshold:  cfg.DefaultThreshold,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			ext_id TEXT NOT NULL,
			title TEXT,
			title_turkish TEXT,
			title_english TEXT,
			authors TEXT,
			publication_date TEXT,
			year TEXT,
			volume TEXT,
			issue TEXT,
			keywords TEXT,
			url TEXT,
			doi TEXT,
			thesis_id TEXT,
			article_id TEXT,
			journal_slug TEXT,
			UNIQUE(source, ext_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(source)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// ImportSummary holds counts from one import.
type ImportSummary struct {
	Imported int
	Updated  int
	Skipped  int
}

// Total returns the number of records processed.
func (s ImportSummary) Total() int {
	return s.Imported + s.Updated + s.Skipped
}

// Import cleans records and upserts them under source. Records are keyed by
// their thesis id, article id, DOI, URL or title, first present wins;
// records with none of these are skipped. Re-importing a record keeps its
// original position in search results.
func (s *Store) Import(ctx context.Context, source string, records []types.ArticleRecord) (ImportSummary, error) {
	source = strings.ToLower(strings.TrimSpace(source))
	if source == "" {
		return ImportSummary{}, fmt.Errorf("import: source is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO articles (source, ext_id, title, title_turkish, title_english, authors,
			publication_date, year, volume, issue, keywords, url, doi, thesis_id, article_id, journal_slug)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(source, ext_id) DO UPDATE SET
			title=excluded.title, title_turkish=excluded.title_turkish,
			title_english=excluded.title_english, authors=excluded.authors,
			publication_date=excluded.publication_date, year=excluded.year,
			volume=excluded.volume, issue=excluded.issue, keywords=excluded.keywords,
			url=excluded.url, doi=excluded.doi, thesis_id=excluded.thesis_id,
			article_id=excluded.article_id, journal_slug=excluded.journal_slug`)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	var summary ImportSummary
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		rec = Prepare(source, rec)
		key := externalID(rec)
		if key == "" {
			summary.Skipped++
			continue
		}

		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT count(*) FROM articles WHERE source = ? AND ext_id = ?`, source, key,
		).Scan(&exists)
		if err != nil {
			return summary, fmt.Errorf("checking record %s: %w", key, err)
		}

		_, err = stmt.ExecContext(ctx,
			source, key, rec.Title, rec.TitleTurkish, rec.TitleEnglish, rec.Authors,
			rec.PublicationDate, rec.Year, rec.Volume, rec.Issue, rec.Keywords,
			rec.URL, rec.DOI, rec.ThesisID, rec.ArticleID, rec.JournalSlug,
		)
		if err != nil {
			return summary, fmt.Errorf("upserting record %s: %w", key, err)
		}

		if exists > 0 {
			summary.Updated++
		} else {
			summary.Imported++
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing import: %w", err)
	}
	return summary, nil
}

// Prepare applies the import-time cleaning and defaults for source to rec.
func Prepare(source string, rec types.ArticleRecord) types.ArticleRecord {
	rec.Title = CleanTitle(strings.TrimSpace(rec.Title))
	rec.TitleTurkish = CleanTitle(strings.TrimSpace(rec.TitleTurkish))
	rec.TitleEnglish = CleanTitle(strings.TrimSpace(rec.TitleEnglish))
	rec.Authors = CleanAuthors(strings.TrimSpace(rec.Authors))
	if strings.TrimSpace(rec.Keywords) != "" {
		rec.Keywords = CleanKeywords(rec.Keywords)
	}
	rec.DOI = strings.TrimSpace(rec.DOI)
	rec.URL = strings.TrimSpace(rec.URL)

	switch source {
	case types.SourceTRDizin:
		if rec.Title == "" {
			rec.Title = rec.TitleTurkish
		}
		if rec.Title == "" {
			rec.Title = rec.TitleEnglish
		}
		if rec.URL == "" && rec.DOI != "" {
			rec.URL = "https://doi.org/" + rec.DOI
		}
		if rec.JournalSlug == "" {
			rec.JournalSlug = types.SourceTRDizin
		}
	case types.SourceYokTez:
		if rec.ThesisID == "" {
			rec.ThesisID = strings.TrimSpace(rec.ArticleID)
		}
		if rec.URL == "" && rec.ThesisID != "" {
			rec.URL = yokTezURL + rec.ThesisID
		}
		if rec.JournalSlug == "" {
			rec.JournalSlug = types.SourceYokTez
		}
	}

	// Per-search fields are not stored.
	rec.Source = ""
	rec.SimilarityScore = nil
	rec.SearchRelevance = ""
	rec.Rank = 0
	return rec
}

const yokTezURL = "https://tez.yok.gov.tr/UlusalTezMerkezi/tezDetay.jsp?id="

func externalID(rec types.ArticleRecord) string {
	for _, v := range []string{rec.ThesisID, rec.ArticleID, rec.DOI, rec.URL, rec.Title, rec.TitleTurkish, rec.TitleEnglish} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// SourceStat is the number of stored records of one source.
type SourceStat struct {
	Source   string `json:"source" yaml:"source"`
	Articles int    `json:"articles" yaml:"articles"`
}

// Stats returns per-source record counts ordered by source key.
func (s *Store) Stats(ctx context.Context) ([]SourceStat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, count(*) FROM articles GROUP BY source ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("querying stats: %w", err)
	}
	defer rows.Close()

	var stats []SourceStat
	for rows.Next() {
		var st SourceStat
		if err := rows.Scan(&st.Source, &st.Articles); err != nil {
			return nil, fmt.Errorf("scanning stats: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// records returns the stored records of source, or of every source when
// source is empty, in insertion order.
func (s *Store) records(ctx context.Context, source string) ([]storedRecord, error) {
	query := `SELECT source, title, title_turkish, title_english, authors, publication_date,
			year, volume, issue, keywords, url, doi, thesis_id, article_id, journal_slug
		FROM articles`
	var args []any
	if source != "" {
		query += ` WHERE source = ?`
		args = append(args, source)
	}
	query += ` ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var out []storedRecord
	for rows.Next() {
		var (
			r      storedRecord
			fields [14]sql.NullString
		)
		dest := []any{&r.source}
		for i := range fields {
			dest = append(dest, &fields[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		r.rec = types.ArticleRecord{
			Title:           fields[0].String,
			TitleTurkish:    fields[1].String,
			TitleEnglish:    fields[2].String,
			Authors:         fields[3].String,
			PublicationDate: fields[4].String,
			Year:            fields[5].String,
			Volume:          fields[6].String,
			Issue:           fields[7].String,
			Keywords:        fields[8].String,
			URL:             fields[9].String,
			DOI:             fields[10].String,
			ThesisID:        fields[11].String,
			ArticleID:       fields[12].String,
			JournalSlug:     fields[13].String,
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type storedRecord struct {
	source string
	rec    types.ArticleRecord
}
