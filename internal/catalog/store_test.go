// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-view/internal/normalize"
	"github.com/pdiddy/research-view/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.CatalogConfig{
		Path:              filepath.Join(t.TempDir(), "data", "catalog.db"),
		DefaultMaxResults: 20,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seed(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Import(ctx, types.SourceDergipark, []types.ArticleRecord{
		{Title: "Derin Öğrenme ile Görüntü Sınıflandırma", Authors: "Ayşe Yılmaz,, Ali Demir", URL: "https://dergipark.org.tr/a/1", JournalSlug: "bilisim", Keywords: "Keywords: yapay zeka, görüntü"},
		{Title: "Tarım Politikaları", Authors: "Mehmet Kaya", URL: "https://dergipark.org.tr/a/2", Keywords: "derin öğrenme, tarım"},
		{Title: "İSTANBUL'DA KENTSEL DÖNÜŞÜM", URL: "https://dergipark.org.tr/a/3"},
	})
	require.NoError(t, err)

	_, err = s.Import(ctx, types.SourceTRDizin, []types.ArticleRecord{
		{TitleTurkish: "Makine öğrenmesi yöntemleri", TitleEnglish: "Machine learning methods", DOI: "10.1/ml", ArticleID: "TR1"},
		{TitleTurkish: "", TitleEnglish: "Deep learning survey", DOI: "10.1/dl"},
	})
	require.NoError(t, err)

	_, err = s.Import(ctx, types.SourceYokTez, []types.ArticleRecord{
		{Title: `Öğrenme \"stilleri\" üzerine`, Authors: "Zeynep Öğrenmez", ArticleID: "55"},
		{Title: "Isparta bölgesi", Authors: "Can Öğrenme", ThesisID: "77"},
	})
	require.NoError(t, err)
}

// --- import ---

func TestImportAppliesDefaults(t *testing.T) {
	s := testStore(t)
	seed(t, s)
	ctx := context.Background()

	tr, err := s.Search(ctx, types.SourceTRDizin, SearchOptions{Keyword: "learning", Threshold: "low"})
	require.NoError(t, err)
	require.Len(t, tr, 2)
	assert.Equal(t, "Makine öğrenmesi yöntemleri", tr[0].Title, "Turkish title preferred")
	assert.Equal(t, "Deep learning survey", tr[1].Title, "English title when Turkish is empty")
	assert.Equal(t, "https://doi.org/10.1/ml", tr[0].URL)
	assert.Equal(t, "trdizin", tr[0].JournalSlug)
	assert.Equal(t, "TRDizin (Local)", tr[0].Source)

	yt, err := s.Search(ctx, types.SourceYokTez, SearchOptions{Keyword: "stilleri"})
	require.NoError(t, err)
	require.Len(t, yt, 1)
	assert.Equal(t, `Öğrenme "stilleri" üzerine`, yt[0].Title)
	assert.Equal(t, "55", yt[0].ThesisID)
	assert.Equal(t, "https://tez.yok.gov.tr/UlusalTezMerkezi/tezDetay.jsp?id=55", yt[0].URL)
	assert.Equal(t, "yoktez", yt[0].JournalSlug)
	assert.Equal(t, "YÖK Tez (Local)", yt[0].Source)

	dp, err := s.Search(ctx, types.SourceDergipark, SearchOptions{Keyword: "görüntü sınıflandırma"})
	require.NoError(t, err)
	require.Len(t, dp, 1)
	assert.Equal(t, "Ayşe Yılmaz, Ali Demir", dp[0].Authors)
	assert.Equal(t, "yapay zeka, görüntü", dp[0].Keywords)
}

func TestImportUpdatesAndSkips(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	sum, err := s.Import(ctx, types.SourceDergipark, []types.ArticleRecord{
		{Title: "Birinci makale", URL: "u1"},
		{Title: "İkinci makale", URL: "u2"},
		{},
	})
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Imported: 2, Skipped: 1}, sum)
	assert.Equal(t, 3, sum.Total())

	sum, err = s.Import(ctx, types.SourceDergipark, []types.ArticleRecord{
		{Title: "Birinci makale (düzeltilmiş)", URL: "u1"},
	})
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{Updated: 1}, sum)

	res, err := s.Search(ctx, types.SourceDergipark, SearchOptions{Keyword: "makale"})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "Birinci makale (düzeltilmiş)", res[0].Title, "updated record keeps its position")

	_, err = s.Import(ctx, " ", nil)
	assert.Error(t, err)
}

// --- search ---

func TestSearchScoresAndRanks(t *testing.T) {
	s := testStore(t)
	seed(t, s)
	ctx := context.Background()

	res, err := s.Search(ctx, types.SourceDergipark, SearchOptions{Keyword: "derin öğrenme"})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, 1, res[0].Rank)
	assert.Equal(t, 2, res[1].Rank)
	assert.Equal(t, TitleScore, *res[0].SimilarityScore)
	assert.Equal(t, SecondaryScore, *res[1].SimilarityScore)
	assert.Equal(t, SearchType, res[0].SearchRelevance)

	res, err = s.Search(ctx, types.SourceDergipark, SearchOptions{Keyword: "derin öğrenme", Threshold: "high"})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Derin Öğrenme ile Görüntü Sınıflandırma", res[0].Title)
}

func TestSearchTurkishFolding(t *testing.T) {
	s := testStore(t)
	seed(t, s)
	ctx := context.Background()

	for _, kw := range []string{"istanbul", "İstanbul", "ISTANBUL", "kentsel dönüşüm"} {
		res, err := s.Search(ctx, types.SourceDergipark, SearchOptions{Keyword: kw})
		require.NoError(t, err)
		assert.Len(t, res, 1, kw)
	}

	res, err := s.Search(ctx, types.SourceYokTez, SearchOptions{Keyword: "ISPARTA"})
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestSearchAuthorHitsOnTheses(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	res, err := s.Search(context.Background(), types.SourceYokTez, SearchOptions{Keyword: "öğrenme"})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, TitleScore, *res[0].SimilarityScore)
	assert.Equal(t, SecondaryScore, *res[1].SimilarityScore, "author match")
}

func TestSearchMaxResults(t *testing.T) {
	s := testStore(t)
	seed(t, s)
	ctx := context.Background()

	res, err := s.Search(ctx, types.SourceDergipark, SearchOptions{Keyword: "a", MaxResults: 1, Threshold: "low"})
	require.NoError(t, err)
	assert.Len(t, res, 1)

	res, err = s.Search(ctx, types.SourceDergipark, SearchOptions{Keyword: "a", MaxResults: AllResults, Threshold: "low"})
	require.NoError(t, err)
	assert.Len(t, res, 3)

	_, err = s.Search(ctx, types.SourceDergipark, SearchOptions{Keyword: "  "})
	assert.Error(t, err)
}

func TestThresholds(t *testing.T) {
	assert.Equal(t, 0.8, ThresholdValue("high"))
	assert.Equal(t, 0.6, ThresholdValue("Medium"))
	assert.Equal(t, 0.4, ThresholdValue("low"))
	assert.Equal(t, 0.6, ThresholdValue("extreme"))
	assert.Equal(t, "medium", ThresholdName(""))
	assert.Equal(t, "low", ThresholdName(" LOW "))
}

func TestSearchAllStandardResponse(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	resp, err := s.SearchAll(context.Background(), SearchOptions{
		Keyword: "öğrenme",
		Sources: []string{types.SourceYokTez, types.SourceDergipark, types.SourceTRDizin},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"yoktez", "dergipark", "trdizin"}, resp.Sources.Keys())
	assert.Equal(t, 0.6, resp.SimilarityThreshold)
	assert.Equal(t, resp.Sources.TotalRecords(), resp.Summary.TotalArticlesFound)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"yoktez_count":2`)

	sections, err := normalize.Normalize(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, resp.Sources.Keys(), sections.Keys())
	assert.Equal(t, resp.Sources.TotalRecords(), sections.TotalRecords())
}

func TestSearchAllDefaultsToKnownSources(t *testing.T) {
	s := testStore(t)

	resp, err := s.SearchAll(context.Background(), SearchOptions{Keyword: "hiçbir"})
	require.NoError(t, err)
	assert.Equal(t, types.KnownSources, resp.Sources.Keys())
	assert.Equal(t, 0, resp.Summary.TotalArticlesFound)
	b, _ := resp.Sources.Get(types.SourceDergipark)
	assert.NotNil(t, b.Results)
}

// --- files ---

func TestImportFileFormats(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "dergipark.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
- title: Yapay zeka etiği
  authors: A. Yazar
  url: https://dergipark.org.tr/x/1
  volume: 12
`), 0o644))

	jsonPath := filepath.Join(dir, "trdizin.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[
  {"title_turkish": "Yapay zeka ve hukuk", "doi": "10.9/law", "volume": 3}
]`), 0o644))

	responsePath := filepath.Join(dir, "response.json")
	require.NoError(t, os.WriteFile(responsePath, []byte(`{
  "keyword": "zeka",
  "sources": {
    "dergipark": {"results": []},
    "yoktez": {"results": [{"title": "Zeka kuramları", "thesis_id": 9}]}
  }
}`), 0o644))

	var log bytes.Buffer
	sum, err := s.ImportFile(ctx, types.SourceDergipark, yamlPath, &log)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Imported)

	sum, err = s.ImportFile(ctx, types.SourceTRDizin, jsonPath, &log)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Imported)

	sum, err = s.ImportFile(ctx, types.SourceYokTez, responsePath, &log)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Imported)

	assert.Contains(t, log.String(), "trdizin: imported 1, updated 0, skipped 0")

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, []SourceStat{
		{Source: "dergipark", Articles: 1},
		{Source: "trdizin", Articles: 1},
		{Source: "yoktez", Articles: 1},
	}, stats)

	res, err := s.Search(ctx, types.SourceDergipark, SearchOptions{Keyword: "etiği"})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "12", res[0].Volume)

	_, err = s.ImportFile(ctx, types.SourceTRDizin, responsePath, &log)
	assert.ErrorContains(t, err, "no \"trdizin\" bucket")

	_, err = s.ImportFile(ctx, types.SourceTRDizin, filepath.Join(dir, "missing.yaml"), &log)
	assert.Error(t, err)
}

func TestExportRoundTrip(t *testing.T) {
	s := testStore(t)
	seed(t, s)
	ctx := context.Background()

	var jsonOut bytes.Buffer
	require.NoError(t, s.ExportJSON(ctx, &jsonOut, types.SourceYokTez))

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(jsonOut.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "yoktez", entries[0]["catalog_source"])
	assert.Equal(t, "55", entries[0]["thesis_id"])

	path := filepath.Join(t.TempDir(), "yoktez.json")
	require.NoError(t, os.WriteFile(path, jsonOut.Bytes(), 0o644))

	other := testStore(t)
	sum, err := other.ImportFile(ctx, types.SourceYokTez, path, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Imported)

	var yamlOut bytes.Buffer
	require.NoError(t, s.ExportYAML(ctx, &yamlOut, ""))
	assert.Contains(t, yamlOut.String(), "catalog_source: dergipark")
	assert.Contains(t, yamlOut.String(), "catalog_source: trdizin")

	records, err := DecodeRecords(yamlOut.Bytes(), ".yaml", types.SourceDergipark)
	require.NoError(t, err)
	assert.Len(t, records, 7)
}
