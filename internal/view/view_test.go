// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package view

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/research-view/pkg/types"
)

func TestClassifyAction(t *testing.T) {
	tests := []struct {
		name   string
		record types.ArticleRecord
		want   Action
	}{
		{
			"thesis id",
			types.ArticleRecord{ThesisID: "T123"},
			Action{Kind: ActionCopyID, Value: "T123"},
		},
		{
			"yoktez slug without id",
			types.ArticleRecord{JournalSlug: "yoktez", URL: "http://x"},
			Action{Kind: ActionCopyID, Value: UnknownThesisID},
		},
		{
			"yok tez label",
			types.ArticleRecord{Source: "YÖK Tez (Local)", ThesisID: "42"},
			Action{Kind: ActionCopyID, Value: "42"},
		},
		{
			"thesis wins over doi source",
			types.ArticleRecord{ThesisID: "9", JournalSlug: "trdizin", DOI: "10.1/x"},
			Action{Kind: ActionCopyID, Value: "9"},
		},
		{
			"trdizin slug with doi",
			types.ArticleRecord{JournalSlug: "trdizin", DOI: "10.1/x"},
			Action{Kind: ActionOpenDOI, Value: "10.1/x"},
		},
		{
			"trdizin label with doi",
			types.ArticleRecord{Source: "TRDizin (Local)", DOI: "10.2/y", URL: "http://z"},
			Action{Kind: ActionOpenDOI, Value: "10.2/y"},
		},
		{
			"tr dizin label with doi",
			types.ArticleRecord{Source: "TR Dizin", DOI: "10.3/z"},
			Action{Kind: ActionOpenDOI, Value: "10.3/z"},
		},
		{
			"trdizin without doi falls through to url",
			types.ArticleRecord{JournalSlug: "trdizin", URL: "http://a"},
			Action{Kind: ActionOpenLink, Value: "http://a"},
		},
		{
			"trdizin without doi or url",
			types.ArticleRecord{JournalSlug: "trdizin"},
			Action{Kind: ActionNone},
		},
		{
			"doi outside a doi source is ignored",
			types.ArticleRecord{DOI: "10.1/x"},
			Action{Kind: ActionNone},
		},
		{
			"url",
			types.ArticleRecord{URL: "http://x"},
			Action{Kind: ActionOpenLink, Value: "http://x"},
		},
		{
			"placeholder url",
			types.ArticleRecord{URL: "#"},
			Action{Kind: ActionNone},
		},
		{
			"blank thesis id is absent",
			types.ArticleRecord{ThesisID: "  ", URL: "http://x"},
			Action{Kind: ActionOpenLink, Value: "http://x"},
		},
		{
			"empty",
			types.ArticleRecord{},
			Action{Kind: ActionNone},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyAction(tt.record))
		})
	}
}

func TestActionHref(t *testing.T) {
	assert.Equal(t, "https://doi.org/10.1/x", Action{Kind: ActionOpenDOI, Value: "10.1/x"}.Href())
	assert.Equal(t, "https://doi.org/10.1/x", Action{Kind: ActionOpenDOI, Value: "doi:10.1/x"}.Href())
	assert.Equal(t, "https://doi.org/10.1/x", Action{Kind: ActionOpenDOI, Value: "https://doi.org/10.1/x"}.Href())
	assert.Equal(t, "http://x", Action{Kind: ActionOpenLink, Value: "http://x"}.Href())
	assert.Equal(t, "", Action{Kind: ActionCopyID, Value: "1"}.Href())
}

func TestParseKeywords(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a, b ,c,,d", []string{"a", "b", "c", "d"}},
		{"1,2,3,4,5,6,7", []string{"1", "2", "3", "4", "5"}},
		{" , ,", []string{}},
		{"", []string{}},
		{"N/A", []string{}},
		{"No keywords", []string{}},
		{"iklim değişikliği", []string{"iklim değişikliği"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseKeywords(tt.in))
		})
	}
}

func TestBuildDisplayRecordFallbacks(t *testing.T) {
	d := BuildDisplayRecord(types.ArticleRecord{})

	assert.Equal(t, "Untitled", d.Title)
	assert.Equal(t, "Unknown author", d.Authors)
	assert.Equal(t, "Unknown date", d.Date)
	assert.Empty(t, d.Keywords)
	assert.Nil(t, d.Similarity)
	assert.Equal(t, ActionNone, d.Action.Kind)
}

func TestBuildDisplayRecordTurkishLabels(t *testing.T) {
	d := Builder{Labels: Turkish}.Build(types.ArticleRecord{Title: "Unknown", PublicationDate: "N/A"})
	assert.Equal(t, "Başlık bulunamadı", d.Title)
	assert.Equal(t, "Yazar bilinmiyor", d.Authors)
	assert.Equal(t, "Tarih bilinmiyor", d.Date)
}

func TestBuildDisplayRecord(t *testing.T) {
	rec := types.ArticleRecord{
		TitleTurkish:    "Yapay zeka ve eğitim",
		Authors:         "Ayşe Yılmaz, Ali Demir",
		PublicationDate: "Unknown",
		Year:            "2021",
		Keywords:        "yapay zeka, eğitim, , öğrenme",
		Volume:          "N/A",
		Issue:           "3",
		URL:             "https://dergipark.org.tr/tr/pub/x/1",
		SimilarityScore: types.Float64Ptr(0.876),
		Rank:            2,
	}

	d := BuildDisplayRecord(rec)

	assert.Equal(t, "Yapay zeka ve eğitim", d.Title)
	assert.Equal(t, "Ayşe Yılmaz, Ali Demir", d.Authors)
	assert.Equal(t, "2021", d.Date, "year is used when publication_date is a placeholder")
	assert.Equal(t, []string{"yapay zeka", "eğitim", "öğrenme"}, d.Keywords)
	assert.Equal(t, "", d.Volume)
	assert.Equal(t, "3", d.Issue)
	assert.Equal(t, 2, d.Rank)
	if assert.NotNil(t, d.Similarity) {
		assert.Equal(t, 88, *d.Similarity)
	}
	assert.Equal(t, Action{Kind: ActionOpenLink, Value: rec.URL}, d.Action)
}

func TestBuildDisplayRecordSimilarity(t *testing.T) {
	tests := []struct {
		name  string
		score *float64
		want  *int
	}{
		{"unscored", nil, nil},
		{"zero", types.Float64Ptr(0), types.IntPtr(0)},
		{"one", types.Float64Ptr(1), types.IntPtr(100)},
		{"rounds half up", types.Float64Ptr(0.125), types.IntPtr(13)},
		{"nan", types.Float64Ptr(math.NaN()), nil},
		{"positive infinity", types.Float64Ptr(math.Inf(1)), nil},
		{"negative infinity", types.Float64Ptr(math.Inf(-1)), nil},
		{"huge", types.Float64Ptr(1e300), nil},
		{"above one", types.Float64Ptr(1.5), nil},
		{"negative", types.Float64Ptr(-0.2), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := BuildDisplayRecord(types.ArticleRecord{SimilarityScore: tt.score})
			assert.Equal(t, tt.want, d.Similarity)
		})
	}
}

func TestBuildDisplayRecordPrefersPublicationDate(t *testing.T) {
	d := BuildDisplayRecord(types.ArticleRecord{PublicationDate: "2020-05-01", Year: "2019"})
	assert.Equal(t, "2020-05-01", d.Date)
}

func TestLabelsFor(t *testing.T) {
	assert.Equal(t, "tr", LabelsFor("tr").Lang)
	assert.Equal(t, "en", LabelsFor("en").Lang)
	assert.Equal(t, "en", LabelsFor("de").Lang)
}

func TestSourceName(t *testing.T) {
	assert.Equal(t, "DergiPark", SourceName("dergipark"))
	assert.Equal(t, "TR Dizin", SourceName("trdizin"))
	assert.Equal(t, "YÖK Tez", SourceName("yoktez"))
	assert.Equal(t, "arxiv", SourceName("arxiv"))
}
