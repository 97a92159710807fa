// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-view/internal/normalize"
	"github.com/pdiddy/research-view/internal/view"
	"github.com/pdiddy/research-view/pkg/types"
)

func sampleSections() types.Sections {
	return types.Sections{
		{Key: "dergipark", Bucket: types.SourceBucket{
			TotalResults: types.IntPtr(2),
			Results: []types.ArticleRecord{
				{Title: "Derin öğrenme", URL: "https://dergipark.org.tr/a/1", Keywords: "ai, ml", SimilarityScore: types.Float64Ptr(0.91), Rank: 1},
				{Title: "Makine öğrenmesi", Rank: 2},
			},
		}},
		{Key: "trdizin", Bucket: types.SourceBucket{Results: []types.ArticleRecord{}}},
		{Key: "yoktez", Bucket: types.SourceBucket{
			Results: []types.ArticleRecord{
				{Title: "Tez", ThesisID: "T123", JournalSlug: "yoktez"},
			},
		}},
		{Key: "arxiv", Bucket: types.SourceBucket{
			Results: []types.ArticleRecord{
				{Title: "DOI record", JournalSlug: "trdizin", DOI: "10.1/x"},
			},
		}},
	}
}

func renderDoc(t *testing.T, v *View) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, v.WriteHTML(&buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestRenderFiltersEmptyBuckets(t *testing.T) {
	v := NewView(view.English)
	v.Render(sampleSections(), "öğrenme")

	assert.Equal(t, PhaseResults, v.Phase())
	assert.Equal(t, "öğrenme", v.Query())

	secs := v.Sections()
	require.Len(t, secs, 3)
	assert.Equal(t, []string{"dergipark", "yoktez", "arxiv"}, []string{secs[0].Key, secs[1].Key, secs[2].Key})
	assert.Equal(t, "DergiPark", secs[0].Name)
	assert.True(t, secs[0].Expanded)
	assert.False(t, secs[1].Expanded)
	assert.False(t, secs[2].Expanded)
	assert.Equal(t, 2, secs[0].Total)
}

func TestRenderEmptyResultSet(t *testing.T) {
	v := NewView(view.English)
	v.Render(types.Sections{{Key: "a", Bucket: types.SourceBucket{}}}, "nothing")

	assert.Equal(t, PhaseEmpty, v.Phase())
	assert.Empty(t, v.Sections())

	doc := renderDoc(t, v)
	assert.Equal(t, "No results found", strings.TrimSpace(doc.Find(".no-results h2").Text()))
	assert.Equal(t, 3, doc.Find(".suggestions li").Length())
	assert.Equal(t, 0, doc.Find(".source-section").Length())
}

func TestRenderDiscardsPreviousSearch(t *testing.T) {
	v := NewView(view.English)
	v.Render(sampleSections(), "first")
	v.CollapseAll()

	v.Render(types.Sections{{Key: "trdizin", Bucket: types.SourceBucket{
		Results: []types.ArticleRecord{{Title: "x"}},
	}}}, "second")

	secs := v.Sections()
	require.Len(t, secs, 1)
	assert.Equal(t, "trdizin", secs[0].Key)
	assert.True(t, secs[0].Expanded)
	assert.Equal(t, "second", v.Query())
}

func TestToggleIsTwoStateFlip(t *testing.T) {
	v := NewView(view.English)
	v.Render(sampleSections(), "q")

	for _, key := range []string{"dergipark", "yoktez", "arxiv"} {
		before, ok := v.Expanded(key)
		require.True(t, ok)

		v.Toggle(key)
		mid, _ := v.Expanded(key)
		assert.Equal(t, !before, mid, key)

		v.Toggle(key)
		after, _ := v.Expanded(key)
		assert.Equal(t, before, after, key)
	}

	_, ok := v.Expanded("missing")
	assert.False(t, ok)
	v.Toggle("missing")
}

func TestExpandAllThenCollapseAll(t *testing.T) {
	v := NewView(view.English)
	v.Render(sampleSections(), "q")
	v.Toggle("yoktez")

	v.ExpandAll()
	for _, s := range v.Sections() {
		assert.True(t, s.Expanded, s.Key)
	}

	v.CollapseAll()
	for _, s := range v.Sections() {
		assert.False(t, s.Expanded, s.Key)
	}

	doc := renderDoc(t, v)
	doc.Find(".section-body").Each(func(_ int, s *goquery.Selection) {
		_, hidden := s.Attr("hidden")
		assert.True(t, hidden)
	})
}

func TestShowErrorIsTerminal(t *testing.T) {
	v := NewView(view.English)
	v.Render(sampleSections(), "q")
	v.ShowError("backend unavailable")

	assert.Equal(t, PhaseError, v.Phase())
	assert.Empty(t, v.Sections())
	msg, kind := v.Error()
	assert.Equal(t, "backend unavailable", msg)
	assert.Equal(t, ErrorRequest, kind)

	doc := renderDoc(t, v)
	assert.Equal(t, "backend unavailable", doc.Find(".error .error-message").Text())
	assert.Equal(t, 0, doc.Find(".source-section").Length())
}

func TestFailClassifiesNormalizerErrors(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{normalize.ErrNoData, ErrorNoData},
		{&normalize.FormatError{Keys: []string{"foo"}}, ErrorUnrecognizedFormat},
		{fmt.Errorf("fetch: %w", normalize.ErrNoData), ErrorNoData},
		{fmt.Errorf("connection refused"), ErrorRequest},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			v := NewView(view.English)
			v.Fail(tt.err)
			_, kind := v.Error()
			assert.Equal(t, tt.want, kind)
			assert.Equal(t, PhaseError, v.Phase())

			doc := renderDoc(t, v)
			got, _ := doc.Find(".error").Attr("data-error-kind")
			assert.Equal(t, tt.want.String(), got)
		})
	}

	assert.Equal(t, ErrorNone, KindOf(nil))
}

func TestFormatErrorMessageNamesKeys(t *testing.T) {
	_, err := normalize.Normalize([]byte(`{"foo":1,"bar":2}`), nil)
	require.Error(t, err)

	v := NewView(view.English)
	v.Fail(err)
	msg, _ := v.Error()
	assert.Contains(t, msg, "bar")
	assert.Contains(t, msg, "foo")
}

func TestLoadingLifecycle(t *testing.T) {
	anim := NewLoadingAnimationController(view.English.LoadingMessages, nil)
	v := NewView(view.English, WithAnimation(anim))
	v.Render(sampleSections(), "q")

	v.ShowLoading()
	assert.Equal(t, PhaseLoading, v.Phase())
	assert.Empty(t, v.Sections())
	assert.True(t, anim.Running())

	doc := renderDoc(t, v)
	_, hidden := doc.Find("#loading").Attr("hidden")
	assert.False(t, hidden)

	v.Render(sampleSections(), "q")
	assert.False(t, anim.Running())

	v.HideLoading()
	assert.Equal(t, PhaseResults, v.Phase())

	v.ShowLoading()
	v.HideLoading()
	v.HideLoading()
	assert.Equal(t, PhaseIdle, v.Phase())
	assert.False(t, anim.Running())
}

func TestWriteHTMLActions(t *testing.T) {
	v := NewView(view.English)
	v.Render(sampleSections(), "öğrenme")
	doc := renderDoc(t, v)

	assert.Equal(t, 3, doc.Find(".source-section").Length())
	assert.Equal(t, "öğrenme", doc.Find(".results-header q").Text())
	assert.Equal(t, "4 results", doc.Find(".results-total").Text())

	first := doc.Find(`.source-section[data-section="dergipark"]`)
	assert.True(t, first.HasClass("expanded"))
	expanded, _ := first.Find(".section-header").Attr("aria-expanded")
	assert.Equal(t, "true", expanded)

	articles := first.Find(".article")
	require.Equal(t, 2, articles.Length())

	link := articles.Eq(0).Find("a.action-link")
	href, _ := link.Attr("href")
	assert.Equal(t, "https://dergipark.org.tr/a/1", href)
	assert.Equal(t, "Similarity: 91%", articles.Eq(0).Find(".similarity").Text())
	assert.Equal(t, 2, articles.Eq(0).Find(".keyword").Length())
	assert.Equal(t, 1, articles.Eq(1).Find(".action-none").Length())
	assert.Equal(t, "Unknown author", articles.Eq(1).Find(".article-authors").Text())

	copyBtn := doc.Find(`[data-section="yoktez"] .action-copy`)
	id, _ := copyBtn.Attr("data-copy")
	assert.Equal(t, "T123", id)

	_, hidden := doc.Find(`[data-section="yoktez"] .section-body`).Attr("hidden")
	assert.True(t, hidden)

	doi, _ := doc.Find(`[data-section="arxiv"] a.action-doi`).Attr("href")
	assert.Equal(t, "https://doi.org/10.1/x", doi)

	script, _ := doc.Find("script").Attr("src")
	assert.Equal(t, "/static/app.js", script)
}

func TestWriteHTMLInlineAssets(t *testing.T) {
	v := NewView(view.Turkish, WithInlineAssets())
	v.Render(types.Sections{}, "yok")
	doc := renderDoc(t, v)

	assert.Contains(t, doc.Find("script").Text(), "COPY_REVERT_MS")
	assert.Contains(t, doc.Find("style").Text(), ".source-section")
	assert.Equal(t, "Sonuç bulunamadı", strings.TrimSpace(doc.Find(".no-results h2").Text()))
	lang, _ := doc.Find("html").Attr("lang")
	assert.Equal(t, "tr", lang)
}

func TestWriteHTMLForm(t *testing.T) {
	v := NewView(view.English)
	v.SetForm(Form{Keyword: "iklim", Sources: []string{"trdizin"}, Threshold: "low", MaxResults: "all"})
	doc := renderDoc(t, v)

	val, _ := doc.Find(`input[name="keyword"]`).Attr("value")
	assert.Equal(t, "iklim", val)
	_, checked := doc.Find(`input[value="trdizin"]`).Attr("checked")
	assert.True(t, checked)
	_, checked = doc.Find(`input[value="yoktez"]`).Attr("checked")
	assert.False(t, checked)
	_, selected := doc.Find(`option[value="low"]`).Attr("selected")
	assert.True(t, selected)
	phase, _ := doc.Find("body").Attr("data-phase")
	assert.Equal(t, "idle", phase)
}

func TestSessionIDsAreUnique(t *testing.T) {
	a := NewView(view.English)
	b := NewView(view.English)
	assert.NotEmpty(t, a.SessionID())
	assert.NotEqual(t, a.SessionID(), b.SessionID())
}
