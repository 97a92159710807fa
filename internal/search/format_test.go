// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-view/internal/normalize"
	"github.com/pdiddy/research-view/internal/view"
	"github.com/pdiddy/research-view/pkg/types"
)

func sampleOutput() Output {
	return Output{
		Query:   Query{Keyword: "göç", Sources: []string{"dergipark", "yoktez"}, Threshold: "low"},
		Backend: "mock",
		Shape:   normalize.ShapeStandard,
		Elapsed: 1500 * time.Millisecond,
		Sections: types.Sections{
			{Key: "dergipark", Bucket: types.SourceBucket{Results: []types.ArticleRecord{
				{Title: "Göç ve kent", Authors: "Ayşe Yılmaz, Ali Demir", PublicationDate: "2021-03-04", URL: "https://dergipark.org.tr/x", Volume: "12", Issue: "N/A", Keywords: "göç, kent", SimilarityScore: types.Float64Ptr(0.7), Rank: 1, JournalSlug: "sosyoloji"},
			}}},
			{Key: "trdizin", Bucket: types.SourceBucket{}},
			{Key: "yoktez", Bucket: types.SourceBucket{Results: []types.ArticleRecord{
				{Title: "Göç tezi", Authors: "Can", Year: "2019", ThesisID: "555", JournalSlug: "yoktez"},
			}}},
		},
	}
}

func TestFormatTable(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(sampleOutput(), view.English, &buf)
	out := buf.String()

	assert.Contains(t, out, "DergiPark (1)")
	assert.Contains(t, out, "YÖK Tez (1)")
	assert.NotContains(t, out, "TR Dizin")
	assert.Contains(t, out, "Göç ve kent")
	assert.Contains(t, out, "70%")
	assert.Contains(t, out, "thesis 555")
	assert.Contains(t, out, "https://dergipark.org.tr/x")
	assert.Contains(t, out, "2 results in 1.50s")

	buf.Reset()
	FormatTable(Output{}, view.English, &buf)
	assert.Equal(t, "No results found.\n", buf.String())
}

func TestTruncateAndPadCountRunes(t *testing.T) {
	assert.Equal(t, "çğış", truncate("çğış", 4))
	assert.Equal(t, "çğ...", truncate("çğışöü", 5))
	assert.Equal(t, "öü  ", pad("öü", 4))
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(sampleOutput(), view.English, &buf))

	var sections []jsonSection
	require.NoError(t, json.Unmarshal(buf.Bytes(), &sections))
	require.Len(t, sections, 3)

	dp := sections[0]
	assert.Equal(t, "DergiPark", dp.Name)
	require.Len(t, dp.Records, 1)
	assert.Equal(t, []string{"göç", "kent"}, dp.Records[0].Keywords)
	assert.Equal(t, "open_link", dp.Records[0].Action.Kind)
	assert.Equal(t, "", dp.Records[0].Issue)
	require.NotNil(t, dp.Records[0].Similarity)
	assert.Equal(t, 70, *dp.Records[0].Similarity)

	assert.Empty(t, sections[1].Records)
	assert.Equal(t, "copy_id", sections[2].Records[0].Action.Kind)
	assert.Equal(t, "555", sections[2].Records[0].Action.Value)
}

func TestFormatCSL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatCSL(sampleOutput(), &buf))

	var items []CSLItem
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 2)

	article := items[0]
	assert.Equal(t, "dergipark-1", article.ID)
	assert.Equal(t, "article-journal", article.Type)
	assert.Equal(t, "sosyoloji", article.ContainerTitle)
	assert.Equal(t, "12", article.Volume)
	assert.Empty(t, article.Issue)
	assert.Equal(t, [][]int{{2021, 3, 4}}, article.Issued.DateParts)
	require.Len(t, article.Author, 2)
	assert.Equal(t, CSLName{Given: "Ayşe", Family: "Yılmaz"}, article.Author[0])

	thesis := items[1]
	assert.Equal(t, "555", thesis.ID)
	assert.Equal(t, "thesis", thesis.Type)
	assert.Equal(t, "555", thesis.Number)
	assert.Equal(t, [][]int{{2019}}, thesis.Issued.DateParts)
	assert.Equal(t, []CSLName{{Literal: "Can"}}, thesis.Author)
}

func TestParseIssued(t *testing.T) {
	assert.Nil(t, parseIssued(""))
	assert.Nil(t, parseIssued("Unknown"))
	assert.Equal(t, [][]int{{2020, 1}}, parseIssued("2020-01").DateParts)
	assert.Equal(t, [][]int{{2018, 5, 9}}, parseIssued("2018.05.09").DateParts)
}

func TestFormatHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatHTML(sampleOutput(), nil, view.English, &buf))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Find(".source-section").Length())
	val, _ := doc.Find(`input[name="keyword"]`).Attr("value")
	assert.Equal(t, "göç", val)
	assert.True(t, strings.Contains(doc.Find("script").Text(), "clipboard"))

	buf.Reset()
	require.NoError(t, FormatHTML(Output{Query: Query{Keyword: "x"}}, normalize.ErrNoData, view.English, &buf))
	doc, err = goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	kind, _ := doc.Find(".error").Attr("data-error-kind")
	assert.Equal(t, "no_data", kind)
	assert.Equal(t, 0, doc.Find(".source-section").Length())
}
