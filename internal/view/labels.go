package view

import "github.com/pdiddy/research-view/pkg/types"

// Labels holds the user-visible strings of the result page.
type Labels struct {
	Lang string

	Untitled      string
	UnknownAuthor string
	UnknownDate   string

	CopyID   string
	Copied   string
	CopyFail string
	OpenDOI  string
	OpenLink string
	NoLink   string

	ResultsFor  string
	Results     string
	ExpandAll   string
	CollapseAll string
	Similarity  string
	Volume      string
	Issue       string
	Search      string
	Keyword     string
	Sources     string
	Threshold   string
	MaxResults  string

	NoResultsTitle string
	Suggestions    []string
	ErrorTitle     string

	// LoadingMessages rotate under the busy indicator.
	LoadingMessages []string
}

// English is the default label set.
var English = Labels{
	Lang:          "en",
	Untitled:      "Untitled",
	UnknownAuthor: "Unknown author",
	UnknownDate:   "Unknown date",
	CopyID:        "Copy thesis ID",
	Copied:        "Copied!",
	CopyFail:      "Copy manually:",
	OpenDOI:       "Open DOI",
	OpenLink:      "Open article",
	NoLink:        "No link available",
	ResultsFor:    "Results for",
	Results:       "results",
	ExpandAll:     "Expand all",
	CollapseAll:   "Collapse all",
	Similarity:    "Similarity",
	Volume:        "Vol.",
	Issue:         "No.",
	Search:        "Search",
	Keyword:       "Keyword",
	Sources:       "Sources",
	Threshold:     "Relevance",
	MaxResults:    "Max results",

	NoResultsTitle: "No results found",
	Suggestions: []string{
		"Try broader or fewer search terms.",
		"Lower the relevance threshold.",
		"Select additional sources.",
	},
	ErrorTitle: "Search failed",

	LoadingMessages: []string{
		"Searching journals...",
		"Scanning theses...",
		"Matching keywords...",
		"Ranking results...",
	},
}

// Turkish is the Turkish label set.
var Turkish = Labels{
	Lang:          "tr",
	Untitled:      "Başlık bulunamadı",
	UnknownAuthor: "Yazar bilinmiyor",
	UnknownDate:   "Tarih bilinmiyor",
	CopyID:        "Tez numarasını kopyala",
	Copied:        "Kopyalandı!",
	CopyFail:      "Elle kopyalayın:",
	OpenDOI:       "DOI'yi aç",
	OpenLink:      "Makaleyi aç",
	NoLink:        "Bağlantı yok",
	ResultsFor:    "Arama sonuçları:",
	Results:       "sonuç",
	ExpandAll:     "Tümünü aç",
	CollapseAll:   "Tümünü kapat",
	Similarity:    "Benzerlik",
	Volume:        "Cilt",
	Issue:         "Sayı",
	Search:        "Ara",
	Keyword:       "Anahtar kelime",
	Sources:       "Kaynaklar",
	Threshold:     "Alaka düzeyi",
	MaxResults:    "En fazla sonuç",

	NoResultsTitle: "Sonuç bulunamadı",
	Suggestions: []string{
		"Daha genel veya daha az terim deneyin.",
		"Alaka eşiğini düşürün.",
		"Başka kaynaklar seçin.",
	},
	ErrorTitle: "Arama başarısız",

	LoadingMessages: []string{
		"Dergiler taranıyor...",
		"Tezler inceleniyor...",
		"Anahtar kelimeler eşleştiriliyor...",
		"Sonuçlar sıralanıyor...",
	},
}

// LabelsFor returns the label set for a language code; unknown codes get English.
func LabelsFor(lang string) Labels {
	if lang == "tr" {
		return Turkish
	}
	return English
}

// SourceName returns the display name of a source key.
func SourceName(key string) string {
	switch key {
	case types.SourceDergipark:
		return "DergiPark"
	case types.SourceTRDizin:
		return "TR Dizin"
	case types.SourceYokTez:
		return "YÖK Tez"
	default:
		return key
	}
}
