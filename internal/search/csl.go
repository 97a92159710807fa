// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-view/internal/view"
	"github.com/pdiddy/research-view/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-JSON/CSL-YAML schema
// so that output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Volume         string    `yaml:"volume,omitempty"`
	Issue          string    `yaml:"issue,omitempty"`
	Keyword        string    `yaml:"keyword,omitempty"`
	Genre          string    `yaml:"genre,omitempty"`
	Number         string    `yaml:"number,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// FormatCSL writes every record of every section as a CSL-YAML list to w.
func FormatCSL(out Output, w io.Writer) error {
	items := []CSLItem{}
	for _, sec := range out.Sections {
		for i, r := range sec.Bucket.Results {
			items = append(items, toCSLItem(sec.Key, i, r))
		}
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// toCSLItem converts a record of source to a CSLItem. idx numbers records
// that carry no identifier.
func toCSLItem(source string, idx int, r types.ArticleRecord) CSLItem {
	title := firstNonEmpty(r.Title, r.TitleTurkish, r.TitleEnglish)
	item := CSLItem{
		ID:     cslID(source, idx, r),
		Type:   "article-journal",
		Title:  title,
		Volume: cslValue(r.Volume),
		Issue:  cslValue(r.Issue),
		DOI:    strings.TrimSpace(r.DOI),
		URL:    cslValue(r.URL),
	}

	if kws := view.ParseKeywords(r.Keywords); len(kws) > 0 {
		item.Keyword = strings.Join(kws, ", ")
	}

	if view.IsThesis(r) {
		item.Type = "thesis"
		item.Genre = "Thesis"
		item.Number = strings.TrimSpace(r.ThesisID)
	} else if r.JournalSlug != "" && r.JournalSlug != types.SourceTRDizin {
		item.ContainerTitle = r.JournalSlug
	}

	for _, a := range strings.Split(r.Authors, ",") {
		if a = strings.TrimSpace(a); a != "" && cslValue(a) != "" {
			item.Author = append(item.Author, parseAuthorName(a))
		}
	}

	item.Issued = parseIssued(firstNonEmpty(cslValue(r.PublicationDate), cslValue(r.Year)))
	return item
}

func cslID(source string, idx int, r types.ArticleRecord) string {
	if id := firstNonEmpty(r.ThesisID, r.DOI, r.ArticleID); id != "" {
		return id
	}
	return source + "-" + strconv.Itoa(idx+1)
}

// cslValue drops placeholder values such as "N/A" and "Unknown".
func cslValue(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "n/a", "unknown", "nan", "none", "#":
		return ""
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

var datePattern = regexp.MustCompile(`^(\d{4})(?:[-./](\d{1,2}))?(?:[-./](\d{1,2}))?`)

// parseIssued reads a leading YYYY[-MM[-DD]] date. Anything else yields nil.
func parseIssued(s string) *CSLDate {
	m := datePattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	var parts []int
	for _, p := range m[1:] {
		if p == "" {
			break
		}
		n, _ := strconv.Atoi(p)
		parts = append(parts, n)
	}
	return &CSLDate{DateParts: [][]int{parts}}
}

// parseAuthorName splits a full name string into CSL family/given parts.
// It splits on the last space: everything before is given, the last token
// is family. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
