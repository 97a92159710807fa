// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// NoKeywords is stored when a record has no usable keywords.
const NoKeywords = "N/A"

// CleanTitle undoes the escaping some scraped titles carry and collapses
// whitespace.
func CleanTitle(s string) string {
	if s == "" {
		return s
	}
	for _, r := range [][2]string{
		{`\'`, `'`},
		{`\"`, `"`},
		{`\\`, `\`},
		{`\n`, " "},
		{`\t`, " "},
		{`\r`, ""},
	} {
		s = strings.ReplaceAll(s, r[0], r[1])
	}
	return strings.Join(strings.Fields(s), " ")
}

var (
	authorRepeatedCommas = regexp.MustCompile(`,\s*,+`)
	authorLeadingComma   = regexp.MustCompile(`^,\s*`)
	authorTrailingComma  = regexp.MustCompile(`\s*,$`)
	authorSeparator      = regexp.MustCompile(`\s*,\s*`)
	authorDoubleComma    = regexp.MustCompile(`,,+`)
)

// CleanAuthors normalises an author list to "A, B, C".
func CleanAuthors(s string) string {
	if s == "" {
		return s
	}
	s = authorRepeatedCommas.ReplaceAllString(s, ",")
	s = authorLeadingComma.ReplaceAllString(s, "")
	s = authorTrailingComma.ReplaceAllString(s, "")
	s = authorSeparator.ReplaceAllString(s, ", ")
	s = authorDoubleComma.ReplaceAllString(s, ",")
	return strings.TrimRight(strings.TrimSpace(s), ",")
}

var (
	keywordLabels = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:key\s*words?|anahtar\s*kelime(?:ler)?|tags?|subject(?:\s*terms?)?)\s*:\s*`),
		regexp.MustCompile(`(?i)^\s*(?:key\s*words?|anahtar\s*kelime(?:ler)?)\s+`),
		regexp.MustCompile(`(?i)\([^)]*key\s*words?[^)]*\)`),
		regexp.MustCompile(`(?i)\([^)]*anahtar[^)]*\)`),
	}
	keywordLeading   = regexp.MustCompile(`^[,\s;]+`)
	keywordTrailing  = regexp.MustCompile(`[,\s;]+$`)
	keywordSepRun    = regexp.MustCompile(`[,;]\s*[,;]+`)
	keywordSpaceRun  = regexp.MustCompile(`\s+`)
	keywordSentinels = map[string]bool{"": true, "n/a": true, "no keywords": true}
)

// CleanKeywords strips metadata labels such as "Keywords:" or "Anahtar
// Kelimeler:" from a keyword string. It returns NoKeywords when fewer than
// three characters survive.
func CleanKeywords(s string) string {
	s = strings.TrimSpace(s)
	if keywordSentinels[strings.ToLower(s)] {
		return NoKeywords
	}
	for _, re := range keywordLabels {
		s = re.ReplaceAllString(s, "")
	}
	s = keywordLeading.ReplaceAllString(s, "")
	s = keywordTrailing.ReplaceAllString(s, "")
	s = keywordSepRun.ReplaceAllString(s, ",")
	s = strings.TrimSpace(keywordSpaceRun.ReplaceAllString(s, " "))
	if utf8.RuneCountInString(s) < 3 {
		return NoKeywords
	}
	return s
}
