// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pdiddy/research-view/pkg/types"
)

// MinKeywordLength is the shortest keyword a search accepts, in characters.
const MinKeywordLength = 3

// AllResults as MaxResults asks for every match.
const AllResults = -1

// Query holds the parameters of one search request.
type Query struct {
	Keyword string `validate:"required,min=3"`

	// Sources lists the requested source keys in order. Empty means all.
	Sources []string `validate:"dive,oneof=dergipark trdizin yoktez"`

	// MaxResults caps results per source; 0 uses the server default and
	// AllResults disables the cap.
	MaxResults int `validate:"gte=-1"`

	// Threshold is high, medium or low; empty uses the server default.
	Threshold string `validate:"omitempty,oneof=high medium low"`
}

var validate = validator.New()

// ErrInvalidQuery is wrapped by every validation failure.
var ErrInvalidQuery = errors.New("invalid query")

// Validate checks q and returns an error naming the first bad field.
func (q Query) Validate() error {
	err := validate.Struct(q)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	fe := verrs[0]
	field := fe.StructField()
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	switch field {
	case "Keyword":
		if fe.Tag() == "required" {
			return fmt.Errorf("%w: keyword is required", ErrInvalidQuery)
		}
		return fmt.Errorf("%w: keyword must be at least %d characters", ErrInvalidQuery, MinKeywordLength)
	case "Sources":
		return fmt.Errorf("%w: unknown source %q", ErrInvalidQuery, fe.Value())
	case "MaxResults":
		return fmt.Errorf("%w: max_results must be a positive number or \"all\"", ErrInvalidQuery)
	case "Threshold":
		return fmt.Errorf("%w: similarity_threshold must be high, medium or low", ErrInvalidQuery)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidQuery, fe.Error())
	}
}

// Reason returns the message of a validation error without the
// ErrInvalidQuery prefix, for showing to users.
func Reason(err error) string {
	return strings.TrimPrefix(err.Error(), ErrInvalidQuery.Error()+": ")
}

// RequestedSources returns the sources to search: q.Sources, or every
// known source when none were named.
func (q Query) RequestedSources() []string {
	if len(q.Sources) == 0 {
		return types.KnownSources
	}
	return q.Sources
}

// Values encodes q as URL query parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("keyword", q.Keyword)
	if len(q.Sources) > 0 {
		v.Set("sources", strings.Join(q.Sources, ","))
	}
	switch {
	case q.MaxResults == AllResults:
		v.Set("max_results", "all")
	case q.MaxResults > 0:
		v.Set("max_results", strconv.Itoa(q.MaxResults))
	}
	if q.Threshold != "" {
		v.Set("similarity_threshold", q.Threshold)
	}
	return v
}

// ParseQuery reads a Query from URL query parameters. sources may repeat
// or be comma-separated; relevance_threshold is accepted as an alias of
// similarity_threshold. The result is not validated.
func ParseQuery(v url.Values) (Query, error) {
	q := Query{
		Keyword:   strings.TrimSpace(v.Get("keyword")),
		Threshold: strings.ToLower(strings.TrimSpace(v.Get("similarity_threshold"))),
	}
	if q.Threshold == "" {
		q.Threshold = strings.ToLower(strings.TrimSpace(v.Get("relevance_threshold")))
	}

	for _, raw := range v["sources"] {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				q.Sources = append(q.Sources, s)
			}
		}
	}

	n, err := ParseMaxResults(v.Get("max_results"))
	if err != nil {
		return q, err
	}
	q.MaxResults = n
	return q, nil
}

// ParseMaxResults reads a max_results value: a count, "all", or empty.
func ParseMaxResults(s string) (int, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case "all":
		return AllResults, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: max_results must be a positive number or \"all\", got %q", ErrInvalidQuery, s)
	}
	return n, nil
}
