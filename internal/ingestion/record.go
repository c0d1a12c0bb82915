package ingestion

import (
	"strings"
	"time"
)

// reviewTimeLayout matches the source's "MM DD, YYYY" dates, with or without
// zero padding (e.g. "03 15, 2014", "9 5, 2013").
const reviewTimeLayout = "1 2, 2006"

// Record is one decoded input line. Every optional source field is an
// explicit optional type with a stated default; the accessors below apply
// the defaults.
type Record struct {
	ReviewerID     *string  `json:"reviewerID"`
	ReviewerName   *string  `json:"reviewerName"`
	ASIN           *string  `json:"asin"`
	Overall        *float64 `json:"overall"`
	ReviewTime     *string  `json:"reviewTime"`
	UnixReviewTime *int64   `json:"unixReviewTime"`
	ReviewText     *string  `json:"reviewText"`
	Summary        *string  `json:"summary"`
	Helpful        []int    `json:"helpful"`
}

// ReviewerKey returns the natural key for the user. A missing reviewerID is
// treated as the empty-string literal key, not rejected.
func (r *Record) ReviewerKey() string {
	if r.ReviewerID == nil {
		return ""
	}
	return *r.ReviewerID
}

// ProductKey returns the natural key for the product, empty when absent.
func (r *Record) ProductKey() string {
	if r.ASIN == nil {
		return ""
	}
	return *r.ASIN
}

// Rating defaults to 0 when the field is absent.
func (r *Record) Rating() float64 {
	if r.Overall == nil {
		return 0
	}
	return *r.Overall
}

// Timestamp defaults to 0 when the field is absent.
func (r *Record) Timestamp() int64 {
	if r.UnixReviewTime == nil {
		return 0
	}
	return *r.UnixReviewTime
}

// Date parses the textual review date. Parse failure yields nil, never an
// error: the record is still ingested with a null date.
func (r *Record) Date() *time.Time {
	if r.ReviewTime == nil {
		return nil
	}
	return ParseReviewTime(*r.ReviewTime)
}

func (r *Record) Text() string {
	if r.ReviewText == nil {
		return ""
	}
	return *r.ReviewText
}

func (r *Record) SummaryText() string {
	if r.Summary == nil {
		return ""
	}
	return *r.Summary
}

// HelpfulVotes returns the (positive, total) helpfulness pair, defaulting
// missing elements to 0.
func (r *Record) HelpfulVotes() (up, total int) {
	if len(r.Helpful) > 0 {
		up = r.Helpful[0]
	}
	if len(r.Helpful) > 1 {
		total = r.Helpful[1]
	}
	return up, total
}

// ParseReviewTime converts a "MM DD, YYYY" string to a date. It returns nil
// when the string does not parse.
func ParseReviewTime(s string) *time.Time {
	t, err := time.Parse(reviewTimeLayout, strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &t
}
