package review

// ReviewDocument holds the unstructured side of a review, stored in the
// document collection keyed by the Review surrogate id. The cross-store
// foreign key is not enforced by either store.
type ReviewDocument struct {
	ReviewID   int64  `json:"review_id"`
	ReviewText string `json:"reviewText"`
	Summary    string `json:"summary"`
	// Helpfulness votes: positive votes and total votes cast.
	HelpfulUp    int `json:"helpful_up"`
	HelpfulTotal int `json:"helpful_total"`
}
