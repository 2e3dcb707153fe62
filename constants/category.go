package constants

// Reserved category labels. These are never part of a user-configured
// category set but may appear on output records.
const (
	// OtherCategory is the forced fallback assigned when both batch and
	// per-item categorization fail to produce an in-set category.
	OtherCategory = "Other"

	// ParseOnlyCategory marks records produced by a parse-only run, where
	// categorization was skipped entirely.
	ParseOnlyCategory = "(parse-only)"
)
