package parser

import "regexp"

// Patterns that indicate an extracted line is a statement artifact rather
// than a transaction (reward summaries, totals, payment reminders).
var invalidDescriptionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\+`),
	regexp.MustCompile(`(?i)Points earned`),
	regexp.MustCompile(`(?i)\bPts\b.*for\b`),
	regexp.MustCompile(`(?i)Credit Card$`),
	regexp.MustCompile(`(?i)^Total (Purchases|Balance|Due|Fees|Interest|Credits)`),
	regexp.MustCompile(`(?i)^Balance (Forward|Transfers|Due)`),
	regexp.MustCompile(`(?i)^Minimum Payment`),
	regexp.MustCompile(`(?i)^Payment Due`),
}

// isStatementArtifact reports whether a description matches a known
// non-transaction pattern.
func isStatementArtifact(description string) bool {
	for _, p := range invalidDescriptionPatterns {
		if p.MatchString(description) {
			return true
		}
	}
	return false
}
