package domain

import "fmt"

// FormatCaseNumber renders the human-readable case number for a counter value
// allocated within a year. Counters are monotonic per installation and are
// never reused, even after a case is deleted.
func FormatCaseNumber(year int, counter int64) string {
	return fmt.Sprintf("CASE-%04d-%04d", year, counter)
}
