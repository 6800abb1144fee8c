package services

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/fleetlens-io/fleetlens-engine/pkg/models"
)

// Upload filenames encode their reporting period in loosely standardized
// tokens ("Report_2024_Q1.csv", "Agents Week 12 2025.csv"). The extractor
// pulls those tokens out so the similarity scorer can reason about period
// succession, and strips them so the remaining basenames compare cleanly.

var (
	yearTokenRe    = regexp.MustCompile(`20\d{2}`)
	quarterTokenRe = regexp.MustCompile(`(?i)Q([1-4])`)
	weekTokenRe    = regexp.MustCompile(`(?i)(?:Week\s*|W)(\d{1,2})`)
	separatorRe    = regexp.MustCompile(`[\s_\-.]+`)
)

// ExtractTemporalTokens parses year, quarter and week markers from a
// filename. Absent tokens are left zero.
func ExtractTemporalTokens(filename string) models.TemporalTokens {
	var tokens models.TemporalTokens
	if m := yearTokenRe.FindString(filename); m != "" {
		tokens.Year, _ = strconv.Atoi(m)
	}
	if m := quarterTokenRe.FindStringSubmatch(filename); m != nil {
		tokens.Quarter, _ = strconv.Atoi(m[1])
	}
	if m := weekTokenRe.FindStringSubmatch(filename); m != nil {
		tokens.Week, _ = strconv.Atoi(m[1])
	}
	return tokens
}

// StripTemporalTokens removes the file extension, all temporal tokens and
// all separator runs from a filename and lower-cases the remainder. The
// result is the stable "basename" two periodic uploads of the same report
// share.
func StripTemporalTokens(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	base = weekTokenRe.ReplaceAllString(base, "")
	base = quarterTokenRe.ReplaceAllString(base, "")
	base = yearTokenRe.ReplaceAllString(base, "")
	base = separatorRe.ReplaceAllString(base, "")
	return strings.ToLower(base)
}
