package utils

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var yearRegex = regexp.MustCompile(`\b(1[89]\d{2}|20\d{2})\b`)

// ParseYear extracts the year from an upstream date string.
// Accepts "2009-05-01", "2009" and free text containing a 4-digit year.
// Returns 0 if no year is found
func ParseYear(date string) int {
	date = strings.TrimSpace(date)
	if date == "" {
		return 0
	}

	if len(date) >= 4 {
		if year, err := strconv.Atoi(date[:4]); err == nil && year > 0 {
			return year
		}
	}

	matches := yearRegex.FindStringSubmatch(date)
	if len(matches) > 1 {
		year, err := strconv.Atoi(matches[1])
		if err == nil {
			return year
		}
	}
	return 0
}

var spaceRegex = regexp.MustCompile(`\s+`)

// NormalizeTitle folds a title for comparison: diacritics removed, lower case,
// punctuation dropped, whitespace collapsed
func NormalizeTitle(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}

	folded = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r), r == '-', r == '_':
			return ' '
		default:
			return -1
		}
	}, folded)

	return strings.TrimSpace(spaceRegex.ReplaceAllString(folded, " "))
}

// UpgradeScheme rewrites an http:// URL to https://
func UpgradeScheme(rawURL string) string {
	if strings.HasPrefix(rawURL, "http://") {
		return "https://" + strings.TrimPrefix(rawURL, "http://")
	}
	return rawURL
}

// StripMarkup returns the visible text of an HTML fragment with block
// boundaries turned into single spaces
func StripMarkup(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.TrimSpace(spaceRegex.ReplaceAllString(fragment, " "))
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	doc.Find("p, br, li, div, h1, h2, h3, h4, tr").AfterHtml(" ")

	return strings.TrimSpace(spaceRegex.ReplaceAllString(doc.Text(), " "))
}
