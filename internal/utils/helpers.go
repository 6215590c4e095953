package utils

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"
	"github.com/fr4nk3nst1ner/jobboard/internal/models"
)

const (
	notSpecified    = "Not specified"
	defaultCurrency = "PKR"
	newJobMaxDays   = 6
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// FormatSalary renders the pay of a job the way job cards and the detail pane show it.
// salaryMin/salaryMax win over the salary field; the salary field may be a
// {min,max,currency} object or a legacy scalar.
func FormatSalary(job models.Job) string {
	if job.SalaryMin.Valid && job.SalaryMax.Valid {
		return "Rs " + formatAmount(job.SalaryMin.Value) + " - " + formatAmount(job.SalaryMax.Value)
	}

	salary := job.Salary
	if salary.IsRange() {
		if !salary.Min.Valid || !salary.Max.Valid {
			return notSpecified
		}
		return currencyPrefix(salary.Currency) + " " + formatAmount(salary.Min.Value) + " - " + formatAmount(salary.Max.Value)
	}

	if salary.Amount.Valid {
		return "Rs " + formatAmount(salary.Amount.Value)
	}
	if salary.Text != "" {
		return "Rs " + salary.Text
	}

	return notSpecified
}

// currencyPrefix maps a currency code to its display prefix
func currencyPrefix(currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = defaultCurrency
	}
	if code == defaultCurrency {
		return "Rs"
	}
	return code
}

// formatAmount adds thousands separators, keeping fractional digits only when present
func formatAmount(v float64) string {
	return humanize.Commaf(v)
}

// DaysAgo returns the number of whole days between createdAt and now.
// ok is false when the timestamp is missing.
func DaysAgo(createdAt, now time.Time) (days int, ok bool) {
	if createdAt.IsZero() {
		return 0, false
	}
	elapsed := now.Sub(createdAt)
	return int(math.Floor(elapsed.Hours() / 24)), true
}

// DaysAgoLabel renders the caption shown on job cards
func DaysAgoLabel(createdAt, now time.Time) string {
	days, ok := DaysAgo(createdAt, now)
	switch {
	case !ok:
		return ""
	case days == 0:
		return "Today"
	case days == 1:
		return "1 day ago"
	}
	return humanize.Comma(int64(days)) + " days ago"
}

// IsNewJob reports whether a job was posted within the last week
func IsNewJob(createdAt, now time.Time) bool {
	days, ok := DaysAgo(createdAt, now)
	return ok && days <= newJobMaxDays
}

// ProfileCompletion returns how much of the profile is filled in, as a percentage
func ProfileCompletion(user *models.User) int {
	if user == nil {
		return 0
	}
	fields := []bool{
		user.FullName != "",
		user.Email != "",
		user.PhoneNumber != "",
		user.Profile.Bio != "",
		len(user.Profile.Skills) > 0,
		user.Profile.Resume != "",
		user.Profile.ProfilePhoto != "",
	}
	filled := 0
	for _, f := range fields {
		if f {
			filled++
		}
	}
	return int(math.Round(float64(filled) / float64(len(fields)) * 100))
}

// PlainText strips the markup that rich-text job descriptions carry
func PlainText(html string) string {
	if !strings.Contains(html, "<") {
		return strings.TrimSpace(html)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	// Keep list items and paragraphs on separate words
	doc.Find("br, p, li, div").Each(func(i int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	text := whitespaceRegex.ReplaceAllString(doc.Text(), " ")
	return strings.TrimSpace(text)
}

// HighlightMatches wraps every case-insensitive occurrence of term in text with mark
func HighlightMatches(text, term string, mark func(string) string) string {
	term = strings.TrimSpace(term)
	if term == "" || mark == nil {
		return text
	}
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(term))
	if err != nil {
		return text
	}
	return re.ReplaceAllStringFunc(text, mark)
}

// TruncateString truncates a string to the specified length and adds "..." if necessary
func TruncateString(s string, length int) string {
	runes := []rune(s)
	if len(runes) <= length {
		return s
	}
	if length <= 3 {
		return string(runes[:length])
	}
	return string(runes[:length-3]) + "..."
}
