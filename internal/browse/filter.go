// Package browse holds the job list view logic: filtering, selection,
// windowed paging and the detail pane.
package browse

import (
	"strings"

	"github.com/fr4nk3nst1ner/jobboard/internal/models"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Group is a filter category; each group holds at most one value
type Group string

const (
	GroupIndustry Group = "Industry"
	GroupLocation Group = "Location"
	GroupSalary   Group = "Salary"
	// GroupTitle matches a substring of the job title
	GroupTitle Group = "title"
	// GroupQuery is free text matched fuzzily against the title
	GroupQuery Group = "query"
)

// Option lists the selectable values of a filter group
type Option struct {
	Group  Group
	Values []string
}

// Catalog is the set of filter groups offered to the user
var Catalog = []Option{
	{
		Group: GroupIndustry,
		Values: []string{
			"Frontend Developer",
			"Backend Developer",
			"School Teacher",
			"College Teacher",
			"University Teacher",
			"Full Stack Developer",
			"Mobile Developer",
		},
	},
	{
		Group:  GroupLocation,
		Values: []string{"Karachi", "Lahore", "Islamabad", "Peshawar", "Quetta"},
	},
	{
		Group:  GroupSalary,
		Values: []string{"0-50k", "50k-100k", "100k-150k", "150k-200k", "200k+"},
	},
}

// Filters maps each active group to its selected value
type Filters map[Group]string

// Toggle returns a copy of f with value selected for group. Selecting the
// value already held deselects it; any other value replaces it.
func (f Filters) Toggle(group Group, value string) Filters {
	next := f.clone()
	if current, ok := next[group]; ok && current == value {
		delete(next, group)
		return next
	}
	next[group] = value
	return next
}

// With returns a copy of f with group set to value, or cleared when value is empty
func (f Filters) With(group Group, value string) Filters {
	next := f.clone()
	if strings.TrimSpace(value) == "" {
		delete(next, group)
		return next
	}
	next[group] = value
	return next
}

func (f Filters) clone() Filters {
	next := make(Filters, len(f))
	for k, v := range f {
		next[k] = v
	}
	return next
}

// Apply returns the jobs matching every active filter, in input order.
// It never modifies jobs.
func Apply(jobs []models.Job, f Filters) []models.Job {
	if len(f) == 0 {
		return jobs
	}
	out := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		if matches(job, f) {
			out = append(out, job)
		}
	}
	return out
}

func matches(job models.Job, f Filters) bool {
	if v, ok := f[GroupLocation]; ok && !strings.EqualFold(job.Location, v) {
		return false
	}
	if v, ok := f[GroupIndustry]; ok && !strings.EqualFold(job.Industry, v) {
		return false
	}
	if v, ok := f[GroupSalary]; ok && !containsFold(job.Salary.Raw(), v) {
		return false
	}
	if v, ok := f[GroupTitle]; ok && !containsFold(job.Title, v) {
		return false
	}
	if v, ok := f[GroupQuery]; ok && !fuzzy.MatchFold(v, job.Title) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
