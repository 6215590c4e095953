package store

import "github.com/fr4nk3nst1ner/jobboard/internal/models"

// CompanyState is reference data for job forms
type CompanyState struct {
	Companies     []models.Company
	SingleCompany *models.Company
}

type (
	SetCompanies     struct{ Companies []models.Company }
	SetSingleCompany struct{ Company *models.Company }
)

func (SetCompanies) action()     {}
func (SetSingleCompany) action() {}

func reduceCompanies(s CompanyState, a Action) CompanyState {
	switch a := a.(type) {
	case SetCompanies:
		s.Companies = cloneSlice(a.Companies)
	case SetSingleCompany:
		if a.Company == nil {
			s.SingleCompany = nil
			return s
		}
		c := *a.Company
		s.SingleCompany = &c
		// A freshly registered company shows up in pickers right away
		for _, existing := range s.Companies {
			if existing.ID == c.ID {
				return s
			}
		}
		s.Companies = append(cloneSlice(s.Companies), c)
	}
	return s
}
