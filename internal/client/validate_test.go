package client

import (
	"testing"

	"github.com/fr4nk3nst1ner/jobboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginValidation(t *testing.T) {
	tests := []struct {
		req  LoginRequest
		want string
	}{
		{LoginRequest{Email: "a@b.co", Password: "secret1"}, ""},
		{LoginRequest{Email: "not-an-email", Password: "secret1"}, "Invalid email address"},
		{LoginRequest{Email: "a@b.co", Password: "123"}, "Password must be at least 6 characters"},
		{LoginRequest{Password: "secret1"}, "Email is required"},
	}
	for _, tt := range tests {
		err := tt.req.Validate()
		if tt.want == "" {
			assert.NoError(t, err)
			continue
		}
		require.Error(t, err)
		assert.Equal(t, tt.want, Message(err, "Login failed"))
	}
}

func TestSignupValidation(t *testing.T) {
	ok := RegisterRequest{FullName: "Ali Raza", Email: "ali@example.com", Password: "secret1", Role: models.RoleStudent}
	assert.NoError(t, ok.Validate())

	short := ok
	short.FullName = "Al"
	assert.Equal(t, "Full name must be at least 3 characters", Message(short.Validate(), ""))

	admin := ok
	admin.Role = models.RoleAdmin
	assert.Equal(t, "Please select a role", Message(admin.Validate(), ""))

	// the standalone form requires a phone number
	assert.Equal(t, "Invalid phone number", Message(ok.ValidateFull(), ""))
	withPhone := ok
	withPhone.PhoneNumber = "03001234567"
	assert.NoError(t, withPhone.ValidateFull())

	badPhone := ok
	badPhone.PhoneNumber = "0300"
	assert.Error(t, badPhone.Validate())
}

func TestJobInputValidation(t *testing.T) {
	in := JobInput{
		Title: "Go Developer", Description: "Build services", Location: "Lahore",
		JobType: "Full-time", Position: 1, Company: "c1", SalaryMin: 50000, SalaryMax: 90000,
	}
	assert.NoError(t, in.Validate())

	in.SalaryMax = 1000
	var verr *ValidationError
	err := in.Validate()
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "salaryMax", verr.Field)

	in.SalaryMax = 0
	in.Position = 0
	assert.Equal(t, "At least one position is required", Message(in.Validate(), ""))
}
