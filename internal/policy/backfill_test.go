package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	t.Run("fills every mandatory column on an empty payload", func(t *testing.T) {
		out := ApplyDefaults(map[string]any{})

		assert.Equal(t, "temp@example.com", out["email"])
		assert.Equal(t, "1990-01-01", out["dateOfBirth"])
		assert.Equal(t, "maharashtra", out["state"])
		assert.Equal(t, "000000", out["pincode"])
		assert.Equal(t, "abroad", out["loanType"])
		assert.Equal(t, "0", out["loanAmount"])
		assert.Equal(t, "0", out["annualIncome"])
		assert.Equal(t, "Male", out["gender"])
		assert.Equal(t, "bachelor", out["currentQualification"])
		assert.Equal(t, "usa", out["targetCountry"])
		assert.Equal(t, "postgraduate", out["courseLevel"])
		assert.Equal(t, "student", out["employmentStatus"])
	})

	t.Run("keeps values the caller provided", func(t *testing.T) {
		out := ApplyDefaults(map[string]any{
			"email":      "real@user.in",
			"state":      "karnataka",
			"loanAmount": "750000",
		})

		assert.Equal(t, "real@user.in", out["email"])
		assert.Equal(t, "karnataka", out["state"])
		assert.Equal(t, "750000", out["loanAmount"])
	})

	t.Run("treats empty string and zero as unset", func(t *testing.T) {
		out := ApplyDefaults(map[string]any{
			"email":      "",
			"loanAmount": float64(0),
		})

		assert.Equal(t, "temp@example.com", out["email"])
		assert.Equal(t, "0", out["loanAmount"])
	})

	t.Run("coerces tri-state fields to booleans", func(t *testing.T) {
		out := ApplyDefaults(map[string]any{
			"propertyOwned":       "Yes",
			"coApplicantRequired": "No",
			"sameAddress":         "false",
			"termsAccepted":       true,
		})

		assert.Equal(t, true, out["propertyOwned"])
		assert.Equal(t, false, out["coApplicantRequired"])
		assert.Equal(t, false, out["sameAddress"])
		assert.Equal(t, true, out["termsAccepted"])
	})

	t.Run("leaves absent tri-state fields absent", func(t *testing.T) {
		out := ApplyDefaults(map[string]any{})
		_, present := out["propertyOwned"]
		assert.False(t, present)
	})

	t.Run("is idempotent", func(t *testing.T) {
		in := map[string]any{
			"firstName":     "A",
			"propertyOwned": "Yes",
			"loanAmount":    "",
		}

		once := ApplyDefaults(in)
		twice := ApplyDefaults(once)
		assert.Equal(t, once, twice)
	})

	t.Run("does not mutate its input", func(t *testing.T) {
		in := map[string]any{"propertyOwned": "Yes"}
		_ = ApplyDefaults(in)
		assert.Equal(t, "Yes", in["propertyOwned"])
	})
}

func TestCoerceBool(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"yes string", "Yes", true},
		{"true string", "true", true},
		{"no string", "No", false},
		{"false string", "false", false},
		{"already boolean", true, true},
		{"unrecognized value", "maybe", "maybe"},
		{"nil passes through", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceBool(tt.in))
		})
	}
}
