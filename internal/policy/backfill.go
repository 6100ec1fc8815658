// Package policy holds the default-backfill rules applied to a flat
// payload between the shape mapper and a database write. Mandatory
// columns never reach the store empty; missing values are replaced by
// canonical placeholders instead of rejecting the write.
package policy

// requiredDefaults maps each must-not-be-null column to its canonical
// placeholder. Placeholders are stable fixed points: backfilling twice
// yields the same record as backfilling once.
var requiredDefaults = map[string]any{
	"loanType":             "abroad",
	"loanAmount":           "0",
	"firstName":            "",
	"lastName":             "",
	"dateOfBirth":          "1990-01-01",
	"gender":               "Male",
	"email":                "temp@example.com",
	"phone":                "",
	"currentQualification": "bachelor",
	"targetCountry":        "usa",
	"targetUniversity":     "",
	"courseLevel":          "postgraduate",
	"employmentStatus":     "student",
	"annualIncome":         "0",
	"fatherName":           "",
	"motherName":           "",
	"currentAddress":       "",
	"city":                 "",
	"state":                "maharashtra",
	"pincode":              "000000",
}

// triStateFields are the UI checkbox fields that travel as Yes/No (or
// true/false) strings and must land as real booleans.
var triStateFields = []string{
	"propertyOwned",
	"coApplicantRequired",
	"sameAddress",
	"termsAccepted",
}

// ApplyDefaults returns a copy of the flat record with every mandatory
// column populated and the tri-state fields coerced to booleans. It
// never rejects: missing required data becomes a placeholder, which is
// the deliberate leniency of the draft-save path.
func ApplyDefaults(flat map[string]any) map[string]any {
	out := make(map[string]any, len(flat))
	for k, v := range flat {
		out[k] = v
	}

	for field, def := range requiredDefaults {
		if isUnset(out[field]) {
			out[field] = def
		}
	}

	for _, field := range triStateFields {
		if v, ok := out[field]; ok {
			out[field] = CoerceBool(v)
		}
	}

	return out
}

// CoerceBool is the one place Yes/No strings become booleans. "Yes"
// and "true" map to true, "No" and "false" to false; anything else
// (including values that are already booleans) passes through.
func CoerceBool(v any) any {
	switch v {
	case "Yes", "true":
		return true
	case "No", "false":
		return false
	}
	return v
}

// isUnset mirrors the falsiness test of the intake form: a missing
// key, nil, empty string, numeric zero, or false all count as unset.
func isUnset(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case float64:
		return val == 0
	case int:
		return val == 0
	case int64:
		return val == 0
	case bool:
		return !val
	}
	return false
}
