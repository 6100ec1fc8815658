// Package mapper converts between the wizard's nested section/field
// draft and the flat relational record the backend stores. The section
// partition is declared exactly once, here; both directions share it.
package mapper

// Wizard sections, in step order.
const (
	SectionType      = "type"
	SectionApplicant = "applicant"
	SectionAcademic  = "academic"
	SectionFinancial = "financial"
	SectionFamily    = "family"
	SectionAddress   = "address"
	SectionPreview   = "preview"
)

// Sections lists every section in wizard order.
var Sections = []string{
	SectionType,
	SectionApplicant,
	SectionAcademic,
	SectionFinancial,
	SectionFamily,
	SectionAddress,
	SectionPreview,
}

// sectionFields is the fixed partition of the flat schema. Every flat
// field belongs to exactly one section; changing this table changes
// both mapper directions at once.
var sectionFields = map[string][]string{
	SectionType: {
		"loanType", "loanAmount", "tenure",
	},
	SectionApplicant: {
		"firstName", "lastName", "dateOfBirth", "gender",
		"email", "phone", "nationality", "maritalStatus",
	},
	SectionAcademic: {
		"currentQualification", "currentInstitution", "percentage",
		"yearOfPassing", "targetCountry", "targetUniversity",
		"courseLevel", "courseName", "courseDuration",
		"intakeSession", "tuitionFee",
	},
	SectionFinancial: {
		"employmentStatus", "annualIncome", "employerName",
		"workExperience", "existingEMI", "creditCardOutstanding",
		"bankBalance", "investments", "propertyOwned", "propertyValue",
	},
	SectionFamily: {
		"fatherName", "motherName", "fatherOccupation",
		"motherOccupation", "fatherIncome", "motherIncome",
		"fatherPhone", "motherPhone", "dependents",
		"coApplicantRequired", "coApplicantName", "coApplicantRelation",
		"coApplicantIncome", "coApplicantPhone",
	},
	SectionAddress: {
		"currentAddress", "currentAddress2", "city", "state",
		"pincode", "country", "residenceType", "sameAddress",
		"permanentAddress", "permanentAddress2", "permanentCity",
		"permanentState", "permanentPincode", "permanentCountry",
	},
	SectionPreview: {
		"termsAccepted",
	},
}

// fieldSection is the reverse index, built once from sectionFields.
var fieldSection = func() map[string]string {
	idx := make(map[string]string)
	for section, fields := range sectionFields {
		for _, f := range fields {
			idx[f] = section
		}
	}
	return idx
}()

// SectionFields returns a copy of the field list for a section.
func SectionFields(section string) []string {
	fields := sectionFields[section]
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

// SectionOf returns the owning section of a flat field, or "" when the
// field is not part of the known schema.
func SectionOf(field string) string {
	return fieldSection[field]
}

// KnownField reports whether field belongs to the flat schema.
func KnownField(field string) bool {
	_, ok := fieldSection[field]
	return ok
}

// Flatten copies every section's fields into a single flat record. The
// payload may already be partially flat (scalar values at the top
// level); those pass straight through, matching what the intake API
// accepts. Unknown fields are dropped silently - a documented loss,
// not an error. Values are not coerced here; Yes/No strings stay
// strings all the way to the backfill policy.
func Flatten(form map[string]any) map[string]any {
	flat := make(map[string]any)
	for key, value := range form {
		if section, ok := value.(map[string]any); ok {
			for field, v := range section {
				if KnownField(field) {
					flat[field] = v
				}
			}
			continue
		}
		if KnownField(key) {
			flat[key] = value
		}
	}
	return flat
}

// Unflatten rebuilds the nested draft from a flat record using the
// same partition Flatten uses. Nil values are deleted rather than kept
// as placeholders, so a resumed draft never carries phantom fields.
// The ownership flag is rendered back to the Yes/No form the wizard
// displays when it arrives as a real boolean.
func Unflatten(flat map[string]any) map[string]map[string]any {
	nested := make(map[string]map[string]any, len(Sections))
	for _, section := range Sections {
		nested[section] = make(map[string]any)
	}
	for field, v := range flat {
		section, ok := fieldSection[field]
		if !ok || v == nil {
			continue
		}
		if field == "propertyOwned" {
			if b, isBool := v.(bool); isBool {
				if b {
					v = "Yes"
				} else {
					v = "No"
				}
			}
		}
		nested[section][field] = v
	}
	return nested
}
