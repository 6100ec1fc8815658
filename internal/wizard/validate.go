package wizard

import (
	"regexp"
	"strings"

	"github.com/kubera-fin/kubera-loan-backend/internal/mapper"
)

// Wizard step identifiers, in order.
const (
	StepBasicInfo       = "basic_info"
	StepPersonalDetails = "personal_details"
	StepAcademic        = "academic"
	StepFinancial       = "financial"
	StepFamily          = "family"
	StepAddress         = "address"
	StepDocuments       = "documents"
	StepPreview         = "preview"
)

// Steps lists the wizard steps in visiting order.
var Steps = []string{
	StepBasicInfo,
	StepPersonalDetails,
	StepAcademic,
	StepFinancial,
	StepFamily,
	StepAddress,
	StepDocuments,
	StepPreview,
}

var phoneRe = regexp.MustCompile(`^\d{10}$`)

// ValidateStep runs the ad hoc per-field checks for one wizard step
// and returns field name to message for everything wrong. Validation
// is client-local: it blocks advancing past a step, never navigation
// back, and never reaches the network.
func ValidateStep(s *DraftState, step string) map[string]string {
	errs := make(map[string]string)

	switch step {
	case StepBasicInfo:
		if !s.fieldFilled(mapper.SectionApplicant, "firstName") {
			errs["firstName"] = "First name is required"
		}
		if !s.fieldFilled(mapper.SectionApplicant, "lastName") {
			errs["lastName"] = "Last name is required"
		}
		if email := s.stringField(mapper.SectionApplicant, "email"); email == "" {
			errs["email"] = "Email is required"
		} else if !emailRe.MatchString(email) {
			errs["email"] = "Invalid email format"
		}
		if phone := s.stringField(mapper.SectionApplicant, "phone"); phone == "" {
			errs["phone"] = "Phone number is required"
		} else if !phoneRe.MatchString(phone) {
			errs["phone"] = "Invalid phone number (10 digits)"
		}
		if !s.fieldFilled(mapper.SectionType, "loanType") {
			errs["loanType"] = "Please select loan type"
		}
		if !s.fieldFilled(mapper.SectionType, "loanAmount") {
			errs["loanAmount"] = "Please enter loan amount"
		}

	case StepPersonalDetails:
		if !s.fieldFilled(mapper.SectionApplicant, "dateOfBirth") {
			errs["dateOfBirth"] = "Date of birth is required"
		}
		if !s.fieldFilled(mapper.SectionApplicant, "gender") {
			errs["gender"] = "Gender is required"
		}

	case StepAcademic:
		if !s.fieldFilled(mapper.SectionAcademic, "currentQualification") {
			errs["currentQualification"] = "Current qualification is required"
		}
		if !s.fieldFilled(mapper.SectionAcademic, "targetCountry") {
			errs["targetCountry"] = "Target country is required"
		}
		if !s.fieldFilled(mapper.SectionAcademic, "targetUniversity") {
			errs["targetUniversity"] = "Target university is required"
		}
		if !s.fieldFilled(mapper.SectionAcademic, "courseLevel") {
			errs["courseLevel"] = "Course level is required"
		}

	case StepFinancial:
		if !s.fieldFilled(mapper.SectionFinancial, "annualIncome") {
			errs["annualIncome"] = "Annual income is required"
		}
		if !s.fieldFilled(mapper.SectionFinancial, "employmentStatus") {
			errs["employmentStatus"] = "Employment status is required"
		}

	case StepFamily:
		if !s.fieldFilled(mapper.SectionFamily, "fatherName") {
			errs["fatherName"] = "Father name is required"
		}
		if !s.fieldFilled(mapper.SectionFamily, "motherName") {
			errs["motherName"] = "Mother name is required"
		}

	case StepAddress:
		if !s.fieldFilled(mapper.SectionAddress, "currentAddress") {
			errs["currentAddress"] = "Current address is required"
		}
		if !s.fieldFilled(mapper.SectionAddress, "city") {
			errs["city"] = "City is required"
		}
		if !s.fieldFilled(mapper.SectionAddress, "state") {
			errs["state"] = "State is required"
		}
		if !s.fieldFilled(mapper.SectionAddress, "pincode") {
			errs["pincode"] = "PIN code is required"
		}

	case StepDocuments:
		if missing := s.MissingDocuments(); len(missing) > 0 {
			errs["documents"] = "Please upload: " + strings.Join(missing, ", ")
		}

	case StepPreview:
		if !s.boolField(mapper.SectionPreview, "termsAccepted") {
			errs["termsAccepted"] = "Please accept terms and conditions"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateAll validates every step and returns the failures keyed by
// step. An empty result means the draft is submission-ready.
func ValidateAll(s *DraftState) map[string]map[string]string {
	all := make(map[string]map[string]string)
	for _, step := range Steps {
		if errs := ValidateStep(s, step); len(errs) > 0 {
			all[step] = errs
		}
	}
	return all
}
