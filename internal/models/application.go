package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// Application is one loan application row. The wizard edits a nested
// section/field draft; this is the flat relational shape it maps to.
type Application struct {
	ID                string `json:"id" gorm:"primaryKey"`
	ApplicationNumber string `json:"applicationNumber" gorm:"uniqueIndex"`
	Status            string `json:"status"` // "draft", "submitted", "under_review", "approved", "rejected"

	// Loan terms
	LoanType   string `json:"loanType"` // "abroad", "domestic", "skill"
	LoanAmount string `json:"loanAmount" gorm:"type:numeric(15,2)"`
	Tenure     int    `json:"tenure"`

	// Personal details
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	DateOfBirth   string `json:"dateOfBirth"`
	Gender        string `json:"gender"`
	Email         string `json:"email" gorm:"index"`
	Phone         string `json:"phone"`
	Nationality   string `json:"nationality"`
	MaritalStatus string `json:"maritalStatus"`

	// Academic details
	CurrentQualification string `json:"currentQualification"`
	CurrentInstitution   string `json:"currentInstitution"`
	Percentage           string `json:"percentage"`
	YearOfPassing        int    `json:"yearOfPassing"`
	TargetCountry        string `json:"targetCountry"`
	TargetUniversity     string `json:"targetUniversity"`
	CourseLevel          string `json:"courseLevel"`
	CourseName           string `json:"courseName"`
	CourseDuration       string `json:"courseDuration"`
	IntakeSession        string `json:"intakeSession"`
	TuitionFee           string `json:"tuitionFee" gorm:"type:numeric(15,2)"`

	// Financial profile
	EmploymentStatus      string `json:"employmentStatus"`
	AnnualIncome          string `json:"annualIncome" gorm:"type:numeric(15,2)"`
	EmployerName          string `json:"employerName"`
	WorkExperience        string `json:"workExperience"`
	ExistingEMI           string `json:"existingEMI" gorm:"column:existing_emi;type:numeric(15,2)"`
	CreditCardOutstanding string `json:"creditCardOutstanding" gorm:"type:numeric(15,2)"`
	BankBalance           string `json:"bankBalance" gorm:"type:numeric(15,2)"`
	Investments           string `json:"investments" gorm:"type:numeric(15,2)"`
	PropertyOwned         bool   `json:"propertyOwned"`
	PropertyValue         string `json:"propertyValue" gorm:"type:numeric(15,2)"`

	// Family and co-applicant
	FatherName          string `json:"fatherName"`
	MotherName          string `json:"motherName"`
	FatherOccupation    string `json:"fatherOccupation"`
	MotherOccupation    string `json:"motherOccupation"`
	FatherIncome        string `json:"fatherIncome" gorm:"type:numeric(15,2)"`
	MotherIncome        string `json:"motherIncome" gorm:"type:numeric(15,2)"`
	FatherPhone         string `json:"fatherPhone"`
	MotherPhone         string `json:"motherPhone"`
	Dependents          string `json:"dependents"`
	CoApplicantRequired bool   `json:"coApplicantRequired"`
	CoApplicantName     string `json:"coApplicantName"`
	CoApplicantRelation string `json:"coApplicantRelation"`
	CoApplicantIncome   string `json:"coApplicantIncome" gorm:"type:numeric(15,2)"`
	CoApplicantPhone    string `json:"coApplicantPhone"`

	// Addresses
	CurrentAddress    string `json:"currentAddress" gorm:"type:text"`
	CurrentAddress2   string `json:"currentAddress2"`
	City              string `json:"city"`
	State             string `json:"state"`
	Pincode           string `json:"pincode"`
	Country           string `json:"country"`
	ResidenceType     string `json:"residenceType"`
	SameAddress       bool   `json:"sameAddress"`
	PermanentAddress  string `json:"permanentAddress" gorm:"type:text"`
	PermanentAddress2 string `json:"permanentAddress2"`
	PermanentCity     string `json:"permanentCity"`
	PermanentState    string `json:"permanentState"`
	PermanentPincode  string `json:"permanentPincode"`
	PermanentCountry  string `json:"permanentCountry"`

	// Application meta
	TermsAccepted   bool       `json:"termsAccepted"`
	SubmittedAt     *time.Time `json:"submittedAt"`
	ReviewedAt      *time.Time `json:"reviewedAt"`
	ApprovedAt      *time.Time `json:"approvedAt"`
	RejectedAt      *time.Time `json:"rejectedAt"`
	RejectionReason string     `json:"rejectionReason" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Application) TableName() string {
	return "loan_applications"
}

// Application status constants
const (
	StatusDraft       = "draft"
	StatusSubmitted   = "submitted"
	StatusUnderReview = "under_review"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
)

// NewApplication returns a draft application carrying the column
// defaults the schema guarantees (nationality, country, sameAddress).
func NewApplication() *Application {
	return &Application{
		Status:      StatusDraft,
		Nationality: "Indian",
		Country:     "India",
		SameAddress: true,
	}
}

// ApplicationSummary is the projection returned by list queries.
type ApplicationSummary struct {
	ID                string     `json:"id"`
	ApplicationNumber string     `json:"applicationNumber"`
	Status            string     `json:"status"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	Email             string     `json:"email"`
	LoanType          string     `json:"loanType"`
	LoanAmount        string     `json:"loanAmount"`
	CreatedAt         time.Time  `json:"createdAt"`
	SubmittedAt       *time.Time `json:"submittedAt"`
}

// ApplicationFilter narrows list queries; both matches are exact.
type ApplicationFilter struct {
	Status string `json:"status"`
	Email  string `json:"email"`
}

// ApplyFlat copies values from a flat field/value record onto the row.
// Only known fields are applied; anything else is dropped silently.
// Boolean columns only accept real booleans here - the Yes/No string
// coercion happens once, in the backfill policy, before this runs.
func (a *Application) ApplyFlat(flat map[string]any) {
	for field, v := range flat {
		switch field {
		case "loanType":
			a.LoanType = flatString(v)
		case "loanAmount":
			a.LoanAmount = flatString(v)
		case "tenure":
			a.Tenure = flatInt(v)
		case "firstName":
			a.FirstName = flatString(v)
		case "lastName":
			a.LastName = flatString(v)
		case "dateOfBirth":
			a.DateOfBirth = flatString(v)
		case "gender":
			a.Gender = flatString(v)
		case "email":
			a.Email = flatString(v)
		case "phone":
			a.Phone = flatString(v)
		case "nationality":
			a.Nationality = flatString(v)
		case "maritalStatus":
			a.MaritalStatus = flatString(v)
		case "currentQualification":
			a.CurrentQualification = flatString(v)
		case "currentInstitution":
			a.CurrentInstitution = flatString(v)
		case "percentage":
			a.Percentage = flatString(v)
		case "yearOfPassing":
			a.YearOfPassing = flatInt(v)
		case "targetCountry":
			a.TargetCountry = flatString(v)
		case "targetUniversity":
			a.TargetUniversity = flatString(v)
		case "courseLevel":
			a.CourseLevel = flatString(v)
		case "courseName":
			a.CourseName = flatString(v)
		case "courseDuration":
			a.CourseDuration = flatString(v)
		case "intakeSession":
			a.IntakeSession = flatString(v)
		case "tuitionFee":
			a.TuitionFee = flatString(v)
		case "employmentStatus":
			a.EmploymentStatus = flatString(v)
		case "annualIncome":
			a.AnnualIncome = flatString(v)
		case "employerName":
			a.EmployerName = flatString(v)
		case "workExperience":
			a.WorkExperience = flatString(v)
		case "existingEMI":
			a.ExistingEMI = flatString(v)
		case "creditCardOutstanding":
			a.CreditCardOutstanding = flatString(v)
		case "bankBalance":
			a.BankBalance = flatString(v)
		case "investments":
			a.Investments = flatString(v)
		case "propertyOwned":
			if b, ok := v.(bool); ok {
				a.PropertyOwned = b
			}
		case "propertyValue":
			a.PropertyValue = flatString(v)
		case "fatherName":
			a.FatherName = flatString(v)
		case "motherName":
			a.MotherName = flatString(v)
		case "fatherOccupation":
			a.FatherOccupation = flatString(v)
		case "motherOccupation":
			a.MotherOccupation = flatString(v)
		case "fatherIncome":
			a.FatherIncome = flatString(v)
		case "motherIncome":
			a.MotherIncome = flatString(v)
		case "fatherPhone":
			a.FatherPhone = flatString(v)
		case "motherPhone":
			a.MotherPhone = flatString(v)
		case "dependents":
			a.Dependents = flatString(v)
		case "coApplicantRequired":
			if b, ok := v.(bool); ok {
				a.CoApplicantRequired = b
			}
		case "coApplicantName":
			a.CoApplicantName = flatString(v)
		case "coApplicantRelation":
			a.CoApplicantRelation = flatString(v)
		case "coApplicantIncome":
			a.CoApplicantIncome = flatString(v)
		case "coApplicantPhone":
			a.CoApplicantPhone = flatString(v)
		case "currentAddress":
			a.CurrentAddress = flatString(v)
		case "currentAddress2":
			a.CurrentAddress2 = flatString(v)
		case "city":
			a.City = flatString(v)
		case "state":
			a.State = flatString(v)
		case "pincode":
			a.Pincode = flatString(v)
		case "country":
			a.Country = flatString(v)
		case "residenceType":
			a.ResidenceType = flatString(v)
		case "sameAddress":
			if b, ok := v.(bool); ok {
				a.SameAddress = b
			}
		case "permanentAddress":
			a.PermanentAddress = flatString(v)
		case "permanentAddress2":
			a.PermanentAddress2 = flatString(v)
		case "permanentCity":
			a.PermanentCity = flatString(v)
		case "permanentState":
			a.PermanentState = flatString(v)
		case "permanentPincode":
			a.PermanentPincode = flatString(v)
		case "permanentCountry":
			a.PermanentCountry = flatString(v)
		case "termsAccepted":
			if b, ok := v.(bool); ok {
				a.TermsAccepted = b
			}
		}
	}
}

// Flat returns the row as a flat field/value record, the inverse feed
// for the shape mapper when a draft is resumed from the server.
func (a *Application) Flat() map[string]any {
	raw, err := json.Marshal(a)
	if err != nil {
		return map[string]any{}
	}
	var flat map[string]any
	if err := json.Unmarshal(raw, &flat); err != nil {
		return map[string]any{}
	}
	return flat
}

func flatString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	case nil:
		return ""
	}
	return ""
}

func flatInt(v any) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case int64:
		return int(val)
	case string:
		n, _ := strconv.Atoi(val)
		return n
	case json.Number:
		n, _ := val.Int64()
		return int(n)
	}
	return 0
}
