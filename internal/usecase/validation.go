package usecase

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	domainErrors "github.com/ezla-online/portal/internal/domain/errors"
	"github.com/ezla-online/portal/internal/domain/model"
)

const (
	maxLeaveDays      = 30
	maxBackdatingDays = 3
	maxForwardDays    = 1
)

// RequiredInterviewQuestions must all be answered before a case is created.
var RequiredInterviewQuestions = []string{"fever", "chronic_diseases", "medications", "allergies", "pregnancy"}

var (
	postalCodePattern = regexp.MustCompile(`^\d{2}-\d{3}$`)
	phonePattern      = regexp.MustCompile(`^\d{9,15}$`)
	peselWeights      = [10]int{1, 3, 7, 9, 1, 3, 7, 9, 1, 3}
)


// ValidatePESEL checks the PESEL checksum and, when dob is non-zero, that the
// encoded birth date matches it.
func ValidatePESEL(pesel string, dob time.Time) bool {
	if len(pesel) != 11 {
		return false
	}
	var digits [11]int
	for i := 0; i < len(pesel); i++ {
		c := pesel[i]
		if c < '0' || c > '9' {
			return false
		}
		digits[i] = int(c - '0')
	}

	var sum int
	for i, w := range peselWeights {
		sum += digits[i] * w
	}
	if (10-sum%10)%10 != digits[10] {
		return false
	}

	encoded, ok := peselBirthDate(digits)
	if !ok {
		return false
	}
	if dob.IsZero() {
		return true
	}
	return encoded.Equal(dateOnly(dob))
}

// peselBirthDate decodes YYMMDD where the month carries the century offset.
func peselBirthDate(d [11]int) (time.Time, bool) {
	year := d[0]*10 + d[1]
	month := d[2]*10 + d[3]
	day := d[4]*10 + d[5]

	switch {
	case month > 80:
		year += 1800
		month -= 80
	case month > 60:
		year += 2200
		month -= 60
	case month > 40:
		year += 2100
		month -= 40
	case month > 20:
		year += 2000
		month -= 20
	default:
		year += 1900
	}
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// ValidateProfile normalises and checks requester data in place.
func ValidateProfile(p *model.Profile) error {
	if p == nil {
		return domainErrors.Invalid("profile", "is required")
	}
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.PESEL = strings.TrimSpace(p.PESEL)
	p.Email = strings.TrimSpace(p.Email)
	p.PhoneNumber = normalisePhone(p.PhoneNumber)
	p.Address = strings.TrimSpace(p.Address)
	p.HouseNumber = strings.TrimSpace(p.HouseNumber)
	p.FlatNumber = strings.TrimSpace(p.FlatNumber)
	p.PostalCode = strings.TrimSpace(p.PostalCode)
	p.City = strings.TrimSpace(p.City)

	switch {
	case p.FirstName == "":
		return domainErrors.Invalid("first_name", "is required")
	case p.LastName == "":
		return domainErrors.Invalid("last_name", "is required")
	case p.DateOfBirth.IsZero():
		return domainErrors.Invalid("date_of_birth", "is required")
	case !ValidatePESEL(p.PESEL, p.DateOfBirth):
		return domainErrors.Invalid("pesel", "checksum or birth date mismatch")
	case !validEmail(p.Email):
		return domainErrors.Invalid("email", "must be a valid address")
	case !phonePattern.MatchString(p.PhoneNumber):
		return domainErrors.Invalid("phone_number", "must contain 9 to 15 digits")
	case p.Address == "":
		return domainErrors.Invalid("address", "is required")
	case p.HouseNumber == "":
		return domainErrors.Invalid("house_number", "is required")
	case !postalCodePattern.MatchString(p.PostalCode):
		return domainErrors.Invalid("postal_code", "must match NN-NNN")
	case p.City == "":
		return domainErrors.Invalid("city", "is required")
	}
	p.DateOfBirth = dateOnly(p.DateOfBirth)
	return nil
}

// ValidateCase checks the wizard answers against the e-ZLA issuing rules.
// Dates are truncated to days in place.
func ValidateCase(in *model.CaseInput, now time.Time) error {
	if in.IllnessFrom.IsZero() {
		return domainErrors.Invalid("illness_from", "is required")
	}
	if in.IllnessTo.IsZero() {
		return domainErrors.Invalid("illness_to", "is required")
	}
	in.IllnessFrom = dateOnly(in.IllnessFrom)
	in.IllnessTo = dateOnly(in.IllnessTo)
	today := dateOnly(now)

	switch {
	case in.IllnessTo.Before(in.IllnessFrom):
		return domainErrors.Invalid("illness_to", "must not precede illness_from")
	case in.IllnessTo.Sub(in.IllnessFrom) >= maxLeaveDays*24*time.Hour:
		return domainErrors.Invalid("illness_to", "leave may span at most 30 days")
	case in.IllnessFrom.Before(today.AddDate(0, 0, -maxBackdatingDays)):
		return domainErrors.Invalid("illness_from", "may be back-dated by at most 3 days")
	case in.IllnessFrom.After(today.AddDate(0, 0, maxForwardDays)):
		return domainErrors.Invalid("illness_from", "may start at most 1 day ahead")
	case !in.LeaveType.Valid():
		return domainErrors.Invalid("leave_type", "is not supported")
	}

	symptoms := in.Symptoms[:0]
	for _, s := range in.Symptoms {
		if s = strings.TrimSpace(s); s != "" {
			symptoms = append(symptoms, s)
		}
	}
	in.Symptoms = symptoms
	if len(in.Symptoms) == 0 {
		return domainErrors.Invalid("symptoms", "at least one symptom is required")
	}

	for _, q := range RequiredInterviewQuestions {
		if strings.TrimSpace(in.Interview[q]) == "" {
			return domainErrors.Invalid("interview."+q, "must be answered")
		}
	}
	return nil
}

// ValidPostalCode reports whether s is a Polish NN-NNN postal code.
func ValidPostalCode(s string) bool {
	return postalCodePattern.MatchString(s)
}

func validEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func normalisePhone(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")
	return strings.NewReplacer(" ", "", "-", "").Replace(s)
}

// dateOnly drops the clock part keeping the calendar date in UTC.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
