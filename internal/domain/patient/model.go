package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table.
type Patient struct {
	ID           uuid.UUID `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	BirthDate    time.Time `db:"birth_date" json:"birth_date"`
	Gender       *string   `db:"gender" json:"gender,omitempty"`
	Address      *string   `db:"address" json:"address,omitempty"`
	ContactPhone *string   `db:"contact_phone" json:"contact_phone,omitempty"`
	PhotoURL     *string   `db:"photo_url" json:"photo_url,omitempty"`
	Notes        *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// AgeGroup is the content tier the portal front-end renders for a patient.
type AgeGroup string

const (
	AgeGroupToddler AgeGroup = "2-4"
	AgeGroupTween   AgeGroup = "9-12"
	AgeGroupOther   AgeGroup = "other"
)

// AgeOn returns the patient's age in whole years on the given date, using
// exact calendar subtraction: the year difference is decremented when the
// birthday has not yet occurred that year. A birthday falling on the given
// date counts as reached.
func (p *Patient) AgeOn(on time.Time) int {
	return AgeOn(p.BirthDate, on)
}

// AgeGroupOn buckets the patient's age on the given date.
func (p *Patient) AgeGroupOn(on time.Time) AgeGroup {
	return AgeGroupForAge(p.AgeOn(on))
}

// AgeOn computes a calendar-aware age in whole years.
func AgeOn(birthDate, on time.Time) int {
	age := on.Year() - birthDate.Year()
	if on.Month() < birthDate.Month() ||
		(on.Month() == birthDate.Month() && on.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// AgeGroupForAge maps an age in whole years to its portal content tier.
func AgeGroupForAge(age int) AgeGroup {
	switch {
	case age >= 2 && age <= 4:
		return AgeGroupToddler
	case age >= 9 && age <= 12:
		return AgeGroupTween
	default:
		return AgeGroupOther
	}
}

// Summary is the public-facing subset of a patient record served to the
// portal header.
type Summary struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	BirthDate string  `json:"dob"`
	Age       int     `json:"age"`
	PhotoURL  *string `json:"photo_url,omitempty"`
}

// Summarize builds the public summary as of the given date.
func (p *Patient) Summarize(on time.Time) *Summary {
	return &Summary{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		BirthDate: p.BirthDate.Format("2006-01-02"),
		Age:       p.AgeOn(on),
		PhotoURL:  p.PhotoURL,
	}
}
