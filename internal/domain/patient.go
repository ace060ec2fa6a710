package domain

import "time"

type Patient struct {
	ID                 string    `json:"id"`
	GivenName          string    `json:"givenName"`
	FamilyName         string    `json:"familyName"`
	BirthDate          string    `json:"birthDate"`
	Email              string    `json:"email"`
	PlanEnrollmentDate string    `json:"planEnrollmentDate"`
	Address            string    `json:"address"`
	Phone              string    `json:"phone"`
	DocumentID         string    `json:"documentId"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (p Patient) RecordID() string { return p.ID }

// PatientInput is the create payload; all eight fields are mandatory.
type PatientInput struct {
	GivenName          string `json:"givenName"`
	FamilyName         string `json:"familyName"`
	BirthDate          string `json:"birthDate"`
	Email              string `json:"email"`
	PlanEnrollmentDate string `json:"planEnrollmentDate"`
	Address            string `json:"address"`
	Phone              string `json:"phone"`
	DocumentID         string `json:"documentId"`
}

func (in PatientInput) Validate() error {
	return requireFields(
		field{"givenName", in.GivenName},
		field{"familyName", in.FamilyName},
		field{"birthDate", in.BirthDate},
		field{"email", in.Email},
		field{"planEnrollmentDate", in.PlanEnrollmentDate},
		field{"address", in.Address},
		field{"phone", in.Phone},
		field{"documentId", in.DocumentID},
	)
}

func (in PatientInput) Build(id string, now time.Time) Patient {
	return Patient{
		ID:                 id,
		GivenName:          in.GivenName,
		FamilyName:         in.FamilyName,
		BirthDate:          in.BirthDate,
		Email:              in.Email,
		PlanEnrollmentDate: in.PlanEnrollmentDate,
		Address:            in.Address,
		Phone:              in.Phone,
		DocumentID:         in.DocumentID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// PatientPatch carries the fields a client wants to change. Absent fields are nil.
// Identifier and timestamps are not patchable.
type PatientPatch struct {
	GivenName          *string `json:"givenName,omitempty"`
	FamilyName         *string `json:"familyName,omitempty"`
	BirthDate          *string `json:"birthDate,omitempty"`
	Email              *string `json:"email,omitempty"`
	PlanEnrollmentDate *string `json:"planEnrollmentDate,omitempty"`
	Address            *string `json:"address,omitempty"`
	Phone              *string `json:"phone,omitempty"`
	DocumentID         *string `json:"documentId,omitempty"`
}

func (p PatientPatch) Validate() error {
	return rejectCleared(
		optionalField{"givenName", p.GivenName},
		optionalField{"familyName", p.FamilyName},
		optionalField{"birthDate", p.BirthDate},
		optionalField{"email", p.Email},
		optionalField{"planEnrollmentDate", p.PlanEnrollmentDate},
		optionalField{"address", p.Address},
		optionalField{"phone", p.Phone},
		optionalField{"documentId", p.DocumentID},
	)
}

// Apply merges the patch into rec and returns the names of fields that changed.
func (p PatientPatch) Apply(rec *Patient, now time.Time) []string {
	var changed []string
	set(&changed, "givenName", &rec.GivenName, p.GivenName)
	set(&changed, "familyName", &rec.FamilyName, p.FamilyName)
	set(&changed, "birthDate", &rec.BirthDate, p.BirthDate)
	set(&changed, "email", &rec.Email, p.Email)
	set(&changed, "planEnrollmentDate", &rec.PlanEnrollmentDate, p.PlanEnrollmentDate)
	set(&changed, "address", &rec.Address, p.Address)
	set(&changed, "phone", &rec.Phone, p.Phone)
	set(&changed, "documentId", &rec.DocumentID, p.DocumentID)
	rec.UpdatedAt = advance(rec.UpdatedAt, now)
	return changed
}

func set(changed *[]string, name string, dst *string, v *string) {
	if v == nil || *dst == *v {
		return
	}
	*dst = *v
	*changed = append(*changed, name)
}

// advance never lets updatedAt move backwards when the wall clock does.
func advance(prev, now time.Time) time.Time {
	if now.Before(prev) {
		return prev
	}
	return now
}
