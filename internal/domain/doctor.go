package domain

import "time"

type Doctor struct {
	ID         string    `json:"id"`
	GivenName  string    `json:"givenName"`
	FamilyName string    `json:"familyName"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	DocumentID string    `json:"documentId"`
	Specialty  string    `json:"specialty,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (d Doctor) RecordID() string { return d.ID }

type DoctorInput struct {
	GivenName  string `json:"givenName"`
	FamilyName string `json:"familyName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	DocumentID string `json:"documentId"`
	Specialty  string `json:"specialty,omitempty"`
}

func (in DoctorInput) Validate() error {
	return requireFields(
		field{"givenName", in.GivenName},
		field{"familyName", in.FamilyName},
		field{"email", in.Email},
		field{"phone", in.Phone},
		field{"documentId", in.DocumentID},
	)
}

func (in DoctorInput) Build(id string, now time.Time) Doctor {
	return Doctor{
		ID:         id,
		GivenName:  in.GivenName,
		FamilyName: in.FamilyName,
		Email:      in.Email,
		Phone:      in.Phone,
		DocumentID: in.DocumentID,
		Specialty:  in.Specialty,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

type DoctorPatch struct {
	GivenName  *string `json:"givenName,omitempty"`
	FamilyName *string `json:"familyName,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	DocumentID *string `json:"documentId,omitempty"`
	Specialty  *string `json:"specialty,omitempty"`
}

// Validate rejects blanking a mandatory field. Specialty may be cleared.
func (p DoctorPatch) Validate() error {
	return rejectCleared(
		optionalField{"givenName", p.GivenName},
		optionalField{"familyName", p.FamilyName},
		optionalField{"email", p.Email},
		optionalField{"phone", p.Phone},
		optionalField{"documentId", p.DocumentID},
	)
}

func (p DoctorPatch) Apply(rec *Doctor, now time.Time) []string {
	var changed []string
	set(&changed, "givenName", &rec.GivenName, p.GivenName)
	set(&changed, "familyName", &rec.FamilyName, p.FamilyName)
	set(&changed, "email", &rec.Email, p.Email)
	set(&changed, "phone", &rec.Phone, p.Phone)
	set(&changed, "documentId", &rec.DocumentID, p.DocumentID)
	set(&changed, "specialty", &rec.Specialty, p.Specialty)
	rec.UpdatedAt = advance(rec.UpdatedAt, now)
	return changed
}
