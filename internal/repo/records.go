package repo

import (
	"github.com/diagnosis/clinicdesk/internal/domain"
	"github.com/diagnosis/clinicdesk/internal/store"
)

const (
	PatientCollection = "patients"
	DoctorCollection  = "doctors"
)

func NewPatients(backend store.Backend) *store.Collection[domain.Patient] {
	return store.NewCollection[domain.Patient](backend, PatientCollection)
}

func NewDoctors(backend store.Backend) *store.Collection[domain.Doctor] {
	return store.NewCollection[domain.Doctor](backend, DoctorCollection)
}
