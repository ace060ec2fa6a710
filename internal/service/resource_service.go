package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/diagnosis/clinicdesk/internal/domain"
	"github.com/diagnosis/clinicdesk/internal/repo"
	"github.com/diagnosis/clinicdesk/internal/store"
	"github.com/diagnosis/clinicdesk/pkg/auth"
	"github.com/diagnosis/clinicdesk/pkg/events"
	"github.com/diagnosis/clinicdesk/pkg/logger"
)

// Input is a create payload for T.
type Input[T any] interface {
	Validate() error
	Build(id string, now time.Time) T
}

// Patch is a partial update for T. Apply reports which fields changed.
type Patch[T any] interface {
	Validate() error
	Apply(rec *T, now time.Time) []string
}

// ResourceService is validated CRUD over one collection.
type ResourceService[T store.Record, I Input[T], P Patch[T]] struct {
	entity   string
	coll     *store.Collection[T]
	eventBus events.Publisher
	now      func() time.Time
	newID    func() string
}

func NewResourceService[T store.Record, I Input[T], P Patch[T]](entity string, coll *store.Collection[T], eventBus events.Publisher) *ResourceService[T, I, P] {
	return &ResourceService[T, I, P]{
		entity:   entity,
		coll:     coll,
		eventBus: eventBus,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

type PatientService = ResourceService[domain.Patient, domain.PatientInput, domain.PatientPatch]

type DoctorService = ResourceService[domain.Doctor, domain.DoctorInput, domain.DoctorPatch]

func NewPatientService(backend store.Backend, eventBus events.Publisher) *PatientService {
	return NewResourceService[domain.Patient, domain.PatientInput, domain.PatientPatch]("patient", repo.NewPatients(backend), eventBus)
}

func NewDoctorService(backend store.Backend, eventBus events.Publisher) *DoctorService {
	return NewResourceService[domain.Doctor, domain.DoctorInput, domain.DoctorPatch]("doctor", repo.NewDoctors(backend), eventBus)
}

func (s *ResourceService[T, I, P]) Entity() string { return s.entity }

func (s *ResourceService[T, I, P]) List(ctx context.Context) ([]T, error) {
	records, err := s.coll.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s records: %w", s.entity, err)
	}
	return records, nil
}

func (s *ResourceService[T, I, P]) Create(ctx context.Context, in I) (T, error) {
	var zero T
	if err := in.Validate(); err != nil {
		return zero, err
	}

	rec := in.Build(s.newID(), s.now())
	if err := s.coll.Insert(ctx, rec); err != nil {
		return zero, fmt.Errorf("failed to create %s: %w", s.entity, err)
	}

	s.publish(ctx, events.ActionCreated, rec.RecordID(), nil)
	return rec, nil
}

func (s *ResourceService[T, I, P]) Update(ctx context.Context, id string, patch P) (T, error) {
	var zero T
	if err := patch.Validate(); err != nil {
		return zero, err
	}

	var changed []string
	rec, err := s.coll.Update(ctx, id, func(rec *T) error {
		changed = patch.Apply(rec, s.now())
		return nil
	})
	if err != nil {
		return zero, s.wrap("update", id, err)
	}

	s.publish(ctx, events.ActionUpdated, id, changed)
	return rec, nil
}

func (s *ResourceService[T, I, P]) Delete(ctx context.Context, id string) (T, error) {
	rec, err := s.coll.Delete(ctx, id)
	if err != nil {
		var zero T
		return zero, s.wrap("delete", id, err)
	}

	s.publish(ctx, events.ActionDeleted, id, nil)
	return rec, nil
}

func (s *ResourceService[T, I, P]) wrap(op, id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s %s: %w", s.entity, id, domain.ErrNotFound)
	}
	return fmt.Errorf("failed to %s %s %s: %w", op, s.entity, id, err)
}

func (s *ResourceService[T, I, P]) publish(ctx context.Context, action, id string, changes []string) {
	ev := events.RecordEvent{
		Entity:    s.entity,
		RecordID:  id,
		Changes:   changes,
		Timestamp: s.now(),
	}
	if c := auth.ClaimsFrom(ctx); c != nil {
		ev.ActorID = c.AccountID
	}
	subject := events.RecordSubject(s.entity, action)
	if err := s.eventBus.Publish(ctx, subject, ev); err != nil {
		logger.WarnContext(ctx, "Failed to publish event", "subject", subject, "error", err)
	}
}
