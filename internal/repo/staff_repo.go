package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/diagnosis/clinicdesk/internal/domain"
	"github.com/diagnosis/clinicdesk/internal/store"
)

const StaffCollection = "staff"

// StaffRepo holds staff accounts. Accounts are write-once.
type StaffRepo interface {
	Create(ctx context.Context, account domain.StaffAccount) error
	FindByEmail(ctx context.Context, email string) (*domain.StaffAccount, error)
	FindByID(ctx context.Context, id string) (*domain.StaffAccount, error)
	Count(ctx context.Context) (int, error)
}

type StaffRepoImpl struct {
	coll *store.Collection[domain.StaffAccount]
}

func NewStaffRepo(backend store.Backend) *StaffRepoImpl {
	return &StaffRepoImpl{coll: store.NewCollection[domain.StaffAccount](backend, StaffCollection)}
}

// Create appends account unless another account already uses its email,
// compared case-insensitively. The check and the append happen under one lock.
func (r *StaffRepoImpl) Create(ctx context.Context, account domain.StaffAccount) error {
	return r.coll.Mutate(ctx, func(accounts []domain.StaffAccount) ([]domain.StaffAccount, error) {
		for _, a := range accounts {
			if domain.SameEmail(a.Email, account.Email) {
				return nil, domain.ErrDuplicateEmail
			}
			if a.ID == account.ID {
				return nil, fmt.Errorf("%w: %s", store.ErrDuplicateID, account.ID)
			}
		}
		return append(accounts, account), nil
	})
}

func (r *StaffRepoImpl) FindByEmail(ctx context.Context, email string) (*domain.StaffAccount, error) {
	accounts, err := r.coll.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if domain.SameEmail(accounts[i].Email, email) {
			return &accounts[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *StaffRepoImpl) FindByID(ctx context.Context, id string) (*domain.StaffAccount, error) {
	a, err := r.coll.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *StaffRepoImpl) Count(ctx context.Context) (int, error) {
	accounts, err := r.coll.LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(accounts), nil
}
