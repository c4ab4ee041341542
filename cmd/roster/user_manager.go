package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Thiht/transactor"
	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"

	"github.com/benjamonnguyen/roster"
	"github.com/benjamonnguyen/roster/models"
)

var ErrInvalidEmail = errors.New("invalid email")

type UserManager interface {
	// AddUser stores a new user. Absent name or email are stored as NULL.
	AddUser(ctx context.Context, name, email roster.Optional[string], age int) (roster.ExistingUserRecord, error)
	// UpdateUser stores r's fields under r's id. r must have been saved before.
	UpdateUser(ctx context.Context, r models.Record) (roster.ExistingUserRecord, error)
	DeleteUser(context.Context, roster.UserID) (roster.ExistingUserRecord, error)
	DeleteAllUsers(context.Context) (int64, error)
	GetUser(context.Context, roster.UserID) (models.Record, error)
	Users(context.Context) ([]roster.ExistingUserRecord, error)

	// OnUsersChanged registers a listener. Every listener gets the full user list after each successful mutation.
	OnUsersChanged(func(context.Context, []roster.ExistingUserRecord))
}

type addUserRequest struct {
	Email string `validate:"omitempty,email"`
}

type userManager struct {
	repo     roster.UserRepo
	tx       transactor.Transactor
	validate *validator.Validate
	l        *log.Logger

	mu        sync.Mutex
	listeners []func(context.Context, []roster.ExistingUserRecord)
}

func NewUserManager(repo roster.UserRepo, tx transactor.Transactor, logger *log.Logger) UserManager {
	return &userManager{
		repo:     repo,
		tx:       tx,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		l:        logger,
	}
}

func (m *userManager) OnUsersChanged(handler func(context.Context, []roster.ExistingUserRecord)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, handler)
}

func (m *userManager) AddUser(ctx context.Context, name, email roster.Optional[string], age int) (roster.ExistingUserRecord, error) {
	if err := m.validate.Struct(addUserRequest{Email: email.GetOr("")}); err != nil {
		return roster.ExistingUserRecord{}, fmt.Errorf("%w %q", ErrInvalidEmail, email.Get())
	}

	record := models.NewRecord()
	record.SetName(name)
	record.SetEmail(email)
	record.SetAge(age)
	var inserted roster.ExistingUserRecord
	err := m.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		inserted, err = m.repo.InsertUser(ctx, record.Unsaved())
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}
		return nil
	})
	if err != nil {
		return roster.ExistingUserRecord{}, err
	}

	m.l.Info("added user", "id", inserted.ID)
	m.notify(ctx)
	return inserted, nil
}

func (m *userManager) UpdateUser(ctx context.Context, r models.Record) (roster.ExistingUserRecord, error) {
	saved, ok := r.Saved()
	if !ok {
		return roster.ExistingUserRecord{}, roster.ErrMissingID
	}

	var updated roster.ExistingUserRecord
	err := m.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		updated, err = m.repo.UpdateUser(ctx, saved.ID, saved.UserRecord)
		if err != nil {
			return fmt.Errorf("failed to update user %d: %w", saved.ID, err)
		}
		return nil
	})
	if err != nil {
		return roster.ExistingUserRecord{}, err
	}

	m.l.Info("updated user", "id", updated.ID)
	m.notify(ctx)
	return updated, nil
}

func (m *userManager) DeleteUser(ctx context.Context, id roster.UserID) (roster.ExistingUserRecord, error) {
	var deleted roster.ExistingUserRecord
	err := m.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = m.repo.DeleteUser(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to delete user %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return roster.ExistingUserRecord{}, err
	}

	m.l.Info("deleted user", "id", id)
	m.notify(ctx)
	return deleted, nil
}

func (m *userManager) DeleteAllUsers(ctx context.Context) (int64, error) {
	var n int64
	err := m.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		n, err = m.repo.DeleteAllUsers(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete users: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	m.l.Info("deleted all users", "count", n)
	m.notify(ctx)
	return n, nil
}

// GetUser rebuilds the mutable record from storage.
func (m *userManager) GetUser(ctx context.Context, id roster.UserID) (models.Record, error) {
	existing, err := m.repo.GetUser(ctx, id)
	if err != nil {
		return models.Record{}, err
	}

	r := models.NewRecord()
	r.SetID(existing.ID)
	r.SetName(existing.Name)
	r.SetEmail(existing.Email)
	r.SetAge(existing.Age)
	return r, nil
}

func (m *userManager) Users(ctx context.Context) ([]roster.ExistingUserRecord, error) {
	return m.repo.GetAllUsers(ctx)
}

func (m *userManager) notify(ctx context.Context) {
	m.mu.Lock()
	listeners := slices.Clone(m.listeners)
	m.mu.Unlock()
	if len(listeners) == 0 {
		return
	}

	users, err := m.repo.GetAllUsers(ctx)
	if err != nil {
		m.l.Error("failed to reload users", "err", err)
		return
	}
	for _, l := range listeners {
		l(ctx, users)
	}
}
