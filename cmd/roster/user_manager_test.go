package main

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Thiht/transactor"
	"github.com/charmbracelet/log"

	"github.com/benjamonnguyen/roster"
	"github.com/benjamonnguyen/roster/models"
)

// mockUserRepo is a mock implementation of roster.UserRepo
type mockUserRepo struct {
	insertUserFunc  func(context.Context, roster.UserRecord) (roster.ExistingUserRecord, error)
	updateUserFunc  func(context.Context, roster.UserID, roster.UserRecord) (roster.ExistingUserRecord, error)
	deleteUserFunc  func(context.Context, roster.UserID) (roster.ExistingUserRecord, error)
	getUserFunc     func(context.Context, roster.UserID) (roster.ExistingUserRecord, error)
	getAllUsersFunc func(context.Context) ([]roster.ExistingUserRecord, error)
	deleteAllFunc   func(context.Context) (int64, error)
}

func (m *mockUserRepo) InsertUser(ctx context.Context, u roster.UserRecord) (roster.ExistingUserRecord, error) {
	if m.insertUserFunc != nil {
		return m.insertUserFunc(ctx, u)
	}
	return roster.ExistingUserRecord{}, nil
}

func (m *mockUserRepo) ReplaceUser(ctx context.Context, u roster.ExistingUserRecord) (roster.ExistingUserRecord, error) {
	return u, nil
}

func (m *mockUserRepo) UpdateUser(ctx context.Context, id roster.UserID, u roster.UserRecord) (roster.ExistingUserRecord, error) {
	if m.updateUserFunc != nil {
		return m.updateUserFunc(ctx, id, u)
	}
	return roster.ExistingUserRecord{}, nil
}

func (m *mockUserRepo) DeleteUser(ctx context.Context, id roster.UserID) (roster.ExistingUserRecord, error) {
	if m.deleteUserFunc != nil {
		return m.deleteUserFunc(ctx, id)
	}
	return roster.ExistingUserRecord{}, nil
}

func (m *mockUserRepo) GetUser(ctx context.Context, id roster.UserID) (roster.ExistingUserRecord, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(ctx, id)
	}
	return roster.ExistingUserRecord{}, nil
}

func (m *mockUserRepo) GetAllUsers(ctx context.Context) ([]roster.ExistingUserRecord, error) {
	if m.getAllUsersFunc != nil {
		return m.getAllUsersFunc(ctx)
	}
	return nil, nil
}

func (m *mockUserRepo) DeleteAllUsers(ctx context.Context) (int64, error) {
	if m.deleteAllFunc != nil {
		return m.deleteAllFunc(ctx)
	}
	return 0, nil
}

// mockTransactor is a mock implementation of transactor.Transactor
type mockTransactor struct {
	calls int
}

func (m *mockTransactor) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	m.calls++
	return fn(ctx)
}

var _ transactor.Transactor = (*mockTransactor)(nil)

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

func existingUser(id roster.UserID, r roster.UserRecord) roster.ExistingUserRecord {
	return roster.ExistingUserRecord{
		ExistingRecord: roster.ExistingRecord[roster.UserID]{ID: id},
		UserRecord:     r,
	}
}

func TestUserManager_AddUser(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		var notified []roster.ExistingUserRecord
		repo := &mockUserRepo{
			insertUserFunc: func(ctx context.Context, u roster.UserRecord) (roster.ExistingUserRecord, error) {
				if u.Name != roster.Some("Alice") || u.Email != roster.Some("alice@example.com") || u.Age != 30 {
					t.Errorf("UserRecord mismatch: got %+v", u)
				}
				return existingUser(7, u), nil
			},
			getAllUsersFunc: func(ctx context.Context) ([]roster.ExistingUserRecord, error) {
				return []roster.ExistingUserRecord{existingUser(7, roster.UserRecord{})}, nil
			},
		}
		tx := &mockTransactor{}
		manager := NewUserManager(repo, tx, discardLogger())
		manager.OnUsersChanged(func(ctx context.Context, users []roster.ExistingUserRecord) {
			notified = users
		})

		inserted, err := manager.AddUser(context.Background(), roster.Some("Alice"), roster.Some("alice@example.com"), 30)
		if err != nil {
			t.Fatalf("AddUser failed: %v", err)
		}
		if inserted.ID != 7 {
			t.Errorf("expected id 7, got %d", inserted.ID)
		}
		if tx.calls != 1 {
			t.Errorf("expected 1 transaction, got %d", tx.calls)
		}
		if len(notified) != 1 {
			t.Errorf("expected listener to receive 1 user, got %d", len(notified))
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepo{
			insertUserFunc: func(ctx context.Context, u roster.UserRecord) (roster.ExistingUserRecord, error) {
				t.Error("insert should not be called")
				return roster.ExistingUserRecord{}, nil
			},
		}
		tx := &mockTransactor{}
		manager := NewUserManager(repo, tx, discardLogger())

		_, err := manager.AddUser(context.Background(), roster.Some("Bob"), roster.Some("bob-at-example"), 20)
		if !errors.Is(err, ErrInvalidEmail) {
			t.Fatalf("expected ErrInvalidEmail, got %v", err)
		}
		if tx.calls != 0 {
			t.Errorf("expected no transaction, got %d", tx.calls)
		}
	})

	t.Run("empty email allowed", func(t *testing.T) {
		t.Parallel()

		manager := NewUserManager(&mockUserRepo{}, &mockTransactor{}, discardLogger())
		if _, err := manager.AddUser(context.Background(), roster.Some(""), roster.Some(""), 0); err != nil {
			t.Fatalf("AddUser failed: %v", err)
		}
	})

	t.Run("absent fields stay absent", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepo{
			insertUserFunc: func(ctx context.Context, u roster.UserRecord) (roster.ExistingUserRecord, error) {
				if !u.Name.IsEmpty() || !u.Email.IsEmpty() {
					t.Errorf("expected absent name and email, got %+v", u)
				}
				return existingUser(1, u), nil
			},
		}
		manager := NewUserManager(repo, &mockTransactor{}, discardLogger())
		if _, err := manager.AddUser(context.Background(), roster.None[string](), roster.None[string](), 0); err != nil {
			t.Fatalf("AddUser failed: %v", err)
		}
	})

	t.Run("repo error", func(t *testing.T) {
		t.Parallel()

		errDB := errors.New("disk full")
		called := false
		repo := &mockUserRepo{
			insertUserFunc: func(ctx context.Context, u roster.UserRecord) (roster.ExistingUserRecord, error) {
				return roster.ExistingUserRecord{}, errDB
			},
		}
		manager := NewUserManager(repo, &mockTransactor{}, discardLogger())
		manager.OnUsersChanged(func(context.Context, []roster.ExistingUserRecord) {
			called = true
		})

		_, err := manager.AddUser(context.Background(), roster.Some("Carol"), roster.Some("carol@example.com"), 40)
		if !errors.Is(err, errDB) {
			t.Fatalf("expected wrapped repo error, got %v", err)
		}
		if called {
			t.Error("listener should not be called on failure")
		}
	})
}

func TestUserManager_UpdateUser(t *testing.T) {
	t.Parallel()

	t.Run("unsaved record", func(t *testing.T) {
		t.Parallel()

		manager := NewUserManager(&mockUserRepo{}, &mockTransactor{}, discardLogger())
		_, err := manager.UpdateUser(context.Background(), models.NewUserRecord("Dana", "dana@example.com", 52))
		if !errors.Is(err, roster.ErrMissingID) {
			t.Fatalf("expected ErrMissingID, got %v", err)
		}
	})

	t.Run("saved record", func(t *testing.T) {
		t.Parallel()

		repo := &mockUserRepo{
			updateUserFunc: func(ctx context.Context, id roster.UserID, u roster.UserRecord) (roster.ExistingUserRecord, error) {
				if id != 3 {
					t.Errorf("expected id 3, got %d", id)
				}
				if u.Age != 53 {
					t.Errorf("expected age 53, got %d", u.Age)
				}
				return existingUser(id, u), nil
			},
		}
		manager := NewUserManager(repo, &mockTransactor{}, discardLogger())

		r := models.NewUserRecord("Dana", "dana@example.com", 52)
		r.SetID(3)
		r.SetAge(53)
		updated, err := manager.UpdateUser(context.Background(), r)
		if err != nil {
			t.Fatalf("UpdateUser failed: %v", err)
		}
		if updated.Age != 53 {
			t.Errorf("expected age 53, got %d", updated.Age)
		}
	})
}

func TestUserManager_GetUser(t *testing.T) {
	t.Parallel()

	repo := &mockUserRepo{
		getUserFunc: func(ctx context.Context, id roster.UserID) (roster.ExistingUserRecord, error) {
			return existingUser(id, roster.UserRecord{Name: roster.Some("Eve"), Age: 28}), nil
		},
	}
	manager := NewUserManager(repo, &mockTransactor{}, discardLogger())

	r, err := manager.GetUser(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	expected := "Record{id=5, name='Eve', email='null', age=28}"
	if r.String() != expected {
		t.Errorf("expected %q, got %q", expected, r.String())
	}
}

func TestUserManager_DeleteUser(t *testing.T) {
	t.Parallel()

	errNotFound := errors.New("not found")
	repo := &mockUserRepo{
		deleteUserFunc: func(ctx context.Context, id roster.UserID) (roster.ExistingUserRecord, error) {
			if id == 1 {
				return existingUser(1, roster.UserRecord{}), nil
			}
			return roster.ExistingUserRecord{}, errNotFound
		},
	}
	manager := NewUserManager(repo, &mockTransactor{}, discardLogger())

	deleted, err := manager.DeleteUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if deleted.ID != 1 {
		t.Errorf("expected id 1, got %d", deleted.ID)
	}

	if _, err := manager.DeleteUser(context.Background(), 2); !errors.Is(err, errNotFound) {
		t.Errorf("expected wrapped not found, got %v", err)
	}
}

func TestUserManager_DeleteAllUsers(t *testing.T) {
	t.Parallel()

	repo := &mockUserRepo{
		deleteAllFunc: func(context.Context) (int64, error) {
			return 3, nil
		},
	}
	tx := &mockTransactor{}
	manager := NewUserManager(repo, tx, discardLogger())

	var notified []roster.ExistingUserRecord
	called := false
	manager.OnUsersChanged(func(_ context.Context, users []roster.ExistingUserRecord) {
		called = true
		notified = users
	})

	n, err := manager.DeleteAllUsers(context.Background())
	if err != nil {
		t.Fatalf("DeleteAllUsers failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 deleted, got %d", n)
	}
	if tx.calls != 1 {
		t.Errorf("expected 1 transaction, got %d", tx.calls)
	}
	if !called || len(notified) != 0 {
		t.Errorf("expected empty notification, got called=%v users=%v", called, notified)
	}
}

func TestUserManager_OnUsersChanged_AllListeners(t *testing.T) {
	t.Parallel()

	repo := &mockUserRepo{
		getAllUsersFunc: func(ctx context.Context) ([]roster.ExistingUserRecord, error) {
			return []roster.ExistingUserRecord{existingUser(1, roster.UserRecord{})}, nil
		},
	}
	manager := NewUserManager(repo, &mockTransactor{}, discardLogger())

	var first, second int
	manager.OnUsersChanged(func(_ context.Context, users []roster.ExistingUserRecord) {
		first += len(users)
	})
	manager.OnUsersChanged(func(_ context.Context, users []roster.ExistingUserRecord) {
		second += len(users)
	})

	if _, err := manager.DeleteUser(context.Background(), 1); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if first != 1 || second != 1 {
		t.Errorf("expected both listeners notified once, got first=%d second=%d", first, second)
	}
}
