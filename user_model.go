package roster

import (
	"context"
)

type UserID int64

// UserRecord is a user that has not been stored yet. It has no ID.
type UserRecord struct {
	Name  Optional[string]
	Email Optional[string]
	Age   int
}

// ExistingUserRecord is a stored user. Its ID was assigned by the store.
type ExistingUserRecord struct {
	ExistingRecord[UserID]
	UserRecord
}

type UserRepo interface {
	InsertUser(context.Context, UserRecord) (ExistingUserRecord, error)
	// ReplaceUser inserts u under its ID, replacing any row already stored there.
	ReplaceUser(ctx context.Context, u ExistingUserRecord) (ExistingUserRecord, error)
	UpdateUser(ctx context.Context, id UserID, u UserRecord) (ExistingUserRecord, error)
	DeleteUser(ctx context.Context, id UserID) (ExistingUserRecord, error)
	GetUser(ctx context.Context, id UserID) (ExistingUserRecord, error)
	GetAllUsers(context.Context) ([]ExistingUserRecord, error)
	DeleteAllUsers(context.Context) (int64, error)
}

const (
	UserNamePreference  = "user_name"
	UserEmailPreference = "user_email"
)

type PreferencesRepo interface {
	SavePreference(ctx context.Context, key, value string) error
	// GetPreference returns "" for keys that were never saved.
	GetPreference(ctx context.Context, key string) (string, error)
	ClearPreferences(context.Context) error
}
