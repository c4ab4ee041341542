// Package models helps control struct access and mutation
package models

import (
	"fmt"

	"github.com/benjamonnguyen/roster"
)

// Record is the mutable form of a user row. The id stays absent until the
// record has been stored.
type Record struct {
	id    roster.Optional[roster.UserID]
	name  roster.Optional[string]
	email roster.Optional[string]
	age   int
}

// NewRecord returns an empty record. Stores use it to rebuild a row field by field.
func NewRecord() Record {
	return Record{}
}

// NewUserRecord builds a record that has not been stored yet.
func NewUserRecord(name, email string, age int) Record {
	return Record{
		name:  roster.Some(name),
		email: roster.Some(email),
		age:   age,
	}
}

func FromExisting(u roster.ExistingUserRecord) Record {
	return Record{
		id:    roster.Some(u.ID),
		name:  u.Name,
		email: u.Email,
		age:   u.Age,
	}
}

func FromUnsaved(u roster.UserRecord) Record {
	return Record{
		name:  u.Name,
		email: u.Email,
		age:   u.Age,
	}
}

func (r Record) ID() roster.Optional[roster.UserID] {
	return r.id
}

func (r *Record) SetID(id roster.UserID) {
	r.id = roster.Some(id)
}

func (r Record) Name() roster.Optional[string] {
	return r.name
}

func (r *Record) SetName(name roster.Optional[string]) {
	r.name = name
}

func (r Record) Email() roster.Optional[string] {
	return r.email
}

func (r *Record) SetEmail(email roster.Optional[string]) {
	r.email = email
}

func (r Record) Age() int {
	return r.age
}

func (r *Record) SetAge(age int) {
	r.age = age
}

// Unsaved drops the id.
func (r Record) Unsaved() roster.UserRecord {
	return roster.UserRecord{
		Name:  r.name,
		Email: r.email,
		Age:   r.age,
	}
}

// Saved reports false when the record has no id yet.
func (r Record) Saved() (roster.ExistingUserRecord, bool) {
	if r.id.IsEmpty() {
		return roster.ExistingUserRecord{}, false
	}
	return roster.ExistingUserRecord{
		ExistingRecord: roster.ExistingRecord[roster.UserID]{ID: r.id.Get()},
		UserRecord:     r.Unsaved(),
	}, true
}

func (r Record) String() string {
	return fmt.Sprintf("Record{id=%s, name='%s', email='%s', age=%d}", r.id, r.name, r.email, r.age)
}
