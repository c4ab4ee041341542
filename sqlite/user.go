package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"

	"github.com/benjamonnguyen/roster"
)

const usersTable = "users"

var userColumns = []string{"id", "name", "email", "age", "created_at", "updated_at"}

type userEntity struct {
	ID        int64
	Name      sql.NullString
	Email     sql.NullString
	Age       int
	CreatedAt int64
	UpdatedAt int64
}

type userRepo struct {
	dbGetter txStdLib.DBGetter
	l        *log.Logger
	obs      instrumentation
}

var _ roster.UserRepo = (*userRepo)(nil)

func NewUserRepo(dbGetter txStdLib.DBGetter, logger *log.Logger, opts ...Option) *userRepo {
	return &userRepo{
		dbGetter: dbGetter,
		l:        logger,
		obs:      newInstrumentation(opts),
	}
}

func (r *userRepo) InsertUser(ctx context.Context, user roster.UserRecord) (_ roster.ExistingUserRecord, err error) {
	ctx, done := r.obs.observe(ctx, "insert", usersTable)
	defer func() { done(err) }()

	now := time.Now()
	e := mapToUserEntity(roster.ExistingUserRecord{
		ExistingRecord: roster.ExistingRecord[roster.UserID]{CreatedAt: now, UpdatedAt: now},
		UserRecord:     user,
	})

	query, args, err := sq.Insert(usersTable).
		Columns("name", "email", "age", "created_at", "updated_at").
		Values(e.Name, e.Email, e.Age, e.CreatedAt, e.UpdatedAt).
		ToSql()
	if err != nil {
		return roster.ExistingUserRecord{}, err
	}
	r.l.Debug("creating user", "query", query, "args", args)
	res, err := r.dbGetter(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return roster.ExistingUserRecord{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return roster.ExistingUserRecord{}, fmt.Errorf("failed to read assigned id: %w", err)
	}
	e.ID = id

	return mapToExistingUserRecord(e), nil
}

func (r *userRepo) ReplaceUser(ctx context.Context, user roster.ExistingUserRecord) (_ roster.ExistingUserRecord, err error) {
	if user.ID == 0 {
		return roster.ExistingUserRecord{}, roster.ErrMissingID
	}
	ctx, done := r.obs.observe(ctx, "replace", usersTable)
	defer func() { done(err) }()

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	e := mapToUserEntity(user)

	query, args, err := sq.Replace(usersTable).
		Columns(userColumns...).
		Values(e.ID, e.Name, e.Email, e.Age, e.CreatedAt, e.UpdatedAt).
		ToSql()
	if err != nil {
		return roster.ExistingUserRecord{}, err
	}
	r.l.Debug("replacing user", "query", query, "args", args)
	if _, err := r.dbGetter(ctx).ExecContext(ctx, query, args...); err != nil {
		return roster.ExistingUserRecord{}, err
	}

	return mapToExistingUserRecord(e), nil
}

func (r *userRepo) UpdateUser(ctx context.Context, id roster.UserID, user roster.UserRecord) (_ roster.ExistingUserRecord, err error) {
	existing, err := r.GetUser(ctx, id)
	if err != nil {
		return existing, err
	}
	ctx, done := r.obs.observe(ctx, "update", usersTable)
	defer func() { done(err) }()

	existing.UserRecord = user
	existing.UpdatedAt = time.Now()
	e := mapToUserEntity(existing)

	query, args, err := sq.Update(usersTable).
		Set("name", e.Name).
		Set("email", e.Email).
		Set("age", e.Age).
		Set("updated_at", e.UpdatedAt).
		Where(sq.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return roster.ExistingUserRecord{}, err
	}
	r.l.Debug("updating user", "query", query, "args", args)
	if _, err := r.dbGetter(ctx).ExecContext(ctx, query, args...); err != nil {
		return roster.ExistingUserRecord{}, err
	}

	return mapToExistingUserRecord(e), nil
}

func (r *userRepo) DeleteUser(ctx context.Context, id roster.UserID) (_ roster.ExistingUserRecord, err error) {
	existing, err := r.GetUser(ctx, id)
	if err != nil {
		return roster.ExistingUserRecord{}, err
	}
	ctx, done := r.obs.observe(ctx, "delete", usersTable)
	defer func() { done(err) }()

	query, args, err := sq.Delete(usersTable).Where(sq.Eq{"id": int64(id)}).ToSql()
	if err != nil {
		return roster.ExistingUserRecord{}, err
	}
	r.l.Debug("deleting user", "query", query, "id", id)
	if _, err := r.dbGetter(ctx).ExecContext(ctx, query, args...); err != nil {
		return roster.ExistingUserRecord{}, err
	}

	return existing, nil
}

func (r *userRepo) DeleteAllUsers(ctx context.Context) (_ int64, err error) {
	ctx, done := r.obs.observe(ctx, "delete_all", usersTable)
	defer func() { done(err) }()

	query, args, err := sq.Delete(usersTable).ToSql()
	if err != nil {
		return 0, err
	}
	r.l.Debug("deleting all users", "query", query)
	res, err := r.dbGetter(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *userRepo) GetUser(ctx context.Context, id roster.UserID) (_ roster.ExistingUserRecord, err error) {
	if id == 0 {
		return roster.ExistingUserRecord{}, roster.ErrMissingID
	}
	ctx, done := r.obs.observe(ctx, "select", usersTable)
	defer func() { done(err) }()

	query, args, err := sq.Select(userColumns...).From(usersTable).Where(sq.Eq{"id": int64(id)}).ToSql()
	if err != nil {
		return roster.ExistingUserRecord{}, err
	}
	r.l.Debug("getting user", "query", query, "id", id)
	row := r.dbGetter(ctx).QueryRowContext(ctx, query, args...)

	return extractUser(row)
}

func (r *userRepo) GetAllUsers(ctx context.Context) (_ []roster.ExistingUserRecord, err error) {
	ctx, done := r.obs.observe(ctx, "select_all", usersTable)
	defer func() { done(err) }()

	query, args, err := sq.Select(userColumns...).From(usersTable).OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	r.l.Debug("getting all users", "query", query)
	rows, err := r.dbGetter(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint

	var users []roster.ExistingUserRecord
	for rows.Next() {
		user, err := extractUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func extractUser(s Scannable) (roster.ExistingUserRecord, error) {
	var e userEntity
	if err := s.Scan(&e.ID, &e.Name, &e.Email, &e.Age, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return roster.ExistingUserRecord{}, ErrNotFound
		}
		return roster.ExistingUserRecord{}, err
	}

	return mapToExistingUserRecord(e), nil
}

func mapToUserEntity(user roster.ExistingUserRecord) userEntity {
	return userEntity{
		ID:        int64(user.ID),
		Name:      toNullString(user.Name),
		Email:     toNullString(user.Email),
		Age:       user.Age,
		CreatedAt: user.CreatedAt.Unix(),
		UpdatedAt: user.UpdatedAt.Unix(),
	}
}

func mapToExistingUserRecord(e userEntity) roster.ExistingUserRecord {
	return roster.ExistingUserRecord{
		ExistingRecord: roster.ExistingRecord[roster.UserID]{
			ID:        roster.UserID(e.ID),
			CreatedAt: time.Unix(e.CreatedAt, 0),
			UpdatedAt: time.Unix(e.UpdatedAt, 0),
		},
		UserRecord: roster.UserRecord{
			Name:  fromNullString(e.Name),
			Email: fromNullString(e.Email),
			Age:   e.Age,
		},
	}
}

func toNullString(o roster.Optional[string]) sql.NullString {
	return sql.NullString{String: o.Get(), Valid: !o.IsEmpty()}
}

func fromNullString(ns sql.NullString) roster.Optional[string] {
	if !ns.Valid {
		return roster.None[string]()
	}
	return roster.Some(ns.String)
}
