package sqlite

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"

	"github.com/benjamonnguyen/roster"
)

const preferencesTable = "preferences"

type preferencesRepo struct {
	dbGetter txStdLib.DBGetter
	l        *log.Logger
	obs      instrumentation
}

var _ roster.PreferencesRepo = (*preferencesRepo)(nil)

func NewPreferencesRepo(dbGetter txStdLib.DBGetter, logger *log.Logger, opts ...Option) *preferencesRepo {
	return &preferencesRepo{
		dbGetter: dbGetter,
		l:        logger,
		obs:      newInstrumentation(opts),
	}
}

func (r *preferencesRepo) SavePreference(ctx context.Context, key, value string) (err error) {
	ctx, done := r.obs.observe(ctx, "replace", preferencesTable)
	defer func() { done(err) }()

	query, args, err := sq.Replace(preferencesTable).Columns("key", "value").Values(key, value).ToSql()
	if err != nil {
		return err
	}
	r.l.Debug("saving preference", "query", query, "key", key)
	_, err = r.dbGetter(ctx).ExecContext(ctx, query, args...)
	return err
}

func (r *preferencesRepo) GetPreference(ctx context.Context, key string) (_ string, err error) {
	ctx, done := r.obs.observe(ctx, "select", preferencesTable)
	defer func() { done(err) }()

	query, args, err := sq.Select("value").From(preferencesTable).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return "", err
	}
	r.l.Debug("getting preference", "query", query, "key", key)

	var value string
	if err := r.dbGetter(ctx).QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

func (r *preferencesRepo) ClearPreferences(ctx context.Context) (err error) {
	ctx, done := r.obs.observe(ctx, "delete_all", preferencesTable)
	defer func() { done(err) }()

	query, args, err := sq.Delete(preferencesTable).ToSql()
	if err != nil {
		return err
	}
	r.l.Debug("clearing preferences", "query", query)
	_, err = r.dbGetter(ctx).ExecContext(ctx, query, args...)
	return err
}
