package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/benjamonnguyen/roster"
	"github.com/benjamonnguyen/roster/datefmt"
	"github.com/benjamonnguyen/roster/models"
	"github.com/benjamonnguyen/roster/sqlite"
)

const (
	ExitSuccess           = 0
	ExitNotFound          = 1
	ExitInvalidInvocation = 2
	ExitConfigError       = 3
	ExitInternalError     = 4
)

const usage = `usage: roster [-p] <command> [flags]

commands:
  add    -name NAME -email EMAIL -age N
  list
  get    -id ID
  update -id ID [-name NAME] [-email EMAIL] [-age N]
  delete -id ID
  clear
  prefs  [-name NAME] [-email EMAIL] [-clear]
  now    [-pattern PATTERN]
  fmt    -unix SECONDS [-pattern PATTERN]
`

var errUsage = errors.New("invalid invocation")

type app struct {
	users     UserManager
	prefs     roster.PreferencesRepo
	formatter datefmt.Formatter
	loc       *time.Location
	out       io.Writer
	l         *log.Logger
}

// run executes one command and returns its exit code.
func (a *app) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ExitInvalidInvocation
	}

	var err error
	switch args[0] {
	case "add":
		err = a.add(ctx, args[1:])
	case "list":
		err = a.list(ctx)
	case "get":
		err = a.get(ctx, args[1:])
	case "update":
		err = a.update(ctx, args[1:])
	case "delete":
		err = a.delete(ctx, args[1:])
	case "clear":
		err = a.clear(ctx)
	case "prefs":
		err = a.preferences(ctx, args[1:])
	case "now":
		err = a.now(args[1:])
	case "fmt":
		err = a.format(args[1:])
	default:
		err = fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}

	return a.exitCode(err)
}

func (a *app) exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, sqlite.ErrNotFound):
		fmt.Fprintln(a.out, "not found")
		return ExitNotFound
	case errors.Is(err, errUsage), errors.Is(err, ErrInvalidEmail), errors.Is(err, datefmt.ErrInvalidPattern):
		fmt.Fprintln(a.out, err)
		return ExitInvalidInvocation
	default:
		a.l.Error("command failed", "err", err)
		return ExitInternalError
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s", errUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", errUsage, fs.Arg(0))
	}
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := newFlagSet("add")
	name := fs.String("name", "", "")
	email := fs.String("email", "", "")
	age := fs.Int("age", 0, "")
	if err := parse(fs, args); err != nil {
		return err
	}

	// flags left off the command line are stored as absent
	nameOpt, emailOpt := roster.None[string](), roster.None[string]()
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			nameOpt = roster.Some(*name)
		case "email":
			emailOpt = roster.Some(*email)
		}
	})

	inserted, err := a.users.AddUser(ctx, nameOpt, emailOpt, *age)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, models.FromExisting(inserted))
	return nil
}

func (a *app) list(ctx context.Context) error {
	users, err := a.users.Users(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		fmt.Fprintf(a.out, "%s created %s\n", models.FromExisting(u), a.formatter.Format(u.CreatedAt.In(a.loc)))
	}
	return nil
}

func idFlag(fs *flag.FlagSet) *int64 {
	return fs.Int64("id", 0, "")
}

func (a *app) get(ctx context.Context, args []string) error {
	fs := newFlagSet("get")
	id := idFlag(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		return fmt.Errorf("%w: -id is required", errUsage)
	}

	r, err := a.users.GetUser(ctx, roster.UserID(*id))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, r)
	return nil
}

func (a *app) update(ctx context.Context, args []string) error {
	fs := newFlagSet("update")
	id := idFlag(fs)
	name := fs.String("name", "", "")
	email := fs.String("email", "", "")
	age := fs.Int("age", 0, "")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		return fmt.Errorf("%w: -id is required", errUsage)
	}

	r, err := a.users.GetUser(ctx, roster.UserID(*id))
	if err != nil {
		return err
	}
	// only flags given on the command line change the record
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			r.SetName(roster.Some(*name))
		case "email":
			r.SetEmail(roster.Some(*email))
		case "age":
			r.SetAge(*age)
		}
	})

	updated, err := a.users.UpdateUser(ctx, r)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, models.FromExisting(updated))
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := newFlagSet("delete")
	id := idFlag(fs)
	if err := parse(fs, args); err != nil {
		return err
	}
	if *id <= 0 {
		return fmt.Errorf("%w: -id is required", errUsage)
	}

	deleted, err := a.users.DeleteUser(ctx, roster.UserID(*id))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "deleted", models.FromExisting(deleted))
	return nil
}

func (a *app) clear(ctx context.Context) error {
	n, err := a.users.DeleteAllUsers(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted %d users\n", n)
	return nil
}

func (a *app) preferences(ctx context.Context, args []string) error {
	fs := newFlagSet("prefs")
	name := fs.String("name", "", "")
	email := fs.String("email", "", "")
	clearAll := fs.Bool("clear", false, "")
	if err := parse(fs, args); err != nil {
		return err
	}

	if *clearAll {
		if err := a.prefs.ClearPreferences(ctx); err != nil {
			return err
		}
	}

	var saveErr error
	fs.Visit(func(f *flag.Flag) {
		if saveErr != nil {
			return
		}
		switch f.Name {
		case "name":
			saveErr = a.prefs.SavePreference(ctx, roster.UserNamePreference, *name)
		case "email":
			saveErr = a.prefs.SavePreference(ctx, roster.UserEmailPreference, *email)
		}
	})
	if saveErr != nil {
		return saveErr
	}

	for _, key := range []string{roster.UserNamePreference, roster.UserEmailPreference} {
		v, err := a.prefs.GetPreference(ctx, key)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s=%s\n", key, v)
	}
	return nil
}

func (a *app) now(args []string) error {
	fs := newFlagSet("now")
	pattern := fs.String("pattern", "", "")
	if err := parse(fs, args); err != nil {
		return err
	}

	if *pattern == "" {
		fmt.Fprintln(a.out, a.formatter.FormatNow())
		return nil
	}
	// same instant source as FormatNow
	s, err := a.formatter.FormatPattern(a.formatter.Now(), *pattern)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, s)
	return nil
}

func (a *app) format(args []string) error {
	fs := newFlagSet("fmt")
	unix := fs.String("unix", "", "")
	pattern := fs.String("pattern", "", "")
	if err := parse(fs, args); err != nil {
		return err
	}
	secs, err := strconv.ParseInt(*unix, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: -unix must be whole seconds", errUsage)
	}
	t := time.Unix(secs, 0).In(a.loc)

	if *pattern == "" {
		fmt.Fprintln(a.out, a.formatter.Format(t))
		return nil
	}
	s, err := a.formatter.FormatPattern(t, *pattern)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, s)
	return nil
}
