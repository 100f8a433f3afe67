// Package main is the entry point for the userboard demo CLI. It plays
// the role of the presentation layer: it collects form input as flags,
// calls into the core, and prints what a view would render - including
// the navigation destination the core signals back.
package main

import (
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"userboard/internal/admin"
	"userboard/internal/config"
	"userboard/internal/domain"
	"userboard/internal/metrics"
	"userboard/internal/repository"
	"userboard/internal/session"
	"userboard/internal/store"
	"userboard/internal/store/memory"
	"userboard/internal/store/sqlite"
	"userboard/internal/validation"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// app bundles the wired core, one instance per process.
type app struct {
	durable  store.Store
	scoped   store.Store
	users    repository.UserRepository
	sessions *session.Manager
	console  *admin.Console
	logger   zerolog.Logger
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "version":
		fmt.Printf("userboard demo CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)
		return
	case "help", "-h", "--help":
		printUsage()
		return
	}

	cfg, err := config.Load(os.Getenv("USERBOARD_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	setupLogger(cfg.Logging)

	ctx := context.Background()
	a, err := wire(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to wire application")
		os.Exit(1)
	}
	defer a.durable.Close()
	defer a.scoped.Close()

	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.Serve(cfg.Metrics.Addr, cfg.Metrics.Path, a.logger); err != nil {
				a.logger.Error().Err(err).Msg("metrics listener stopped")
			}
		}()
	}

	// The seed runs before any command touches the collection, the same
	// way the source app seeds on mount.
	if err := a.users.EnsureSeedAdmin(ctx); err != nil {
		log.Error().Err(err).Msg("failed to seed admin")
		os.Exit(1)
	}

	if err := a.run(ctx, command, args); err != nil {
		if ve, ok := domain.AsValidationError(err); ok {
			for _, field := range ve.Fields.Fields() {
				fmt.Fprintf(os.Stderr, "%s: %s\n", field, ve.Fields[field])
			}
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "seed":
		fmt.Println("seed admin ensured")
		return nil
	case "register":
		return a.register(ctx, args)
	case "check":
		return a.check(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "edit":
		return a.edit(ctx, args)
	case "list":
		return a.list(ctx, args)
	case "admin-edit":
		return a.adminEdit(ctx, args)
	case "delete":
		return a.delete(ctx, args)
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	var (
		c       domain.User
		confirm string
		image   string
	)
	fs.StringVar(&c.Username, "username", "", "username")
	fs.StringVar(&c.Password, "password", "", "password")
	fs.StringVar(&confirm, "confirm", "", "password confirmation")
	fs.StringVar(&c.FirstName, "first-name", "", "first name")
	fs.StringVar(&c.LastName, "last-name", "", "last name")
	fs.StringVar(&c.Email, "email", "", "email address")
	fs.StringVar(&c.DateOfBirth, "date-of-birth", "", "date of birth (YYYY-MM-DD)")
	fs.StringVar(&c.City, "city", "", "city")
	fs.StringVar(&c.StreetName, "street", "", "street name")
	fs.StringVar(&c.ApartmentNumber, "apartment", "", "apartment number")
	fs.StringVar(&image, "image", "", "path to a JPEG profile photo")
	fs.Parse(args)

	if image != "" {
		encoded, err := encodeImage(image)
		if err != nil {
			return err
		}
		c.Image = encoded
	}

	u, err := a.users.Register(ctx, c, confirm)
	if err != nil {
		return err
	}
	fmt.Printf("registered %s -> %s\n", u.Username, domain.DestLogin)
	return nil
}

func (a *app) check(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	username := fs.String("username", "", "username to probe")
	fs.Parse(args)

	available, err := a.users.UsernameAvailable(ctx, *username)
	if err != nil {
		return err
	}
	if available {
		fmt.Printf("%s is available\n", *username)
	} else {
		fmt.Printf("%s is not available\n", *username)
	}
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	sess, dest, err := a.sessions.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s) -> %s\n", sess.User.Username, sess.Role, dest)
	return nil
}

// edit is the self-edit path: full validation, then persist, then refresh
// the session so the navigation chrome sees the new identity.
func (a *app) edit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password")
	patch := patchFlags(fs)
	image := fs.String("image", "", "path to a new JPEG profile photo")
	fs.Parse(args)

	sess, _, err := a.sessions.Login(ctx, *username, *password)
	if err != nil {
		return err
	}

	p := patch(sess.User)
	if *image != "" {
		encoded, err := encodeImage(*image)
		if err != nil {
			return err
		}
		p.Image = &encoded
	}

	updated, err := selfEdit(ctx, a.users, a.sessions, sess.User.Username, p)
	if err != nil {
		return err
	}
	fmt.Printf("updated %s -> %s\n", updated.Username, domain.DestProfile)
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	if err := a.adminSession(ctx, args, "list"); err != nil {
		return err
	}

	rows, err := a.console.Rows(ctx)
	if err != nil {
		return err
	}
	for _, r := range rows {
		photo := " "
		if r.HasImage {
			photo = "*"
		}
		fmt.Printf("%s %-15s %-25s %-20s %s\n", photo, r.Username, r.FullName, r.BirthDate, r.Address)
	}
	return nil
}

func (a *app) adminEdit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("admin-edit", flag.ExitOnError)
	adminUser := fs.String("as-username", domain.AdminUsername, "admin username")
	adminPass := fs.String("as-password", "", "admin password")
	target := fs.String("target", "", "username of the row to edit")
	patch := patchFlags(fs)
	fs.Parse(args)

	if _, _, err := a.sessions.Login(ctx, *adminUser, *adminPass); err != nil {
		return err
	}
	if err := a.console.Authorize(ctx); err != nil {
		return err
	}

	draft, err := a.console.BeginEdit(ctx, *target)
	if err != nil {
		return err
	}
	p := patch(domain.User{
		FirstName:       draft.FirstName,
		LastName:        draft.LastName,
		DateOfBirth:     draft.DateOfBirth,
		City:            draft.City,
		StreetName:      draft.StreetName,
		ApartmentNumber: draft.ApartmentNumber,
	})
	draft.FirstName = p.FirstName
	draft.LastName = p.LastName
	draft.DateOfBirth = p.DateOfBirth
	draft.City = p.City
	draft.StreetName = p.StreetName
	draft.ApartmentNumber = p.ApartmentNumber

	updated, err := a.console.Save(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("saved %s\n", updated.Username)
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	adminUser := fs.String("as-username", domain.AdminUsername, "admin username")
	adminPass := fs.String("as-password", "", "admin password")
	target := fs.String("target", "", "username of the row to delete")
	fs.Parse(args)

	if _, _, err := a.sessions.Login(ctx, *adminUser, *adminPass); err != nil {
		return err
	}
	if err := a.console.Authorize(ctx); err != nil {
		return err
	}

	dest, err := a.console.Delete(ctx, *target)
	if err != nil {
		return err
	}
	fmt.Printf("deleted %s -> %s\n", *target, dest)
	return nil
}

// adminSession logs in with the -as-username/-as-password flags and
// checks console authorization.
func (a *app) adminSession(ctx context.Context, args []string, name string) error {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	adminUser := fs.String("as-username", domain.AdminUsername, "admin username")
	adminPass := fs.String("as-password", "", "admin password")
	fs.Parse(args)

	if _, _, err := a.sessions.Login(ctx, *adminUser, *adminPass); err != nil {
		return err
	}
	return a.console.Authorize(ctx)
}

// patchFlags registers the mutable-field flags and returns a closure that
// builds a patch from the current record, keeping unset flags unchanged.
func patchFlags(fs *flag.FlagSet) func(domain.User) domain.ProfilePatch {
	firstName := fs.String("first-name", "", "first name")
	lastName := fs.String("last-name", "", "last name")
	dateOfBirth := fs.String("date-of-birth", "", "date of birth (YYYY-MM-DD)")
	city := fs.String("city", "", "city")
	street := fs.String("street", "", "street name")
	apartment := fs.String("apartment", "", "apartment number")

	return func(current domain.User) domain.ProfilePatch {
		p := domain.PatchOf(current)
		if *firstName != "" {
			p.FirstName = *firstName
		}
		if *lastName != "" {
			p.LastName = *lastName
		}
		if *dateOfBirth != "" {
			p.DateOfBirth = *dateOfBirth
		}
		if *city != "" {
			p.City = *city
		}
		if *street != "" {
			p.StreetName = *street
		}
		if *apartment != "" {
			p.ApartmentNumber = *apartment
		}
		return p
	}
}

// selfEdit is the validated self-edit flow: validation engine, then
// repository, then session refresh.
func selfEdit(ctx context.Context, users repository.UserRepository, sessions *session.Manager, username string, p domain.ProfilePatch) (domain.User, error) {
	if errs := validation.ValidateProfileUpdate(p); len(errs) > 0 {
		return domain.User{}, domain.NewValidationError(errs)
	}
	updated, err := users.UpdateUser(ctx, username, p)
	if err != nil {
		return domain.User{}, err
	}
	if err := sessions.RefreshIfSelf(ctx, updated); err != nil {
		return domain.User{}, err
	}
	return updated, nil
}

// encodeImage is the file-to-base64 collaborator: it reads a JPEG file
// and produces the data string the core stores verbatim.
func encodeImage(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw), nil
}

func wire(ctx context.Context, cfg *config.Config) (*app, error) {
	logger := log.Logger

	var durable store.Store
	switch cfg.Storage.Driver {
	case "sqlite":
		s, err := sqlite.NewStore(ctx, sqlite.Config{
			Path:        cfg.Storage.Path,
			JournalMode: cfg.Storage.JournalMode,
			BusyTimeout: cfg.Storage.BusyTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		durable = s
	case "memory":
		durable = memory.NewStore(logger)
	default:
		return nil, errors.New("unknown storage driver: " + cfg.Storage.Driver)
	}

	scoped := memory.NewStore(logger)
	users := repository.NewUserRepository(durable, logger)
	sessions := session.NewManager(scoped, users, logger)
	console := admin.NewConsole(users, sessions, logger)

	// Navigation chrome would re-render here; the CLI just logs it.
	sessions.Subscribe(func(sess *domain.Session) {
		if sess == nil {
			logger.Debug().Msg("navbar: anonymous")
			return
		}
		logger.Debug().Str("username", sess.User.Username).Str("role", string(sess.Role)).Msg("navbar: authenticated")
	})

	return &app{
		durable:  durable,
		scoped:   scoped,
		users:    users,
		sessions: sessions,
		console:  console,
		logger:   logger,
	}, nil
}

func setupLogger(cfg config.Logging) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func printUsage() {
	fmt.Println(`userboard demo CLI

Usage:
  userboard <command> [flags]

Commands:
  seed        Ensure the seed admin account exists
  register    Register a new account (full field validation)
  check       Probe username availability
  login       Authenticate and show the derived role
  edit        Self-edit the profile (validated; may change the photo)
  list        Show the admin table (requires admin credentials)
  admin-edit  Edit a row as admin (photo untouched)
  delete      Delete a row as admin
  version     Print version information
  help        Show this help message

Examples:
  userboard register -username dana -password 'Abcdef1!' -confirm 'Abcdef1!' \
    -first-name דנה -last-name לוי -email dana@example.com \
    -date-of-birth 1994-05-02 -city 'תל אביב' -street 'הרצל' -apartment 12 \
    -image ./dana.jpg
  userboard login -username dana -password 'Abcdef1!'
  userboard list -as-password ad12343211ad
  userboard delete -as-password ad12343211ad -target dana`)
}
