// Command seed creates an account, and optionally a store it owns, directly
// against the database. It is how the first admin gets in.
//
//	seed -name "Platform Administrator One" -email admin@example.com -address "1 Main St"
//	seed -role store_owner ... -store-name "Corner Shop" -store-email shop@example.com -store-address "2 High St"
//
// The password is prompted for without echo, or read from the first line of
// stdin when stdin is not a terminal.
//
// Account and store are separate writes. When the store step fails the
// store_owner account stays, and re-running with the same -email reuses it
// instead of failing on the taken email.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/term"

	"github.com/storeratings/ratings-api/internal/core/domain"
	"github.com/storeratings/ratings-api/internal/core/ports"
	"github.com/storeratings/ratings-api/internal/core/service"
	"github.com/storeratings/ratings-api/internal/infrastructure/config"
	"github.com/storeratings/ratings-api/internal/infrastructure/db/postgres"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

type seeder interface {
	CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	CreateStore(ctx context.Context, in ports.CreateStoreInput) (*domain.Store, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// seedTarget pairs account management with the account lookup a re-run needs.
type seedTarget struct {
	*service.AdminService
	*postgres.UserRepository
}

type options struct {
	name         string
	email        string
	address      string
	role         string
	storeName    string
	storeEmail   string
	storeAddress string
}

func main() {
	_ = godotenv.Load()

	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin *os.File, stdout io.Writer) error {
	opts, err := parseFlags(args, stdout)
	if err != nil {
		return err
	}

	var env struct {
		Postgres config.PostgresConfig
	}
	if err := envconfig.Process(ctx, &env); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	password, err := promptPassword(stdin, stdout)
	if err != nil {
		return err
	}

	db, err := postgres.Connect(ctx, postgres.Config{DSN: env.Postgres.URL, MaxOpenConns: 2, MaxIdleConns: 1})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}

	users := postgres.NewUserRepository(db)
	admin := service.NewAdminService(
		users,
		postgres.NewStoreRepository(db),
		postgres.NewStatsRepository(db),
		zerolog.Nop(),
	)
	return seed(ctx, seedTarget{AdminService: admin, UserRepository: users}, opts, password, stdout)
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.name, "name", "", "display name (20-60 characters)")
	fs.StringVar(&opts.email, "email", "", "login email")
	fs.StringVar(&opts.address, "address", "", "postal address")
	fs.StringVar(&opts.role, "role", string(domain.RoleAdmin), "admin, user or store_owner")
	fs.StringVar(&opts.storeName, "store-name", "", "create a store owned by the new account")
	fs.StringVar(&opts.storeEmail, "store-email", "", "store contact email")
	fs.StringVar(&opts.storeAddress, "store-address", "", "store address")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if opts.name == "" || opts.email == "" || opts.address == "" {
		return options{}, errors.New("-name, -email and -address are required")
	}
	if opts.storeName != "" && opts.role != string(domain.RoleStoreOwner) {
		return options{}, errors.New("-store-name requires -role store_owner")
	}
	return opts, nil
}

// promptPassword reads without echo from a terminal, otherwise the first
// line of stdin.
func promptPassword(stdin *os.File, w io.Writer) (string, error) {
	fd := int(stdin.Fd())
	if !isTerminal(fd) {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(w, "Password: ")
	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}

func seed(ctx context.Context, s seeder, opts options, password string, out io.Writer) error {
	user, err := s.CreateUser(ctx, ports.CreateUserInput{
		Name:     opts.name,
		Email:    opts.email,
		Password: password,
		Address:  opts.address,
		Role:     opts.role,
	})
	switch {
	case errors.Is(err, domain.ErrEmailTaken) && opts.storeName != "":
		user, err = existingOwner(ctx, s, opts.email)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "reusing %s %s (%s)\n", user.Role, user.Email, user.ID)
	case err != nil:
		return fmt.Errorf("create account: %w", err)
	default:
		fmt.Fprintf(out, "created %s %s (%s)\n", user.Role, user.Email, user.ID)
	}

	if opts.storeName == "" {
		return nil
	}
	store, err := s.CreateStore(ctx, ports.CreateStoreInput{
		Name:    opts.storeName,
		Email:   opts.storeEmail,
		Address: opts.storeAddress,
		OwnerID: user.ID,
	})
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	fmt.Fprintf(out, "created store %q (%s)\n", store.Name, store.ID)
	return nil
}

// existingOwner loads the account left behind by an earlier run whose store
// step failed. Only store_owner accounts are reused.
func existingOwner(ctx context.Context, s seeder, email string) (*domain.User, error) {
	user, err := s.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	if user.Role != domain.RoleStoreOwner {
		return nil, fmt.Errorf("create account: %w: %s is a %s account", domain.ErrEmailTaken, user.Email, user.Role)
	}
	return user, nil
}
