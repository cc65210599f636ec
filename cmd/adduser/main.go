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
	_ "time/tzdata"

	"expense_tracker/internal/config"
	"expense_tracker/internal/models"
	"expense_tracker/internal/repositories"
	"expense_tracker/internal/repositories/sqlconnect"
	"expense_tracker/internal/services"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	username := fs.String("user", "", "Username")
	email := fs.String("email", "", "Email address")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	timezone := fs.String("timezone", "UTC", "IANA time zone")
	admin := fs.Bool("admin", false, "Grant the admin role")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" || *email == "" {
		fmt.Fprintln(stdout, "Usage: adduser -user <username> -email <email> [-password <password>] [-timezone <tz>] [-admin]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: user, email")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	cfg := config.Load()
	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetLevel(logrus.WarnLevel)

	ctx := context.Background()
	if err := sqlconnect.RunMigrations(cfg); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	db, dialect, err := sqlconnect.ConnectDb(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	users := services.NewUserService(repositories.NewStore(db, dialect), nil, "", logger)
	user, err := users.CreateUser(ctx, models.RegisterUserRequest{
		Username: *username,
		Email:    *email,
		Password: password,
		Timezone: *timezone,
	}, *admin)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %s (role %s)\n", user.Username, user.ID, user.Role())
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		bytePassword, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(bytePassword), nil
	}

	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return strings.TrimRight(scanner.Text(), "\r"), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
