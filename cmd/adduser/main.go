// Command adduser creates an account directly in the configured store.
//
//	adduser -username alice -email alice@example.com [-first Alice] [-last Liddell]
//
// The password is prompted for unless -password is given.
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
	"golang.org/x/term"

	"github.com/moneymanager/money-api/internal/core/ports"
	"github.com/moneymanager/money-api/internal/core/service"
	"github.com/moneymanager/money-api/internal/infrastructure/config"
	"github.com/moneymanager/money-api/internal/infrastructure/db"
	"github.com/moneymanager/money-api/internal/infrastructure/queue"
)

func main() {
	_ = godotenv.Load()

	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	username := fs.String("username", "", "Username")
	email := fs.String("email", "", "E-mail address")
	first := fs.String("first", "", "First name")
	last := fs.String("last", "", "Last name")
	passwordFlag := fs.String("password", "", "Password (prompted when omitted)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	var missing []string
	if *username == "" {
		missing = append(missing, "username")
	}
	if *email == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		fmt.Fprintln(stdout, "Usage: adduser -username <name> -email <address> [-first <name>] [-last <name>] [-password <password>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password cannot be empty")
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	storage, err := db.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer storage.Close(ctx)

	log := zerolog.Nop()
	auth := service.NewAuthService(
		storage.Users,
		service.NewBcryptHasher(cfg.BcryptCost),
		service.NewJWTTokenService(cfg.JWTSecret, cfg.JWTTTL),
		queue.NopPublisher{Log: log},
		log,
	)

	user, err := auth.Register(ctx, ports.RegisterInput{
		Username:  *username,
		Email:     *email,
		Password:  password,
		FirstName: *first,
		LastName:  *last,
	})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %s\n", user.Username, user.ID)
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// Pipes and tests.
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
