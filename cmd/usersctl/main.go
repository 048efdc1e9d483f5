// Command usersctl inspects users and toggles their disabled flag.
//
//	usersctl <show|enable|disable> <username>
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"modelhub/internal/config"
	"modelhub/internal/repository"
	"modelhub/internal/store"
)

const usage = "usage: usersctl <show|enable|disable> <username>"

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.Store.URL, cfg.Store.Key)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}

	code := 0
	if err := run(ctx, st.Users, os.Stdout, os.Args[1], os.Args[2]); err != nil {
		code = 1
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usage)
			code = 2
		} else {
			logger.Errorf("%s %s: %v", os.Args[1], os.Args[2], err)
		}
	}
	st.Close()
	os.Exit(code)
}

var errUsage = errors.New("unknown command")

func run(ctx context.Context, users repository.UserRepository, out io.Writer, cmd, username string) error {
	switch cmd {
	case "show":
	case "enable", "disable":
		if err := users.SetDisabled(ctx, username, cmd == "disable"); err != nil {
			return err
		}
	default:
		return errUsage
	}

	user, err := users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	status := "active"
	if user.Disabled {
		status = "disabled"
	}
	_, err = fmt.Fprintf(out, "%s\t%s\tcreated %s\n", user.Username, status, user.CreatedAt.Format("2006-01-02 15:04:05"))
	return err
}

