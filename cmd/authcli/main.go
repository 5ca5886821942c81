// Command authcli registers, logs in and shows the profile against the auth API.
// The token is kept in <dir>/token between runs.
//
//	authcli [-server URL] [-dir DIR] [-password PW] register <username> <email>
//	authcli [-server URL] [-dir DIR] [-password PW] login <email>
//	authcli [-server URL] [-dir DIR] profile
//	authcli [-dir DIR] logout
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"auth-app/internal/client"

	"golang.org/x/term"
)

const defaultServer = "http://localhost:5001"

var (
	// readPassword is swapped in tests to avoid touching the terminal.
	readPassword = term.ReadPassword
	stdinFd      = func() int { return int(os.Stdin.Fd()) }
	exitFunc     = os.Exit
)

var errUsage = errors.New("usage: authcli [-server URL] [-dir DIR] [-password PW] register <username> <email> | login <email> | profile | logout")

func defaultDir() string {
	if d, err := os.UserConfigDir(); err == nil {
		return filepath.Join(d, "authcli")
	}
	return ".authcli"
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("authcli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	server := fs.String("server", defaultServer, "auth API base URL")
	dir := fs.String("dir", defaultDir(), "directory holding the saved token")
	password := fs.String("password", "", "password (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w\n%v", errUsage, err)
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	sess := client.NewSession(client.NewClient(*server, nil), client.NewFileTokenStore(*dir))
	cmd, rest := fs.Arg(0), fs.Args()[1:]

	getPassword := func() (string, error) {
		if *password != "" {
			return *password, nil
		}
		fmt.Fprint(stdout, "Enter password: ")
		pw, err := readPassword(stdinFd())
		fmt.Fprintln(stdout)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pw), nil
	}

	switch cmd {
	case "register":
		if len(rest) != 2 {
			return errUsage
		}
		pw, err := getPassword()
		if err != nil {
			return err
		}
		u, err := sess.Register(ctx, rest[0], rest[1], pw)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "registered %s <%s> (id %d)\n", u.Username, u.Email, u.ID)

	case "login":
		if len(rest) != 1 {
			return errUsage
		}
		pw, err := getPassword()
		if err != nil {
			return err
		}
		u, err := sess.Login(ctx, rest[0], pw)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "logged in as %s <%s>\n", u.Username, u.Email)

	case "profile":
		if err := sess.Start(ctx); err != nil {
			return err
		}
		u, ok := sess.CurrentUser()
		if !ok {
			return errors.New("not logged in")
		}
		fmt.Fprintf(stdout, "id:       %d\nusername: %s\nemail:    %s\n", u.ID, u.Username, u.Email)

	case "logout":
		if err := sess.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "logged out")

	default:
		return errUsage
	}
	return nil
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitFunc(1)
	}
}
