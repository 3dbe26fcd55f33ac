package app

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sqli/medwork-client/pkg/medisdk"
)

func (app *Application) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (prompted if omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" {
		return fmt.Errorf("login: -email is required")
	}
	if *password == "" {
		pw, err := promptLine("Password: ")
		if err != nil {
			return err
		}
		*password = pw
	}

	user, err := app.sessions.Login(ctx, medisdk.Credentials{
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s (%s)\n", user.FullName, user.Role)
	if user.Role == medisdk.RolePending {
		fmt.Println("Your account is awaiting approval; most actions are unavailable until a role is assigned.")
	}
	return nil
}

func (app *Application) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	firstName := fs.String("first", "", "first name")
	lastName := fs.String("last", "", "last name")
	matricule := fs.String("matricule", "", "employee matricule (optional)")
	password := fs.String("password", "", "account password (prompted if omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" || *firstName == "" || *lastName == "" {
		return fmt.Errorf("register: -email, -first and -last are required")
	}
	if *password == "" {
		pw, err := promptLine("Password: ")
		if err != nil {
			return err
		}
		*password = pw
	}

	resp, err := app.sessions.Register(ctx, medisdk.RegisterRequest{
		FirstName: *firstName,
		LastName:  *lastName,
		Email:     *email,
		Password:  *password,
		Matricule: *matricule,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Registered %s <%s> with role %s.\n", resp.FullName, resp.Email, resp.Role)
	fmt.Println("Run `mediwork login` once your account has been approved.")
	return nil
}

func (app *Application) cmdLogout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("logout", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := app.sessions.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func (app *Application) cmdWhoami(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("whoami", flag.ContinueOnError)
	remote := fs.Bool("remote", false, "fetch the profile from the server instead of local state")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *remote {
		sess, err := app.session()
		if err != nil {
			return err
		}
		me, err := sess.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s> %s\n", me.FirstName+" "+me.LastName, me.Email, me.Role)
		return nil
	}

	user := app.sessions.CurrentUser()
	if user == nil {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("%s <%s> %s\n", user.FullName, user.Email, user.Role)
	return nil
}

func (app *Application) cmdRefresh(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("refresh", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := app.sessions.RefreshAccessToken(ctx); err != nil {
		return err
	}
	fmt.Println("Access token refreshed.")
	return nil
}

// cmdWatch runs the background expiry watcher in the foreground until
// interrupted. Useful alongside scripted use of the other commands, since
// they all share the same session database.
func (app *Application) cmdWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if app.sessions.Session() == nil {
		return fmt.Errorf("not logged in, run `mediwork login` first")
	}

	app.sessions.StartWatcher()
	defer app.sessions.StopWatcher()

	fmt.Printf("Watching session, refreshing every %s when needed. Ctrl-C to stop.\n", app.cfg.CheckInterval)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	<-shutdown

	return nil
}

func promptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
