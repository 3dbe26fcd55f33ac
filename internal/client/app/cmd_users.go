package app

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/sqli/medwork-client/pkg/medisdk"
)

func (app *Application) cmdUsers(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("users: expected a subcommand (list, get, pending, approve, create, assign-role, archive, restore, by-role, counts, doctors)")
	}

	sess, err := app.session()
	if err != nil {
		return err
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		users, err := sess.ListUsers(ctx)
		if err != nil {
			return err
		}
		printUsers(users)
		return nil

	case "get":
		id, err := parseIDArg(rest, "users get <id>")
		if err != nil {
			return err
		}
		user, err := sess.GetUser(ctx, id)
		if err != nil {
			return err
		}
		printUsers([]medisdk.User{*user})
		return nil

	case "pending":
		users, err := sess.PendingUsers(ctx)
		if err != nil {
			return err
		}
		printUsers(users)
		return nil

	case "approve":
		fs := flag.NewFlagSet("users approve", flag.ContinueOnError)
		id := fs.Int64("id", 0, "user id")
		role := fs.String("role", "", "role to assign (RH, DOCTOR, COLLABORATOR, ADMIN)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *id == 0 || *role == "" {
			return fmt.Errorf("users approve: -id and -role are required")
		}
		if !medisdk.Role(*role).Valid() {
			return fmt.Errorf("users approve: unknown role %q", *role)
		}
		if err := sess.ApprovePendingUser(ctx, *id, medisdk.Role(*role)); err != nil {
			return err
		}
		fmt.Println("Approved.")
		return nil

	case "create":
		fs := flag.NewFlagSet("users create", flag.ContinueOnError)
		first := fs.String("first", "", "first name")
		last := fs.String("last", "", "last name")
		email := fs.String("email", "", "email")
		password := fs.String("password", "", "initial password")
		matricule := fs.String("matricule", "", "employee matricule")
		role := fs.String("role", "", "role (RH, DOCTOR, COLLABORATOR, ADMIN)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *first == "" || *last == "" || *email == "" || *password == "" || *role == "" {
			return fmt.Errorf("users create: -first, -last, -email, -password and -role are required")
		}
		user, err := sess.CreateUser(ctx, medisdk.CreateUserRequest{
			FirstName: *first,
			LastName:  *last,
			Email:     *email,
			Password:  *password,
			Matricule: *matricule,
			Role:      medisdk.Role(*role),
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created user %d: %s %s (%s)\n", user.ID, user.FirstName, user.LastName, user.Role)
		return nil

	case "assign-role":
		fs := flag.NewFlagSet("users assign-role", flag.ContinueOnError)
		id := fs.Int64("id", 0, "user id")
		role := fs.String("role", "", "new role")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *id == 0 || *role == "" {
			return fmt.Errorf("users assign-role: -id and -role are required")
		}
		if err := sess.AssignRole(ctx, *id, medisdk.Role(*role)); err != nil {
			return err
		}
		fmt.Println("Role updated.")
		return nil

	case "archive":
		id, err := parseIDArg(rest, "users archive <id>")
		if err != nil {
			return err
		}
		if err := sess.ArchiveUser(ctx, id); err != nil {
			return err
		}
		fmt.Println("Archived.")
		return nil

	case "restore":
		id, err := parseIDArg(rest, "users restore <id>")
		if err != nil {
			return err
		}
		if err := sess.RestoreUser(ctx, id); err != nil {
			return err
		}
		fmt.Println("Restored.")
		return nil

	case "by-role":
		if len(rest) != 1 {
			return fmt.Errorf("usage: users by-role <RH|DOCTOR|COLLABORATOR>")
		}
		users, err := sess.ListUsersByRole(ctx, medisdk.Role(rest[0]))
		if err != nil {
			return err
		}
		printUsers(users)
		return nil

	case "counts":
		counts, err := sess.CountUsersByRole(ctx)
		if err != nil {
			return err
		}
		rows := [][]string{{"ROLE", "COUNT"}}
		for _, c := range counts {
			rows = append(rows, []string{string(c.Role), strconv.FormatInt(c.Count, 10)})
		}
		table(rows)
		return nil

	case "doctors":
		users, err := sess.Doctors(ctx)
		if err != nil {
			return err
		}
		printUsers(users)
		return nil

	default:
		return fmt.Errorf("users: unknown subcommand %q", sub)
	}
}

func printUsers(users []medisdk.User) {
	rows := [][]string{{"ID", "NAME", "EMAIL", "ROLE", "ARCHIVED"}}
	for _, u := range users {
		rows = append(rows, []string{
			strconv.FormatInt(u.ID, 10),
			u.FirstName + " " + u.LastName,
			u.Email,
			string(u.Role),
			formatBool(u.Archived, "yes", "no"),
		})
	}
	table(rows)
}

// parseIDArg reads a single positional numeric id.
func parseIDArg(args []string, usage string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}
