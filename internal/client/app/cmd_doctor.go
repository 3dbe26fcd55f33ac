package app

import (
	"context"
	"flag"
	"fmt"

	"github.com/sqli/medwork-client/pkg/medisdk"
)

func (app *Application) cmdDoctor(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("doctor: expected a subcommand (pending, schedule, confirm, reject, status)")
	}

	sess, err := app.session()
	if err != nil {
		return err
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "pending":
		visits, err := sess.PendingConfirmations(ctx)
		if err != nil {
			return err
		}
		printVisits(visits)
		return nil

	case "schedule":
		visits, err := sess.MySchedule(ctx)
		if err != nil {
			return err
		}
		printVisits(visits)
		return nil

	case "confirm":
		id, err := parseIDArg(rest, "doctor confirm <visit-id>")
		if err != nil {
			return err
		}
		visit, err := sess.ConfirmVisit(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("Visit %d is now %s\n", visit.ID, visit.Status)
		return nil

	case "reject":
		id, err := parseIDArg(rest, "doctor reject <visit-id>")
		if err != nil {
			return err
		}
		visit, err := sess.RejectVisit(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("Visit %d is now %s\n", visit.ID, visit.Status)
		return nil

	case "status":
		fs := flag.NewFlagSet("doctor status", flag.ContinueOnError)
		id := fs.Int64("id", 0, "visit id")
		status := fs.String("to", "", "target status (IN_PROGRESS, COMPLETED, CANCELLED)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *id == 0 || *status == "" {
			return fmt.Errorf("doctor status: -id and -to are required")
		}
		visit, err := sess.UpdateVisitStatus(ctx, *id, medisdk.VisitStatus(*status))
		if err != nil {
			return err
		}
		fmt.Printf("Visit %d is now %s\n", visit.ID, visit.Status)
		return nil

	default:
		return fmt.Errorf("doctor: unknown subcommand %q", sub)
	}
}
