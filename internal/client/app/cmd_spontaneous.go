package app

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/sqli/medwork-client/pkg/medisdk"
)

func (app *Application) cmdSpontaneous(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("spontaneous: expected a subcommand (request, my, stats, list, get, update, confirm, reject, cancel)")
	}

	sess, err := app.session()
	if err != nil {
		return err
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "request":
		fs := flag.NewFlagSet("spontaneous request", flag.ContinueOnError)
		reason := fs.String("reason", "", "why the visit is needed")
		notes := fs.String("notes", "", "additional notes")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *reason == "" {
			return fmt.Errorf("spontaneous request: -reason is required")
		}
		visit, err := sess.RequestSpontaneousVisit(ctx, medisdk.SpontaneousVisitRequest{
			Reason:          *reason,
			AdditionalNotes: *notes,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Submitted request %d (%s)\n", visit.ID, visit.SchedulingStatus)
		return nil

	case "my":
		visits, err := sess.MySpontaneousVisits(ctx)
		if err != nil {
			return err
		}
		printSpontaneousVisits(visits)
		return nil

	case "stats":
		stats, err := sess.MySpontaneousVisitStats(ctx)
		if err != nil {
			return err
		}
		table([][]string{
			{"TOTAL", "PENDING", "SCHEDULED", "CANCELLED"},
			{
				strconv.FormatInt(stats.Total, 10),
				strconv.FormatInt(stats.Pending, 10),
				strconv.FormatInt(stats.Scheduled, 10),
				strconv.FormatInt(stats.Cancelled, 10),
			},
		})
		return nil

	case "list":
		visits, err := sess.SpontaneousVisits(ctx)
		if err != nil {
			return err
		}
		printSpontaneousVisits(visits)
		return nil

	case "get":
		id, err := parseIDArg(rest, "spontaneous get <id>")
		if err != nil {
			return err
		}
		visit, err := sess.GetSpontaneousVisit(ctx, id)
		if err != nil {
			return err
		}
		printSpontaneousVisits([]medisdk.SpontaneousVisit{*visit})
		return nil

	case "update":
		fs := flag.NewFlagSet("spontaneous update", flag.ContinueOnError)
		id := fs.Int64("id", 0, "request id")
		reason := fs.String("reason", "", "why the visit is needed")
		notes := fs.String("notes", "", "additional notes")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *id == 0 || *reason == "" {
			return fmt.Errorf("spontaneous update: -id and -reason are required")
		}
		visit, err := sess.UpdateSpontaneousVisit(ctx, *id, medisdk.SpontaneousVisitRequest{
			Reason:          *reason,
			AdditionalNotes: *notes,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Updated request %d (%s)\n", visit.ID, visit.SchedulingStatus)
		return nil

	case "confirm":
		fs := flag.NewFlagSet("spontaneous confirm", flag.ContinueOnError)
		id := fs.Int64("id", 0, "request id")
		doctor := fs.Int64("doctor", 0, "doctor user id")
		slot := fs.Int64("slot", 0, "slot id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *id == 0 || *doctor == 0 || *slot == 0 {
			return fmt.Errorf("spontaneous confirm: -id, -doctor and -slot are required")
		}
		visit, err := sess.ConfirmSpontaneousVisit(ctx, *id, medisdk.ConfirmSpontaneousVisitRequest{
			DoctorID: *doctor,
			SlotID:   *slot,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Scheduled as visit %d (%s)\n", visit.ID, visit.Status)
		return nil

	case "reject":
		id, err := parseIDArg(rest, "spontaneous reject <id>")
		if err != nil {
			return err
		}
		if err := sess.RejectSpontaneousVisit(ctx, id); err != nil {
			return err
		}
		fmt.Println("Rejected.")
		return nil

	case "cancel":
		id, err := parseIDArg(rest, "spontaneous cancel <id>")
		if err != nil {
			return err
		}
		if err := sess.CancelSpontaneousVisit(ctx, id); err != nil {
			return err
		}
		fmt.Println("Cancelled.")
		return nil

	default:
		return fmt.Errorf("spontaneous: unknown subcommand %q", sub)
	}
}

func printSpontaneousVisits(visits []medisdk.SpontaneousVisit) {
	rows := [][]string{{"ID", "COLLABORATOR", "REASON", "STATUS", "CREATED"}}
	for _, v := range visits {
		rows = append(rows, []string{
			strconv.FormatInt(v.ID, 10),
			personName(v.Collaborator),
			v.Reason,
			string(v.SchedulingStatus),
			formatTime(v.CreatedAt),
		})
	}
	table(rows)
}
