package app

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"time"

	"github.com/sqli/medwork-client/pkg/medisdk"
)

func (app *Application) cmdVisits(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("visits: expected a subcommand (my, history, get, create, create-with-slot, cancel, by-status, available-slots)")
	}

	sess, err := app.session()
	if err != nil {
		return err
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "my":
		visits, err := sess.MyVisits(ctx)
		if err != nil {
			return err
		}
		printVisits(visits)
		return nil

	case "history":
		visits, err := sess.MyVisitHistory(ctx)
		if err != nil {
			return err
		}
		printVisits(visits)
		return nil

	case "get":
		id, err := parseIDArg(rest, "visits get <id>")
		if err != nil {
			return err
		}
		visit, err := sess.GetVisit(ctx, id)
		if err != nil {
			return err
		}
		printVisits([]medisdk.Visit{*visit})
		return nil

	case "create":
		fs := flag.NewFlagSet("visits create", flag.ContinueOnError)
		collaborator := fs.Int64("collaborator", 0, "collaborator user id")
		doctor := fs.Int64("doctor", 0, "doctor user id")
		slot := fs.Int64("slot", 0, "slot id")
		visitType := fs.String("type", string(medisdk.VisitPeriodic), "visit type")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *collaborator == 0 || *doctor == 0 || *slot == 0 {
			return fmt.Errorf("visits create: -collaborator, -doctor and -slot are required")
		}
		visit, err := sess.CreateVisit(ctx, medisdk.VisitRequest{
			CollaboratorID: *collaborator,
			DoctorID:       *doctor,
			SlotID:         *slot,
			VisitType:      medisdk.VisitType(*visitType),
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created visit %d (%s)\n", visit.ID, visit.Status)
		return nil

	case "create-with-slot":
		fs := flag.NewFlagSet("visits create-with-slot", flag.ContinueOnError)
		collaborator := fs.Int64("collaborator", 0, "collaborator user id")
		doctor := fs.Int64("doctor", 0, "doctor user id")
		start := fs.String("start", "", "start time (RFC 3339)")
		end := fs.String("end", "", "end time (RFC 3339)")
		visitType := fs.String("type", string(medisdk.VisitPeriodic), "visit type")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *collaborator == 0 || *doctor == 0 || *start == "" || *end == "" {
			return fmt.Errorf("visits create-with-slot: -collaborator, -doctor, -start and -end are required")
		}
		startTime, err := time.Parse(time.RFC3339, *start)
		if err != nil {
			return fmt.Errorf("invalid -start: %w", err)
		}
		endTime, err := time.Parse(time.RFC3339, *end)
		if err != nil {
			return fmt.Errorf("invalid -end: %w", err)
		}
		visit, err := sess.CreateVisitWithSlot(ctx, medisdk.CreateVisitWithSlotRequest{
			CollaboratorID: *collaborator,
			DoctorID:       *doctor,
			StartTime:      startTime,
			EndTime:        endTime,
			VisitType:      medisdk.VisitType(*visitType),
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created visit %d (%s)\n", visit.ID, visit.Status)
		return nil

	case "cancel":
		id, err := parseIDArg(rest, "visits cancel <id>")
		if err != nil {
			return err
		}
		visit, err := sess.CancelVisit(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("Visit %d is now %s\n", visit.ID, visit.Status)
		return nil

	case "by-status":
		if len(rest) != 1 {
			return fmt.Errorf("usage: visits by-status <status>")
		}
		visits, err := sess.VisitsByStatus(ctx, medisdk.VisitStatus(rest[0]))
		if err != nil {
			return err
		}
		printVisits(visits)
		return nil

	case "available-slots":
		id, err := parseIDArg(rest, "visits available-slots <doctor-id>")
		if err != nil {
			return err
		}
		slots, err := sess.AvailableSlotsForDoctor(ctx, id)
		if err != nil {
			return err
		}
		printSlots(slots)
		return nil

	default:
		return fmt.Errorf("visits: unknown subcommand %q", sub)
	}
}

func printVisits(visits []medisdk.Visit) {
	rows := [][]string{{"ID", "COLLABORATOR", "DOCTOR", "TYPE", "STATUS", "START"}}
	for _, v := range visits {
		start := "-"
		if v.Slot != nil {
			start = formatTime(v.Slot.StartTime)
		}
		rows = append(rows, []string{
			strconv.FormatInt(v.ID, 10),
			personName(v.Collaborator),
			personName(v.Doctor),
			string(v.VisitType),
			string(v.Status),
			start,
		})
	}
	table(rows)
}

func personName(p *medisdk.PersonRef) string {
	if p == nil {
		return "-"
	}
	return p.FirstName + " " + p.LastName
}
