package app

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"time"

	"github.com/sqli/medwork-client/pkg/medisdk"
)

func (app *Application) cmdSlots(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("slots: expected a subcommand (my, create, status, delete, range, recurring)")
	}

	sess, err := app.session()
	if err != nil {
		return err
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "my":
		slots, err := sess.MySlots(ctx)
		if err != nil {
			return err
		}
		printSlots(slots)
		return nil

	case "create":
		fs := flag.NewFlagSet("slots create", flag.ContinueOnError)
		start := fs.String("start", "", "start time (RFC 3339)")
		end := fs.String("end", "", "end time (RFC 3339)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *start == "" || *end == "" {
			return fmt.Errorf("slots create: -start and -end are required")
		}
		startTime, err := time.Parse(time.RFC3339, *start)
		if err != nil {
			return fmt.Errorf("invalid -start: %w", err)
		}
		endTime, err := time.Parse(time.RFC3339, *end)
		if err != nil {
			return fmt.Errorf("invalid -end: %w", err)
		}
		slot, err := sess.CreateSlot(ctx, startTime, endTime)
		if err != nil {
			return err
		}
		fmt.Printf("Created slot %d (%s)\n", slot.ID, slot.Status)
		return nil

	case "status":
		fs := flag.NewFlagSet("slots status", flag.ContinueOnError)
		id := fs.Int64("id", 0, "slot id")
		status := fs.String("to", "", "target status (AVAILABLE, UNAVAILABLE)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *id == 0 || *status == "" {
			return fmt.Errorf("slots status: -id and -to are required")
		}
		slot, err := sess.UpdateSlotStatus(ctx, *id, medisdk.SlotStatus(*status))
		if err != nil {
			return err
		}
		fmt.Printf("Slot %d is now %s\n", slot.ID, slot.Status)
		return nil

	case "delete":
		id, err := parseIDArg(rest, "slots delete <id>")
		if err != nil {
			return err
		}
		if err := sess.DeleteSlot(ctx, id); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil

	case "range":
		fs := flag.NewFlagSet("slots range", flag.ContinueOnError)
		doctor := fs.Int64("doctor", 0, "doctor user id")
		start := fs.String("start", "", "range start (RFC 3339)")
		end := fs.String("end", "", "range end (RFC 3339)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *doctor == 0 || *start == "" || *end == "" {
			return fmt.Errorf("slots range: -doctor, -start and -end are required")
		}
		startTime, err := time.Parse(time.RFC3339, *start)
		if err != nil {
			return fmt.Errorf("invalid -start: %w", err)
		}
		endTime, err := time.Parse(time.RFC3339, *end)
		if err != nil {
			return fmt.Errorf("invalid -end: %w", err)
		}
		slots, err := sess.DoctorSlotsInRange(ctx, *doctor, startTime, endTime)
		if err != nil {
			return err
		}
		printSlots(slots)
		return nil

	case "recurring":
		return app.cmdRecurringSlots(ctx, sess, rest)

	default:
		return fmt.Errorf("slots: unknown subcommand %q", sub)
	}
}

func (app *Application) cmdRecurringSlots(ctx context.Context, sess *medisdk.Session, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("slots recurring: expected a subcommand (my, doctor, all, add, update, delete)")
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "my":
		slots, err := sess.MyRecurringSlots(ctx)
		if err != nil {
			return err
		}
		printRecurringSlots(slots)
		return nil

	case "doctor":
		id, err := parseIDArg(rest, "slots recurring doctor <doctor-id>")
		if err != nil {
			return err
		}
		slots, err := sess.DoctorRecurringSlots(ctx, id)
		if err != nil {
			return err
		}
		printRecurringSlots(slots)
		return nil

	case "all":
		slots, err := sess.AllRecurringSlots(ctx)
		if err != nil {
			return err
		}
		printRecurringSlots(slots)
		return nil

	case "add":
		fs := flag.NewFlagSet("slots recurring add", flag.ContinueOnError)
		day := fs.String("day", "", "day of week (MONDAY .. SUNDAY)")
		start := fs.String("start", "", "start time (HH:mm)")
		end := fs.String("end", "", "end time (HH:mm)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *day == "" || *start == "" || *end == "" {
			return fmt.Errorf("slots recurring add: -day, -start and -end are required")
		}
		slot, err := sess.CreateRecurringSlot(ctx, medisdk.RecurringSlotRequest{
			DayOfWeek: *day,
			StartTime: *start,
			EndTime:   *end,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created recurring slot %d (%s %s-%s)\n", slot.ID, slot.DayOfWeek, slot.StartTime, slot.EndTime)
		return nil

	case "update":
		fs := flag.NewFlagSet("slots recurring update", flag.ContinueOnError)
		id := fs.Int64("id", 0, "recurring slot id")
		day := fs.String("day", "", "day of week (MONDAY .. SUNDAY)")
		start := fs.String("start", "", "start time (HH:mm)")
		end := fs.String("end", "", "end time (HH:mm)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if *id == 0 || *day == "" || *start == "" || *end == "" {
			return fmt.Errorf("slots recurring update: -id, -day, -start and -end are required")
		}
		slot, err := sess.UpdateRecurringSlot(ctx, *id, medisdk.RecurringSlotRequest{
			DayOfWeek: *day,
			StartTime: *start,
			EndTime:   *end,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Updated recurring slot %d (%s %s-%s)\n", slot.ID, slot.DayOfWeek, slot.StartTime, slot.EndTime)
		return nil

	case "delete":
		id, err := parseIDArg(rest, "slots recurring delete <id>")
		if err != nil {
			return err
		}
		if err := sess.DeleteRecurringSlot(ctx, id); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil

	default:
		return fmt.Errorf("slots recurring: unknown subcommand %q", sub)
	}
}

func printSlots(slots []medisdk.Slot) {
	rows := [][]string{{"ID", "DOCTOR", "START", "END", "STATUS"}}
	for _, s := range slots {
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			personName(s.Doctor),
			formatTime(s.StartTime),
			formatTime(s.EndTime),
			string(s.Status),
		})
	}
	table(rows)
}

func printRecurringSlots(slots []medisdk.RecurringSlot) {
	rows := [][]string{{"ID", "DOCTOR", "DAY", "FROM", "TO"}}
	for _, s := range slots {
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			personName(s.Doctor),
			s.DayOfWeek,
			s.StartTime,
			s.EndTime,
		})
	}
	table(rows)
}
