package medisdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Concrete and recurring availability slot operations.

// ============================================================================
// Concrete Slots (doctor-owned, HR-consumed)
// ============================================================================

// CreateSlot opens a concrete bookable time range.
func (s *Session) CreateSlot(ctx context.Context, startTime, endTime time.Time) (*Slot, error) {
	payload := map[string]time.Time{"startTime": startTime, "endTime": endTime}

	var slot Slot
	if err := s.postJSON(ctx, "/slots", payload, &slot, http.StatusOK); err != nil {
		return nil, err
	}
	return &slot, nil
}

// MySlots lists the authenticated doctor's own slots.
func (s *Session) MySlots(ctx context.Context) ([]Slot, error) {
	var slots []Slot
	if err := s.getJSON(ctx, "/slots/my-slots", nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// UpdateSlotStatus changes a slot's availability state.
func (s *Session) UpdateSlotStatus(ctx context.Context, id int64, status SlotStatus) (*Slot, error) {
	payload := map[string]SlotStatus{"status": status}

	var slot Slot
	if err := s.putJSON(ctx, fmt.Sprintf("/slots/%d/status", id), nil, payload, &slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

// DeleteSlot removes an unbooked slot.
func (s *Session) DeleteSlot(ctx context.Context, id int64) error {
	return s.deleteJSON(ctx, fmt.Sprintf("/slots/%d", id), nil, http.StatusOK)
}

// DoctorSlotsInRange lists a doctor's slots between two instants (HR view).
func (s *Session) DoctorSlotsInRange(ctx context.Context, doctorID int64, from, to time.Time) ([]Slot, error) {
	query := url.Values{
		"start": {from.Format(time.RFC3339)},
		"end":   {to.Format(time.RFC3339)},
	}

	var slots []Slot
	if err := s.getJSON(ctx, fmt.Sprintf("/slots/doctor/%d/date-range", doctorID), query, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// ============================================================================
// Recurring Slots (weekly availability patterns)
// ============================================================================

// CreateRecurringSlot adds a weekly availability pattern for the
// authenticated doctor.
func (s *Session) CreateRecurringSlot(ctx context.Context, req RecurringSlotRequest) (*RecurringSlot, error) {
	var slot RecurringSlot
	if err := s.postJSON(ctx, "/recurring-slots", req, &slot, http.StatusOK); err != nil {
		return nil, err
	}
	return &slot, nil
}

// MyRecurringSlots lists the authenticated doctor's weekly patterns.
func (s *Session) MyRecurringSlots(ctx context.Context) ([]RecurringSlot, error) {
	var slots []RecurringSlot
	if err := s.getJSON(ctx, "/recurring-slots/my-recurring-slots", nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// DoctorRecurringSlots lists a doctor's weekly patterns (HR view).
func (s *Session) DoctorRecurringSlots(ctx context.Context, doctorID int64) ([]RecurringSlot, error) {
	var slots []RecurringSlot
	if err := s.getJSON(ctx, fmt.Sprintf("/recurring-slots/doctor/%d", doctorID), nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// UpdateRecurringSlot replaces a weekly pattern's day and time range.
func (s *Session) UpdateRecurringSlot(ctx context.Context, id int64, req RecurringSlotRequest) (*RecurringSlot, error) {
	var slot RecurringSlot
	if err := s.putJSON(ctx, fmt.Sprintf("/recurring-slots/%d", id), nil, req, &slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

// DeleteRecurringSlot removes a weekly pattern.
func (s *Session) DeleteRecurringSlot(ctx context.Context, id int64) error {
	return s.deleteJSON(ctx, fmt.Sprintf("/recurring-slots/%d", id), nil, http.StatusOK)
}

// AllRecurringSlots lists every doctor's weekly patterns (admin view).
func (s *Session) AllRecurringSlots(ctx context.Context) ([]RecurringSlot, error) {
	var slots []RecurringSlot
	if err := s.getJSON(ctx, "/recurring-slots/admin/all", nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}
