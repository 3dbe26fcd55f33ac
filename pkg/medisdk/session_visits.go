package medisdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Visit, doctor and spontaneous-visit operations.

// ============================================================================
// Visits (HR and collaborator)
// ============================================================================

// CreateVisit books a visit into an existing available slot.
func (s *Session) CreateVisit(ctx context.Context, req VisitRequest) (*Visit, error) {
	var visit Visit
	if err := s.postJSON(ctx, "/visits", req, &visit, http.StatusOK); err != nil {
		return nil, err
	}
	return &visit, nil
}

// CreateVisitWithSlot books a visit and creates its slot in one call.
func (s *Session) CreateVisitWithSlot(ctx context.Context, req CreateVisitWithSlotRequest) (*Visit, error) {
	var visit Visit
	if err := s.postJSON(ctx, "/visits/with-slot", req, &visit, http.StatusOK); err != nil {
		return nil, err
	}
	return &visit, nil
}

// MyVisits lists the visits involving the authenticated user.
func (s *Session) MyVisits(ctx context.Context) ([]Visit, error) {
	var visits []Visit
	if err := s.getJSON(ctx, "/visits/my-visits", nil, &visits); err != nil {
		return nil, err
	}
	return visits, nil
}

// GetVisit returns a single visit by id.
func (s *Session) GetVisit(ctx context.Context, id int64) (*Visit, error) {
	var visit Visit
	if err := s.getJSON(ctx, fmt.Sprintf("/visits/%d", id), nil, &visit); err != nil {
		return nil, err
	}
	return &visit, nil
}

// CancelVisit cancels a visit that is still pending or scheduled.
func (s *Session) CancelVisit(ctx context.Context, id int64) (*Visit, error) {
	var visit Visit
	if err := s.putJSON(ctx, fmt.Sprintf("/visits/%d/cancel", id), nil, nil, &visit); err != nil {
		return nil, err
	}
	return &visit, nil
}

// VisitsByStatus lists every visit currently in the given status.
func (s *Session) VisitsByStatus(ctx context.Context, status VisitStatus) ([]Visit, error) {
	var visits []Visit
	if err := s.getJSON(ctx, "/visits/by-status/"+string(status), nil, &visits); err != nil {
		return nil, err
	}
	return visits, nil
}

// AvailableSlotsForDoctor lists the slots a visit can still be booked into.
func (s *Session) AvailableSlotsForDoctor(ctx context.Context, doctorID int64) ([]Slot, error) {
	var slots []Slot
	if err := s.getJSON(ctx, fmt.Sprintf("/visits/available-slots/%d", doctorID), nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// MyVisitHistory lists the authenticated collaborator's past visits.
func (s *Session) MyVisitHistory(ctx context.Context) ([]Visit, error) {
	var visits []Visit
	if err := s.getJSON(ctx, "/visits/my-history", nil, &visits); err != nil {
		return nil, err
	}
	return visits, nil
}

// ============================================================================
// Doctor Visit Operations (requires DOCTOR role)
// ============================================================================

// PendingConfirmations lists visits waiting for the doctor's confirmation.
func (s *Session) PendingConfirmations(ctx context.Context) ([]Visit, error) {
	var visits []Visit
	if err := s.getJSON(ctx, "/doctor/visits/pending-confirmations", nil, &visits); err != nil {
		return nil, err
	}
	return visits, nil
}

// MySchedule lists the doctor's confirmed upcoming visits.
func (s *Session) MySchedule(ctx context.Context) ([]Visit, error) {
	var visits []Visit
	if err := s.getJSON(ctx, "/doctor/visits/my-schedule", nil, &visits); err != nil {
		return nil, err
	}
	return visits, nil
}

// ConfirmVisit accepts a visit scheduled by HR.
func (s *Session) ConfirmVisit(ctx context.Context, id int64) (*Visit, error) {
	var visit Visit
	if err := s.putJSON(ctx, fmt.Sprintf("/doctor/visits/%d/confirm", id), nil, nil, &visit); err != nil {
		return nil, err
	}
	return &visit, nil
}

// RejectVisit declines a visit scheduled by HR; HR has to rebook it.
func (s *Session) RejectVisit(ctx context.Context, id int64) (*Visit, error) {
	var visit Visit
	if err := s.putJSON(ctx, fmt.Sprintf("/doctor/visits/%d/reject", id), nil, nil, &visit); err != nil {
		return nil, err
	}
	return &visit, nil
}

// UpdateVisitStatus moves a visit through its lifecycle (start, complete,
// cancel). The backend takes the target status as a query parameter.
func (s *Session) UpdateVisitStatus(ctx context.Context, id int64, status VisitStatus) (*Visit, error) {
	query := url.Values{"status": {string(status)}}

	var visit Visit
	if err := s.putJSON(ctx, fmt.Sprintf("/doctor/visits/%d/status", id), query, nil, &visit); err != nil {
		return nil, err
	}
	return &visit, nil
}

// ============================================================================
// Spontaneous Visits
// ============================================================================

// RequestSpontaneousVisit submits an employee-initiated visit demand.
func (s *Session) RequestSpontaneousVisit(ctx context.Context, req SpontaneousVisitRequest) (*SpontaneousVisit, error) {
	var visit SpontaneousVisit
	if err := s.postJSON(ctx, "/spontaneous-visits", req, &visit, http.StatusOK); err != nil {
		return nil, err
	}
	return &visit, nil
}

// SpontaneousVisits lists every demand (HR view).
func (s *Session) SpontaneousVisits(ctx context.Context) ([]SpontaneousVisit, error) {
	var visits []SpontaneousVisit
	if err := s.getJSON(ctx, "/spontaneous-visits", nil, &visits); err != nil {
		return nil, err
	}
	return visits, nil
}

// MySpontaneousVisits lists the authenticated collaborator's own demands.
func (s *Session) MySpontaneousVisits(ctx context.Context) ([]SpontaneousVisit, error) {
	var visits []SpontaneousVisit
	if err := s.getJSON(ctx, "/spontaneous-visits/my-requests", nil, &visits); err != nil {
		return nil, err
	}
	return visits, nil
}

// MySpontaneousVisitStats summarizes the collaborator's own demands.
func (s *Session) MySpontaneousVisitStats(ctx context.Context) (*SpontaneousVisitStats, error) {
	var stats SpontaneousVisitStats
	if err := s.getJSON(ctx, "/spontaneous-visits/my-requests/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetSpontaneousVisit returns one demand by id.
func (s *Session) GetSpontaneousVisit(ctx context.Context, id int64) (*SpontaneousVisit, error) {
	var visit SpontaneousVisit
	if err := s.getJSON(ctx, fmt.Sprintf("/spontaneous-visits/%d", id), nil, &visit); err != nil {
		return nil, err
	}
	return &visit, nil
}

// UpdateSpontaneousVisit edits a demand that has not been scheduled yet.
func (s *Session) UpdateSpontaneousVisit(ctx context.Context, id int64, req SpontaneousVisitRequest) (*SpontaneousVisit, error) {
	var visit SpontaneousVisit
	if err := s.putJSON(ctx, fmt.Sprintf("/spontaneous-visits/%d", id), nil, req, &visit); err != nil {
		return nil, err
	}
	return &visit, nil
}

// ConfirmSpontaneousVisit schedules a demand into a doctor slot (HR).
func (s *Session) ConfirmSpontaneousVisit(ctx context.Context, id int64, req ConfirmSpontaneousVisitRequest) (*Visit, error) {
	var visit Visit
	if err := s.postJSON(ctx, fmt.Sprintf("/spontaneous-visits/%d/confirm", id), req, &visit, http.StatusOK); err != nil {
		return nil, err
	}
	return &visit, nil
}

// RejectSpontaneousVisit declines a demand (HR).
func (s *Session) RejectSpontaneousVisit(ctx context.Context, id int64) error {
	return s.postJSON(ctx, fmt.Sprintf("/spontaneous-visits/%d/reject", id), nil, nil, http.StatusOK)
}

// CancelSpontaneousVisit withdraws the collaborator's own demand.
func (s *Session) CancelSpontaneousVisit(ctx context.Context, id int64) error {
	return s.deleteJSON(ctx, fmt.Sprintf("/spontaneous-visits/%d/cancel", id), nil, http.StatusOK)
}
