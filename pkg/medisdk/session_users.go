package medisdk

import (
	"context"
	"fmt"
	"net/http"
)

// Admin and user-directory operations.

// ============================================================================
// Admin User Management (requires ADMIN role)
// ============================================================================

// ListUsers returns every account, archived ones included.
func (s *Session) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.getJSON(ctx, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser returns a single account by id.
func (s *Session) GetUser(ctx context.Context, id int64) (*User, error) {
	var user User
	if err := s.getJSON(ctx, fmt.Sprintf("/admin/users/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates an account with a role already assigned.
func (s *Session) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	var user User
	if err := s.postJSON(ctx, "/admin/users", req, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates an account's profile fields.
func (s *Session) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (*User, error) {
	var user User
	if err := s.putJSON(ctx, fmt.Sprintf("/admin/users/%d", id), nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ArchiveUser soft-deletes an account. Archived accounts cannot log in but
// remain referenced by historical visits.
func (s *Session) ArchiveUser(ctx context.Context, id int64) error {
	return s.putJSON(ctx, fmt.Sprintf("/admin/users/%d/archive", id), nil, nil, nil)
}

// RestoreUser brings an archived account back.
func (s *Session) RestoreUser(ctx context.Context, id int64) error {
	return s.putJSON(ctx, fmt.Sprintf("/admin/users/%d/restore", id), nil, nil, nil)
}

// AssignRole changes an account's role. Assigning PENDING is rejected
// server-side.
func (s *Session) AssignRole(ctx context.Context, id int64, role Role) error {
	payload := map[string]Role{"role": role}
	return s.putJSON(ctx, fmt.Sprintf("/admin/users/%d/role", id), nil, payload, nil)
}

// ListUsersByRole returns the accounts holding one specific role. The
// backend exposes dedicated paths for the three operational roles.
func (s *Session) ListUsersByRole(ctx context.Context, role Role) ([]User, error) {
	var path string
	switch role {
	case RoleRH:
		path = "/admin/users/rh"
	case RoleDoctor:
		path = "/admin/users/medecin"
	case RoleCollaborator:
		path = "/admin/users/collaborateur"
	default:
		return nil, fmt.Errorf("no role listing endpoint for role %q", role)
	}

	var users []User
	if err := s.getJSON(ctx, path, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CountUsersByRole returns account counts per role for the admin dashboard.
func (s *Session) CountUsersByRole(ctx context.Context) ([]RoleCount, error) {
	var counts []RoleCount
	if err := s.getJSON(ctx, "/admin/users/count-by-role", nil, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// ============================================================================
// User Directory
// ============================================================================

// Me returns the account record of the authenticated user.
func (s *Session) Me(ctx context.Context) (*User, error) {
	var user User
	if err := s.getJSON(ctx, "/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// PendingUsers lists accounts still waiting for a role assignment.
func (s *Session) PendingUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.getJSON(ctx, "/users/pending", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ApprovePendingUser assigns a role to a pending account.
func (s *Session) ApprovePendingUser(ctx context.Context, id int64, role Role) error {
	payload := map[string]Role{"role": role}
	return s.putJSON(ctx, fmt.Sprintf("/users/%d/assign-role", id), nil, payload, nil)
}

// Doctors lists the doctor accounts available for visit scheduling.
func (s *Session) Doctors(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.getJSON(ctx, "/users/doctors", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}
