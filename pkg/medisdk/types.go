package medisdk

import "time"

// ============================================================================
// Enums
// ============================================================================

// Role is the access role assigned to a MediWork account. New registrations
// start as RolePending until an administrator assigns a real role.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleRH           Role = "RH"
	RoleDoctor       Role = "DOCTOR"
	RoleCollaborator Role = "COLLABORATOR"
	RolePending      Role = "PENDING"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleRH, RoleDoctor, RoleCollaborator, RolePending:
		return true
	}
	return false
}

// VisitStatus is the lifecycle state of a scheduled visit.
type VisitStatus string

const (
	VisitPendingDoctorConfirmation VisitStatus = "PENDING_DOCTOR_CONFIRMATION"
	VisitScheduled                 VisitStatus = "SCHEDULED"
	VisitInProgress                VisitStatus = "IN_PROGRESS"
	VisitCompleted                 VisitStatus = "COMPLETED"
	VisitCancelled                 VisitStatus = "CANCELLED"
)

// VisitType classifies why a medical visit takes place.
type VisitType string

const (
	VisitHiring          VisitType = "HIRING"
	VisitPeriodic        VisitType = "PERIODIC"
	VisitReturnToWork    VisitType = "RETURN_TO_WORK"
	VisitPreReturn       VisitType = "PRE_RETURN"
	VisitJobChange       VisitType = "JOB_CHANGE"
	VisitSpontaneous     VisitType = "SPONTANEOUS"
	VisitMedicalFollowUp VisitType = "MEDICAL_FOLLOW_UP"
	VisitExceptional     VisitType = "EXCEPTIONAL_VISIT"
)

// SlotStatus is the availability state of a concrete doctor slot.
type SlotStatus string

const (
	SlotAvailable         SlotStatus = "AVAILABLE"
	SlotTemporarilyLocked SlotStatus = "TEMPORARILY_LOCKED"
	SlotConfirmed         SlotStatus = "CONFIRMED"
	SlotUnavailable       SlotStatus = "UNAVAILABLE"
)

// SchedulingStatus tracks a spontaneous visit request through HR planning.
type SchedulingStatus string

const (
	SchedulingPending           SchedulingStatus = "PENDING"
	SchedulingScheduled         SchedulingStatus = "SCHEDULED"
	SchedulingNeedsRescheduling SchedulingStatus = "NEEDS_RESCHEDULING"
	SchedulingCancelled         SchedulingStatus = "CANCELLED"
)

// ============================================================================
// Auth Types
// ============================================================================

// Credentials are the login inputs for POST /auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest creates a new pending-role account via POST /auth/register.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Matricule string `json:"matricule,omitempty"`
}

// LoginResponse is returned by POST /auth/login: the token pair plus the
// identity fields of the authenticated account.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Email        string `json:"email"`
	FullName     string `json:"fullName"`
	Role         Role   `json:"role"`
	TokenType    string `json:"tokenType,omitempty"` // always "Bearer"
	ExpiresIn    int64  `json:"expiresIn,omitempty"` // access token lifetime in seconds
}

// UserInfo extracts the identity record from a login response. This is the
// `user` part of the session, persisted and cleared together with the
// token pair.
func (r *LoginResponse) UserInfo() UserInfo {
	return UserInfo{Email: r.Email, FullName: r.FullName, Role: r.Role}
}

// RegisterResponse is the identity of a freshly registered account. The
// backend answers register with the same wire shape as login but without
// establishing a session; registration never logs the caller in.
type RegisterResponse struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
}

// RefreshResponse is returned by POST /auth/refresh. RefreshToken is empty
// when the server chose not to rotate it.
type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	TokenType    string `json:"tokenType,omitempty"`
	ExpiresIn    int64  `json:"expiresIn,omitempty"`
}

// UserInfo is the identity record attached to an authenticated session.
type UserInfo struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
}

// ============================================================================
// User Management Types
// ============================================================================

// User is the full account record as exposed to administrators.
type User struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Matricule    string `json:"matricule,omitempty"`
	Role         Role   `json:"role"`
	Archived     bool   `json:"archived"`
	DateCreation string `json:"dateCreation,omitempty"`
	LastLogin    string `json:"lastLogin,omitempty"`
}

// CreateUserRequest is the admin payload for POST /admin/users.
type CreateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Matricule string `json:"matricule,omitempty"`
	Role      Role   `json:"role"`
}

// UpdateUserRequest is the admin payload for PUT /admin/users/{id}.
// Zero-valued fields are omitted and left unchanged server-side.
type UpdateUserRequest struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Matricule string `json:"matricule,omitempty"`
}

// RoleCount is one bucket of GET /admin/users/count-by-role.
type RoleCount struct {
	Role  Role  `json:"role"`
	Count int64 `json:"count"`
}

// ============================================================================
// Visit Types
// ============================================================================

// PersonRef is the compact person projection embedded in visit and slot
// responses.
type PersonRef struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
}

// Visit is a scheduled medical visit between a collaborator and a doctor.
type Visit struct {
	ID           int64       `json:"id"`
	Collaborator *PersonRef  `json:"collaborator,omitempty"`
	Doctor       *PersonRef  `json:"doctor,omitempty"`
	Slot         *Slot       `json:"slot,omitempty"`
	VisitType    VisitType   `json:"visitType"`
	Status       VisitStatus `json:"status"`
	CreatedBy    *PersonRef  `json:"createdBy,omitempty"`
	CreatedAt    time.Time   `json:"createdAt,omitzero"`
	UpdatedAt    time.Time   `json:"updatedAt,omitzero"`
}

// VisitRequest books a visit into an existing slot (POST /visits).
type VisitRequest struct {
	CollaboratorID int64     `json:"collaboratorId"`
	DoctorID       int64     `json:"doctorId"`
	SlotID         int64     `json:"slotId"`
	VisitType      VisitType `json:"visitType"`
}

// CreateVisitWithSlotRequest books a visit and creates the slot in one call
// (POST /visits/with-slot).
type CreateVisitWithSlotRequest struct {
	CollaboratorID int64     `json:"collaboratorId"`
	DoctorID       int64     `json:"doctorId"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	VisitType      VisitType `json:"visitType"`
}

// ============================================================================
// Slot Types
// ============================================================================

// Slot is a concrete bookable time range for a doctor.
type Slot struct {
	ID        int64      `json:"id"`
	Doctor    *PersonRef `json:"doctor,omitempty"`
	StartTime time.Time  `json:"startTime,omitzero"`
	EndTime   time.Time  `json:"endTime,omitzero"`
	Status    SlotStatus `json:"status,omitempty"`
	CreatedAt time.Time  `json:"createdAt,omitzero"`
	UpdatedAt time.Time  `json:"updatedAt,omitzero"`
}

// RecurringSlot is a weekly availability pattern a doctor maintains.
// StartTime and EndTime are wall-clock times in "HH:mm" form.
type RecurringSlot struct {
	ID        int64      `json:"id"`
	Doctor    *PersonRef `json:"doctor,omitempty"`
	DayOfWeek string     `json:"dayOfWeek"` // MONDAY .. SUNDAY
	StartTime string     `json:"startTime"`
	EndTime   string     `json:"endTime"`
	CreatedAt time.Time  `json:"createdAt,omitzero"`
	UpdatedAt time.Time  `json:"updatedAt,omitzero"`
}

// RecurringSlotRequest creates or updates a weekly availability pattern.
type RecurringSlotRequest struct {
	DayOfWeek string `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ============================================================================
// Spontaneous Visit Types
// ============================================================================

// SpontaneousVisit is an employee-initiated visit request handled by HR.
type SpontaneousVisit struct {
	ID               int64            `json:"id"`
	Collaborator     *PersonRef       `json:"collaborator,omitempty"`
	Reason           string           `json:"reason"`
	AdditionalNotes  string           `json:"additionalNotes,omitempty"`
	SchedulingStatus SchedulingStatus `json:"schedulingStatus"`
	CreatedAt        time.Time        `json:"createdAt,omitzero"`
	UpdatedAt        time.Time        `json:"updatedAt,omitzero"`
}

// SpontaneousVisitRequest submits a new spontaneous visit demand.
type SpontaneousVisitRequest struct {
	Reason          string `json:"reason"`
	AdditionalNotes string `json:"additionalNotes,omitempty"`
}

// ConfirmSpontaneousVisitRequest schedules a spontaneous demand into a
// concrete doctor slot (POST /spontaneous-visits/{id}/confirm).
type ConfirmSpontaneousVisitRequest struct {
	DoctorID int64 `json:"doctorId"`
	SlotID   int64 `json:"slotId"`
}

// SpontaneousVisitStats summarizes a collaborator's own demands.
type SpontaneousVisitStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Scheduled int64 `json:"scheduled"`
	Cancelled int64 `json:"cancelled"`
}
