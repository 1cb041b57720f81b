package api

// -----------------------------------------------------------------------------
// Users
// -----------------------------------------------------------------------------

type UserProfile struct {
	AvatarURL *string `json:"avatar_url"`
	Bio       *string `json:"bio"`
	Phone     *string `json:"phone"`
	Timezone  string  `json:"timezone"`
	Language  string  `json:"language"`
	Theme     string  `json:"theme"`
}

type User struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	IsActive   bool        `json:"is_active"`
	IsVerified bool        `json:"is_verified,omitempty"`
	CreatedAt  string      `json:"created_at"`
	LastLogin  *string     `json:"last_login"`
	Profile    UserProfile `json:"profile"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp"   validate:"required,numeric"`
}

type SignupPersonalRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"     validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type SignupTeamRequest struct {
	Email                   string `json:"email"                    validate:"required,email"`
	Name                    string `json:"name"                     validate:"required"`
	Password                string `json:"password"                 validate:"required,min=8"`
	OrganizationName        string `json:"organization_name"        validate:"required"`
	OrganizationDescription string `json:"organization_description"`
}

type SignupInvitationRequest struct {
	Email           string `json:"email"            validate:"required,email"`
	Name            string `json:"name"             validate:"required"`
	Password        string `json:"password"         validate:"required,min=8"`
	InvitationToken string `json:"invitation_token" validate:"required"`
}

// MessageResponse is the common `{"message": ...}` acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// -----------------------------------------------------------------------------
// Organizations
// -----------------------------------------------------------------------------

type Organization struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  string  `json:"description"`
	LogoURL      *string `json:"logo_url"`
	Type         string  `json:"type"`
	Role         string  `json:"role"`
	JoinedAt     string  `json:"joined_at"`
	IsActive     bool    `json:"is_active"`
	MembersCount int     `json:"members_count"`
	IsOwner      bool    `json:"is_owner"`
}

type OrganizationList struct {
	Organizations []Organization `json:"organizations"`
	Total         int            `json:"total"`
}

// OrganizationDetails is returned by GET /organizations/{id}.
type OrganizationDetails struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Type        string `json:"type"`
	MemberCount int    `json:"member_count"`
	IsOwner     bool   `json:"is_owner"`
	UserRole    string `json:"user_role"`
	CreatedAt   string `json:"created_at"`
}

type CreateTeamRequest struct {
	Name        string `json:"name"                  validate:"required"`
	Description string `json:"description,omitempty"`
}

type CreatedOrganization struct {
	Message      string `json:"message"`
	Organization struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Slug string `json:"slug"`
		Type string `json:"type"`
	} `json:"organization"`
}

type InviteRequest struct {
	Email   string `json:"email"             validate:"required,email"`
	Role    string `json:"role,omitempty"    validate:"omitempty,oneof=owner admin manager member viewer"`
	Message string `json:"message,omitempty"`
}

type InviteResult struct {
	Message         string `json:"message"`
	InvitationToken string `json:"invitation_token"`
}

type InvitationInfo struct {
	Email            string `json:"email"`
	OrganizationName string `json:"organization_name"`
	Role             string `json:"role"`
	Message          string `json:"message,omitempty"`
}

// Member is one entry of GET /organizations/{slug}/members.
type Member struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Status   string `json:"status,omitempty"`
	JoinedAt string `json:"joined_at,omitempty"`
}

// -----------------------------------------------------------------------------
// Projects
// -----------------------------------------------------------------------------

type SidebarProject struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	Color          string `json:"color,omitempty"`
	OrganizationID string `json:"organization_id"`
	TaskCount      int    `json:"task_count,omitempty"`
}

type CreateProjectRequest struct {
	OrganizationID string `json:"organization_id"       validate:"required"`
	Name           string `json:"name"                  validate:"required,max=100"`
	Description    string `json:"description,omitempty"`
	Color          string `json:"color,omitempty"       validate:"omitempty,hexcolor"`
	StartDate      string `json:"start_date,omitempty"`
	EndDate        string `json:"end_date,omitempty"`
}

// -----------------------------------------------------------------------------
// Boards and board tasks
// -----------------------------------------------------------------------------

type BoardColumn struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Position  int    `json:"position"`
	Color     string `json:"color"`
	TaskLimit *int   `json:"task_limit"`
}

type Board struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	ProjectID string        `json:"project_id"`
	Columns   []BoardColumn `json:"columns"`
	IsDefault bool          `json:"is_default"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
}

// Priority of a board task.
type Priority string

const (
	PriorityNone   Priority = "no_priority"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// BoardTask is a card on a kanban board. It is unrelated to workflow tasks.
type BoardTask struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Status         string   `json:"status"`
	Priority       Priority `json:"priority"`
	AssigneeID     *string  `json:"assignee_id"`
	DueDate        *string  `json:"due_date"`
	EstimatedHours *float64 `json:"estimated_hours"`
	Labels         []any    `json:"labels"`
	Position       float64  `json:"position"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

type CreateTaskRequest struct {
	Title          string   `json:"title"                     validate:"required,max=200"`
	Description    string   `json:"description,omitempty"`
	Priority       Priority `json:"priority,omitempty"        validate:"omitempty,oneof=no_priority low medium high urgent"`
	ProjectID      string   `json:"project_id"                validate:"required"`
	BoardID        string   `json:"board_id"                  validate:"required"`
	ColumnID       string   `json:"column_id"                 validate:"required"`
	AssigneeID     string   `json:"assignee_id,omitempty"`
	DueDate        string   `json:"due_date,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty" validate:"omitempty,min=0"`
	Labels         []string `json:"labels,omitempty"`
}

type UpdatePositionRequest struct {
	NewPosition float64 `json:"new_position" validate:"min=0"`
	ColumnID    string  `json:"column_id"    validate:"required"`
}

type UpdateColumnRequest struct {
	TaskID      string `json:"task_id"       validate:"required"`
	NewColumnID string `json:"new_column_id" validate:"required"`
}

type PartialUpdateRequest struct {
	TaskID  string         `json:"task_id" validate:"required"`
	Updates map[string]any `json:"updates" validate:"required,min=1"`
}

type TaskUpdateResult struct {
	Message string     `json:"message"`
	Task    *BoardTask `json:"task,omitempty"`
}

// -----------------------------------------------------------------------------
// Workflows
// -----------------------------------------------------------------------------

type GenerateTasksRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Prompt string `json:"prompt"  validate:"required"`
	Title  string `json:"title,omitempty"`
}

// -----------------------------------------------------------------------------
// Dashboard
// -----------------------------------------------------------------------------

type DashboardStats struct {
	TotalTasks      int     `json:"total_tasks"`
	CompletedTasks  int     `json:"completed_tasks"`
	InProgressTasks int     `json:"in_progress_tasks"`
	OverdueTasks    int     `json:"overdue_tasks"`
	ActiveProjects  int     `json:"active_projects"`
	CompletionRate  float64 `json:"completion_rate"`
	TeamMembers     int     `json:"team_members"`
	ActiveMembers   int     `json:"active_members"`
}

type RecentTask struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Status       string  `json:"status"`
	Priority     string  `json:"priority"`
	Project      string  `json:"project"`
	Assignee     string  `json:"assignee"`
	ProjectColor string  `json:"project_color"`
	DueDate      *string `json:"due_date"`
	CreatedAt    *string `json:"created_at"`
	UpdatedAt    *string `json:"updated_at"`
}

type ActiveProject struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Color          string  `json:"color"`
	Status         string  `json:"status"`
	MembersCount   int     `json:"members_count"`
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	Progress       float64 `json:"progress"`
	DisplayStatus  string  `json:"display_status"`
	EndDate        *string `json:"end_date"`
	CreatedAt      *string `json:"created_at"`
}

type UpcomingDeadline struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	ProjectName string `json:"project_name"`
}

type RecentActivity struct {
	ID        string `json:"id"`
	User      string `json:"user"`
	Avatar    string `json:"avatar"`
	Action    string `json:"action"`
	Item      string `json:"item"`
	Time      string `json:"time"`
	CreatedAt string `json:"created_at"`
}

type DashboardSummary struct {
	Stats             DashboardStats     `json:"stats"`
	RecentTasks       []RecentTask       `json:"recent_tasks"`
	ActiveProjects    []ActiveProject    `json:"active_projects"`
	UpcomingDeadlines []UpcomingDeadline `json:"upcoming_deadlines"`
	RecentActivity    []RecentActivity   `json:"recent_activity"`
}
