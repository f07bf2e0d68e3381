package types

// UserRole is the platform role resolved by the identity layer. The core
// never authenticates; it only authorizes against this value.
type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleVolunteer UserRole = "VOLUNTEER"
	RoleRequester UserRole = "REQUESTER"
	RoleSponsor   UserRole = "SPONSOR"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleVolunteer, RoleRequester, RoleSponsor:
		return true
	default:
		return false
	}
}

type ProjectStatus string

const (
	ProjectPending  ProjectStatus = "PENDING"
	ProjectApproved ProjectStatus = "APPROVED"
	ProjectRejected ProjectStatus = "REJECTED"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectPending, ProjectApproved, ProjectRejected:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition is defined from s.
func (s ProjectStatus) Terminal() bool {
	return s == ProjectApproved || s == ProjectRejected
}

type ProjectType string

const (
	ProjectTypeWebApp     ProjectType = "WEB_APP"
	ProjectTypeMobileApp  ProjectType = "MOBILE_APP"
	ProjectTypeAPI        ProjectType = "API"
	ProjectTypeDatabase   ProjectType = "DATABASE"
	ProjectTypeDesktopApp ProjectType = "DESKTOP_APP"
	ProjectTypeOther      ProjectType = "OTHER"
)

func (t ProjectType) IsValid() bool {
	switch t {
	case ProjectTypeWebApp, ProjectTypeMobileApp, ProjectTypeAPI,
		ProjectTypeDatabase, ProjectTypeDesktopApp, ProjectTypeOther:
		return true
	default:
		return false
	}
}

type EstimatedTimeline string

const (
	TimelineUnderOneMonth    EstimatedTimeline = "LESS_THAN_1_MONTH"
	TimelineOneToThreeMonths EstimatedTimeline = "ONE_TO_THREE_MONTHS"
	TimelineThreeToSixMonths EstimatedTimeline = "THREE_TO_SIX_MONTHS"
	TimelineOverSixMonths    EstimatedTimeline = "MORE_THAN_SIX_MONTHS"
)

func (t EstimatedTimeline) IsValid() bool {
	switch t {
	case TimelineUnderOneMonth, TimelineOneToThreeMonths,
		TimelineThreeToSixMonths, TimelineOverSixMonths:
		return true
	default:
		return false
	}
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationApproved ApplicationStatus = "APPROVED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	default:
		return false
	}
}

// Decided reports whether s is one of the two terminal decisions.
func (s ApplicationStatus) Decided() bool {
	return s == ApplicationApproved || s == ApplicationRejected
}

type VolunteerRole string

const (
	VolunteerFrontend  VolunteerRole = "FRONTEND"
	VolunteerBackend   VolunteerRole = "BACKEND"
	VolunteerFullstack VolunteerRole = "FULLSTACK"
	VolunteerUIUX      VolunteerRole = "UIUX"
	VolunteerMobile    VolunteerRole = "MOBILE"
	VolunteerDevOps    VolunteerRole = "DEVOPS"
	VolunteerQA        VolunteerRole = "QA"
	VolunteerPM        VolunteerRole = "PM"
)

func (r VolunteerRole) IsValid() bool {
	switch r {
	case VolunteerFrontend, VolunteerBackend, VolunteerFullstack,
		VolunteerUIUX, VolunteerMobile, VolunteerDevOps, VolunteerQA,
		VolunteerPM:
		return true
	default:
		return false
	}
}

type PermissionStatus string

const (
	PermissionActive  PermissionStatus = "ACTIVE"
	PermissionRevoked PermissionStatus = "REVOKED"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskCancelled  TaskStatus = "CANCELLED"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	default:
		return false
	}
}

func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskCancelled
}

// CanTransitionTo encodes the task board state machine: TODO and IN_PROGRESS
// move freely between each other, COMPLETED is reached from IN_PROGRESS, and
// CANCELLED from any non-terminal state. Terminal states have no exits.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	if s == next {
		return true
	}
	if s.Terminal() {
		return false
	}
	switch next {
	case TaskTodo, TaskInProgress:
		return true
	case TaskCompleted:
		return s == TaskInProgress
	case TaskCancelled:
		return true
	default:
		return false
	}
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

type NotificationType string

const (
	NotifyProjectApproved     NotificationType = "PROJECT_APPROVED"
	NotifyProjectRejected     NotificationType = "PROJECT_REJECTED"
	NotifyApplicationReceived NotificationType = "APPLICATION_RECEIVED"
	NotifyApplicationApproved NotificationType = "APPLICATION_APPROVED"
	NotifyApplicationRejected NotificationType = "APPLICATION_REJECTED"
	NotifyReviewerGranted     NotificationType = "REVIEWER_GRANTED"
	NotifyReviewerRevoked     NotificationType = "REVIEWER_REVOKED"
	NotifyTaskAssigned        NotificationType = "TASK_ASSIGNED"
)
