package domain

// FeatureType classifies an infrastructure asset.
type FeatureType string

const (
	FeatureTower      FeatureType = "tower"
	FeatureManhole    FeatureType = "manhole"
	FeatureFiberCable FeatureType = "fiber_cable"
	FeatureParcel     FeatureType = "parcel"
)

// specificTypes lists the allowed specific types per feature type.
var specificTypes = map[FeatureType][]string{
	FeatureTower:      {"mobile", "lattice", "guyed", "monopole"},
	FeatureManhole:    {"two_way", "four_way", "six_way", "handhole"},
	FeatureFiberCable: {"12f", "24f", "48f", "96f"},
	FeatureParcel:     {"residential", "commercial", "agricultural", "government"},
}

// ValidFeatureType reports whether t is a known feature type.
func ValidFeatureType(t FeatureType) bool {
	_, ok := specificTypes[t]
	return ok
}

// ValidSpecificType reports whether spec is allowed for feature type t.
func ValidSpecificType(t FeatureType, spec string) bool {
	for _, s := range specificTypes[t] {
		if s == spec {
			return true
		}
	}
	return false
}

// SpecificTypes returns the allowed specific types for t.
func SpecificTypes(t FeatureType) []string {
	return specificTypes[t]
}

// GeometryKindFor returns the geometry kind a feature type must carry.
func GeometryKindFor(t FeatureType) GeometryKind {
	switch t {
	case FeatureFiberCable:
		return GeometryLine
	case FeatureParcel:
		return GeometryPolygon
	default:
		return GeometryPoint
	}
}

// FeatureState tracks the build lifecycle of an asset.
type FeatureState string

const (
	StatePlan              FeatureState = "plan"
	StateUnderConstruction FeatureState = "under_construction"
	StateAsBuilt           FeatureState = "as_built"
	StateAbandoned         FeatureState = "abandoned"
)

// ValidFeatureState reports whether s is a known state.
func ValidFeatureState(s FeatureState) bool {
	switch s {
	case StatePlan, StateUnderConstruction, StateAsBuilt, StateAbandoned:
		return true
	}
	return false
}

// FeatureStatus tracks field-work assignment on an asset.
type FeatureStatus string

const (
	StatusUnassigned FeatureStatus = "unassigned"
	StatusAssigned   FeatureStatus = "assigned"
	StatusInProgress FeatureStatus = "in_progress"
	StatusCompleted  FeatureStatus = "completed"
)

// ValidFeatureStatus reports whether s is a known status.
func ValidFeatureStatus(s FeatureStatus) bool {
	switch s {
	case StatusUnassigned, StatusAssigned, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// TaskStatus tracks a field task through its workflow.
type TaskStatus string

const (
	TaskOpen       TaskStatus = "open"
	TaskInProgress TaskStatus = "in_progress"
	TaskReview     TaskStatus = "review"
	TaskDone       TaskStatus = "done"
	TaskCancelled  TaskStatus = "cancelled"
)

// ValidTaskStatus reports whether s is a known task status.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskOpen, TaskInProgress, TaskReview, TaskDone, TaskCancelled:
		return true
	}
	return false
}

// TaskPriority orders tasks for field teams.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// ValidTaskPriority reports whether p is a known priority.
func ValidTaskPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// BoundaryStatus marks whether a work-area polygon is in force.
type BoundaryStatus string

const (
	BoundaryActive   BoundaryStatus = "active"
	BoundaryInactive BoundaryStatus = "inactive"
)

// ValidBoundaryStatus reports whether s is a known boundary status.
func ValidBoundaryStatus(s BoundaryStatus) bool {
	return s == BoundaryActive || s == BoundaryInactive
}

// UserRole separates supervisors (who assign work) from field users.
type UserRole string

const (
	RoleSupervisor UserRole = "supervisor"
	RoleField      UserRole = "field"
)

// ApprovalStatus gates accounts and teams created through self-registration.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// ValidApprovalStatus reports whether s is a known approval status.
func ValidApprovalStatus(s ApprovalStatus) bool {
	return s == ApprovalPending || s == ApprovalApproved || s == ApprovalRejected
}

// ValidUserRole reports whether r is a known role.
func ValidUserRole(r UserRole) bool {
	return r == RoleSupervisor || r == RoleField
}
