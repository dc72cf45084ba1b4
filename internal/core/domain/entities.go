package domain

import (
	"time"
)

// Feature represents a geospatial infrastructure asset (tower, manhole,
// fiber cable, parcel) with geometry and status metadata.
type Feature struct {
	ID           string         `json:"id"`
	FeatureID    string         `json:"feature_id"` // human-readable code, e.g. TWR-0042
	Type         FeatureType    `json:"type"`
	SpecificType string         `json:"specific_type"`
	Geometry     Geometry       `json:"geometry"`
	State        FeatureState   `json:"state"`
	Status       FeatureStatus  `json:"status"`
	Maintenance  bool           `json:"maintenance"`
	TeamID       *string        `json:"team_id,omitempty"`
	Images       []string       `json:"images,omitempty"`
	Remarks      string         `json:"remarks,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	Distance     *float64       `json:"distance,omitempty"` // computed field
	CreatedBy    string         `json:"created_by"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Task is a unit of field work assignable to a team or user.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	TeamID      *string      `json:"team_id,omitempty"`
	AssigneeID  *string      `json:"assignee_id,omitempty"`
	Location    *GeoPoint    `json:"location,omitempty"`
	FeatureID   *string      `json:"feature_id,omitempty"` // optional linked asset
	CreatedBy   string       `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Boundary is a supervisor-defined polygon delimiting a team's work area.
type Boundary struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Polygon   GeoPolygon     `json:"polygon"`
	Status    BoundaryStatus `json:"status"`
	TeamID    *string        `json:"team_id,omitempty"`
	CreatedBy string         `json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
}

// Team is a field crew that features, tasks, and boundaries are assigned to.
type Team struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	City         string         `json:"city,omitempty"`
	Approval     ApprovalStatus `json:"approval"`
	LastActiveAt *time.Time     `json:"last_active_at,omitempty"`
	MemberCount  int            `json:"member_count,omitempty"` // computed field
	CreatedAt    time.Time      `json:"created_at"`
}

// User is an account on the platform. PasswordHash never serializes.
type User struct {
	ID           string         `json:"id"`
	Username     string         `json:"username"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"`
	Role         UserRole       `json:"role"`
	Approval     ApprovalStatus `json:"approval"`
	TeamID       *string        `json:"team_id,omitempty"`
	LastActiveAt *time.Time     `json:"last_active_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Shapefile is an uploaded vector archive converted to GeoJSON for display.
// GeoJSON holds the converted FeatureCollection as raw bytes.
type Shapefile struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	TypeLabel    string     `json:"type_label,omitempty"` // e.g. "duct routes", "ward boundaries"
	Filename     string     `json:"filename"`
	UploadedBy   string     `json:"uploaded_by"`
	TeamID       *string    `json:"team_id,omitempty"`
	FeatureCount int        `json:"feature_count"`
	Bounds       *Bounds    `json:"bounds,omitempty"`
	GeoJSON      []byte     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
}

// FeatureEvent is published to the message bus after feature writes.
type FeatureEvent struct {
	Action  string   `json:"action"` // created | updated | deleted | status_changed
	Feature *Feature `json:"feature"`
}

// TaskEvent is published to the message bus after task writes.
type TaskEvent struct {
	Action string `json:"action"` // created | updated | assigned | status_changed
	Task   *Task  `json:"task"`
}

// ShapefileEvent announces a finished shapefile conversion.
type ShapefileEvent struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	FeatureCount int     `json:"feature_count"`
	TeamID       *string `json:"team_id,omitempty"`
}
