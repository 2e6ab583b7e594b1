package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Role  UserRole `json:"role"`
}

type Project struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Status      ProjectStatus      `json:"status"`
	Category    ProjectCategory    `json:"category"`
	Subcategory ProjectSubcategory `json:"subcategory"`
	Region      Region             `json:"region,omitempty"`
	Country     string             `json:"country,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// Profile is the contact data shared by project collaborators and the global registry.
type Profile struct {
	Name              string               `json:"name"`
	Category          CollaboratorCategory `json:"category"`
	Role              string               `json:"role,omitempty"`
	Email             string               `json:"email,omitempty"`
	Phone             string               `json:"phone,omitempty"`
	Languages         StringList           `json:"language,omitempty"`
	Address           string               `json:"address,omitempty"`
	Website           string               `json:"website,omitempty"`
	Notes             string               `json:"notes,omitempty"`
	Allergies         string               `json:"allergies,omitempty"`
	HasDrivingLicense bool                 `json:"hasDrivingLicense,omitempty"`
	IsVisitor         bool                 `json:"isVisitor,omitempty"`
	AllowedTabs       StringList           `json:"allowedTabs,omitempty"`
}

type Collaborator struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId,omitempty"`
	Profile
}

// Contact is a Collaborator in the user's global registry.
type Contact struct {
	ID string `json:"id"`
	Profile
}

type BudgetItem struct {
	ID          string          `json:"id"`
	ProjectID   string          `json:"projectId,omitempty"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Status      BudgetStatus    `json:"status"`
}

type Script struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"projectId,omitempty"`
	Title        string    `json:"title"`
	Version      string    `json:"version"`
	LastModified time.Time `json:"lastModified"`
	Content      string    `json:"content,omitempty"`
}

type Document struct {
	ID            string           `json:"id"`
	ProjectID     string           `json:"projectId,omitempty"`
	Name          string           `json:"name"`
	Type          string           `json:"type"`
	Category      DocumentCategory `json:"category,omitempty"`
	UploadedAt    time.Time        `json:"uploadedAt"`
	Size          int64            `json:"size"`
	IsDriveFile   bool             `json:"isDriveFile,omitempty"`
	DriveFileID   string           `json:"driveFileId,omitempty"`
	DriveFolderID string           `json:"driveFolderId,omitempty"`
}

type Director struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

// Visitor is an invited guest; ID doubles as the invitation token.
type Visitor struct {
	ID          string        `json:"id"`
	ProjectID   string        `json:"projectId"`
	Email       string        `json:"email"`
	Name        string        `json:"name"`
	InvitedAt   time.Time     `json:"invitedAt"`
	AllowedTabs StringList    `json:"allowedTabs"`
	Status      VisitorStatus `json:"status"`
}

type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	Description string     `json:"description"`
	AssignedTo  StringList `json:"assignedTo"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     time.Time  `json:"endDate"`
	Status      TaskStatus `json:"status"`
}

type FestivalContact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty"`
}

// FestivalContacts is stored as a JSONB column.
type FestivalContacts []FestivalContact

func (c FestivalContacts) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]FestivalContact(c))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *FestivalContacts) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*c = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("festival contacts: unsupported type %T", src)
	}
	var out []FestivalContact
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("festival contacts: %w", err)
	}
	*c = out
	return nil
}

type Festival struct {
	ID                     string           `json:"id"`
	Name                   string           `json:"name"`
	Region                 Region           `json:"region"`
	Year                   int              `json:"year"`
	FilmSubmissionDeadline time.Time        `json:"filmSubmissionDeadline"`
	ProducersHubDeadline   time.Time        `json:"producersHubDeadline"`
	StartDate              time.Time        `json:"festivalStartDate"`
	EndDate                time.Time        `json:"festivalEndDate"`
	NumberOfDays           int              `json:"numberOfDays"`
	Contacts               FestivalContacts `json:"contacts"`
	Website                string           `json:"website,omitempty"`
	Location               string           `json:"location,omitempty"`
}

type CalendarEvent struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	Time      string    `json:"time,omitempty"`
	ProjectID string    `json:"projectId,omitempty"`
	Type      EventType `json:"type"`
}
