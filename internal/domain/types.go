package domain

// ProjectStatus is the production phase of a project.
type ProjectStatus string

const (
	StatusPreProduction  ProjectStatus = "pre-production"
	StatusProduction     ProjectStatus = "production"
	StatusPostProduction ProjectStatus = "post-production"
	StatusCompleted      ProjectStatus = "completed"
)

type ProjectCategory string

const (
	CategoryOriginals     ProjectCategory = "originals"
	CategoryCoProductions ProjectCategory = "co-productions"
	CategoryCommissions   ProjectCategory = "commissions"
)

type ProjectSubcategory string

const (
	SubcategoryFeatureFilm ProjectSubcategory = "feature-film"
	SubcategoryDocumentary ProjectSubcategory = "documentary"
	SubcategoryAudiovisual ProjectSubcategory = "audiovisual"
	SubcategoryTVSeries    ProjectSubcategory = "tv-series"
	SubcategoryShortFilm   ProjectSubcategory = "short-film"
	SubcategoryCommercial  ProjectSubcategory = "commercial"
)

type CollaboratorCategory string

const (
	CollabCoproducers  CollaboratorCategory = "coproducers"
	CollabDistributors CollaboratorCategory = "distributor-companies"
	CollabStudios      CollaboratorCategory = "studios"
	CollabEquipment    CollaboratorCategory = "equipment-companies"
	CollabLocations    CollaboratorCategory = "locations"
)

type BudgetStatus string

const (
	BudgetApproved BudgetStatus = "approved"
	BudgetPending  BudgetStatus = "pending"
	BudgetRejected BudgetStatus = "rejected"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
)

type VisitorStatus string

const (
	VisitorPending  VisitorStatus = "pending"
	VisitorAccepted VisitorStatus = "accepted"
	VisitorActive   VisitorStatus = "active"
)

// Rank orders visitor states; a visitor only ever moves to a higher rank.
func (s VisitorStatus) Rank() int {
	switch s {
	case VisitorPending:
		return 1
	case VisitorAccepted:
		return 2
	case VisitorActive:
		return 3
	}
	return 0
}

type EventType string

const (
	EventShoot    EventType = "shoot"
	EventMeeting  EventType = "meeting"
	EventDelivery EventType = "delivery"
	EventOther    EventType = "other"
)

type DocumentCategory string

const (
	DocScript     DocumentCategory = "script"
	DocContract   DocumentCategory = "contract"
	DocInvoice    DocumentCategory = "invoice"
	DocBudget     DocumentCategory = "budget"
	DocLegal      DocumentCategory = "legal"
	DocProduction DocumentCategory = "production"
	DocMarketing  DocumentCategory = "marketing"
	DocOther      DocumentCategory = "other"
)

// Tabs a visitor may be granted.
const (
	TabCollaborators = "collaborators"
	TabBudget        = "budget"
	TabDocuments     = "documents"
	TabTasks         = "tasks"
)

type Region string

const (
	RegionEurope       Region = "europe"
	RegionNorthAmerica Region = "north-america"
	RegionSouthAmerica Region = "south-america"
	RegionAsia         Region = "asia"
	RegionAfrica       Region = "africa"
	RegionOceania      Region = "oceania"
	RegionMiddleEast   Region = "middle-east"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleMember  UserRole = "member"
	RoleVisitor UserRole = "visitor"
)

// legacyValues maps enum values found in older device payloads to current ones.
var legacyValues = map[string]string{
	"pre-produccion":  string(StatusPreProduction),
	"produccion":      string(StatusProduction),
	"post-produccion": string(StatusPostProduction),
	"completado":      string(StatusCompleted),
	"aprobado":        string(BudgetApproved),
	"pendiente":       string(BudgetPending),
	"rechazado":       string(BudgetRejected),
	"en-progreso":     string(TaskInProgress),
	"completada":      string(TaskCompleted),
	"rodaje":          string(EventShoot),
	"reunion":         string(EventMeeting),
	"entrega":         string(EventDelivery),
	"otro":            string(EventOther),
	"colaboradores":   TabCollaborators,
	"documentos":      TabDocuments,
	"tareas":          TabTasks,
}

func upgradeValue[S ~string](v S) S {
	if nv, ok := legacyValues[string(v)]; ok {
		return S(nv)
	}
	return v
}
