package storage

import "strings"

const keySep = ":"

// Logical keys for every per-user collection kept on the device.
const (
	KeyProjects       = "projects"
	KeyCollaborators  = "collaborators"
	KeyBudgets        = "budgets"
	KeyScripts        = "scripts"
	KeyDocuments      = "documents"
	KeyDirectors      = "directors"
	KeyVisitors       = "visitors"
	KeyTasks          = "tasks"
	KeyFestivals      = "festivals"
	KeyCalendarEvents = "calendar_events"
	KeyContacts       = "contacts"

	KeyReadNotifications = "read_notifications"
	KeyCustomOptions     = "custom_options"
)

// UserDomains lists the logical keys owned by a single user.
var UserDomains = []string{
	KeyProjects, KeyCollaborators, KeyBudgets, KeyScripts, KeyDocuments,
	KeyDirectors, KeyVisitors, KeyTasks, KeyFestivals, KeyCalendarEvents, KeyContacts,
	KeyReadNotifications, KeyCustomOptions,
}

// ScopedKey derives the storage key for logicalKey under userID.
// An empty userID is the anonymous namespace and maps to the logical key itself.
func ScopedKey(logicalKey, userID string) string {
	if userID == "" {
		return logicalKey
	}
	return logicalKey + keySep + userID
}

// CorruptKey is where an undecodable value stored under key is kept for inspection.
// The prefix keeps it out of the domain's key scans.
func CorruptKey(key string) string { return "corrupt" + keySep + key }

// UserFromKey returns the user id encoded in a scoped key for logicalKey.
func UserFromKey(logicalKey, key string) (string, bool) {
	prefix := logicalKey + keySep
	if !strings.HasPrefix(key, prefix) || len(key) == len(prefix) {
		return "", false
	}
	return key[len(prefix):], true
}
