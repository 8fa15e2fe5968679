package tracker

import (
	"strings"
)

const (
	UnassignedName    = "Unassigned"
	NoDescriptionText = "No description provided"
	FetchFailedBlock  = "<fetchedIssue>An unknown error occurred while fetching this issue.</fetchedIssue>"
)

type Role string

const (
	RolePrimary Role = "primary"
	RoleParent  Role = "parent"
	RoleRelated Role = "related"
	RoleFetched Role = "fetched"
)

// Tag is the element name used when rendering a record with this role.
func (r Role) Tag() string {
	switch r {
	case RolePrimary:
		return "primaryIssue"
	case RoleParent:
		return "parentIssue"
	case RoleFetched:
		return "fetchedIssue"
	default:
		return "relatedIssue"
	}
}

// IssueRecord is one tracker issue flattened for the model.
type IssueRecord struct {
	Key         string
	Summary     string
	Status      string
	Assignee    string
	Priority    string
	Description string
	Role        Role
}

// Render produces the tagged block for r. The layout is part of the prompt
// contract and must not change.
func (r IssueRecord) Render() string {
	tag := r.Role.Tag()

	var b strings.Builder
	b.WriteString("<" + tag + ">\n")
	writeField(&b, "key", r.Key)
	writeField(&b, "summary", r.Summary)
	writeField(&b, "status", r.Status)
	writeField(&b, "assignee", r.Assignee)
	writeField(&b, "priority", r.Priority)
	writeField(&b, "description", r.Description)
	b.WriteString("</" + tag + ">")
	return b.String()
}

func writeField(b *strings.Builder, name, value string) {
	b.WriteString("    <" + name + ">")
	b.WriteString(value)
	b.WriteString("</" + name + ">\n")
}

// Document is an ordered batch of records.
type Document []IssueRecord

// String concatenates the rendered records with no separator.
func (d Document) String() string {
	var b strings.Builder
	for _, r := range d {
		b.WriteString(r.Render())
	}
	return b.String()
}

// Classify assigns roles by key equality: primary first, then parent,
// everything else related.
func Classify(records []IssueRecord, primaryKey, parentKey string) {
	for i := range records {
		switch records[i].Key {
		case primaryKey:
			records[i].Role = RolePrimary
		case parentKey:
			records[i].Role = RoleParent
		default:
			records[i].Role = RoleRelated
		}
	}
}

// NormalizeKey trims whitespace and upper-cases a user supplied issue key.
func NormalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}
