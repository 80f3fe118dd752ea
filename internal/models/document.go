package models

import (
	"slices"
	"strings"
)

// BotConfig is the persisted configuration section of the document.
type BotConfig struct {
	AdminIDs []string `json:"admin_ids" bson:"admin_ids"`
}

// Document is the whole persisted state. Projects and Tasks keep insertion order.
type Document struct {
	Users    []User    `json:"users" bson:"users"`
	Projects []Entity  `json:"projects" bson:"projects"`
	Tasks    []Entity  `json:"tasks" bson:"tasks"`
	Config   BotConfig `json:"config" bson:"config"`
}

// NewDocument returns an empty document with every section initialized.
func NewDocument() *Document {
	return &Document{
		Users:    []User{},
		Projects: []Entity{},
		Tasks:    []Entity{},
		Config:   BotConfig{AdminIDs: []string{}},
	}
}

// Normalize fills nil sections so callers never need nil checks.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.Projects == nil {
		d.Projects = []Entity{}
	}
	if d.Tasks == nil {
		d.Tasks = []Entity{}
	}
	if d.Config.AdminIDs == nil {
		d.Config.AdminIDs = []string{}
	}
}

// Pool returns the entity slice for a kind.
func (d *Document) Pool(kind EntityKind) []Entity {
	if kind == KindProject {
		return d.Projects
	}
	return d.Tasks
}

// FindEntity returns a pointer into the document so callers can mutate in place.
func (d *Document) FindEntity(kind EntityKind, id string) *Entity {
	pool := d.Pool(kind)
	for i := range pool {
		if pool[i].ID == id {
			return &pool[i]
		}
	}
	return nil
}

func (d *Document) FindProject(id string) *Entity {
	return d.FindEntity(KindProject, id)
}

func (d *Document) FindTask(id string) *Entity {
	return d.FindEntity(KindTask, id)
}

// AddEntity appends to the pool matching the entity's kind.
func (d *Document) AddEntity(e Entity) {
	if e.Kind == KindProject {
		d.Projects = append(d.Projects, e)
		return
	}
	d.Tasks = append(d.Tasks, e)
}

// TasksOfProject scans the task pool for tasks referencing projectID. O(number of tasks).
func (d *Document) TasksOfProject(projectID string) []Entity {
	var out []Entity
	for _, t := range d.Tasks {
		if t.ProjectID != nil && *t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out
}

func (d *Document) FindUser(id string) *User {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i]
		}
	}
	return nil
}

// UpsertUser replaces a user with the same ID or appends a new one.
func (d *Document) UpsertUser(u User) {
	if existing := d.FindUser(u.ID); existing != nil {
		*existing = u
		return
	}
	d.Users = append(d.Users, u)
}

func (d *Document) IsAdmin(userID string) bool {
	return slices.Contains(d.Config.AdminIDs, userID)
}

// MergeAdmins adds ids to the allow-list, skipping blanks and duplicates.
func (d *Document) MergeAdmins(ids []string) {
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || id == "0" || slices.Contains(d.Config.AdminIDs, id) {
			continue
		}
		d.Config.AdminIDs = append(d.Config.AdminIDs, id)
	}
}
