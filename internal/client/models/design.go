// Package models defines the client-side data model: a Design is one
// generated house plan plus its renderings, uniquely identified and owned
// by exactly one identity at a time.
//
// The JSON field names and nesting below are the storage/wire contract
// shared with the vault server and any previously persisted data. Do not
// rename them.
package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Design is the unit of ownership and synchronization.
type Design struct {
	// ID is opaque, assigned at creation, immutable, and globally unique
	// across all owners.
	ID string `json:"id"`

	// CreatedAt is the logical ordering key for listings.
	CreatedAt time.Time `json:"createdAt"`

	// OwnerID identifies the current owning identity: the anonymous
	// sentinel, a guest session id, or an account id. It is rewritten at
	// most once, by ownership migration.
	OwnerID string `json:"ownerId"`

	Plan      Plan       `json:"plan"`
	Artifacts []Artifact `json:"artifacts"`

	// SourceInputs are captured upload payloads used to regenerate certain
	// renderings deterministically.
	SourceInputs []SourceInput `json:"sourceInputs,omitempty"`
}

// Plan is the structured content of a design.
type Plan struct {
	Title string `json:"title"`
	Style string `json:"style"`
	Rooms []Room `json:"rooms"`
}

// Room is one room of a plan with its customization categories.
type Room struct {
	Name    string                        `json:"name"`
	Options map[string]CustomizationGroup `json:"options"`
}

// CustomizationGroup is one customization category: a display label plus an
// ordered list of options.
type CustomizationGroup struct {
	Label   string   `json:"label"`
	Options []string `json:"options"`
}

// Artifact is one rendering of a design. Artifacts keep insertion order.
type Artifact struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	// Content is a reference to the rendered asset (URL or data blob).
	Content string `json:"content"`
	// Prompt is the generation prompt that produced this rendering.
	Prompt string `json:"prompt"`
	// Liked and Favorited are independent flags gating downstream actions.
	Liked     bool `json:"liked"`
	Favorited bool `json:"favorited"`
}

// SourceInput is a captured upload payload (content plus mime type).
type SourceInput struct {
	Content  string `json:"content"`
	MimeType string `json:"mimeType"`
}

// NewDesign creates a design owned by ownerID with a fresh id and a UTC
// creation timestamp.
func NewDesign(ownerID string, plan Plan) *Design {
	return &Design{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		OwnerID:   ownerID,
		Plan:      plan,
		Artifacts: []Artifact{},
	}
}

// NewArtifact creates a rendering with a fresh id.
func NewArtifact(category, content, prompt string) Artifact {
	return Artifact{ID: uuid.NewString(), Category: category, Content: content, Prompt: prompt}
}

// Clone returns a deep copy. The sync layer publishes clones so callers can
// never alias its internal listing.
func (d *Design) Clone() *Design {
	if d == nil {
		return nil
	}
	out := *d
	out.Plan = d.Plan.clone()
	out.Artifacts = append([]Artifact(nil), d.Artifacts...)
	if d.SourceInputs != nil {
		out.SourceInputs = append([]SourceInput(nil), d.SourceInputs...)
	}
	return &out
}

func (p Plan) clone() Plan {
	out := p
	out.Rooms = make([]Room, len(p.Rooms))
	for i, r := range p.Rooms {
		cr := r
		if r.Options != nil {
			cr.Options = make(map[string]CustomizationGroup, len(r.Options))
			for k, g := range r.Options {
				cg := g
				cg.Options = append([]string(nil), g.Options...)
				cr.Options[k] = cg
			}
		}
		out.Rooms[i] = cr
	}
	return out
}

// ArtifactCount returns the number of renderings in this design.
func (d *Design) ArtifactCount() int {
	return len(d.Artifacts)
}

// UpsertArtifact replaces the artifact with the same id, or appends it.
// Insertion order of survivors is preserved.
func (d *Design) UpsertArtifact(a Artifact) {
	for i := range d.Artifacts {
		if d.Artifacts[i].ID == a.ID {
			d.Artifacts[i] = a
			return
		}
	}
	d.Artifacts = append(d.Artifacts, a)
}

// RemoveArtifact deletes the artifact with the given id, never by index,
// and never reorders survivors. Removing an absent id is a no-op.
func (d *Design) RemoveArtifact(id string) {
	for i := range d.Artifacts {
		if d.Artifacts[i].ID == id {
			d.Artifacts = append(d.Artifacts[:i], d.Artifacts[i+1:]...)
			return
		}
	}
}

// AddRoom extends the plan with another room.
func (d *Design) AddRoom(r Room) {
	d.Plan.Rooms = append(d.Plan.Rooms, r)
}

// SortByCreatedAt orders designs oldest first, with id as tie-breaker so
// the order is stable across reloads.
func SortByCreatedAt(designs []Design) {
	sort.SliceStable(designs, func(i, j int) bool {
		if designs[i].CreatedAt.Equal(designs[j].CreatedAt) {
			return designs[i].ID < designs[j].ID
		}
		return designs[i].CreatedAt.Before(designs[j].CreatedAt)
	})
}

// TotalArtifacts sums rendering counts across designs. Quota policy input.
func TotalArtifacts(designs []Design) int {
	total := 0
	for i := range designs {
		total += designs[i].ArtifactCount()
	}
	return total
}
