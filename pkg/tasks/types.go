package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devhubhq/devhub/pkg/resource"
)

// CollectionName is the store collection backing tasks.
const CollectionName = "tasks"

// Status is the task lifecycle state.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Statuses enumerates every valid status.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// Valid reports whether s is a member of the status enum.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// transitions is the authoritative legal-transition table. Every state is
// reachable from every other: "start/pause" moves Pending <-> In Progress,
// the "complete" checkbox moves In Progress <-> Completed, and an admin may
// reset or close a task directly. Self-transitions are idempotent no-ops.
var transitions = map[Status]map[Status]bool{
	StatusPending:    {StatusPending: true, StatusInProgress: true, StatusCompleted: true},
	StatusInProgress: {StatusPending: true, StatusInProgress: true, StatusCompleted: true},
	StatusCompleted:  {StatusPending: true, StatusInProgress: true, StatusCompleted: true},
}

// CanTransition reports whether a task may move from one status to another.
func CanTransition(from, to Status) bool {
	return transitions[from][to]
}

// Task is the one entity with a lifecycle. assignedTo references an identity
// provider user; the reference is not enforced by the store.
type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	DueDate     DueDate            `bson:"dueDate" json:"dueDate"`
	Status      Status             `bson:"status" json:"status"`
	AssignedTo  string             `bson:"assignedTo" json:"assignedTo"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt   time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

var _ resource.Document = (*Task)(nil)

func (t *Task) DocumentID() primitive.ObjectID      { return t.ID }
func (t *Task) SetDocumentID(id primitive.ObjectID) { t.ID = id }

func (t *Task) Touch(now time.Time, create bool) {
	if create && t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

// Validate checks the required fields for creation. The status field is not
// validated here because creation forces it to Pending.
func (t *Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("title is required")
	}
	if t.Description == "" {
		return fmt.Errorf("description is required")
	}
	if t.DueDate.IsZero() {
		return fmt.Errorf("dueDate is required")
	}
	if t.AssignedTo == "" {
		return fmt.Errorf("assignedTo is required")
	}
	return nil
}

// DueDate is a timestamp that also accepts bare dates ("2024-01-01") on the
// wire, the way task-assignment forms submit them.
type DueDate struct {
	time.Time
}

var dueDateLayouts = []string{time.RFC3339, "2006-01-02"}

func (d *DueDate) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("dueDate must be a string: %w", err)
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid dueDate: %q", raw)
}

func (d DueDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time)
}

func (d DueDate) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(d.Time)
}

func (d *DueDate) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	return bson.UnmarshalValue(t, data, &d.Time)
}
