// Package selection keeps the favorites and compare shortlists. Each set is
// an ordered, deduplicated list of entity snapshots persisted through a
// string key-value Store.
package selection

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/sahilchouksey/edu-directory/model"
)

// Item is a snapshot of an entity taken when it was selected. It renders
// without the directory API being reachable.
type Item struct {
	ID      string           `json:"id" validate:"required"`
	Kind    model.EntityKind `json:"kind" validate:"required,oneof=institution course"`
	Name    string           `json:"name"`
	Data    json.RawMessage  `json:"data,omitempty"`
	AddedAt *time.Time       `json:"addedAt,omitempty"`
}

func (i Item) clone() Item {
	if i.Data != nil {
		i.Data = append(json.RawMessage(nil), i.Data...)
	}
	if i.AddedAt != nil {
		t := *i.AddedAt
		i.AddedAt = &t
	}
	return i
}

// Snapshot captures an institution or course as an Item
func Snapshot(e model.Entity) (Item, error) {
	var name string
	switch v := e.(type) {
	case *model.Institution:
		name = v.Name
	case *model.InstitutionDetail:
		name = v.Name
	case *model.Course:
		name = v.Title
	case *model.CourseDetail:
		name = v.Title
	default:
		return Item{}, fmt.Errorf("%w: cannot select a %s", ErrInvalidItem, e.EntityKind())
	}

	data, err := json.Marshal(e)
	if err != nil {
		return Item{}, fmt.Errorf("snapshot %s: %w", e.EntityID(), err)
	}
	return Item{ID: e.EntityID(), Kind: e.EntityKind(), Name: name, Data: data}, nil
}
