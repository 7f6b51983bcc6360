package painel

import (
	"errors"
	"fmt"
	"time"

	"github.com/hay-kot/painel/internal/core/board"
)

// ErrNotFound is returned when an edit addresses an id that is not in the
// collection. Nothing is committed in that case.
var ErrNotFound = errors.New("entity not found")

// Updater applies one read-modify-commit step.
type Updater interface {
	Update(fn func(board.Document) (board.Document, error)) (board.Document, error)
	Commit(doc board.Document) (board.Document, error)
}

// Editor exposes the dashboard edits. Every call is one commit of its own.
type Editor struct {
	engine Updater
	now    func() time.Time
	newID  func() string
}

// NewEditor returns an editor committing through engine. A nil now uses
// time.Now.
func NewEditor(engine Updater, now func() time.Time) *Editor {
	if now == nil {
		now = time.Now
	}
	return &Editor{engine: engine, now: now, newID: board.NewID}
}

// Add appends a placeholder entity to coll and returns its id.
func (e *Editor) Add(coll board.Collection) (string, error) {
	id := e.newID()

	entity, err := board.NewEntity(coll, id, e.now())
	if err != nil {
		return "", err
	}

	_, err = e.engine.Update(func(doc board.Document) (board.Document, error) {
		return board.AddEntity(doc, coll, entity)
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes the entity with the given id.
func (e *Editor) Delete(coll board.Collection, id string) error {
	_, err := e.engine.Update(func(doc board.Document) (board.Document, error) {
		if err := requireEntity(doc, coll, id); err != nil {
			return doc, err
		}
		return board.DeleteEntity(doc, coll, id)
	})
	return err
}

// Set replaces one field of one entity.
func (e *Editor) Set(coll board.Collection, id, field string, value any) error {
	_, err := e.engine.Update(func(doc board.Document) (board.Document, error) {
		if err := requireEntity(doc, coll, id); err != nil {
			return doc, err
		}
		return board.UpdateField(doc, coll, id, field, value)
	})
	return err
}

// SetFlag sets one status flag of one entity.
func (e *Editor) SetFlag(coll board.Collection, id, flag string, value bool) error {
	_, err := e.engine.Update(func(doc board.Document) (board.Document, error) {
		if err := requireEntity(doc, coll, id); err != nil {
			return doc, err
		}
		return board.UpdateStatusFlag(doc, coll, id, flag, value)
	})
	return err
}

// Toggle flips one status flag and returns its new value. The read and the
// write happen in the same commit.
func (e *Editor) Toggle(coll board.Collection, id, flag string) (bool, error) {
	var next bool
	_, err := e.engine.Update(func(doc board.Document) (board.Document, error) {
		if err := requireEntity(doc, coll, id); err != nil {
			return doc, err
		}
		flags, _ := board.Status(doc, coll, id)
		current, ok := flags[flag]
		if !ok {
			return doc, fmt.Errorf("%s.status.%s: %w", coll, flag, board.ErrUnknownField)
		}
		next = !current
		return board.UpdateStatusFlag(doc, coll, id, flag, next)
	})
	return next, err
}

// SetInfo replaces one Info field.
func (e *Editor) SetInfo(field string, value any) error {
	_, err := e.engine.Update(func(doc board.Document) (board.Document, error) {
		return board.UpdateInfo(doc, field, value)
	})
	return err
}

// Replace normalizes raw and commits it as the whole document.
func (e *Editor) Replace(raw any) (board.Document, error) {
	return e.engine.Commit(board.Normalize(raw))
}

func requireEntity(doc board.Document, coll board.Collection, id string) error {
	if _, err := board.ParseCollection(string(coll)); err != nil {
		return err
	}
	if !board.Has(doc, coll, id) {
		return fmt.Errorf("%s %q: %w", coll, id, ErrNotFound)
	}
	return nil
}
