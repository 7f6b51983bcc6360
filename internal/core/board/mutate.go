package board

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrUnknownField      = errors.New("unknown field")
	ErrInvalidValue      = errors.New("invalid value")
	ErrEntityType        = errors.New("entity does not belong to collection")
)

// Collection names a list inside the Document by its JSON key.
type Collection string

const (
	CollectionOutbound     Collection = "outbound"
	CollectionInbound      Collection = "inbound"
	CollectionWeekly       Collection = "weekly"
	CollectionImports      Collection = "imports"
	CollectionProgressBars Collection = "progressBars"
)

// Collections lists every collection in display order.
func Collections() []Collection {
	return []Collection{
		CollectionOutbound,
		CollectionInbound,
		CollectionWeekly,
		CollectionImports,
		CollectionProgressBars,
	}
}

// ParseCollection resolves a collection from its JSON key or a short alias
// used on the command line.
func ParseCollection(s string) (Collection, error) {
	switch s {
	case "outbound", "out":
		return CollectionOutbound, nil
	case "inbound", "in":
		return CollectionInbound, nil
	case "weekly", "week":
		return CollectionWeekly, nil
	case "imports", "alerts":
		return CollectionImports, nil
	case "progressBars", "progress":
		return CollectionProgressBars, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCollection, s)
	}
}

type identified interface {
	OutboundItem | InboundItem | WeeklyStat | Alert | ShipmentProgress
}

func idOf[T identified](v T) string {
	switch e := any(v).(type) {
	case OutboundItem:
		return e.ID
	case InboundItem:
		return e.ID
	case WeeklyStat:
		return e.ID
	case Alert:
		return e.ID
	case ShipmentProgress:
		return e.ID
	}
	return ""
}

// AddEntity appends entity to coll. The caller supplies a fresh id.
func AddEntity(doc Document, coll Collection, entity any) (Document, error) {
	out := doc.Clone()

	switch coll {
	case CollectionOutbound:
		e, ok := entity.(OutboundItem)
		if !ok {
			return doc, fmt.Errorf("%w: %T into %s", ErrEntityType, entity, coll)
		}
		out.Outbound = append(out.Outbound, e)
	case CollectionInbound:
		e, ok := entity.(InboundItem)
		if !ok {
			return doc, fmt.Errorf("%w: %T into %s", ErrEntityType, entity, coll)
		}
		out.Inbound = append(out.Inbound, e)
	case CollectionWeekly:
		e, ok := entity.(WeeklyStat)
		if !ok {
			return doc, fmt.Errorf("%w: %T into %s", ErrEntityType, entity, coll)
		}
		out.Weekly = append(out.Weekly, e)
	case CollectionImports:
		e, ok := entity.(Alert)
		if !ok {
			return doc, fmt.Errorf("%w: %T into %s", ErrEntityType, entity, coll)
		}
		out.Imports = append(out.Imports, e)
	case CollectionProgressBars:
		e, ok := entity.(ShipmentProgress)
		if !ok {
			return doc, fmt.Errorf("%w: %T into %s", ErrEntityType, entity, coll)
		}
		out.ProgressBars = append(out.ProgressBars, e)
	default:
		return doc, fmt.Errorf("%w: %q", ErrUnknownCollection, coll)
	}

	return out, nil
}

// DeleteEntity removes the entity with the given id from coll. Confirming
// with the user is the caller's concern; once invoked the removal is
// unconditional. An unknown id leaves the collection unchanged.
func DeleteEntity(doc Document, coll Collection, id string) (Document, error) {
	out := doc.Clone()

	switch coll {
	case CollectionOutbound:
		out.Outbound = without(out.Outbound, id)
	case CollectionInbound:
		out.Inbound = without(out.Inbound, id)
	case CollectionWeekly:
		out.Weekly = without(out.Weekly, id)
	case CollectionImports:
		out.Imports = without(out.Imports, id)
	case CollectionProgressBars:
		out.ProgressBars = without(out.ProgressBars, id)
	default:
		return doc, fmt.Errorf("%w: %q", ErrUnknownCollection, coll)
	}

	return out, nil
}

// UpdateField replaces one field, addressed by its JSON name, of the entity
// with the given id. Every other entity and field is left as it was.
func UpdateField(doc Document, coll Collection, id, field string, value any) (Document, error) {
	out := doc.Clone()

	var err error
	switch coll {
	case CollectionOutbound:
		out.Outbound, err = updateEntity(out.Outbound, id, field, value, outboundFields)
	case CollectionInbound:
		out.Inbound, err = updateEntity(out.Inbound, id, field, value, inboundFields)
	case CollectionWeekly:
		out.Weekly, err = updateEntity(out.Weekly, id, field, value, weeklyFields)
	case CollectionImports:
		out.Imports, err = updateEntity(out.Imports, id, field, value, alertFields)
	case CollectionProgressBars:
		out.ProgressBars, err = updateEntity(out.ProgressBars, id, field, value, progressFields)
	default:
		return doc, fmt.Errorf("%w: %q", ErrUnknownCollection, coll)
	}

	if err != nil {
		return doc, fmt.Errorf("%s.%s: %w", coll, field, err)
	}
	return out, nil
}

// UpdateStatusFlag replaces one boolean of an entity's nested status. Only
// outbound and inbound items carry a status.
func UpdateStatusFlag(doc Document, coll Collection, id, flag string, value bool) (Document, error) {
	out := doc.Clone()

	var err error
	switch coll {
	case CollectionOutbound:
		out.Outbound, err = updateEntity(out.Outbound, id, flag, value, outboundFlags)
	case CollectionInbound:
		out.Inbound, err = updateEntity(out.Inbound, id, flag, value, inboundFlags)
	case CollectionWeekly, CollectionImports, CollectionProgressBars:
		return doc, fmt.Errorf("%s has no status: %w", coll, ErrUnknownField)
	default:
		return doc, fmt.Errorf("%w: %q", ErrUnknownCollection, coll)
	}

	if err != nil {
		return doc, fmt.Errorf("%s.status.%s: %w", coll, flag, err)
	}
	return out, nil
}

// UpdateInfo replaces one field of the Info record.
func UpdateInfo(doc Document, field string, value any) (Document, error) {
	out := doc.Clone()

	set, ok := infoFields[field]
	if !ok {
		return doc, fmt.Errorf("info.%s: %w", field, ErrUnknownField)
	}
	if err := set(&out.Info, value); err != nil {
		return doc, fmt.Errorf("info.%s: %w", field, err)
	}
	return out, nil
}

// Status returns the status flags of the entity with the given id, keyed by
// flag name.
func Status(doc Document, coll Collection, id string) (map[string]bool, bool) {
	switch coll {
	case CollectionOutbound:
		for _, item := range doc.Outbound {
			if item.ID == id {
				return map[string]bool{
					"separando": item.Status.Separando,
					"separado":  item.Status.Separado,
					"romaneio":  item.Status.Romaneio,
					"carregado": item.Status.Carregado,
				}, true
			}
		}
	case CollectionInbound:
		for _, item := range doc.Inbound {
			if item.ID == id {
				return map[string]bool{"desc": item.Status.Desc, "rec": item.Status.Rec}, true
			}
		}
	}
	return nil, false
}

// Has reports whether coll contains an entity with the given id.
func Has(doc Document, coll Collection, id string) bool {
	switch coll {
	case CollectionOutbound:
		return contains(doc.Outbound, id)
	case CollectionInbound:
		return contains(doc.Inbound, id)
	case CollectionWeekly:
		return contains(doc.Weekly, id)
	case CollectionImports:
		return contains(doc.Imports, id)
	case CollectionProgressBars:
		return contains(doc.ProgressBars, id)
	default:
		return false
	}
}

// NewEntity returns the placeholder entity added to coll from the dashboard.
// Weekly cells are labelled after the day of now.
func NewEntity(coll Collection, id string, now time.Time) (any, error) {
	switch coll {
	case CollectionOutbound:
		return NewOutboundItem(id, now), nil
	case CollectionInbound:
		return NewInboundItem(id, now), nil
	case CollectionWeekly:
		return NewWeeklyStat(id, fmt.Sprintf("DIA %02d", now.Day())), nil
	case CollectionImports:
		return NewAlert(id), nil
	case CollectionProgressBars:
		return NewShipmentProgress(id), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, coll)
	}
}

func contains[T identified](items []T, id string) bool {
	for _, item := range items {
		if idOf(item) == id {
			return true
		}
	}
	return false
}

func without[T identified](items []T, id string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if idOf(item) != id {
			out = append(out, item)
		}
	}
	return out
}

func updateEntity[T identified](items []T, id, field string, value any, setters map[string]setter[T]) ([]T, error) {
	set, ok := setters[field]
	if !ok {
		return items, ErrUnknownField
	}

	for i := range items {
		if idOf(items[i]) != id {
			continue
		}
		if err := set(&items[i], value); err != nil {
			return items, err
		}
	}
	return items, nil
}
