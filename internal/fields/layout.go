package fields

import (
	"fmt"
	"sort"

	"homecare-scheduler-server/internal/models"
)

// LayoutKind discriminates fixed and custom entries in a form layout.
type LayoutKind string

const (
	KindFixed  LayoutKind = "fixed"
	KindCustom LayoutKind = "custom"
)

// LayoutItem is one slot in the ordered rendering sequence of an entity's
// form. Fixed items carry the compiled-in key; custom items carry the field
// id, type and options.
type LayoutItem struct {
	Kind    LayoutKind       `json:"kind"`
	Key     string           `json:"key"`
	Label   string           `json:"label"`
	Type    models.FieldType `json:"type,omitempty"`
	Options []string         `json:"options,omitempty"`
	FieldID uint             `json:"fieldId,omitempty"`
}

// BuildLayout merges the entity's fixed and custom fields into one ordered
// sequence, used identically for create and edit forms. With no intervening
// registry mutation two calls return identical output.
func (r *Registry) BuildLayout(entity string) ([]LayoutItem, error) {
	ff, ok := FixedFieldsFor(entity)
	if !ok {
		return nil, ErrUnknownEntity
	}
	customs, err := r.ListFields(entity)
	if err != nil {
		return nil, err
	}

	type slot struct {
		item  LayoutItem
		order float64
		id    uint
	}
	slots := make([]slot, 0, len(ff)+len(customs))
	for i, f := range ff {
		slots = append(slots, slot{
			item:  LayoutItem{Kind: KindFixed, Key: f.Key, Label: f.Label},
			order: float64(i+1) * orderStep,
		})
	}
	for _, cf := range customs {
		slots = append(slots, slot{
			item: LayoutItem{
				Kind:    KindCustom,
				Key:     fmt.Sprintf("custom_%d", cf.ID),
				Label:   cf.Name,
				Type:    cf.FieldType,
				Options: ParseOptions(cf.Options),
				FieldID: cf.ID,
			},
			order: cf.FieldOrder,
			id:    cf.ID,
		})
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].order != slots[j].order {
			return slots[i].order < slots[j].order
		}
		return slots[i].id < slots[j].id
	})

	out := make([]LayoutItem, len(slots))
	for i, s := range slots {
		out[i] = s.item
	}
	return out, nil
}
