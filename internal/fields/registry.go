package fields

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"

	"homecare-scheduler-server/internal/models"
)

// Placement of a new field relative to its anchor.
const (
	PositionAbove = "above"
	PositionBelow = "below"
)

// Registry manages the admin-defined custom fields of each entity. All
// mutations go through a single mutex; the registry is process-wide state
// shared by every session.
type Registry struct {
	mu sync.Mutex
	db *gorm.DB
}

// NewRegistry creates a Registry backed by the given database.
func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

// token pairs an anchor token ("fixed:<key>" or "custom:<id>") with its
// order key in the merged fixed+custom sequence.
type token struct {
	key   string
	order float64
}

// AddField creates a custom field for the entity, placed relative to the
// anchor token if one is given. An empty or unknown anchor appends the field
// at the end; an unknown anchor is deliberately not an error so stale admin
// UI state cannot fail the operation. Returns the new field id.
func (r *Registry) AddField(entity, name string, fieldType models.FieldType, optionsText, anchor, position string) (uint, error) {
	if !ValidEntity(entity) {
		return 0, ErrUnknownEntity
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrEmptyFieldName
	}
	switch fieldType {
	case models.FieldText, models.FieldNumber, models.FieldDate, models.FieldDropdown:
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidFieldType, fieldType)
	}
	options := ParseOptions(optionsText)
	if fieldType == models.FieldDropdown && len(options) == 0 {
		return 0, ErrNoOptions
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.listLocked(entity)
	if err != nil {
		return 0, err
	}

	tokens := mergedTokens(entity, existing)

	var anchorOrder float64
	found := false
	if anchor != "" {
		for _, t := range tokens {
			if t.key == anchor {
				anchorOrder = t.order
				found = true
				break
			}
		}
	}

	var newOrder float64
	if !found {
		newOrder = orderStep
		if len(tokens) > 0 {
			newOrder = tokens[len(tokens)-1].order + orderStep
		}
	} else if position == PositionAbove {
		prev := anchorOrder - orderStep
		for _, t := range tokens {
			if t.order < anchorOrder {
				prev = t.order
			}
		}
		newOrder = (prev + anchorOrder) / 2.0
	} else {
		next := anchorOrder + orderStep
		for i := len(tokens) - 1; i >= 0; i-- {
			if t := tokens[i]; t.order > anchorOrder {
				next = t.order
			}
		}
		newOrder = (anchorOrder + next) / 2.0
	}

	field := models.CustomField{
		Entity:     entity,
		Name:       name,
		FieldType:  fieldType,
		FieldOrder: newOrder,
		Options:    strings.Join(options, ","),
	}
	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&field).Error; err != nil {
			return err
		}
		return renormalize(tx, entity)
	})
	if err != nil {
		return 0, err
	}
	return field.ID, nil
}

// RemoveField deletes a custom field and every stored value referencing it.
// Removing an id that no longer exists is a no-op.
func (r *Registry) RemoveField(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("field_id = ?", id).Delete(&models.CustomValue{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.CustomField{}).Error
	})
}

// ReorderFields is the explicit admin override of custom-field order. The
// given sequence must contain exactly the entity's current field ids; the
// fields are then assigned sequential integer order keys in that sequence.
func (r *Registry) ReorderFields(entity string, orderedIDs []uint) error {
	if !ValidEntity(entity) {
		return ErrUnknownEntity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.listLocked(entity)
	if err != nil {
		return err
	}
	if len(orderedIDs) != len(current) {
		return &OrderingError{Reason: fmt.Sprintf("got %d ids, entity has %d fields", len(orderedIDs), len(current))}
	}
	known := make(map[uint]bool, len(current))
	for _, f := range current {
		known[f.ID] = true
	}
	seen := make(map[uint]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !known[id] {
			return &OrderingError{Reason: fmt.Sprintf("id %d does not belong to entity %s", id, entity)}
		}
		if seen[id] {
			return &OrderingError{Reason: fmt.Sprintf("duplicate id %d", id)}
		}
		seen[id] = true
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			err := tx.Model(&models.CustomField{}).Where("id = ?", id).
				Update("field_order", float64(i+1)).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ListFields returns the entity's custom fields sorted ascending by order
// key, ties broken by id.
func (r *Registry) ListFields(entity string) ([]models.CustomField, error) {
	if !ValidEntity(entity) {
		return nil, ErrUnknownEntity
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listLocked(entity)
}

func (r *Registry) listLocked(entity string) ([]models.CustomField, error) {
	var out []models.CustomField
	err := r.db.Where("entity = ?", entity).
		Order("field_order asc, id asc").Find(&out).Error
	return out, err
}

// mergedTokens builds the combined fixed+custom order sequence, sorted
// ascending by order key.
func mergedTokens(entity string, customs []models.CustomField) []token {
	ff, _ := FixedFieldsFor(entity)
	tokens := make([]token, 0, len(ff)+len(customs))
	for i, f := range ff {
		tokens = append(tokens, token{key: "fixed:" + f.Key, order: float64(i+1) * orderStep})
	}
	for _, cf := range customs {
		tokens = append(tokens, token{key: fmt.Sprintf("custom:%d", cf.ID), order: cf.FieldOrder})
	}
	sort.SliceStable(tokens, func(i, j int) bool { return tokens[i].order < tokens[j].order })
	return tokens
}

// renormalize rewrites the entity's custom-field order keys after an
// insertion. Custom fields are bucketed into the gaps between consecutive
// fixed order keys and respaced evenly inside their gap, which bounds the
// floating-point drift from repeated midpoint insertions while never moving
// a field past a fixed neighbor.
func renormalize(tx *gorm.DB, entity string) error {
	ff, ok := FixedFieldsFor(entity)
	if !ok {
		return ErrUnknownEntity
	}

	var customs []models.CustomField
	err := tx.Where("entity = ?", entity).
		Order("field_order asc, id asc").Find(&customs).Error
	if err != nil {
		return err
	}

	n := len(ff)
	buckets := make([][]models.CustomField, n+1)
	for _, cf := range customs {
		g := int(cf.FieldOrder / orderStep)
		if g < 0 {
			g = 0
		}
		if g > n {
			// Appended past the last fixed slot; compress into the tail gap.
			g = n
		}
		buckets[g] = append(buckets[g], cf)
	}

	for g, bucket := range buckets {
		lo := float64(g) * orderStep
		for j, cf := range bucket {
			order := lo + orderStep*float64(j+1)/float64(len(bucket)+1)
			err := tx.Model(&models.CustomField{}).Where("id = ?", cf.ID).
				Update("field_order", order).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// ParseOptions splits comma-separated dropdown options, trimming whitespace
// and discarding empties.
func ParseOptions(optionsText string) []string {
	var out []string
	for _, o := range strings.Split(optionsText, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
