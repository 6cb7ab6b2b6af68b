package fields

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"homecare-scheduler-server/internal/models"
)

// SetValue stores the value of a custom field for one record, overwriting any
// previous value. Last writer wins.
func (r *Registry) SetValue(entity, recordID string, fieldID uint, value string) error {
	if !ValidEntity(entity) {
		return ErrUnknownEntity
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.CustomValue
		err := tx.Where("entity = ? AND record_id = ? AND field_id = ?", entity, recordID, fieldID).
			First(&existing).Error
		if err == nil {
			return tx.Model(&existing).Update("value", value).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(&models.CustomValue{
			Entity:   entity,
			RecordID: recordID,
			FieldID:  fieldID,
			Value:    value,
		}).Error
	})
}

// Value looks up the stored value of a custom field for one record. The
// second return is false when no value has been saved.
func (r *Registry) Value(entity, recordID string, fieldID uint) (string, bool, error) {
	var v models.CustomValue
	err := r.db.Where("entity = ? AND record_id = ? AND field_id = ?", entity, recordID, fieldID).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v.Value, true, nil
}

// ValuesForRecord returns all stored custom values of one record keyed by
// field id.
func (r *Registry) ValuesForRecord(entity, recordID string) (map[uint]string, error) {
	var rows []models.CustomValue
	err := r.db.Where("entity = ? AND record_id = ?", entity, recordID).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]string, len(rows))
	for _, row := range rows {
		out[row.FieldID] = row.Value
	}
	return out, nil
}

// DeleteValuesForRecord removes every custom value of one record; called when
// the owning record is deleted.
func (r *Registry) DeleteValuesForRecord(entity, recordID string) error {
	return r.db.Where("entity = ? AND record_id = ?", entity, recordID).
		Delete(&models.CustomValue{}).Error
}

// TypedValue parses a raw text value into the field's declared type. The
// store itself is type-agnostic; this is the only point where declared types
// are enforced, so callers get a validation error instead of trusting stored
// content. An empty value is returned as-is for every type.
func TypedValue(field models.CustomField, raw string) (interface{}, error) {
	if raw == "" {
		return "", nil
	}
	switch field.FieldType {
	case models.FieldText:
		return raw, nil
	case models.FieldNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, raw)
		}
		return n, nil
	case models.FieldDate:
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a date (YYYY-MM-DD)", ErrInvalidValue, raw)
		}
		return t, nil
	case models.FieldDropdown:
		for _, opt := range ParseOptions(field.Options) {
			if raw == opt {
				return raw, nil
			}
		}
		return nil, fmt.Errorf("%w: %q is not an option of %q", ErrInvalidValue, raw, field.Name)
	default:
		return raw, nil
	}
}
