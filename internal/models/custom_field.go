package models

// FieldType enum for admin-defined custom fields.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldDropdown FieldType = "dropdown"
)

// CustomField is an admin-defined extra attribute attached to an entity.
// FieldOrder is a real number so a new field can always be inserted between
// two neighbors without renumbering every row.
type CustomField struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Entity     string    `gorm:"size:16;index" json:"entity"`
	Name       string    `gorm:"size:255" json:"name"`
	FieldType  FieldType `gorm:"size:16" json:"fieldType"`
	FieldOrder float64   `json:"fieldOrder"`
	Options    string    `gorm:"size:1024" json:"options"` // comma-separated, dropdown only
}

// CustomValue is the stored value of a custom field for one record. Values
// are text-encoded regardless of the declared field type; typed parsing
// happens at the API boundary.
type CustomValue struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Entity   string `gorm:"size:16;index:idx_custom_values_record" json:"entity"`
	RecordID string `gorm:"size:64;index:idx_custom_values_record" json:"recordId"`
	FieldID  uint   `gorm:"index" json:"fieldId"`
	Value    string `gorm:"type:text" json:"value"`
}
