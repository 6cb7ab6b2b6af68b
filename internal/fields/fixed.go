package fields

// Entity keys for the three record kinds that carry custom fields.
const (
	EntityPatients = "patients"
	EntityStaff    = "staff"
	EntitySchedule = "schedule"
)

// orderStep spaces the compiled-in fixed fields along the order axis so a
// custom field can always be placed at a fractional key strictly between two
// neighbors.
const orderStep = 1000.0

// FixedField is a compiled-in attribute of an entity, always present and not
// admin-removable. Its order key is (index+1)*orderStep.
type FixedField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

var fixedFields = map[string][]FixedField{
	EntityPatients: {
		{"id", "Patient ID"},
		{"name", "Full name"},
		{"dob", "Date of birth"},
		{"gender", "Gender"},
		{"phone", "Phone"},
		{"email", "Email"},
		{"address", "Address"},
		{"emergency_contact", "Emergency contact"},
		{"insurance_provider", "Insurance provider"},
		{"insurance_number", "Insurance number"},
		{"allergies", "Allergies"},
		{"medications", "Current medications"},
		{"diagnosis", "Primary diagnosis"},
		{"equipment_required", "Equipment required"},
		{"mobility", "Mobility"},
		{"care_plan", "Care plan summary"},
		{"notes", "Notes / social history"},
	},
	EntityStaff: {
		{"id", "Staff ID"},
		{"name", "Full name"},
		{"role", "Role"},
		{"license_number", "License number"},
		{"specialties", "Specialties"},
		{"phone", "Phone"},
		{"email", "Email"},
		{"availability", "Availability"},
		{"notes", "Notes"},
	},
	EntitySchedule: {
		{"visit_id", "Visit ID"},
		{"patient_id", "Patient ID"},
		{"staff_id", "Staff ID"},
		{"date", "Date"},
		{"start_time", "Start"},
		{"end_time", "End"},
		{"visit_type", "Visit type"},
		{"duration_minutes", "Duration (min)"},
		{"priority", "Priority"},
		{"notes", "Notes"},
	},
}

// FixedFieldsFor returns the compiled-in fields of an entity in baseline
// order. The second return is false for an unknown entity key.
func FixedFieldsFor(entity string) ([]FixedField, bool) {
	ff, ok := fixedFields[entity]
	return ff, ok
}

// ValidEntity reports whether the entity key is one of the known kinds.
func ValidEntity(entity string) bool {
	_, ok := fixedFields[entity]
	return ok
}
