package fields

import (
	"reflect"
	"testing"

	"homecare-scheduler-server/internal/models"
)

func TestBuildLayoutIsIdempotent(t *testing.T) {
	r := NewRegistry(newTestDB(t))

	if _, err := r.AddField(EntityPatients, "Oxygen Level", models.FieldNumber, "", "fixed:diagnosis", PositionBelow); err != nil {
		t.Fatalf("AddField: %v", err)
	}
	if _, err := r.AddField(EntityPatients, "Ward", models.FieldDropdown, "North, South", "", PositionBelow); err != nil {
		t.Fatalf("AddField: %v", err)
	}

	first, err := r.BuildLayout(EntityPatients)
	if err != nil {
		t.Fatalf("BuildLayout: %v", err)
	}
	second, err := r.BuildLayout(EntityPatients)
	if err != nil {
		t.Fatalf("BuildLayout: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two layouts without mutation differ:\n%+v\n%+v", first, second)
	}
}

func TestBuildLayoutPlacesFieldBelowAnchor(t *testing.T) {
	r := NewRegistry(newTestDB(t))

	id, err := r.AddField(EntityPatients, "Oxygen Level", models.FieldNumber, "", "fixed:diagnosis", PositionBelow)
	if err != nil {
		t.Fatalf("AddField: %v", err)
	}

	layout, err := r.BuildLayout(EntityPatients)
	if err != nil {
		t.Fatalf("BuildLayout: %v", err)
	}

	// The new field must sit immediately after "diagnosis" and before the
	// next fixed field, "equipment_required".
	for i, item := range layout {
		if item.Kind == KindFixed && item.Key == "diagnosis" {
			next := layout[i+1]
			if next.Kind != KindCustom || next.FieldID != id || next.Label != "Oxygen Level" {
				t.Fatalf("slot after diagnosis = %+v, want Oxygen Level", next)
			}
			after := layout[i+2]
			if after.Kind != KindFixed || after.Key != "equipment_required" {
				t.Fatalf("slot after Oxygen Level = %+v, want equipment_required", after)
			}
			return
		}
	}
	t.Fatal("diagnosis not present in layout")
}

func TestBuildLayoutCarriesTypeAndOptions(t *testing.T) {
	r := NewRegistry(newTestDB(t))

	id, err := r.AddField(EntitySchedule, "Transport", models.FieldDropdown, "Car, Bike , Walk,", "", PositionBelow)
	if err != nil {
		t.Fatalf("AddField: %v", err)
	}

	layout, err := r.BuildLayout(EntitySchedule)
	if err != nil {
		t.Fatalf("BuildLayout: %v", err)
	}

	fixed, _ := FixedFieldsFor(EntitySchedule)
	if len(layout) != len(fixed)+1 {
		t.Fatalf("layout has %d slots, want %d", len(layout), len(fixed)+1)
	}
	last := layout[len(layout)-1]
	if last.FieldID != id || last.Type != models.FieldDropdown {
		t.Fatalf("layout tail = %+v", last)
	}
	if want := []string{"Car", "Bike", "Walk"}; !reflect.DeepEqual(last.Options, want) {
		t.Fatalf("options = %v, want %v", last.Options, want)
	}
}

func TestBuildLayoutUnknownEntity(t *testing.T) {
	r := NewRegistry(newTestDB(t))
	if _, err := r.BuildLayout("invoices"); err != ErrUnknownEntity {
		t.Fatalf("BuildLayout error = %v, want ErrUnknownEntity", err)
	}
}
