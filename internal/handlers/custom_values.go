package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"homecare-scheduler-server/internal/fields"
	"homecare-scheduler-server/internal/utils"
)

// checkCustomValues validates submitted custom values against their field
// definitions without writing anything. Map keys are custom-field ids as
// decimal strings (JSON object keys are always strings). Returns the values
// keyed by parsed id; writes an error response and returns false when a key
// or value is invalid. Create handlers call this before inserting the record
// itself, so a rejected payload leaves no partial state.
func checkCustomValues(c *gin.Context, reg *fields.Registry, entity string, values map[string]string) (map[uint]string, bool) {
	if len(values) == 0 {
		return nil, true
	}

	defined, err := reg.ListFields(entity)
	if err != nil {
		utils.InternalServerError(c, "Failed to load custom fields: "+err.Error())
		return nil, false
	}
	byID := make(map[uint]int, len(defined))
	for i, f := range defined {
		byID[f.ID] = i
	}

	parsed := make(map[uint]string, len(values))
	for key, raw := range values {
		id64, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			utils.BadRequest(c, "Invalid custom field id: "+key)
			return nil, false
		}
		id := uint(id64)
		idx, ok := byID[id]
		if !ok {
			utils.BadRequest(c, "Unknown custom field id: "+key)
			return nil, false
		}
		if _, err := fields.TypedValue(defined[idx], raw); err != nil {
			utils.BadRequest(c, err.Error())
			return nil, false
		}
		parsed[id] = raw
	}
	return parsed, true
}

// writeCustomValues upserts previously validated custom values for one
// record. Writes an error response and returns false on failure.
func writeCustomValues(c *gin.Context, reg *fields.Registry, entity, recordID string, parsed map[uint]string) bool {
	for id, raw := range parsed {
		if err := reg.SetValue(entity, recordID, id, raw); err != nil {
			utils.InternalServerError(c, "Failed to save custom value: "+err.Error())
			return false
		}
	}
	return true
}

// saveCustomValues validates and persists submitted custom values for an
// existing record. Every value is validated before anything is written.
func saveCustomValues(c *gin.Context, reg *fields.Registry, entity, recordID string, values map[string]string) bool {
	parsed, ok := checkCustomValues(c, reg, entity, values)
	if !ok {
		return false
	}
	return writeCustomValues(c, reg, entity, recordID, parsed)
}
