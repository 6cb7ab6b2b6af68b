package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"homecare-scheduler-server/internal/fields"
	"homecare-scheduler-server/internal/models"
	"homecare-scheduler-server/internal/utils"
)

// FieldHandler handles admin management of custom fields and serves form
// layouts to the rendering layer.
type FieldHandler struct {
	Registry *fields.Registry
}

// NewFieldHandler creates a new FieldHandler.
func NewFieldHandler(reg *fields.Registry) *FieldHandler {
	return &FieldHandler{Registry: reg}
}

// AddFieldRequest represents the request body for creating a custom field.
// Anchor is a placement token like "fixed:diagnosis" or "custom:3"; empty
// means append at the end.
type AddFieldRequest struct {
	Entity   string `json:"entity" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type" binding:"required,oneof=text number date dropdown"`
	Options  string `json:"options"`
	Anchor   string `json:"anchor"`
	Position string `json:"position" binding:"omitempty,oneof=above below"`
}

// AddField creates a custom field for an entity (admin).
func (h *FieldHandler) AddField(c *gin.Context) {
	var req AddFieldRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if req.Position == "" {
		req.Position = fields.PositionBelow
	}

	id, err := h.Registry.AddField(req.Entity, req.Name, models.FieldType(req.Type), req.Options, req.Anchor, req.Position)
	if err != nil {
		switch {
		case errors.Is(err, fields.ErrUnknownEntity),
			errors.Is(err, fields.ErrEmptyFieldName),
			errors.Is(err, fields.ErrInvalidFieldType),
			errors.Is(err, fields.ErrNoOptions):
			utils.BadRequest(c, err.Error())
		default:
			utils.InternalServerError(c, "Failed to create custom field: "+err.Error())
		}
		return
	}

	utils.Created(c, "Custom field created successfully", gin.H{"id": id})
}

// ListFields returns the entity's custom fields in display order (admin).
func (h *FieldHandler) ListFields(c *gin.Context) {
	entity := c.Param("entity")

	list, err := h.Registry.ListFields(entity)
	if err != nil {
		if errors.Is(err, fields.ErrUnknownEntity) {
			utils.BadRequest(c, err.Error())
		} else {
			utils.InternalServerError(c, "Failed to fetch custom fields: "+err.Error())
		}
		return
	}
	utils.Success(c, "Custom fields fetched successfully", list)
}

// GetLayout returns the merged fixed+custom field layout of an entity, used
// by both create and edit forms.
func (h *FieldHandler) GetLayout(c *gin.Context) {
	entity := c.Param("entity")

	layout, err := h.Registry.BuildLayout(entity)
	if err != nil {
		if errors.Is(err, fields.ErrUnknownEntity) {
			utils.BadRequest(c, err.Error())
		} else {
			utils.InternalServerError(c, "Failed to build layout: "+err.Error())
		}
		return
	}
	utils.Success(c, "Layout fetched successfully", layout)
}

// ReorderFieldsRequest represents the request body for the explicit admin
// reorder override.
type ReorderFieldsRequest struct {
	OrderedIDs []uint `json:"orderedIds" binding:"required"`
}

// ReorderFields assigns sequential order keys matching the given id
// sequence (admin).
func (h *FieldHandler) ReorderFields(c *gin.Context) {
	entity := c.Param("entity")

	var req ReorderFieldsRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if err := h.Registry.ReorderFields(entity, req.OrderedIDs); err != nil {
		var orderingErr *fields.OrderingError
		switch {
		case errors.As(err, &orderingErr):
			utils.BadRequest(c, orderingErr.Error())
		case errors.Is(err, fields.ErrUnknownEntity):
			utils.BadRequest(c, err.Error())
		default:
			utils.InternalServerError(c, "Failed to reorder custom fields: "+err.Error())
		}
		return
	}

	utils.Success(c, "Custom fields reordered successfully", nil)
}

// RemoveField deletes a custom field and all its stored values (admin).
// Removing an already-absent field succeeds.
func (h *FieldHandler) RemoveField(c *gin.Context) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid field id")
		return
	}

	if err := h.Registry.RemoveField(uint(id64)); err != nil {
		utils.InternalServerError(c, "Failed to remove custom field: "+err.Error())
		return
	}

	utils.Success(c, "Custom field removed successfully", nil)
}
