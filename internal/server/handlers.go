package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tordrt/erdsketch/internal/diagram"
	"github.com/tordrt/erdsketch/internal/session"
)

// DiagramHandler exposes one session's gestures over HTTP.
type DiagramHandler struct {
	session *session.Session
}

func NewDiagramHandler(s *session.Session) *DiagramHandler {
	return &DiagramHandler{session: s}
}

type diagramView struct {
	Tables        []diagram.Table        `json:"tables"`
	Relationships []diagram.Relationship `json:"relationships"`
}

type createTableRequest struct {
	Name     string           `json:"name"`
	Position diagram.Position `json:"position"`
}

type renameTableRequest struct {
	Name *string `json:"name" binding:"required"`
}

type editAttributeRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type connectRequest struct {
	SourceTableID *diagram.TableID `json:"sourceTableId" binding:"required"`
	SourceHandle  string           `json:"sourceHandle" binding:"required"`
	TargetTableID *diagram.TableID `json:"targetTableId" binding:"required"`
	TargetHandle  string           `json:"targetHandle" binding:"required"`
}

func (h *DiagramHandler) GetDiagram(c *gin.Context) {
	view := diagramView{
		Tables:        h.session.Tables(),
		Relationships: h.session.Relationships(),
	}
	success(c, http.StatusOK, view, "")
}

func (h *DiagramHandler) GetSnapshot(c *gin.Context) {
	success(c, http.StatusOK, h.session.RequestCanonicalSnapshot(), "")
}

func (h *DiagramHandler) SuggestDataTypes(c *gin.Context) {
	success(c, http.StatusOK, diagram.SuggestDataTypes(c.Query("prefix")), "")
}

func (h *DiagramHandler) CreateTable(c *gin.Context) {
	var req createTableRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
	}

	table := h.session.ReportTableAddNamed(req.Position, req.Name)
	success(c, http.StatusCreated, table, "Table created successfully")
}

func (h *DiagramHandler) RenameTable(c *gin.Context) {
	tableID, ok := tableIDParam(c)
	if !ok {
		return
	}

	var req renameTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	if err := h.session.ReportTableRename(tableID, *req.Name); err != nil {
		failGesture(c, err, "Error while renaming the table")
		return
	}
	h.respondTable(c, tableID, "Table renamed successfully")
}

func (h *DiagramHandler) DeleteTable(c *gin.Context) {
	tableID, ok := tableIDParam(c)
	if !ok {
		return
	}

	if err := h.session.ReportTableRemove(tableID); err != nil {
		failGesture(c, err, "Error while deleting the table")
		return
	}
	success(c, http.StatusOK, nil, "Table deleted successfully")
}

func (h *DiagramHandler) AddAttribute(c *gin.Context) {
	tableID, ok := tableIDParam(c)
	if !ok {
		return
	}

	attr, err := h.session.ReportRowAdd(tableID)
	if err != nil {
		failGesture(c, err, "Error while adding the attribute")
		return
	}
	success(c, http.StatusCreated, attr, "Attribute added successfully")
}

func (h *DiagramHandler) EditAttribute(c *gin.Context) {
	tableID, ok := tableIDParam(c)
	if !ok {
		return
	}
	attributeID, ok := intParam(c, "attributeId")
	if !ok {
		return
	}

	var req editAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	field, err := diagram.ParseField(req.Field)
	if err != nil {
		fail(c, http.StatusBadRequest, err, "Invalid attribute field")
		return
	}

	if err := h.session.ReportAttributeEdit(tableID, attributeID, field, req.Value); err != nil {
		failGesture(c, err, "Error while editing the attribute")
		return
	}
	h.respondTable(c, tableID, "Attribute updated successfully")
}

func (h *DiagramHandler) DeleteAttribute(c *gin.Context) {
	tableID, ok := tableIDParam(c)
	if !ok {
		return
	}
	attributeID, ok := intParam(c, "attributeId")
	if !ok {
		return
	}

	if err := h.session.ReportRowRemove(tableID, attributeID); err != nil {
		failGesture(c, err, "Error while deleting the attribute")
		return
	}
	h.respondTable(c, tableID, "Attribute deleted successfully")
}

func (h *DiagramHandler) Connect(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	rel, err := h.session.ReportConnect(*req.SourceTableID, req.SourceHandle, *req.TargetTableID, req.TargetHandle)
	if err != nil {
		failGesture(c, err, "Error while connecting the tables")
		return
	}
	success(c, http.StatusCreated, rel, "Relationship created successfully")
}

func (h *DiagramHandler) Disconnect(c *gin.Context) {
	id, ok := intParam(c, "relationshipId")
	if !ok {
		return
	}

	if err := h.session.ReportDisconnect(diagram.RelationshipID(id)); err != nil {
		failGesture(c, err, "Error while deleting the relationship")
		return
	}
	success(c, http.StatusOK, nil, "Relationship deleted successfully")
}

func (h *DiagramHandler) ToggleKind(c *gin.Context) {
	id, ok := intParam(c, "relationshipId")
	if !ok {
		return
	}

	rel, err := h.session.ReportToggleRelationshipKind(diagram.RelationshipID(id))
	if err != nil {
		failGesture(c, err, "Error while toggling the relationship")
		return
	}
	success(c, http.StatusOK, rel, "Relationship kind toggled successfully")
}

func (h *DiagramHandler) respondTable(c *gin.Context, tableID diagram.TableID, message string) {
	table, err := h.session.Table(tableID)
	if err != nil {
		failGesture(c, err, "Error while reading the table")
		return
	}
	success(c, http.StatusOK, table, message)
}

func tableIDParam(c *gin.Context) (diagram.TableID, bool) {
	id, ok := intParam(c, "tableId")
	return diagram.TableID(id), ok
}

func intParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		fail(c, http.StatusBadRequest, err, "Invalid "+name+" format")
		return 0, false
	}
	return id, true
}
