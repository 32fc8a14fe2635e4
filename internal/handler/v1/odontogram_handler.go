package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dentflow/dentflow/internal/domain/odontogram"
	"github.com/dentflow/dentflow/internal/service"
)

type OdontogramHandler struct {
	odontogramSvc *service.OdontogramService
}

func NewOdontogramHandler(odontogramSvc *service.OdontogramService) *OdontogramHandler {
	return &OdontogramHandler{odontogramSvc: odontogramSvc}
}

func (h *OdontogramHandler) Get(c *gin.Context) {
	patientID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	callerID, callerRole := caller(c)
	o, err := h.odontogramSvc.GetChart(c.Request.Context(), patientID, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, o)
}

type recordFindingRequest struct {
	Surface     string     `json:"surface" binding:"required"`
	LesionID    *uuid.UUID `json:"lesion_id"`
	TreatmentID *uuid.UUID `json:"treatment_id"`
	State       string     `json:"state" binding:"required"`
	Note        string     `json:"note"`
}

func (h *OdontogramHandler) RecordFinding(c *gin.Context) {
	patientID, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	tooth, ok := parseTooth(c)
	if !ok {
		return
	}

	var req recordFindingRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, callerRole := caller(c)
	o, err := h.odontogramSvc.RecordFinding(c.Request.Context(), patientID, &service.RecordFindingCommand{
		ToothNumber: tooth,
		Surface:     odontogram.ToothSurface(req.Surface),
		LesionID:    req.LesionID,
		TreatmentID: req.TreatmentID,
		State:       odontogram.FindingState(req.State),
		Note:        req.Note,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, o)
}

func (h *OdontogramHandler) ClearFinding(c *gin.Context) {
	patientID, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	tooth, ok := parseTooth(c)
	if !ok {
		return
	}

	surface := odontogram.ToothSurface(c.Param("surface"))

	callerID, callerRole := caller(c)
	o, err := h.odontogramSvc.ClearFinding(c.Request.Context(), patientID, tooth, surface, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, o)
}

type toothMissingRequest struct {
	Missing bool `json:"missing"`
}

func (h *OdontogramHandler) SetToothMissing(c *gin.Context) {
	patientID, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	tooth, ok := parseTooth(c)
	if !ok {
		return
	}

	var req toothMissingRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, callerRole := caller(c)
	o, err := h.odontogramSvc.SetToothMissing(c.Request.Context(), patientID, tooth, req.Missing, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, o)
}

func parseTooth(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("tooth"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "tooth must be an FDI tooth number"})
		return 0, false
	}
	return n, true
}
