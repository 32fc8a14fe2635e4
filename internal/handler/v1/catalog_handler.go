package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dentflow/dentflow/internal/domain/lesion"
	"github.com/dentflow/dentflow/internal/domain/treatment"
	"github.com/dentflow/dentflow/internal/service"
)

type CatalogHandler struct {
	catalogSvc *service.CatalogService
}

func NewCatalogHandler(catalogSvc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

type createTreatmentRequest struct {
	Code          string `json:"code" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	DurationSlots int    `json:"duration_slots" binding:"required"`
	PriceCents    int64  `json:"price_cents"`
	Currency      string `json:"currency"`
}

func (h *CatalogHandler) CreateTreatment(c *gin.Context) {
	var req createTreatmentRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, callerRole := caller(c)
	t, err := h.catalogSvc.CreateTreatment(c.Request.Context(), &treatment.CreateTreatmentCommand{
		Code:          req.Code,
		Name:          req.Name,
		Description:   req.Description,
		DurationSlots: req.DurationSlots,
		PriceCents:    req.PriceCents,
		Currency:      req.Currency,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, t)
}

func (h *CatalogHandler) GetTreatment(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	t, err := h.catalogSvc.GetTreatment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, t)
}

type updateTreatmentRequest struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	DurationSlots *int    `json:"duration_slots"`
	PriceCents    *int64  `json:"price_cents"`
	IsActive      *bool   `json:"is_active"`
}

func (h *CatalogHandler) UpdateTreatment(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateTreatmentRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, callerRole := caller(c)
	t, err := h.catalogSvc.UpdateTreatment(c.Request.Context(), id, &treatment.UpdateTreatmentCommand{
		Name:          req.Name,
		Description:   req.Description,
		DurationSlots: req.DurationSlots,
		PriceCents:    req.PriceCents,
		IsActive:      req.IsActive,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, t)
}

func (h *CatalogHandler) DeleteTreatment(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	callerID, callerRole := caller(c)
	if err := h.catalogSvc.DeleteTreatment(c.Request.Context(), id, callerID, callerRole, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse[any]{Message: "treatment deleted"})
}

func (h *CatalogHandler) ListTreatments(c *gin.Context) {
	page, err := h.catalogSvc.ListTreatments(c.Request.Context(), &treatment.ListTreatmentsQuery{
		Search:     c.Query("search"),
		OnlyActive: c.Query("only_active") == "true",
		Page:       parseQueryInt(c, "page", 1),
		PageSize:   parseQueryInt(c, "page_size", 50),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, page)
}

type createLesionRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

func (h *CatalogHandler) CreateLesion(c *gin.Context) {
	var req createLesionRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, callerRole := caller(c)
	l, err := h.catalogSvc.CreateLesion(c.Request.Context(), &lesion.CreateLesionCommand{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, l)
}

func (h *CatalogHandler) GetLesion(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	l, err := h.catalogSvc.GetLesion(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, l)
}

type updateLesionRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	IsActive    *bool   `json:"is_active"`
}

func (h *CatalogHandler) UpdateLesion(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateLesionRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, callerRole := caller(c)
	l, err := h.catalogSvc.UpdateLesion(c.Request.Context(), id, &lesion.UpdateLesionCommand{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		IsActive:    req.IsActive,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, l)
}

func (h *CatalogHandler) DeleteLesion(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	callerID, callerRole := caller(c)
	if err := h.catalogSvc.DeleteLesion(c.Request.Context(), id, callerID, callerRole, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse[any]{Message: "lesion deleted"})
}

func (h *CatalogHandler) ListLesions(c *gin.Context) {
	page, err := h.catalogSvc.ListLesions(c.Request.Context(), &lesion.ListLesionsQuery{
		Search:     c.Query("search"),
		OnlyActive: c.Query("only_active") == "true",
		Page:       parseQueryInt(c, "page", 1),
		PageSize:   parseQueryInt(c, "page_size", 50),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, page)
}
