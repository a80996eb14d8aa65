package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ballotbox/ballot/internal/core/domain"
)

// CandidateService is the roster surface the handler needs.
type CandidateService interface {
	ListCandidates(ctx context.Context) ([]domain.Candidate, error)
	GetCandidate(ctx context.Context, id int64) (*domain.Candidate, error)
	CreateCandidate(ctx context.Context, in domain.CandidateInput) (*domain.Candidate, error)
	UpdateCandidate(ctx context.Context, id int64, in domain.CandidateInput) (*domain.Candidate, error)
	DeleteCandidate(ctx context.Context, id int64) error
}

type CandidateHandler struct {
	service CandidateService
}

func NewCandidateHandler(service CandidateService) *CandidateHandler {
	return &CandidateHandler{service: service}
}

// List handles GET /api/candidates.
//
// @Summary      List candidates
// @Tags         candidates
// @Produce      json
// @Success      200  {array}   domain.Candidate
// @Failure      500  {object}  map[string]string
// @Router       /api/candidates [get]
func (h *CandidateHandler) List(c echo.Context) error {
	list, err := h.service.ListCandidates(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Get handles GET /api/candidates/:id.
//
// @Summary      Get a candidate
// @Tags         candidates
// @Produce      json
// @Param        id   path      int  true  "Candidate ID"
// @Success      200  {object}  domain.Candidate
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/candidates/{id} [get]
func (h *CandidateHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	cand, err := h.service.GetCandidate(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cand)
}

// Create handles POST /api/admin/candidates.
//
// @Summary      Create a candidate
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.CandidateInput  true  "Candidate details"
// @Success      201   {object}  domain.Candidate
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/admin/candidates [post]
func (h *CandidateHandler) Create(c echo.Context) error {
	var in domain.CandidateInput
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	cand, err := h.service.CreateCandidate(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cand)
}

// Update handles PUT /api/admin/candidates/:id.
//
// @Summary      Update a candidate
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                    true  "Candidate ID"
// @Param        body  body      domain.CandidateInput  true  "Candidate details"
// @Success      200   {object}  domain.Candidate
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/admin/candidates/{id} [put]
func (h *CandidateHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in domain.CandidateInput
	if err := bindAndValidate(c, &in); err != nil {
		return err
	}
	cand, err := h.service.UpdateCandidate(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cand)
}

// Delete handles DELETE /api/admin/candidates/:id.
//
// @Summary      Delete a candidate
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path      int  true  "Candidate ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/admin/candidates/{id} [delete]
func (h *CandidateHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteCandidate(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid candidate id")
	}
	return id, nil
}
