package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ballotbox/ballot/internal/core/domain"
)

// VoteService is the ballot-box surface the handler needs.
type VoteService interface {
	Cast(ctx context.Context, voterID string, candidateID int64) (*domain.Vote, error)
	HasVoted(ctx context.Context, voterID string) (bool, error)
	UserVote(ctx context.Context, voterID string) (*int64, error)
	Results(ctx context.Context) (domain.Results, error)
}

type VoteHandler struct {
	service VoteService
}

func NewVoteHandler(service VoteService) *VoteHandler {
	return &VoteHandler{service: service}
}

type castRequest struct {
	CandidateID int64 `json:"candidateId" validate:"required,gt=0"`
}

type userVoteResponse struct {
	CandidateID int64 `json:"candidateId"`
}

// Cast records the caller's vote. The voter is always the token subject;
// the body cannot vote for someone else.
//
// @Summary      Cast a vote
// @Tags         votes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      castRequest  true  "Chosen candidate"
// @Success      201   {object}  domain.Vote
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/votes [post]
func (h *VoteHandler) Cast(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req castRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	vote, err := h.service.Cast(c.Request().Context(), claims.Subject, req.CandidateID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, vote)
}

// Results handles GET /api/votes/results.
//
// @Summary      Election results
// @Tags         votes
// @Produce      json
// @Success      200  {array}   domain.Candidate
// @Failure      500  {object}  map[string]string
// @Router       /api/votes/results [get]
func (h *VoteHandler) Results(c echo.Context) error {
	res, err := h.service.Results(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Check reports whether a voter has voted.
//
// @Summary      Check whether a voter has voted
// @Tags         votes
// @Produce      json
// @Security     BearerAuth
// @Param        voterId  query     string  false  "Voter ID, defaults to the caller"
// @Success      200      {boolean}  bool
// @Failure      401      {object}  map[string]string
// @Failure      403      {object}  map[string]string
// @Router       /api/votes/check [get]
func (h *VoteHandler) Check(c echo.Context) error {
	voterID, err := targetVoter(c)
	if err != nil {
		return err
	}
	voted, err := h.service.HasVoted(c.Request().Context(), voterID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, voted)
}

// UserVote returns {"candidateId": n}, or null when the voter has not voted.
//
// @Summary      A voter's choice
// @Tags         votes
// @Produce      json
// @Security     BearerAuth
// @Param        voterId  query     string  false  "Voter ID, defaults to the caller"
// @Success      200      {object}  userVoteResponse
// @Failure      401      {object}  map[string]string
// @Failure      403      {object}  map[string]string
// @Router       /api/votes/user [get]
func (h *VoteHandler) UserVote(c echo.Context) error {
	voterID, err := targetVoter(c)
	if err != nil {
		return err
	}
	id, err := h.service.UserVote(c.Request().Context(), voterID)
	if err != nil {
		return err
	}
	if id == nil {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, userVoteResponse{CandidateID: *id})
}

// targetVoter resolves the voterId query parameter. Voters may only ask
// about themselves; admins may ask about anyone. A missing parameter means
// the caller.
func targetVoter(c echo.Context) (string, error) {
	claims, err := ctxClaims(c)
	if err != nil {
		return "", err
	}
	voterID := c.QueryParam("voterId")
	if voterID == "" || voterID == claims.Subject {
		return claims.Subject, nil
	}
	if claims.Role != domain.RoleAdmin {
		return "", domain.ErrForbidden
	}
	return voterID, nil
}
