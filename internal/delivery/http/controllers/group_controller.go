package controllers

import (
	"log/slog"
	"net/http"
	"regexp"

	"grouppass/internal/delivery/http/helpers"
	"grouppass/internal/domain"
)

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

type GroupController struct {
	Logger  *slog.Logger
	Service domain.GroupService
}

func NewGroupController(logger *slog.Logger, svc domain.GroupService) *GroupController {
	return &GroupController{Logger: logger, Service: svc}
}

// OverviewSuccessResponse is the success envelope for GET /manage/{token}.
type OverviewSuccessResponse struct {
	Data  *domain.GroupOverview `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// GetOverview godoc
// @Summary Leader's management view of the group
// @Description Returns the group, its slot, and the active roster for a valid manage token.
// @Tags group
// @Produce json
// @Param token path string true "Manage token"
// @Success 200 {object} controllers.OverviewSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: wrong_token_purpose"
// @Failure 404 {object} helpers.APIResponse "error.code: invalid_token"
// @Failure 410 {object} helpers.APIResponse "error.code: token_expired"
// @Router /manage/{token} [get]
func (c *GroupController) GetOverview(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing token")
		return
	}

	overview, err := c.Service.GetOverview(r.Context(), token)
	if err != nil {
		if helpers.WriteDomainError(w, err) {
			return
		}
		c.Logger.ErrorContext(r.Context(), "get overview failed", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "unexpected error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, overview)
}

// LockRosterSuccessResponse is the success envelope for POST /admin/groups/{groupID}/lock.
type LockRosterSuccessResponse struct {
	Data  *domain.LockResult `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// LockRoster godoc
// @Summary Lock a group's roster
// @Description Finalizes the roster and stamps the final headcount. Every later member or child mutation under the group fails with 409. Idempotent.
// @Tags group
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID (UUID)"
// @Success 200 {object} controllers.LockRosterSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: group_not_found"
// @Failure 503 {object} helpers.APIResponse "error.code: retry_exhausted"
// @Router /admin/groups/{groupID}/lock [post]
func (c *GroupController) LockRoster(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("groupID")
	if !uuidRegex.MatchString(groupID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid groupID")
		return
	}

	result, err := c.Service.LockRoster(r.Context(), groupID)
	if err != nil {
		if helpers.WriteDomainError(w, err) {
			return
		}
		c.Logger.ErrorContext(r.Context(), "lock roster failed", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "unexpected error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
