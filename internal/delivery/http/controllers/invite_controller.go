package controllers

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"grouppass/internal/delivery/http/helpers"
	"grouppass/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type InviteController struct {
	Logger  *slog.Logger
	Service domain.InviteService
}

func NewInviteController(logger *slog.Logger, svc domain.InviteService) *InviteController {
	return &InviteController{Logger: logger, Service: svc}
}

// CreateInviteRequest is the request body for POST /manage/{token}/invites.
type CreateInviteRequest struct {
	// Email, when set, receives the invite URL.
	Email *string `json:"email,omitempty"`
}

// Validate implements helpers.Validator.
func (r *CreateInviteRequest) Validate() []string {
	if r.Email == nil {
		return nil
	}
	e := strings.TrimSpace(strings.ToLower(*r.Email))
	if !emailRegexp.MatchString(e) {
		return []string{"email is invalid"}
	}
	r.Email = &e
	return nil
}

// CreateInviteSuccessResponse is the success envelope for POST /manage/{token}/invites.
type CreateInviteSuccessResponse struct {
	Data  *domain.InviteResult `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// CreateInvite godoc
// @Summary Create or reuse the group's shared invite link
// @Description Validates the leader's manage token and returns the shared roster-entry link, creating it when no valid one exists. Idempotent: racing calls settle on one link.
// @Tags invite
// @Accept json
// @Produce json
// @Param token path string true "Manage token"
// @Param body body controllers.CreateInviteRequest false "Optional email delivery"
// @Success 201 {object} controllers.CreateInviteSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: wrong_token_purpose"
// @Failure 404 {object} helpers.APIResponse "error.code: invalid_token"
// @Failure 409 {object} helpers.APIResponse "error.code: roster_locked"
// @Failure 410 {object} helpers.APIResponse "error.code: token_expired"
// @Failure 503 {object} helpers.APIResponse "error.code: retry_exhausted"
// @Router /manage/{token}/invites [post]
func (c *InviteController) CreateInvite(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing token")
		return
	}

	req := CreateInviteRequest{}
	if r.ContentLength != 0 {
		if !helpers.DecodeAndValidate(w, r, &req) {
			return
		}
	}

	result, err := c.Service.CreateOrReuseInvite(r.Context(), token, req.Email)
	if err != nil {
		if helpers.WriteDomainError(w, err) {
			return
		}
		c.Logger.ErrorContext(r.Context(), "create invite failed", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "unexpected error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, result)
}
