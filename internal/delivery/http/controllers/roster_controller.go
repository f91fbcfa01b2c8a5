package controllers

import (
	"fmt"
	"log/slog"
	"net/http"

	"grouppass/internal/delivery/http/helpers"
	"grouppass/internal/domain"
	"grouppass/internal/services"
)

type RosterController struct {
	Logger  *slog.Logger
	Service domain.RosterService
}

func NewRosterController(logger *slog.Logger, svc domain.RosterService) *RosterController {
	return &RosterController{Logger: logger, Service: svc}
}

// SubmitRosterRequest is the request body for POST /join/{token}/submissions.
type SubmitRosterRequest struct {
	ParentName  string           `json:"parent_name"`
	ParentPhone string           `json:"parent_phone"`
	Note        *string          `json:"note,omitempty"`
	Students    []StudentPayload `json:"students"`
}

// Validate implements helpers.Validator.
func (r *SubmitRosterRequest) Validate() []string {
	var errs []string
	if r.ParentName == "" {
		errs = append(errs, "parent_name is required")
	}
	if !services.IsValidOptionalPhone(&r.ParentPhone) {
		errs = append(errs, "parent_phone must contain 10 or 11 digits")
	}
	if len(r.Students) < 1 || len(r.Students) > services.MaxStudentsPerSubmission {
		errs = append(errs, fmt.Sprintf("students must contain between 1 and %d entries", services.MaxStudentsPerSubmission))
	}
	for i, st := range r.Students {
		if st.Name == "" {
			errs = append(errs, fmt.Sprintf("students[%d].name is required", i))
		}
	}
	return errs
}

// SubmitRosterSuccessResponse is the success envelope for POST /join/{token}/submissions.
type SubmitRosterSuccessResponse struct {
	Data  *domain.SubmitRosterResult `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// SubmitRosterEntry godoc
// @Summary Submit a roster entry via a shared invite link
// @Description Claims the invite token and writes the family's roster entries. A resubmission from the same phone overwrites the earlier entries in place, keeping their edit tokens.
// @Tags roster
// @Accept json
// @Produce json
// @Param token path string true "Invite token"
// @Param body body controllers.SubmitRosterRequest true "Roster entry"
// @Success 201 {object} controllers.SubmitRosterSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: wrong_token_purpose"
// @Failure 404 {object} helpers.APIResponse "error.code: invalid_token"
// @Failure 409 {object} helpers.APIResponse "error.code: token_already_used | roster_locked | headcount_exceeded"
// @Failure 410 {object} helpers.APIResponse "error.code: token_expired"
// @Failure 503 {object} helpers.APIResponse "error.code: retry_exhausted"
// @Router /join/{token}/submissions [post]
func (c *RosterController) SubmitRosterEntry(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing token")
		return
	}

	var req SubmitRosterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	in := domain.SubmitRosterInput{
		ParentName:  req.ParentName,
		ParentPhone: req.ParentPhone,
		Note:        req.Note,
	}
	for _, st := range req.Students {
		in.Students = append(in.Students, *studentInput(st))
	}

	result, err := c.Service.SubmitRosterEntry(r.Context(), token, in)
	if err != nil {
		if helpers.WriteDomainError(w, err) {
			return
		}
		c.Logger.ErrorContext(r.Context(), "submit roster entry failed", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "unexpected error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, result)
}
