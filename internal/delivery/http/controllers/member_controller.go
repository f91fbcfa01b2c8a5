package controllers

import (
	"log/slog"
	"net/http"

	"grouppass/internal/delivery/http/helpers"
	"grouppass/internal/domain"
	"grouppass/internal/services"
)

type MemberController struct {
	Logger  *slog.Logger
	Service domain.MemberService
}

func NewMemberController(logger *slog.Logger, svc domain.MemberService) *MemberController {
	return &MemberController{Logger: logger, Service: svc}
}

// UpdateMemberRequest is the request body for PATCH /edit/{token}. Every field
// is optional; only fields present in the request are written. An explicitly
// empty parent_phone clears the stored phone.
type UpdateMemberRequest struct {
	ParentName  *string `json:"parent_name,omitempty"`
	ParentPhone *string `json:"parent_phone,omitempty"`
	Note        *string `json:"note,omitempty"`

	ChildName     *string `json:"child_name,omitempty"`
	Grade         *string `json:"grade,omitempty"`
	AttendedTrial *bool   `json:"attended_trial,omitempty"`
	AttendedGroup *bool   `json:"attended_group,omitempty"`
	AttendedSolo  *bool   `json:"attended_solo,omitempty"`
}

// Validate implements helpers.Validator.
func (r *UpdateMemberRequest) Validate() []string {
	var errs []string
	if r.ParentName != nil && *r.ParentName == "" {
		errs = append(errs, "parent_name cannot be empty")
	}
	if !services.IsValidOptionalPhone(r.ParentPhone) {
		errs = append(errs, "parent_phone must contain 10 or 11 digits")
	}
	if r.ChildName != nil && *r.ChildName == "" {
		errs = append(errs, "child_name cannot be empty")
	}
	return errs
}

// UpdateMemberSuccessResponse is the success envelope for PATCH /edit/{token}.
type UpdateMemberSuccessResponse struct {
	Data  map[string]string `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UpdateMember godoc
// @Summary Update a roster entry via its edit token
// @Description Applies a partial update to the member and child. Absent fields keep their stored values; an explicitly empty parent_phone clears it.
// @Tags roster
// @Accept json
// @Produce json
// @Param token path string true "Edit token"
// @Param body body controllers.UpdateMemberRequest true "Fields to update"
// @Success 200 {object} controllers.UpdateMemberSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: member_not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: roster_locked"
// @Failure 503 {object} helpers.APIResponse "error.code: retry_exhausted"
// @Router /edit/{token} [patch]
func (c *MemberController) UpdateMember(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing token")
		return
	}

	var req UpdateMemberRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	in := domain.UpdateMemberInput{
		ParentName:    req.ParentName,
		Note:          req.Note,
		ChildName:     req.ChildName,
		Grade:         req.Grade,
		AttendedTrial: req.AttendedTrial,
		AttendedGroup: req.AttendedGroup,
		AttendedSolo:  req.AttendedSolo,
	}
	if req.ParentPhone != nil {
		in.ParentPhone = domain.NullableString{Set: true, Value: req.ParentPhone}
	}

	memberID, err := c.Service.UpdateMember(r.Context(), token, in)
	if err != nil {
		if helpers.WriteDomainError(w, err) {
			return
		}
		c.Logger.ErrorContext(r.Context(), "update member failed", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "unexpected error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"group_member_id": memberID})
}
