package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"grouppass/internal/delivery/http/helpers"
	"grouppass/internal/domain"
	"grouppass/internal/services"
)

type BookingController struct {
	Logger  *slog.Logger
	Service domain.BookingService
}

func NewBookingController(logger *slog.Logger, svc domain.BookingService) *BookingController {
	return &BookingController{Logger: logger, Service: svc}
}

// StudentPayload is one student in a booking or roster submission.
type StudentPayload struct {
	Name          string  `json:"name"`
	Grade         *string `json:"grade,omitempty"`
	AttendedTrial bool    `json:"attended_trial"`
	AttendedGroup bool    `json:"attended_group"`
	AttendedSolo  bool    `json:"attended_solo"`
}

// CreateBookingRequest is the request body for POST /bookings. Either slot_id
// or the instructor/start_at/end_at triple selects the slot.
type CreateBookingRequest struct {
	SlotID     *string    `json:"slot_id,omitempty"`
	Instructor string     `json:"instructor,omitempty"`
	StartAt    *time.Time `json:"start_at,omitempty"`
	EndAt      *time.Time `json:"end_at,omitempty"`

	ParentName        string  `json:"parent_name"`
	ParentPhone       string  `json:"parent_phone"`
	CashReceipt       *string `json:"cash_receipt,omitempty"`
	HeadcountDeclared *int    `json:"headcount_declared,omitempty"`
	Memo              *string `json:"memo,omitempty"`

	LeaderStudent *StudentPayload `json:"leader_student,omitempty"`
	LeaderNote    *string         `json:"leader_note,omitempty"`
}

// Validate implements helpers.Validator.
func (r *CreateBookingRequest) Validate() []string {
	var errs []string
	if r.ParentName == "" {
		errs = append(errs, "parent_name is required")
	}
	if r.ParentPhone == "" {
		errs = append(errs, "parent_phone is required")
	} else if !services.IsValidOptionalPhone(&r.ParentPhone) {
		errs = append(errs, "parent_phone must contain 10 or 11 digits")
	}
	if r.SlotID == nil {
		if r.Instructor == "" {
			errs = append(errs, "instructor is required when slot_id is absent")
		}
		if r.StartAt == nil || r.EndAt == nil {
			errs = append(errs, "start_at and end_at are required when slot_id is absent")
		} else if !r.StartAt.Before(*r.EndAt) {
			errs = append(errs, "start_at must be before end_at")
		}
	}
	if r.HeadcountDeclared != nil && *r.HeadcountDeclared < 1 {
		errs = append(errs, "headcount_declared must be at least 1")
	}
	if r.LeaderStudent != nil && r.LeaderStudent.Name == "" {
		errs = append(errs, "leader_student.name is required")
	}
	return errs
}

// CreateBookingSuccessResponse is the success envelope for POST /bookings.
type CreateBookingSuccessResponse struct {
	Data  *domain.BookingResult `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// CreateBooking godoc
// @Summary Create a group booking
// @Description Creates (or reuses) the reservation slot, upserts the leader parent, creates the group, and mints the leader's manage link. Optionally registers the leader's own child inline.
// @Tags booking
// @Accept json
// @Produce json
// @Param body body controllers.CreateBookingRequest true "Booking details"
// @Success 201 {object} controllers.CreateBookingSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: slot_not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /bookings [post]
func (c *BookingController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	in := domain.CreateBookingInput{
		SlotID:            req.SlotID,
		Instructor:        req.Instructor,
		ParentName:        req.ParentName,
		ParentPhone:       req.ParentPhone,
		CashReceipt:       req.CashReceipt,
		HeadcountDeclared: req.HeadcountDeclared,
		Memo:              req.Memo,
		LeaderNote:        req.LeaderNote,
	}
	if req.StartAt != nil {
		in.StartAt = *req.StartAt
	}
	if req.EndAt != nil {
		in.EndAt = *req.EndAt
	}
	if req.LeaderStudent != nil {
		in.LeaderStudent = studentInput(*req.LeaderStudent)
	}

	result, err := c.Service.CreateBooking(r.Context(), in)
	if err != nil {
		if helpers.WriteDomainError(w, err) {
			return
		}
		c.Logger.ErrorContext(r.Context(), "create booking failed", "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "unexpected error")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, result)
}

func studentInput(p StudentPayload) *domain.StudentInput {
	return &domain.StudentInput{
		Name:          p.Name,
		Grade:         p.Grade,
		AttendedTrial: p.AttendedTrial,
		AttendedGroup: p.AttendedGroup,
		AttendedSolo:  p.AttendedSolo,
	}
}
