package domain

import "net/http"

// Error is a business-rule failure carrying the HTTP status it must surface as
// and a stable machine-readable reason code. Clients map Reason to localized
// copy, so reason strings must never change once released.
type Error struct {
	Status  int    `json:"-"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// Stable reason codes.
const (
	ReasonInvalidToken      = "invalid_token"
	ReasonWrongTokenPurpose = "wrong_token_purpose"
	ReasonTokenExpired      = "token_expired"
	ReasonTokenAlreadyUsed  = "token_already_used"
	ReasonRosterLocked      = "roster_locked"
	ReasonHeadcountExceeded = "headcount_exceeded"
	ReasonSlotNotFound      = "slot_not_found"
	ReasonMemberNotFound    = "member_not_found"
	ReasonGroupNotFound     = "group_not_found"
	ReasonRetryExhausted    = "retry_exhausted"
)

func ErrInvalidToken() *Error {
	return &Error{Status: http.StatusNotFound, Reason: ReasonInvalidToken, Message: "invalid token"}
}

func ErrWrongTokenPurpose() *Error {
	return &Error{Status: http.StatusForbidden, Reason: ReasonWrongTokenPurpose, Message: "token purpose does not allow this operation"}
}

func ErrTokenExpired() *Error {
	return &Error{Status: http.StatusGone, Reason: ReasonTokenExpired, Message: "token expired"}
}

func ErrTokenAlreadyUsed() *Error {
	return &Error{Status: http.StatusConflict, Reason: ReasonTokenAlreadyUsed, Message: "token already used"}
}

func ErrRosterLocked() *Error {
	return &Error{Status: http.StatusConflict, Reason: ReasonRosterLocked, Message: "group roster is locked"}
}

func ErrHeadcountExceeded() *Error {
	return &Error{Status: http.StatusConflict, Reason: ReasonHeadcountExceeded, Message: "group headcount exceeded"}
}

func ErrSlotNotFound() *Error {
	return &Error{Status: http.StatusNotFound, Reason: ReasonSlotNotFound, Message: "reservation slot not found"}
}

func ErrMemberNotFound() *Error {
	return &Error{Status: http.StatusNotFound, Reason: ReasonMemberNotFound, Message: "group member not found"}
}

func ErrGroupNotFound() *Error {
	return &Error{Status: http.StatusNotFound, Reason: ReasonGroupNotFound, Message: "group not found"}
}

// ErrRetryExhausted is surfaced when every attempt of a serializable
// transaction aborted with a conflict.
func ErrRetryExhausted() *Error {
	return &Error{Status: http.StatusServiceUnavailable, Reason: ReasonRetryExhausted, Message: "temporary concurrency issue, please retry"}
}

// AssertInviteTokenClaimed converts a zero-affected-rows token claim into the
// token-already-used conflict. A concurrent claim winning the race and an
// exhausted token are indistinguishable at this point, and both map to 409.
func AssertInviteTokenClaimed(claimed int64) error {
	if claimed == 0 {
		return ErrTokenAlreadyUsed()
	}
	return nil
}

// AssertMemberUpdateApplied converts a zero-affected-rows guarded member write
// into the roster-locked conflict. The conditional write is filtered on the
// owning group not being locked, so zero rows means a lock transition happened
// between the pre-check and the write.
func AssertMemberUpdateApplied(updated int64) error {
	if updated == 0 {
		return ErrRosterLocked()
	}
	return nil
}

// AssertBookingSlotExists fails with 404 when a slot lookup returned nothing.
func AssertBookingSlotExists(slot *ReservationSlot) error {
	if slot == nil {
		return ErrSlotNotFound()
	}
	return nil
}
