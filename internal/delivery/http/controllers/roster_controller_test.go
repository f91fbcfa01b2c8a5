package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"grouppass/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRosterService implements domain.RosterService for handler tests.
type fakeRosterService struct {
	err       error
	result    *domain.SubmitRosterResult
	lastToken string
	lastIn    domain.SubmitRosterInput
}

func (f *fakeRosterService) SubmitRosterEntry(ctx context.Context, inviteToken string, in domain.SubmitRosterInput) (*domain.SubmitRosterResult, error) {
	f.lastToken = inviteToken
	f.lastIn = in
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func submitReq(token, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/join/"+token+"/submissions", bytes.NewBufferString(body))
	req.SetPathValue("token", token)
	return req
}

func TestRosterController_SubmitRosterEntry(t *testing.T) {
	validBody := `{
		"parent_name": "Member Parent",
		"parent_phone": "010-2222-3333",
		"students": [{"name": "Jiho", "attended_group": true}]
	}`

	t.Run("created", func(t *testing.T) {
		svc := &fakeRosterService{result: &domain.SubmitRosterResult{
			GroupID:            "group-1",
			GroupMemberIDs:     []string{"member-1"},
			EditTokens:         []string{"edit-1"},
			EditURLs:           []string{"http://localhost:8080/edit/edit-1"},
			CurrentMemberCount: 1,
		}}
		c := NewRosterController(testLogger, svc)

		rec := httptest.NewRecorder()
		c.SubmitRosterEntry(rec, submitReq("tok-1", validBody))

		assert.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeEnvelope(t, rec)
		assert.Nil(t, resp.Error)
		assert.Equal(t, "tok-1", svc.lastToken)
		require.Len(t, svc.lastIn.Students, 1)
		assert.Equal(t, "Jiho", svc.lastIn.Students[0].Name)
		assert.True(t, svc.lastIn.Students[0].AttendedGroup)
	})

	t.Run("validation failures", func(t *testing.T) {
		tests := []struct {
			name string
			body string
		}{
			{name: "no students", body: `{"parent_name":"P","parent_phone":"01022223333","students":[]}`},
			{name: "too many students", body: `{"parent_name":"P","parent_phone":"01022223333","students":[{"name":"A"},{"name":"B"},{"name":"C"}]}`},
			{name: "unnamed student", body: `{"parent_name":"P","parent_phone":"01022223333","students":[{"name":""}]}`},
			{name: "missing parent_name", body: `{"parent_phone":"01022223333","students":[{"name":"A"}]}`},
			{name: "bad phone", body: `{"parent_name":"P","parent_phone":"12","students":[{"name":"A"}]}`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				c := NewRosterController(testLogger, &fakeRosterService{})
				rec := httptest.NewRecorder()
				c.SubmitRosterEntry(rec, submitReq("tok-1", tt.body))

				assert.Equal(t, http.StatusBadRequest, rec.Code)
			})
		}
	})

	t.Run("phone is optional", func(t *testing.T) {
		svc := &fakeRosterService{result: &domain.SubmitRosterResult{}}
		c := NewRosterController(testLogger, svc)

		rec := httptest.NewRecorder()
		c.SubmitRosterEntry(rec, submitReq("tok-1", `{"parent_name":"P","students":[{"name":"A"}]}`))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("domain conflicts map to their statuses", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			wantStatus int
			wantCode   string
		}{
			{name: "already used", err: domain.ErrTokenAlreadyUsed(), wantStatus: 409, wantCode: domain.ReasonTokenAlreadyUsed},
			{name: "locked", err: domain.ErrRosterLocked(), wantStatus: 409, wantCode: domain.ReasonRosterLocked},
			{name: "headcount", err: domain.ErrHeadcountExceeded(), wantStatus: 409, wantCode: domain.ReasonHeadcountExceeded},
			{name: "expired", err: domain.ErrTokenExpired(), wantStatus: 410, wantCode: domain.ReasonTokenExpired},
			{name: "unknown token", err: domain.ErrInvalidToken(), wantStatus: 404, wantCode: domain.ReasonInvalidToken},
			{name: "retry exhausted", err: domain.ErrRetryExhausted(), wantStatus: 503, wantCode: domain.ReasonRetryExhausted},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				c := NewRosterController(testLogger, &fakeRosterService{err: tt.err})
				rec := httptest.NewRecorder()
				c.SubmitRosterEntry(rec, submitReq("tok-1", validBody))

				assert.Equal(t, tt.wantStatus, rec.Code)
				resp := decodeEnvelope(t, rec)
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.wantCode, resp.Error.Code)
			})
		}
	})

	t.Run("missing token", func(t *testing.T) {
		c := NewRosterController(testLogger, &fakeRosterService{})
		req := httptest.NewRequest(http.MethodPost, "/join//submissions", bytes.NewBufferString(validBody))
		rec := httptest.NewRecorder()
		c.SubmitRosterEntry(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
