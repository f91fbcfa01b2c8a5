package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"grouppass/internal/delivery/http/controllers"
	"grouppass/internal/delivery/http/helpers"
	"grouppass/internal/delivery/http/middleware"
	"grouppass/internal/domain"
)

// Controllers bundles the handlers the router mounts.
type Controllers struct {
	Booking *controllers.BookingController
	Invite  *controllers.InviteController
	Roster  *controllers.RosterController
	Member  *controllers.MemberController
	Group   *controllers.GroupController
	Auth    *controllers.AuthController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(c Controllers, verifier domain.TokenVerifier) *http.ServeMux {
	mux := http.NewServeMux()

	// Booking (leader)
	mux.HandleFunc("POST /bookings", c.Booking.CreateBooking)

	// Manage link (leader)
	mux.HandleFunc("GET /manage/{token}", c.Group.GetOverview)
	mux.HandleFunc("POST /manage/{token}/invites", c.Invite.CreateInvite)

	// Join link (member parents)
	mux.HandleFunc("POST /join/{token}/submissions", c.Roster.SubmitRosterEntry)

	// Edit link (per member)
	mux.HandleFunc("PATCH /edit/{token}", c.Member.UpdateMember)

	// Auth + admin
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("POST /admin/groups/{groupID}/lock",
		middleware.RequireOperator(verifier)(c.Group.LockRoster))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
