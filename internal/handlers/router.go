package handlers

import (
	"log/slog"
	"net/http"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/languageloom/languageloom-backend/internal/auth"
	"github.com/languageloom/languageloom-backend/internal/services"
)

// LivenessMessage is the body of GET /.
const LivenessMessage = "language data is coming"

// Deps are the shared services the routes are built on.
type Deps struct {
	Issuer      *auth.Issuer
	Users       *services.UserService
	Classes     *services.ClassService
	Instructors *services.InstructorService
	Selections  *services.EnrollmentService
	Enrollments *services.EnrollmentService
	Payments    *services.PaymentService
	Logger      *slog.Logger
	CORSOrigins []string
}

// NewRouter registers every route. Guarded routes require a bearer token.
func NewRouter(d Deps) *mux.Router {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	guard := auth.Guard(d.Issuer)
	guarded := func(h http.HandlerFunc) http.Handler { return guard(h) }

	tokens := NewTokenHandler(d.Issuer)
	users := NewUserHandler(d.Users)
	classes := NewClassHandler(d.Classes)
	instructors := NewInstructorHandler(d.Instructors)
	selections := NewEnrollmentHandler(d.Selections)
	enrollments := NewEnrollmentHandler(d.Enrollments)
	payments := NewPaymentHandler(d.Payments)

	router := mux.NewRouter()
	router.Use(RequestLogger(logger))

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(LivenessMessage))
	}).Methods(http.MethodGet, http.MethodHead)

	router.HandleFunc("/jwt", tokens.IssueToken).Methods(http.MethodPost)

	router.HandleFunc("/users", users.GetUsers).Methods(http.MethodGet)
	router.HandleFunc("/users/{email}", users.PutUser).Methods(http.MethodPut)
	router.HandleFunc("/users/{email}", users.GetUser).Methods(http.MethodGet)
	router.HandleFunc("/users/{email}", users.PatchUser).Methods(http.MethodPatch)
	router.HandleFunc("/roles/{email}", users.GetRoles).Methods(http.MethodGet)

	router.HandleFunc("/classes", classes.ListClasses).Methods(http.MethodGet)
	router.HandleFunc("/classes", classes.CreateClass).Methods(http.MethodPost)
	router.HandleFunc("/classes/{id}", classes.GetClass).Methods(http.MethodGet)
	router.Handle("/classes/{id}", guarded(classes.PatchClass)).Methods(http.MethodPatch)
	router.HandleFunc("/classes/{id}", classes.PutClass).Methods(http.MethodPut)
	router.Handle("/classes/{id}", guarded(classes.DeleteClass)).Methods(http.MethodDelete)
	router.HandleFunc("/feedback/{id}", classes.PatchFeedback).Methods(http.MethodPatch)

	router.HandleFunc("/instructors", instructors.GetInstructors).Methods(http.MethodGet)

	router.Handle("/selectedClasses", guarded(selections.Create)).Methods(http.MethodPost)
	router.Handle("/selectedClasses/{email}", guarded(selections.ListByEmail)).Methods(http.MethodGet)
	router.HandleFunc("/selectedClasses/{id}", selections.Delete).Methods(http.MethodDelete)

	router.Handle("/enrolled-class", guarded(enrollments.Create)).Methods(http.MethodPost)
	router.HandleFunc("/enrolled-class/{email}", enrollments.ListByEmail).Methods(http.MethodGet)
	router.Handle("/enrolled-class/{id}", guarded(enrollments.Delete)).Methods(http.MethodDelete)

	router.Handle("/payments", guarded(payments.CreatePayment)).Methods(http.MethodPost)
	router.HandleFunc("/payments/{email}", payments.GetPayments).Methods(http.MethodGet)
	router.Handle("/payments/{email}/export", guarded(payments.ExportPayments)).Methods(http.MethodGet)
	router.HandleFunc("/payment-intent", payments.CreatePaymentIntent).Methods(http.MethodPost)

	return router
}

// NewHandler wraps the router with CORS and panic recovery.
func NewHandler(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins(origins),
		gorillahandlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		}),
		gorillahandlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		gorillahandlers.ExposedHeaders([]string{RequestIDHeader}),
	)
	recovery := gorillahandlers.RecoveryHandler(
		gorillahandlers.RecoveryLogger(recoveryLogger{logger: logger}),
	)
	return recovery(cors(NewRouter(d)))
}
