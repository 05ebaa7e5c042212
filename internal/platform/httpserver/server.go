package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	group "commonfund/contexts/collective-ledger/group-service"
	transaction "commonfund/contexts/collective-ledger/transaction-service"
	principal "commonfund/contexts/identity-access/principal-service"
	"commonfund/internal/shared/listing"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "commonfund/internal/platform/httpserver/docs"
)

// Options carries the request-handling knobs the server needs beyond its
// modules.
type Options struct {
	Addr string
	// MinAppAccessScore gates user self-registration by application trust.
	MinAppAccessScore float64
	DefaultPerPage    int
	MaxPerPage        int
}

type Server struct {
	mux          *http.ServeMux
	logger       *slog.Logger
	addr         string
	principals   principal.Module
	groups       group.Module
	transactions transaction.Module
	minAppScore  float64
	listDefaults listing.Options
}

func New(
	principalModule principal.Module,
	groupModule group.Module,
	transactionModule transaction.Module,
	logger *slog.Logger,
	opts Options,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.DefaultPerPage < 1 {
		opts.DefaultPerPage = 20
	}
	if opts.MaxPerPage < 1 {
		opts.MaxPerPage = 50
	}

	s := &Server{
		mux:          http.NewServeMux(),
		logger:       logger,
		addr:         opts.Addr,
		principals:   principalModule,
		groups:       groupModule,
		transactions: transactionModule,
		minAppScore:  opts.MinAppAccessScore,
		listDefaults: listing.Options{
			DefaultPerPage: opts.DefaultPerPage,
			MaxPerPage:     opts.MaxPerPage,
			DefaultSort:    listing.Sort{Key: "created_at", Direction: listing.DirectionDesc},
			SortKeys:       []string{"created_at", "updated_at", "amount", "id"},
		},
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routing table, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /status", s.handleStatus)

	s.mux.HandleFunc("POST /users", s.handleCreateUser)
	s.mux.HandleFunc("GET /users/{userid}", s.handleGetUser)
	s.mux.HandleFunc("PUT /users/{userid}", s.handleNotImplemented)
	s.mux.HandleFunc("GET /users/{userid}/email", s.handleNotImplemented)
	s.mux.HandleFunc("POST /authenticate", s.handleAuthenticate)
	s.mux.HandleFunc("POST /authenticate/refresh", s.handleNotImplemented)
	s.mux.HandleFunc("POST /authenticate/reset", s.handleNotImplemented)
	s.mux.HandleFunc("POST /users/{userid}/cards", s.handleNotImplemented)
	s.mux.HandleFunc("PUT /users/{userid}/cards/{cardid}", s.handleNotImplemented)
	s.mux.HandleFunc("DELETE /users/{userid}/cards/{cardid}", s.handleNotImplemented)
	s.mux.HandleFunc("GET /users/{userid}/paypal/preapproval", s.handleRequestPreapproval)
	s.mux.HandleFunc("POST /users/{userid}/paypal/preapproval/{preapprovalkey}", s.handleConfirmPreapproval)
	s.mux.HandleFunc("GET /users/{userid}/groups", s.handleListUserGroups)
	s.mux.HandleFunc("GET /users/{userid}/activities", s.handleListUserActivities)

	s.mux.HandleFunc("POST /groups", s.handleCreateGroup)
	s.mux.HandleFunc("GET /groups/{groupid}", s.handleGetGroup)
	s.mux.HandleFunc("PUT /groups/{groupid}", s.handleUpdateGroup)
	s.mux.HandleFunc("DELETE /groups/{groupid}", s.handleNotImplemented)
	s.mux.HandleFunc("POST /groups/{groupid}/users/{userid}", s.handleAddMember)
	s.mux.HandleFunc("PUT /groups/{groupid}/users/{userid}", s.handleUpdateMember)
	s.mux.HandleFunc("DELETE /groups/{groupid}/users/{userid}", s.handleRemoveMember)
	s.mux.HandleFunc("GET /groups/{groupid}/tiers", s.handleListTiers)
	s.mux.HandleFunc("POST /groups/{groupid}/tiers", s.handleCreateTier)
	s.mux.HandleFunc("PUT /groups/{groupid}/tiers/{tierid}", s.handleUpdateTier)
	s.mux.HandleFunc("GET /groups/{groupid}/activities", s.handleListGroupActivities)

	s.mux.HandleFunc("POST /groups/{groupid}/payments", s.handleCreateDonation)
	s.mux.HandleFunc("GET /groups/{groupid}/transactions", s.handleListGroupTransactions)
	s.mux.HandleFunc("POST /groups/{groupid}/transactions", s.handleCreateTransaction)
	s.mux.HandleFunc("GET /groups/{groupid}/transactions/{transactionid}", s.handleGetTransaction)
	s.mux.HandleFunc("DELETE /groups/{groupid}/transactions/{transactionid}", s.handleDeleteTransaction)
	s.mux.HandleFunc("POST /groups/{groupid}/transactions/{transactionid}/approve", s.handleApproveTransaction)
	s.mux.HandleFunc("POST /groups/{groupid}/transactions/{transactionid}/pay", s.handlePayTransaction)
	s.mux.HandleFunc("GET /groups/{groupid}/transactions/{transactionid}/paykey", s.handleGetPayKey)
	s.mux.HandleFunc("POST /groups/{groupid}/transactions/{transactionid}/paykey/{paykey}", s.handleConfirmPayment)
	s.mux.HandleFunc("POST /groups/{groupid}/transactions/{transactionid}/attribution/{userid}", s.handleAttributeUser)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "up"})
}

func (s *Server) handleNotImplemented(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotImplemented, "not_implemented", "this endpoint is not implemented", nil)
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func (s *Server) parseListing(r *http.Request) (listing.Page, error) {
	return listing.Parse(r.URL.Query(), s.listDefaults)
}

// requestURL rebuilds the absolute URL of an inbound request; r.URL on the
// server side carries only the path and query.
func requestURL(r *http.Request) *url.URL {
	absolute := *r.URL
	absolute.Host = r.Host
	absolute.Scheme = "http"
	if r.TLS != nil {
		absolute.Scheme = "https"
	}
	return &absolute
}

type errorBody struct {
	Type    string   `json:"type"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

type errorEnvelope struct {
	Code  int       `json:"code"`
	Error errorBody `json:"error"`
}

func writeError(w http.ResponseWriter, status int, errType string, message string, fields []string) {
	writeJSON(w, status, errorEnvelope{
		Code: status,
		Error: errorBody{
			Type:    errType,
			Message: message,
			Fields:  fields,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
