package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go-currency-bot/domain"
	"go-currency-bot/exchange"
	"go-currency-bot/metrics"
	"io"
	"net/http"
	"strings"
	"time"
)

// Rates the rate table operations exposed over HTTP, see rates.Table
type Rates interface {
	Snapshot() (domain.Rates, time.Time, error)
	Refresh(ctx context.Context) error
}

// Server dependencies for HTTP Server functions
type Server struct {
	Service exchange.Service
	Rates   Rates
	// RefreshToken bearer token required by /api/refresh, empty leaves the route unregistered
	RefreshToken string
	Logger       log.Logger
	router       *http.ServeMux
}

func NewServer(s exchange.Service, r Rates, refreshToken string, logger log.Logger) *Server {
	server := &Server{
		Service:      s,
		Rates:        r,
		RefreshToken: refreshToken,
		Logger:       logger,
		router:       http.NewServeMux(),
	}
	server.routes()
	return server
}

func (s *Server) routes() {
	s.router.Handle("/api/convert", s.convert())
	s.router.Handle("/api/rates", s.rates())
	if s.RefreshToken != "" {
		s.router.Handle("/api/refresh", s.refresh())
	}
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.HandleFunc("/healthz", func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusOK)
	})
}

func (s *Server) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(rw, r)
}

// errorResponse body of every failed request
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func (s *Server) writeJSON(rw http.ResponseWriter, status int, body interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	if err := json.NewEncoder(rw).Encode(body); err != nil {
		s.Logger.Log("msg", "failed json encoding", "err", err)
	}
}

// writeError maps err to a status: user input errors are the client's fault,
// anything else is an upstream failure.
func (s *Server) writeError(rw http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	status := http.StatusBadGateway
	if kind.UserInput() {
		status = http.StatusBadRequest
	}
	s.writeJSON(rw, status, errorResponse{Error: domain.MessageOf(err), Kind: kind.String()})
}

func allow(method string, rw http.ResponseWriter, r *http.Request) bool {
	if r.Method != method {
		rw.Header().Set("Allow", method)
		rw.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// convert produces HTTP handler for currency conversions
func (s *Server) convert() http.HandlerFunc {

	// request for unmarshalling JSON requests posted by clients
	type request struct {
		Buy    string `json:"buy"`
		Sell   string `json:"sell"`
		Amount string `json:"amount"`
	}

	// response for marshalling JSON responses to return to clients
	type response struct {
		Buy        domain.Currency `json:"buy"`
		Sell       domain.Currency `json:"sell"`
		Amount     string          `json:"amount"`
		SellAmount string          `json:"sellAmount"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if !allow(http.MethodPost, rw, r) {
			return
		}
		metrics.MessagesTotal.WithLabelValues("http").Inc()

		bytes, err := io.ReadAll(r.Body)
		if err != nil {
			s.writeJSON(rw, http.StatusBadRequest, errorResponse{Error: "invalid request"})
			return
		}

		var req request
		err = json.Unmarshal(bytes, &req)
		if err != nil {
			s.writeJSON(rw, http.StatusBadRequest, errorResponse{Error: "invalid json"})
			return
		}

		result, err := s.Service.Convert(r.Context(), domain.Request{Buy: req.Buy, Sell: req.Sell, Amount: req.Amount})
		if err != nil {
			s.writeError(rw, err)
			return
		}

		s.writeJSON(rw, http.StatusOK, response{
			Buy:        result.Buy,
			Sell:       result.Sell,
			Amount:     result.Amount,
			SellAmount: result.SellAmount,
		})
	}
}

// rates produces HTTP handler listing the current snapshot
func (s *Server) rates() http.HandlerFunc {
	type response struct {
		FetchedAt time.Time    `json:"fetchedAt"`
		Rates     domain.Rates `json:"rates"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		if !allow(http.MethodGet, rw, r) {
			return
		}
		rates, fetchedAt, err := s.Rates.Snapshot()
		if err != nil {
			s.writeJSON(rw, http.StatusServiceUnavailable, errorResponse{Error: domain.MessageOf(err), Kind: domain.KindOf(err).String()})
			return
		}
		s.writeJSON(rw, http.StatusOK, response{FetchedAt: fetchedAt, Rates: rates})
	}
}

// authorized reports whether r carries the refresh bearer token
func (s *Server) authorized(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return ok && subtle.ConstantTimeCompare([]byte(token), []byte(s.RefreshToken)) == 1
}

// refresh produces HTTP handler fetching a new snapshot on demand
func (s *Server) refresh() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !allow(http.MethodPost, rw, r) {
			return
		}
		if !s.authorized(r) {
			rw.Header().Set("WWW-Authenticate", "Bearer")
			s.writeJSON(rw, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}
		// a client hanging up must not leave the table without rates
		if err := s.Rates.Refresh(context.WithoutCancel(r.Context())); err != nil {
			s.writeError(rw, err)
			return
		}
		rw.WriteHeader(http.StatusNoContent)
	}
}
