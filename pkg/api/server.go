package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/openpredict/bookd/pkg/book"
)

// Server exposes the order books over REST and WebSocket. It translates JSON
// requests into book commands and typed results back into HTTP responses; the
// book core never sees a wire format.
type Server struct {
	books  *book.Registry
	router *mux.Router
	hub    *Hub
	log    *zap.SugaredLogger

	corsOrigins   []string
	snapshotDepth int
}

// NewServer builds the server around an open registry.
func NewServer(books *book.Registry, corsOrigins []string, snapshotDepth int, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Server{
		books:         books,
		router:        mux.NewRouter(),
		hub:           NewHub(log),
		log:           log,
		corsOrigins:   corsOrigins,
		snapshotDepth: snapshotDepth,
	}
	s.setupRoutes()
	return s
}

// Hub returns the WebSocket hub, so market-data publishers can broadcast
// through it.
func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	// Market data
	api.HandleFunc("/markets", s.handleListMarkets).Methods("GET")
	api.HandleFunc("/markets/{ticker}/orderbook", s.handleGetOrderbook).Methods("GET")
	api.HandleFunc("/markets/{ticker}/stats", s.handleGetStats).Methods("GET")

	// Order entry
	api.HandleFunc("/markets/{ticker}/orders", s.handleSubmitOrder).Methods("POST")
	api.HandleFunc("/orders/cancel", s.handleCancelOrder).Methods("POST")
	api.HandleFunc("/orders/modify", s.handleModifyOrder).Methods("POST")

	// WebSocket endpoint
	s.router.HandleFunc("/ws", s.handleWebSocket)

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(s.router)
}

// ==============================
// REST Handlers
// ==============================

func (s *Server) handleListMarkets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, MarketsResponse{Tickers: s.books.List()})
}

func (s *Server) handleGetOrderbook(w http.ResponseWriter, r *http.Request) {
	b, ok := s.books.Get(mux.Vars(r)["ticker"])
	if !ok {
		respondError(w, http.StatusNotFound, "market not found", "")
		return
	}

	depth := s.snapshotDepth
	if v := r.URL.Query().Get("depth"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d < 0 {
			respondError(w, http.StatusBadRequest, "invalid depth", v)
			return
		}
		depth = d
	}

	respondJSON(w, http.StatusOK, b.Snapshot(depth))
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	b, ok := s.books.Get(mux.Vars(r)["ticker"])
	if !ok {
		respondError(w, http.StatusNotFound, "market not found", "")
		return
	}
	respondJSON(w, http.StatusOK, b.DepthStats())
}

func (s *Server) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]
	b, ok := s.books.Get(ticker)
	if !ok {
		respondError(w, http.StatusNotFound, "market not found", "")
		return
	}

	var req SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	marketSide, err := book.ParseMarketSide(req.MarketSide)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid marketSide", req.MarketSide)
		return
	}
	tradingSide, err := book.ParseTradingSide(req.TradingSide)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid tradingSide", req.TradingSide)
		return
	}

	orderID := req.OrderID
	if orderID == "" {
		orderID = "ORD-" + uuid.NewString()
	}

	res := b.ProcessNew(book.NewOrder{
		OrderID:          orderID,
		ClientOrderID:    req.ClientOrderID,
		MarketSide:       marketSide,
		TradingSide:      tradingSide,
		Price:            req.Price,
		Quantity:         req.Quantity,
		Symbol:           ticker,
		Timestamp:        req.Timestamp,
		IdempotencyToken: req.IdempotencyToken,
	})
	s.respondResult(w, res)
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	var req CancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	b, ok := s.books.Get(req.Ticker)
	if !ok {
		respondError(w, http.StatusNotFound, "market not found", req.Ticker)
		return
	}

	tradingSide := book.Buy
	if req.TradingSide != "" {
		ts, err := book.ParseTradingSide(req.TradingSide)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid tradingSide", req.TradingSide)
			return
		}
		tradingSide = ts
	}

	res := b.ProcessCancel(book.CancelOrder{
		OrderID:       req.OrderID,
		ClientOrderID: req.ClientOrderID,
		TradingSide:   tradingSide,
		Symbol:        req.Ticker,
	})
	s.respondResult(w, res)
}

func (s *Server) handleModifyOrder(w http.ResponseWriter, r *http.Request) {
	var req ModifyOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	b, ok := s.books.Get(req.Ticker)
	if !ok {
		respondError(w, http.StatusNotFound, "market not found", req.Ticker)
		return
	}

	marketSide, err := book.ParseMarketSide(req.MarketSide)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid marketSide", req.MarketSide)
		return
	}
	tradingSide, err := book.ParseTradingSide(req.TradingSide)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid tradingSide", req.TradingSide)
		return
	}

	res := b.ProcessModify(book.ModifyOrder{
		OrderID:       req.OrderID,
		ClientOrderID: req.ClientOrderID,
		TradingSide:   tradingSide,
		Price:         req.Price,
		Quantity:      req.Quantity,
		Symbol:        req.Ticker,
	}, marketSide)
	s.respondResult(w, res)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ==============================
// Helpers
// ==============================

// respondResult maps a book result onto an HTTP response. Rejections carry a
// status code derived from their sentinel class.
func (s *Server) respondResult(w http.ResponseWriter, res book.Result) {
	switch r := res.(type) {
	case book.Accepted:
		respondJSON(w, http.StatusOK, OrderResultResponse{
			Status: "accepted", OrderID: r.OrderID, ClientOrderID: r.ClientOrderID,
		})
	case book.Canceled:
		respondJSON(w, http.StatusOK, OrderResultResponse{
			Status: "canceled", OrderID: r.OrderID, ClientOrderID: r.ClientOrderID,
		})
	case book.Modified:
		respondJSON(w, http.StatusOK, OrderResultResponse{
			Status: "modified", OrderID: r.OrderID, ClientOrderID: r.ClientOrderID,
		})
	case book.Rejected:
		respondJSON(w, rejectStatus(r.Err), OrderResultResponse{
			Status: "rejected", OrderID: r.OrderID, Reason: r.Reason,
		})
	default:
		s.log.Errorw("unknown_result_type", "result", res)
		respondError(w, http.StatusInternalServerError, "unknown result", "")
	}
}

func rejectStatus(err error) int {
	switch {
	case errors.Is(err, book.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, book.ErrDuplicateOrder):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, error string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: error, Message: message})
}
