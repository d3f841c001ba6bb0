package api

// Request and response types for REST endpoints and WebSocket messages.

// ==============================
// REST Request Types
// ==============================

// SubmitOrderRequest is the payload for POST /api/v1/markets/{ticker}/orders.
// OrderID is optional; the server assigns one when absent.
type SubmitOrderRequest struct {
	OrderID          string `json:"orderId,omitempty"`
	ClientOrderID    string `json:"clientOrderId"`
	MarketSide       string `json:"marketSide"`  // "yes" or "no"
	TradingSide      string `json:"tradingSide"` // "buy" or "sell"
	Price            int    `json:"price"`       // cents, 1..99
	Quantity         int64  `json:"quantity"`    // contracts
	Timestamp        int64  `json:"timestamp,omitempty"`
	IdempotencyToken string `json:"idempotencyToken,omitempty"`
}

// CancelOrderRequest is the payload for POST /api/v1/orders/cancel.
type CancelOrderRequest struct {
	Ticker        string `json:"ticker"`
	OrderID       string `json:"orderId"`
	ClientOrderID string `json:"clientOrderId,omitempty"`
	TradingSide   string `json:"tradingSide,omitempty"`
}

// ModifyOrderRequest is the payload for POST /api/v1/orders/modify.
// Absent price/quantity keep the resting values.
type ModifyOrderRequest struct {
	Ticker        string `json:"ticker"`
	OrderID       string `json:"orderId"`
	ClientOrderID string `json:"clientOrderId,omitempty"`
	MarketSide    string `json:"marketSide"`
	TradingSide   string `json:"tradingSide"`
	Price         *int   `json:"price,omitempty"`
	Quantity      *int64 `json:"quantity,omitempty"`
}

// ==============================
// REST Response Types
// ==============================

// OrderResultResponse mirrors the book's typed result.
type OrderResultResponse struct {
	Status        string `json:"status"` // "accepted" | "rejected" | "canceled" | "modified"
	OrderID       string `json:"orderId"`
	ClientOrderID string `json:"clientOrderId,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// MarketsResponse lists the open books.
type MarketsResponse struct {
	Tickers []string `json:"tickers"`
}

// ErrorResponse is returned for transport-level errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ==============================
// WebSocket Message Types
// ==============================

// WSSubscribeRequest is sent by a client to manage channel subscriptions.
// Channels look like "orderbook:TICKER", "ticker:TICKER", "cross:TICKER".
type WSSubscribeRequest struct {
	Op       string   `json:"op"` // "subscribe" or "unsubscribe"
	Channels []string `json:"channels"`
}
