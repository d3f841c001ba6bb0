package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/openpredict/bookd/pkg/book"
)

// KafkaSink publishes every book event to a Kafka topic as one JSON record,
// keyed by ticker so a partition preserves per-market order. Publish failures
// are logged and swallowed; a broken broker must never reject an order.
type KafkaSink struct {
	writer *kafka.Writer
	log    *zap.SugaredLogger
}

// kafkaEvent is the record value for order events.
type kafkaEvent struct {
	Type          string `json:"type"`
	Ticker        string `json:"ticker"`
	OrderID       string `json:"orderId,omitempty"`
	ClientOrderID string `json:"clientOrderId,omitempty"`
	MarketSide    string `json:"marketSide,omitempty"`
	TradingSide   string `json:"tradingSide,omitempty"`
	Price         int    `json:"price,omitempty"`
	Quantity      int64  `json:"quantity,omitempty"`
	Remaining     int64  `json:"remaining,omitempty"`
	Sequence      uint64 `json:"sequence,omitempty"`
	CrossType     string `json:"crossType,omitempty"`
	Detail        string `json:"detail,omitempty"`
	Timestamp     int64  `json:"timestamp"`
}

// NewKafkaSink builds a sink for the given brokers and topic.
func NewKafkaSink(brokers []string, topic string, log *zap.SugaredLogger) *KafkaSink {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
		},
		log: log,
	}
}

func (s *KafkaSink) OnOrderAdded(ticker string, o *book.Order) {
	s.publish(ticker, orderEvent("order_added", ticker, o))
}

func (s *KafkaSink) OnOrderCanceled(ticker string, o *book.Order) {
	s.publish(ticker, orderEvent("order_canceled", ticker, o))
}

func (s *KafkaSink) OnOrderModified(ticker string, old, updated *book.Order) {
	ev := orderEvent("order_modified", ticker, updated)
	s.publish(ticker, ev)
}

func (s *KafkaSink) OnCrossDetected(ticker string, info book.CrossInfo) {
	s.publish(ticker, kafkaEvent{
		Type:      "cross_detected",
		Ticker:    ticker,
		CrossType: info.Type.String(),
		Detail:    info.Detail,
		Timestamp: time.Now().UnixMilli(),
	})
}

// Close flushes and closes the underlying writer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

func (s *KafkaSink) publish(ticker string, ev kafkaEvent) {
	value, err := json.Marshal(ev)
	if err != nil {
		s.log.Errorw("kafka_marshal_failed", "ticker", ticker, "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ticker),
		Value: value,
	}); err != nil {
		s.log.Errorw("kafka_publish_failed", "ticker", ticker, "type", ev.Type, "err", err)
	}
}

func orderEvent(typ, ticker string, o *book.Order) kafkaEvent {
	return kafkaEvent{
		Type:          typ,
		Ticker:        ticker,
		OrderID:       o.ID,
		ClientOrderID: o.ClientOrderID,
		MarketSide:    o.MarketSide.String(),
		TradingSide:   o.TradingSide.String(),
		Price:         o.OriginalPrice,
		Quantity:      o.Quantity,
		Remaining:     o.Remaining,
		Sequence:      o.Sequence,
		Timestamp:     time.Now().UnixMilli(),
	}
}

var _ book.Listener = (*KafkaSink)(nil)
