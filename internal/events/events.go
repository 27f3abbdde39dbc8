package events

import "time"

// SaleRegisteredEvent is emitted after a sale and its stock decrement commit.
type SaleRegisteredEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	SaleID     uint      `json:"sale_id"`
	ProductID  uint      `json:"product_id"`
	Quantity   int       `json:"quantity"`
	TotalValue float64   `json:"total_value"`
	StockLeft  int       `json:"stock_left"`
	SoldAt     time.Time `json:"sold_at"`
	Timestamp  time.Time `json:"timestamp"`
}

// StockChangedEvent is emitted whenever a product's quantity on hand moves.
type StockChangedEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	ProductID   uint      `json:"product_id"`
	Delta       int       `json:"delta"`
	NewQuantity int       `json:"new_quantity"`
	Reason      string    `json:"reason"`
	Timestamp   time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeSaleRegistered = "sale.registered"
	EventTypeStockChanged   = "product.stock_changed"
)

// Kafka topics
const (
	TopicSaleRegistered = "sale-registered"
	TopicStockChanged   = "product-stock-changed"
)

// Stock change reasons
const (
	ReasonAdjustment = "adjustment"
	ReasonSale       = "sale"
	ReasonUpdate     = "update"
)
