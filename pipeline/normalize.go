package pipeline

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// TYPE NORMALIZATION — Raw string cells → typed entities
// ============================================================================
// Coerces timestamp and numeric columns into Go types. Required fields that
// fail to parse abort the run (the export must never carry a guessed value);
// optional timestamps parse to the zero time when empty.
// ============================================================================

// Timestamp layouts accepted in source data, tried in order.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

// ExportTimeLayout is the canonical timestamp format of the flat export.
const ExportTimeLayout = "2006-01-02 15:04:05"

// Order is one purchase, immutable after load.
// Zero ApprovedAt/DeliveredAt mean the order never reached that state.
type Order struct {
	ID          string
	CustomerID  string
	Status      string
	PurchasedAt time.Time
	ApprovedAt  time.Time
	DeliveredAt time.Time
	EstimatedAt time.Time
}

// Customer is immutable geographic reference data.
type Customer struct {
	ID    string
	City  string
	State string
}

// OrderItem is one line of an order. Many-to-one with Order.
type OrderItem struct {
	OrderID   string
	ItemID    int
	ProductID string
	Price     float64
	Freight   float64
}

// Product is immutable reference data.
type Product struct {
	ID       string
	Category string
}

// Review is a customer review of an order. Zero-or-more per order in the
// raw data; collapsed to at most one during deduplication.
type Review struct {
	ID        string
	OrderID   string
	Score     int
	CreatedAt time.Time
}

func parseOrders(t *RawTable) ([]Order, error) {
	out := make([]Order, 0, len(t.Rows))
	for i, row := range t.Rows {
		purchased, err := parseTime(t.Field(row, "order_purchase_timestamp"))
		if err != nil {
			return nil, rowErr(t.Name, i, "order_purchase_timestamp", err)
		}
		if purchased.IsZero() {
			return nil, rowErr(t.Name, i, "order_purchase_timestamp", fmt.Errorf("empty value"))
		}
		estimated, err := parseTime(t.Field(row, "order_estimated_delivery_date"))
		if err != nil {
			return nil, rowErr(t.Name, i, "order_estimated_delivery_date", err)
		}
		approved, err := parseTime(t.Field(row, "order_approved_at"))
		if err != nil {
			return nil, rowErr(t.Name, i, "order_approved_at", err)
		}
		delivered, err := parseTime(t.Field(row, "order_delivered_customer_date"))
		if err != nil {
			return nil, rowErr(t.Name, i, "order_delivered_customer_date", err)
		}
		out = append(out, Order{
			ID:          t.Field(row, "order_id"),
			CustomerID:  t.Field(row, "customer_id"),
			Status:      t.Field(row, "order_status"),
			PurchasedAt: purchased,
			ApprovedAt:  approved,
			DeliveredAt: delivered,
			EstimatedAt: estimated,
		})
	}
	return out, nil
}

func parseCustomers(t *RawTable) []Customer {
	out := make([]Customer, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, Customer{
			ID:    t.Field(row, "customer_id"),
			City:  strings.ToLower(strings.TrimSpace(t.Field(row, "customer_city"))),
			State: strings.ToUpper(strings.TrimSpace(t.Field(row, "customer_state"))),
		})
	}
	return out
}

func parseItems(t *RawTable) ([]OrderItem, error) {
	out := make([]OrderItem, 0, len(t.Rows))
	for i, row := range t.Rows {
		itemID, err := strconv.Atoi(strings.TrimSpace(t.Field(row, "order_item_id")))
		if err != nil {
			return nil, rowErr(t.Name, i, "order_item_id", err)
		}
		price, err := parseFloat(t.Field(row, "price"))
		if err != nil {
			return nil, rowErr(t.Name, i, "price", err)
		}
		freight, err := parseFloat(t.Field(row, "freight_value"))
		if err != nil {
			return nil, rowErr(t.Name, i, "freight_value", err)
		}
		out = append(out, OrderItem{
			OrderID:   t.Field(row, "order_id"),
			ItemID:    itemID,
			ProductID: t.Field(row, "product_id"),
			Price:     price,
			Freight:   freight,
		})
	}
	return out, nil
}

func parseProducts(t *RawTable) []Product {
	out := make([]Product, 0, len(t.Rows))
	for _, row := range t.Rows {
		// Prefer the translated category name when the source carries one.
		cat := t.Field(row, "product_category_name_english")
		if cat == "" {
			cat = t.Field(row, "product_category_name")
		}
		out = append(out, Product{
			ID:       t.Field(row, "product_id"),
			Category: strings.ToLower(strings.TrimSpace(cat)),
		})
	}
	return out
}

func parseReviews(t *RawTable) ([]Review, error) {
	out := make([]Review, 0, len(t.Rows))
	for i, row := range t.Rows {
		score, err := strconv.Atoi(strings.TrimSpace(t.Field(row, "review_score")))
		if err != nil {
			return nil, rowErr(t.Name, i, "review_score", err)
		}
		created, err := parseTime(t.Field(row, "review_creation_date"))
		if err != nil {
			return nil, rowErr(t.Name, i, "review_creation_date", err)
		}
		out = append(out, Review{
			ID:        t.Field(row, "review_id"),
			OrderID:   t.Field(row, "order_id"),
			Score:     score,
			CreatedAt: created,
		})
	}
	return out, nil
}

// parseTime coerces a source cell to a timestamp. Empty cells are null
// (zero time), anything else must match a known layout.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func rowErr(table string, row int, column string, err error) error {
	// +2: header line plus 1-based counting, matches what editors show.
	return fmt.Errorf("%s row %d column %s: %w", table, row+2, column, err)
}
