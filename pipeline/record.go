package pipeline

import (
	"strconv"
	"time"
)

// ============================================================================
// RECORD — One row of the denormalized export
// ============================================================================
// A Record flattens Order × Customer × OrderItem × Product × Review for a
// single order-item, plus derived columns. The export column order below is
// the contract between the pipeline and the query engine: it never changes
// without a version bump of the export format.
// ============================================================================

// Record is one flattened order-item row.
// Zero timestamps and a zero ReviewScore encode null source values.
type Record struct {
	OrderID     string    `json:"orderId"`
	OrderItemID int       `json:"orderItemId"`
	OrderStatus string    `json:"orderStatus"`
	PurchasedAt time.Time `json:"purchasedAt"`
	ApprovedAt  time.Time `json:"approvedAt"`
	DeliveredAt time.Time `json:"deliveredAt"`
	EstimatedAt time.Time `json:"estimatedAt"`

	CustomerID    string `json:"customerId"`
	CustomerCity  string `json:"customerCity"`
	CustomerState string `json:"customerState"`

	ProductID       string `json:"productId"`
	ProductCategory string `json:"productCategory"`

	Price   float64 `json:"price"`
	Freight float64 `json:"freight"`

	// Derived columns.
	Revenue      float64 `json:"revenue"`      // price + freight
	DeliveryDays float64 `json:"deliveryDays"` // delivered − purchased
	DelayDays    float64 `json:"delayDays"`    // delivered − estimated (negative = early)
	IsLate       bool    `json:"isLate"`

	// Review columns, null-filled when the order has no review.
	ReviewScore  int       `json:"reviewScore"` // 1–5, 0 = no review
	ReviewedAt   time.Time `json:"reviewedAt"`
	ReviewBucket string    `json:"reviewBucket"` // positive / neutral / negative, "" = no review
}

// HasReview reports whether the review join resolved for this row.
func (r *Record) HasReview() bool { return r.ReviewScore > 0 }

// ExportColumns is the stable header of the flat export.
var ExportColumns = []string{
	"order_id", "order_item_id", "order_status",
	"purchased_at", "approved_at", "delivered_at", "estimated_at",
	"customer_id", "customer_city", "customer_state",
	"product_id", "product_category",
	"price", "freight_value", "revenue",
	"delivery_days", "delay_days", "is_late",
	"review_score", "reviewed_at", "review_bucket",
}

// csvRow serializes a Record in ExportColumns order.
func (r *Record) csvRow() []string {
	return []string{
		r.OrderID,
		strconv.Itoa(r.OrderItemID),
		r.OrderStatus,
		fmtTime(r.PurchasedAt),
		fmtTime(r.ApprovedAt),
		fmtTime(r.DeliveredAt),
		fmtTime(r.EstimatedAt),
		r.CustomerID,
		r.CustomerCity,
		r.CustomerState,
		r.ProductID,
		r.ProductCategory,
		fmtFloat(r.Price),
		fmtFloat(r.Freight),
		fmtFloat(r.Revenue),
		fmtFloat(r.DeliveryDays),
		fmtFloat(r.DelayDays),
		strconv.FormatBool(r.IsLate),
		fmtReviewScore(r.ReviewScore),
		fmtTime(r.ReviewedAt),
		r.ReviewBucket,
	}
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(ExportTimeLayout)
}

// fmtFloat uses the shortest representation that round-trips exactly.
func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fmtReviewScore(score int) string {
	if score == 0 {
		return ""
	}
	return strconv.Itoa(score)
}
