package pipeline

import (
	"fmt"
	"sort"
)

// ============================================================================
// JOIN — Order × Customer × OrderItem × Product × Review → []Record
// ============================================================================
// Join policy per the export contract:
//   order_items ⋈ orders     inner — an item without its order is dropped
//   orders ⋈ customers       inner — an order without its customer is dropped
//   items  ⟕ products        left  — unknown product keeps the row, empty category
//   orders ⟕ reviews         left  — missing review keeps the row, null review fields
// Dropped rows are counted, never silently discarded.
// ============================================================================

// JoinStats counts rows affected by unresolved or fanned-out keys.
// Non-zero counts are a data-quality warning, not a failure.
type JoinStats struct {
	ItemsWithoutOrder    int `json:"itemsWithoutOrder"`
	ItemsWithoutCustomer int `json:"itemsWithoutCustomer"`
	ItemsWithoutProduct  int `json:"itemsWithoutProduct"`
	DuplicateReviews     int `json:"duplicateReviews"`
	OrdersWithoutReview  int `json:"ordersWithoutReview"`
}

// Dropped is the total number of order-item rows excluded from the export.
func (s JoinStats) Dropped() int {
	return s.ItemsWithoutOrder + s.ItemsWithoutCustomer
}

func (s JoinStats) String() string {
	return fmt.Sprintf("dropped=%d (no order=%d, no customer=%d) no-product=%d no-review=%d collapsed-reviews=%d",
		s.Dropped(), s.ItemsWithoutOrder, s.ItemsWithoutCustomer,
		s.ItemsWithoutProduct, s.OrdersWithoutReview, s.DuplicateReviews)
}

// buildRecords joins the typed entities into denormalized records.
// Output is sorted by (purchased_at, order_id, order_item_id) so identical
// inputs always produce an identical export.
func buildRecords(orders []Order, customers []Customer, items []OrderItem, products []Product, reviews []Review) ([]Record, JoinStats) {
	var stats JoinStats

	ordersByID := make(map[string]Order, len(orders))
	for _, o := range orders {
		ordersByID[o.ID] = o
	}
	customersByID := make(map[string]Customer, len(customers))
	for _, c := range customers {
		customersByID[c.ID] = c
	}
	productsByID := make(map[string]Product, len(products))
	for _, p := range products {
		productsByID[p.ID] = p
	}

	reviewByOrder, collapsed := latestReviews(reviews)
	stats.DuplicateReviews = collapsed

	reviewedOrders := make(map[string]bool, len(reviewByOrder))

	recs := make([]Record, 0, len(items))
	for _, it := range items {
		order, ok := ordersByID[it.OrderID]
		if !ok {
			stats.ItemsWithoutOrder++
			continue
		}
		customer, ok := customersByID[order.CustomerID]
		if !ok {
			stats.ItemsWithoutCustomer++
			continue
		}

		rec := Record{
			OrderID:       order.ID,
			OrderItemID:   it.ItemID,
			OrderStatus:   order.Status,
			PurchasedAt:   order.PurchasedAt,
			ApprovedAt:    order.ApprovedAt,
			DeliveredAt:   order.DeliveredAt,
			EstimatedAt:   order.EstimatedAt,
			CustomerID:    customer.ID,
			CustomerCity:  customer.City,
			CustomerState: customer.State,
			ProductID:     it.ProductID,
			Price:         it.Price,
			Freight:       it.Freight,
			Revenue:       revenue(it.Price, it.Freight),
			DeliveryDays:  deliveryDays(order.PurchasedAt, order.DeliveredAt),
			DelayDays:     delayDays(order.EstimatedAt, order.DeliveredAt),
			IsLate:        isLate(order.EstimatedAt, order.DeliveredAt),
		}

		if product, ok := productsByID[it.ProductID]; ok {
			rec.ProductCategory = product.Category
		} else {
			stats.ItemsWithoutProduct++
		}

		if rv, ok := reviewByOrder[order.ID]; ok {
			rec.ReviewScore = rv.Score
			rec.ReviewedAt = rv.CreatedAt
			rec.ReviewBucket = reviewBucket(rv.Score)
			reviewedOrders[order.ID] = true
		}

		recs = append(recs, rec)
	}

	for _, o := range orders {
		if !reviewedOrders[o.ID] {
			stats.OrdersWithoutReview++
		}
	}

	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.PurchasedAt.Equal(b.PurchasedAt) {
			return a.PurchasedAt.Before(b.PurchasedAt)
		}
		if a.OrderID != b.OrderID {
			return a.OrderID < b.OrderID
		}
		return a.OrderItemID < b.OrderItemID
	})

	return recs, stats
}
