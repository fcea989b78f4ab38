package pipeline

// ============================================================================
// DEDUPLICATION — At most one review per order
// ============================================================================
// The raw reviews table can carry several reviews for one order. Joining
// them as-is would fan each order-item out into one row per review. The
// collapse rule is explicit and deterministic: the review with the latest
// creation timestamp wins; on equal timestamps the lexicographically larger
// review ID wins. Row order in the source never influences the outcome.
// ============================================================================

// latestReviews collapses reviews to one winner per order.
// Returns the winner map and the number of reviews discarded.
func latestReviews(reviews []Review) (map[string]Review, int) {
	winners := make(map[string]Review, len(reviews))
	collapsed := 0
	for _, rv := range reviews {
		cur, ok := winners[rv.OrderID]
		if !ok {
			winners[rv.OrderID] = rv
			continue
		}
		collapsed++
		if rv.CreatedAt.After(cur.CreatedAt) ||
			(rv.CreatedAt.Equal(cur.CreatedAt) && rv.ID > cur.ID) {
			winners[rv.OrderID] = rv
		}
	}
	return winners, collapsed
}
