package redisx

import "time"

const (
	// Cache order status: order_status:{order_id} -> {"status":"..."}
	KeyOrderStatus = "order_status:%s"

	// Cache seller stats snapshot: seller_stats -> JSON of the stats struct.
	// Invalidated on every status decision; short TTL bounds staleness.
	KeySellerStats = "seller_stats"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLStatsCache  = 30 * time.Second
	TTLDedup       = 48 * time.Hour
)
