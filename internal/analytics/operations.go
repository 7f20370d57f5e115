// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package analytics

import (
	"context"
	"time"

	"github.com/tomtom215/salesboard/internal/database"
)

// DefaultTargetMinutes is the on-time delivery threshold.
const DefaultTargetMinutes = 45

// DeliveryRequest sets the on-time threshold.
type DeliveryRequest struct {
	Period
	ChannelFilter
	TargetMinutes int `query:"target_minutes" validate:"min=1,max=1440"`
}

// DeliveryStats is one row of delivery-performance.
type DeliveryStats struct {
	Store            string  `json:"store"`
	TotalDeliveries  int64   `json:"total_deliveries"`
	AvgDeliveryTime  float64 `json:"avg_delivery_time"`
	OnTimeDeliveries int64   `json:"on_time_deliveries"`
	OnTimeRate       float64 `json:"on_time_rate"`
}

// TargetParams echoes target_minutes.
type TargetParams struct {
	TargetMinutes int `json:"target_minutes"`
}

const deliveryPerformanceSQL = `
SELECT
  st.name AS store,
  COUNT(s.id) AS total_deliveries,
  ROUND(AVG(s.delivery_seconds) / 60, 2) AS avg_delivery_time,
  COUNT(s.id) FILTER (WHERE s.delivery_seconds <= $3 * 60) AS on_time_deliveries
FROM sales s
JOIN stores st ON st.id = s.store_id
WHERE s.created_at BETWEEN $1 AND $2
  AND s.delivery_seconds IS NOT NULL
  AND ($4::int IS NULL OR s.channel_id = $4)
GROUP BY st.name
ORDER BY avg_delivery_time ASC`

// DeliveryPerformance reports delivery times and on-time rate per store.
var DeliveryPerformance = Report[DeliveryRequest]{
	ID:          "delivery-performance",
	Description: "Average delivery minutes and on-time rate per store (target_minutes, default 45)",
	Defaults:    func() DeliveryRequest { return DeliveryRequest{TargetMinutes: DefaultTargetMinutes} },
	Key: func(p DeliveryRequest) []any {
		return []any{p.StartTime(), p.EndTime(), p.TargetMinutes, p.ChannelID}
	},
	Run: func(ctx context.Context, q database.Querier, p DeliveryRequest) (Result, error) {
		rows, err := q.Query(ctx, deliveryPerformanceSQL, p.StartTime(), p.EndTime(), p.TargetMinutes, p.channelArg())
		if err != nil {
			return Result{}, err
		}
		out := make([]DeliveryStats, 0, len(rows))
		for _, r := range rows {
			total := NormalizeInt(r["total_deliveries"])
			onTime := NormalizeInt(r["on_time_deliveries"])
			out = append(out, DeliveryStats{
				Store:            text(r["store"]),
				TotalDeliveries:  total,
				AvgDeliveryTime:  Normalize(r["avg_delivery_time"]),
				OnTimeDeliveries: onTime,
				OnTimeRate:       Percent(float64(onTime), float64(total), 1),
			})
		}
		return Result{Data: out, Params: TargetParams{TargetMinutes: p.TargetMinutes}}, nil
	},
}

// Retention defaults.
const (
	DefaultInactiveDays = 30
	DefaultMinOrders    = 1
)

// NoActivityMessage accompanies an empty customer-retention result.
const NoActivityMessage = "no customer activity in the selected period"

// RetentionRequest tunes the churn rule.
type RetentionRequest struct {
	Period
	InactiveDays int `query:"inactive_days" validate:"min=1"`
	MinOrders    int `query:"min_orders" validate:"min=1"`
}

// Retention is the data of customer-retention.
type Retention struct {
	ActiveCustomers          int      `json:"active_customers"`
	ReturningCustomers       int      `json:"returning_customers"`
	ChurnedCustomers         int      `json:"churned_customers"`
	RetentionRate            float64  `json:"retention_rate"`
	AverageDaysBetweenOrders *float64 `json:"average_days_between_orders"`
}

// RetentionParams echoes the request.
type RetentionParams struct {
	Start        string `json:"start"`
	End          string `json:"end"`
	InactiveDays int    `json:"inactive_days"`
	MinOrders    int    `json:"min_orders"`
}

const retentionCustomersSQL = `
SELECT
  c.id AS customer_id,
  c.customer_name AS customer_name,
  COUNT(s.id) AS orders_count,
  MIN(s.created_at) AS first_order_date,
  MAX(s.created_at) AS last_order_date
FROM customers c
JOIN sales s ON s.customer_id = c.id
WHERE s.created_at BETWEEN $1 AND $2
  AND s.sale_status_desc = 'COMPLETED'
GROUP BY c.id, c.customer_name
HAVING COUNT(s.id) >= $3`

const retentionIntervalSQL = `
SELECT AVG(days_between) AS avg_days
FROM (
  SELECT
    (EXTRACT(EPOCH FROM (MAX(created_at) - MIN(created_at))) / (COUNT(id) - 1)) / 86400.0 AS days_between
  FROM sales
  WHERE created_at BETWEEN $1 AND $2
    AND sale_status_desc = 'COMPLETED'
  GROUP BY customer_id
  HAVING COUNT(id) > 1
) sub`

// CustomerRetention reports active, returning and churned customers.
// Churn is measured against the end of the period, not the wall clock,
// so a result stays valid for as long as it is cached.
var CustomerRetention = Report[RetentionRequest]{
	ID:          "customer-retention",
	Description: "Active, returning and churned customers with retention rate (inactive_days, min_orders)",
	Defaults: func() RetentionRequest {
		return RetentionRequest{InactiveDays: DefaultInactiveDays, MinOrders: DefaultMinOrders}
	},
	Key: func(p RetentionRequest) []any {
		return []any{p.StartTime(), p.EndTime(), p.InactiveDays, p.MinOrders}
	},
	Run: func(ctx context.Context, q database.Querier, p RetentionRequest) (Result, error) {
		start, end := p.Bounds()
		params := RetentionParams{
			Start:        p.Start,
			End:          p.End,
			InactiveDays: p.InactiveDays,
			MinOrders:    p.MinOrders,
		}

		customers, err := q.Query(ctx, retentionCustomersSQL, start, end, p.MinOrders)
		if err != nil {
			return Result{}, err
		}
		if len(customers) == 0 {
			return Result{Data: Retention{}, Params: params, Message: NoActivityMessage}, nil
		}

		data := summarizeRetention(customers, end, p.InactiveDays)

		interval, err := q.Query(ctx, retentionIntervalSQL, start, end)
		if err != nil {
			return Result{}, err
		}
		data.AverageDaysBetweenOrders = RoundNullable(NormalizeNullable(firstRow(interval)["avg_days"]), 1)

		return Result{Data: data, Params: params}, nil
	},
}

func summarizeRetention(customers []database.Row, end time.Time, inactiveDays int) Retention {
	threshold := float64(inactiveDays)
	r := Retention{ActiveCustomers: len(customers)}
	for _, c := range customers {
		if NormalizeInt(c["orders_count"]) >= 2 {
			r.ReturningCustomers++
		}
		last, ok := toTime(c["last_order_date"])
		if !ok {
			continue
		}
		if end.Sub(last).Hours()/24 > threshold {
			r.ChurnedCustomers++
		}
	}
	r.RetentionRate = Percent(float64(r.ActiveCustomers-r.ChurnedCustomers), float64(r.ActiveCustomers), 1)
	return r
}
