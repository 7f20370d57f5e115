// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package analytics

import (
	"context"

	"github.com/tomtom215/salesboard/internal/database"
)

// ChannelRequest is a period optionally narrowed to one channel.
type ChannelRequest struct {
	Period
	ChannelFilter
}

// PeriodRequest carries only the date range.
type PeriodRequest struct {
	Period
}

// LimitRequest is a period with a row cap.
type LimitRequest struct {
	Period
	Limit
}

func defaultLimitRequest() LimitRequest {
	return LimitRequest{Limit: Limit{Limit: DefaultLimit}}
}

func periodKey(p PeriodRequest) []any {
	return []any{p.StartTime(), p.EndTime()}
}

func channelKey(p ChannelRequest) []any {
	return []any{p.StartTime(), p.EndTime(), p.ChannelID}
}

func limitKey(p LimitRequest) []any {
	return []any{p.StartTime(), p.EndTime(), p.Limit.Limit}
}

// ProductSales is one row of the product rankings.
type ProductSales struct {
	ProductName  string  `json:"product_name"`
	TotalSold    float64 `json:"total_sold"`
	TotalRevenue float64 `json:"total_revenue"`
}

// GroupTicket is a ranking row with count, revenue and average ticket.
type GroupTicket struct {
	TotalSales   int64   `json:"total_sales"`
	TotalRevenue float64 `json:"total_revenue"`
	AvgTicket    float64 `json:"avg_ticket"`
}

// StoreTicket, ChannelTicket and SubBrandTicket name the label column.
type (
	StoreTicket struct {
		StoreName string `json:"store_name"`
		GroupTicket
	}
	ChannelTicket struct {
		ChannelName string `json:"channel_name"`
		GroupTicket
	}
	SubBrandTicket struct {
		SubBrandName string `json:"sub_brand_name"`
		GroupTicket
	}
)

// StoreRank is one row of store-ranking.
type StoreRank struct {
	Store        string  `json:"store"`
	TotalSales   int64   `json:"total_sales"`
	TotalRevenue float64 `json:"total_revenue"`
}

// StoreTimes holds average preparation and delivery minutes.
type StoreTimes struct {
	Store             string  `json:"store"`
	TotalSales        int64   `json:"total_sales"`
	AvgProductionTime float64 `json:"avg_production_time"`
	AvgDeliveryTime   float64 `json:"avg_delivery_time"`
}

// CustomerSpend is one row of top-customers.
type CustomerSpend struct {
	Customer    string  `json:"customer"`
	TotalOrders int64   `json:"total_orders"`
	TotalSpent  float64 `json:"total_spent"`
	AvgTicket   float64 `json:"avg_ticket"`
}

// ChannelOrders is one row of channel-performance.
type ChannelOrders struct {
	Channel      string  `json:"channel"`
	TotalOrders  int64   `json:"total_orders"`
	TotalRevenue float64 `json:"total_revenue"`
	AvgTicket    float64 `json:"avg_ticket"`
}

const topProductsSQL = `
SELECT
  p.name AS product_name,
  SUM(ps.quantity) AS total_sold,
  ROUND(SUM(ps.total_price)::numeric, 2) AS total_revenue
FROM product_sales ps
JOIN products p ON p.id = ps.product_id
JOIN sales s ON s.id = ps.sale_id
WHERE s.created_at BETWEEN $1 AND $2
  AND ($3::int IS NULL OR s.channel_id = $3)
GROUP BY p.name
ORDER BY total_sold DESC
LIMIT 10`

// TopProducts ranks products by units sold.
var TopProducts = Report[ChannelRequest]{
	ID:          "top-products",
	Description: "Ten best-selling products by units, optionally for one channel",
	Key:         channelKey,
	Run: func(ctx context.Context, q database.Querier, p ChannelRequest) (Result, error) {
		rows, err := q.Query(ctx, topProductsSQL, p.StartTime(), p.EndTime(), p.channelArg())
		if err != nil {
			return Result{}, err
		}
		return Result{Data: mapProductSales(rows)}, nil
	},
}

func mapProductSales(rows []database.Row) []ProductSales {
	out := make([]ProductSales, 0, len(rows))
	for _, r := range rows {
		out = append(out, ProductSales{
			ProductName:  text(r["product_name"]),
			TotalSold:    Normalize(r["total_sold"]),
			TotalRevenue: Normalize(r["total_revenue"]),
		})
	}
	return out
}

func groupTicket(r database.Row) GroupTicket {
	return GroupTicket{
		TotalSales:   NormalizeInt(r["total_sales"]),
		TotalRevenue: Normalize(r["total_revenue"]),
		AvgTicket:    Normalize(r["avg_ticket"]),
	}
}

const topStoresSQL = `
SELECT
  st.name AS store_name,
  COUNT(s.id) AS total_sales,
  ROUND(SUM(s.total_amount)::numeric, 2) AS total_revenue,
  ROUND(AVG(s.total_amount)::numeric, 2) AS avg_ticket
FROM sales s
JOIN stores st ON st.id = s.store_id
WHERE s.created_at BETWEEN $1 AND $2
  AND ($3::int IS NULL OR s.channel_id = $3)
GROUP BY st.name
ORDER BY total_revenue DESC
LIMIT 10`

// TopStores ranks stores by revenue.
var TopStores = Report[ChannelRequest]{
	ID:          "top-stores",
	Description: "Ten stores with the highest revenue, optionally for one channel",
	Key:         channelKey,
	Run: func(ctx context.Context, q database.Querier, p ChannelRequest) (Result, error) {
		rows, err := q.Query(ctx, topStoresSQL, p.StartTime(), p.EndTime(), p.channelArg())
		if err != nil {
			return Result{}, err
		}
		out := make([]StoreTicket, 0, len(rows))
		for _, r := range rows {
			out = append(out, StoreTicket{StoreName: text(r["store_name"]), GroupTicket: groupTicket(r)})
		}
		return Result{Data: out}, nil
	},
}

const topChannelsSQL = `
SELECT
  c.name AS channel_name,
  COUNT(s.id) AS total_sales,
  ROUND(SUM(s.total_amount)::numeric, 2) AS total_revenue,
  ROUND(AVG(s.total_amount)::numeric, 2) AS avg_ticket
FROM sales s
JOIN channels c ON c.id = s.channel_id
WHERE s.created_at BETWEEN $1 AND $2
GROUP BY c.name
ORDER BY total_revenue DESC
LIMIT 10`

// TopChannels ranks sales channels by revenue.
var TopChannels = Report[PeriodRequest]{
	ID:          "top-channels",
	Description: "Sales channels by revenue",
	Key:         periodKey,
	Run: func(ctx context.Context, q database.Querier, p PeriodRequest) (Result, error) {
		rows, err := q.Query(ctx, topChannelsSQL, p.StartTime(), p.EndTime())
		if err != nil {
			return Result{}, err
		}
		out := make([]ChannelTicket, 0, len(rows))
		for _, r := range rows {
			out = append(out, ChannelTicket{ChannelName: text(r["channel_name"]), GroupTicket: groupTicket(r)})
		}
		return Result{Data: out}, nil
	},
}

const topSubBrandsSQL = `
SELECT
  sb.name AS sub_brand_name,
  COUNT(s.id) AS total_sales,
  ROUND(SUM(s.total_amount)::numeric, 2) AS total_revenue,
  ROUND(AVG(s.total_amount)::numeric, 2) AS avg_ticket
FROM sales s
JOIN stores st ON st.id = s.store_id
JOIN sub_brands sb ON sb.id = st.sub_brand_id
WHERE s.created_at BETWEEN $1 AND $2
GROUP BY sb.name
ORDER BY total_revenue DESC
LIMIT 10`

// TopSubBrands ranks sub-brands by revenue.
var TopSubBrands = Report[PeriodRequest]{
	ID:          "top-subbrands",
	Description: "Sub-brands by revenue",
	Key:         periodKey,
	Run: func(ctx context.Context, q database.Querier, p PeriodRequest) (Result, error) {
		rows, err := q.Query(ctx, topSubBrandsSQL, p.StartTime(), p.EndTime())
		if err != nil {
			return Result{}, err
		}
		out := make([]SubBrandTicket, 0, len(rows))
		for _, r := range rows {
			out = append(out, SubBrandTicket{SubBrandName: text(r["sub_brand_name"]), GroupTicket: groupTicket(r)})
		}
		return Result{Data: out}, nil
	},
}

const storeRankingSQL = `
SELECT
  st.name AS store,
  COUNT(s.id) AS total_sales,
  ROUND(SUM(s.total_amount)::numeric, 2) AS total_revenue
FROM sales s
JOIN stores st ON st.id = s.store_id
WHERE s.created_at BETWEEN $1 AND $2
GROUP BY st.name
ORDER BY total_revenue DESC
LIMIT $3`

// StoreRanking ranks stores by revenue with a caller-chosen limit.
var StoreRanking = Report[LimitRequest]{
	ID:          "store-ranking",
	Description: "Stores ranked by revenue (limit 1..100, default 10)",
	Defaults:    defaultLimitRequest,
	Key:         limitKey,
	Run: func(ctx context.Context, q database.Querier, p LimitRequest) (Result, error) {
		rows, err := q.Query(ctx, storeRankingSQL, p.StartTime(), p.EndTime(), p.Limit.Limit)
		if err != nil {
			return Result{}, err
		}
		out := make([]StoreRank, 0, len(rows))
		for _, r := range rows {
			out = append(out, StoreRank{
				Store:        text(r["store"]),
				TotalSales:   NormalizeInt(r["total_sales"]),
				TotalRevenue: Normalize(r["total_revenue"]),
			})
		}
		return Result{Data: out}, nil
	},
}

const storePerformanceSQL = `
SELECT
  st.name AS store,
  COUNT(s.id) AS total_sales,
  ROUND(AVG(s.production_seconds) / 60, 2) AS avg_production_time,
  ROUND(AVG(s.delivery_seconds) / 60, 2) AS avg_delivery_time
FROM sales s
JOIN stores st ON st.id = s.store_id
WHERE s.created_at BETWEEN $1 AND $2
  AND s.production_seconds IS NOT NULL
  AND s.delivery_seconds IS NOT NULL
GROUP BY st.name
ORDER BY avg_production_time ASC`

// StorePerformance reports average preparation and delivery minutes per store.
var StorePerformance = Report[PeriodRequest]{
	ID:          "store-performance",
	Description: "Average production and delivery minutes per store",
	Key:         periodKey,
	Run: func(ctx context.Context, q database.Querier, p PeriodRequest) (Result, error) {
		rows, err := q.Query(ctx, storePerformanceSQL, p.StartTime(), p.EndTime())
		if err != nil {
			return Result{}, err
		}
		out := make([]StoreTimes, 0, len(rows))
		for _, r := range rows {
			out = append(out, StoreTimes{
				Store:             text(r["store"]),
				TotalSales:        NormalizeInt(r["total_sales"]),
				AvgProductionTime: Normalize(r["avg_production_time"]),
				AvgDeliveryTime:   Normalize(r["avg_delivery_time"]),
			})
		}
		return Result{Data: out}, nil
	},
}

const topCustomersSQL = `
SELECT
  s.customer_name AS customer,
  COUNT(s.id) AS total_orders,
  ROUND(SUM(s.total_amount)::numeric, 2) AS total_spent,
  ROUND(AVG(s.total_amount)::numeric, 2) AS avg_ticket
FROM sales s
WHERE s.created_at BETWEEN $1 AND $2
  AND s.customer_name IS NOT NULL
  AND s.sale_status_desc = 'COMPLETED'
GROUP BY s.customer_name
ORDER BY total_spent DESC
LIMIT $3`

// TopCustomers ranks customers by completed-order spend.
var TopCustomers = Report[LimitRequest]{
	ID:          "top-customers",
	Description: "Customers ranked by spend on completed orders (limit 1..100, default 10)",
	Defaults:    defaultLimitRequest,
	Key:         limitKey,
	Run: func(ctx context.Context, q database.Querier, p LimitRequest) (Result, error) {
		rows, err := q.Query(ctx, topCustomersSQL, p.StartTime(), p.EndTime(), p.Limit.Limit)
		if err != nil {
			return Result{}, err
		}
		out := make([]CustomerSpend, 0, len(rows))
		for _, r := range rows {
			out = append(out, CustomerSpend{
				Customer:    text(r["customer"]),
				TotalOrders: NormalizeInt(r["total_orders"]),
				TotalSpent:  Normalize(r["total_spent"]),
				AvgTicket:   Normalize(r["avg_ticket"]),
			})
		}
		return Result{Data: out}, nil
	},
}

const channelPerformanceSQL = `
SELECT
  c.name AS channel,
  COUNT(s.id) AS total_orders,
  ROUND(SUM(s.total_amount)::numeric, 2) AS total_revenue,
  ROUND(AVG(s.total_amount)::numeric, 2) AS avg_ticket
FROM sales s
JOIN channels c ON c.id = s.channel_id
WHERE s.created_at BETWEEN $1 AND $2
  AND s.sale_status_desc = 'COMPLETED'
GROUP BY c.name
ORDER BY total_revenue DESC`

// ChannelPerformance summarizes completed orders per channel.
var ChannelPerformance = Report[PeriodRequest]{
	ID:          "channel-performance",
	Description: "Completed orders, revenue and average ticket per channel",
	Key:         periodKey,
	Run: func(ctx context.Context, q database.Querier, p PeriodRequest) (Result, error) {
		rows, err := q.Query(ctx, channelPerformanceSQL, p.StartTime(), p.EndTime())
		if err != nil {
			return Result{}, err
		}
		out := make([]ChannelOrders, 0, len(rows))
		for _, r := range rows {
			out = append(out, ChannelOrders{
				Channel:      text(r["channel"]),
				TotalOrders:  NormalizeInt(r["total_orders"]),
				TotalRevenue: Normalize(r["total_revenue"]),
				AvgTicket:    Normalize(r["avg_ticket"]),
			})
		}
		return Result{Data: out}, nil
	},
}
