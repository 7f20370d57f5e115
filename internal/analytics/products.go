// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package analytics

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/salesboard/internal/cache"
	"github.com/tomtom215/salesboard/internal/database"
)

// ProductsByPeriodRequest filters product sales by weekday and hour window.
// Weekday follows EXTRACT(DOW): 0 is Sunday.
type ProductsByPeriodRequest struct {
	Period
	ChannelFilter
	Weekday   *int `query:"weekday" validate:"omitempty,min=0,max=6"`
	HourStart *int `query:"hour_start" validate:"required_with=HourEnd,omitempty,min=0,max=23"`
	HourEnd   *int `query:"hour_end" validate:"required_with=HourStart,omitempty,min=0,max=23"`
}

// hourWindow returns the bind values of the hour filter; both nil when unset.
func (p ProductsByPeriodRequest) hourWindow() (any, any) {
	if p.HourStart == nil || p.HourEnd == nil {
		return nil, nil
	}
	return int64(*p.HourStart), int64(*p.HourEnd)
}

// ProductsByPeriodParams echoes the filters that were supplied.
type ProductsByPeriodParams struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Weekday   *int   `json:"weekday,omitempty"`
	HourStart *int   `json:"hour_start,omitempty"`
	HourEnd   *int   `json:"hour_end,omitempty"`
	ChannelID *int   `json:"channel_id,omitempty"`
}

// PeriodProductSales is one row of top-products-by-period. Unlike the
// other product rankings it names its revenue column "revenue".
type PeriodProductSales struct {
	ProductName string  `json:"product_name"`
	TotalSold   float64 `json:"total_sold"`
	Revenue     float64 `json:"revenue"`
}

const topProductsByPeriodSQL = `
SELECT
  p.name AS product_name,
  SUM(ps.quantity) AS total_sold,
  ROUND(SUM(ps.total_price)::numeric, 2) AS revenue
FROM product_sales ps
JOIN products p ON p.id = ps.product_id
JOIN sales s ON s.id = ps.sale_id
WHERE s.created_at BETWEEN $1 AND $2
  AND ($3::int IS NULL OR EXTRACT(DOW FROM s.created_at) = $3)
  AND ($4::int IS NULL OR EXTRACT(HOUR FROM s.created_at) BETWEEN $4 AND $5)
  AND ($6::int IS NULL OR s.channel_id = $6)
GROUP BY p.name
ORDER BY total_sold DESC
LIMIT 10`

var errHourWindowOrder = errors.New("hour_start must not be after hour_end")

func checkHourWindow(p ProductsByPeriodRequest) error {
	if p.HourStart != nil && p.HourEnd != nil && *p.HourStart > *p.HourEnd {
		return errHourWindowOrder
	}
	return nil
}

// TopProductsByPeriod ranks products sold on a weekday and/or hour window.
var TopProductsByPeriod = Report[ProductsByPeriodRequest]{
	ID:          "top-products-by-period",
	Description: "Ten best-selling products filtered by weekday (0-6), hour_start/hour_end and channel",
	Check:       checkHourWindow,
	Key: func(p ProductsByPeriodRequest) []any {
		hours := any(cache.SentinelNone)
		if p.HourStart != nil && p.HourEnd != nil {
			hours = fmt.Sprintf("%d-%d", *p.HourStart, *p.HourEnd)
		}
		return []any{p.StartTime(), p.EndTime(), p.Weekday, hours, p.ChannelID}
	},
	Run: func(ctx context.Context, q database.Querier, p ProductsByPeriodRequest) (Result, error) {
		var weekday any
		if p.Weekday != nil {
			weekday = int64(*p.Weekday)
		}
		hourStart, hourEnd := p.hourWindow()

		rows, err := q.Query(ctx, topProductsByPeriodSQL,
			p.StartTime(), p.EndTime(), weekday, hourStart, hourEnd, p.channelArg())
		if err != nil {
			return Result{}, err
		}
		out := make([]PeriodProductSales, 0, len(rows))
		for _, r := range rows {
			out = append(out, PeriodProductSales{
				ProductName: text(r["product_name"]),
				TotalSold:   Normalize(r["total_sold"]),
				Revenue:     money(r["revenue"]),
			})
		}
		return Result{
			Data: out,
			Params: ProductsByPeriodParams{
				Start:     p.Start,
				End:       p.End,
				Weekday:   p.Weekday,
				HourStart: p.HourStart,
				HourEnd:   p.HourEnd,
				ChannelID: p.ChannelID,
			},
		}, nil
	},
}

// DefaultCostPct is the assumed unit cost as a percentage of list price.
const DefaultCostPct = 60.0

// LowMarginRequest configures the cost estimate.
type LowMarginRequest struct {
	Period
	Limit
	CostPct float64 `query:"cost_pct" validate:"gt=0,lte=100"`
}

// MarginProduct is one row of low-margin-products.
type MarginProduct struct {
	ProductName   string  `json:"product_name"`
	AvgPrice      float64 `json:"avg_price"`
	AvgCost       float64 `json:"avg_cost"`
	MarginPercent float64 `json:"margin_percent"`
	TotalSold     float64 `json:"total_sold"`
	TotalRevenue  float64 `json:"total_revenue"`
}

// CostPctParams echoes cost_pct.
type CostPctParams struct {
	CostPct float64 `json:"cost_pct"`
}

// avg_price is the realized unit price (after discounts); avg_cost is
// cost_pct of the list price. Discounted products surface first.
const lowMarginProductsSQL = `
SELECT
  p.name AS product_name,
  ROUND((SUM(ps.total_price) / NULLIF(SUM(ps.quantity), 0))::numeric, 2) AS avg_price,
  ROUND((AVG(ps.base_price) * $3 / 100)::numeric, 2) AS avg_cost,
  SUM(ps.quantity) AS total_sold,
  ROUND(SUM(ps.total_price)::numeric, 2) AS total_revenue
FROM product_sales ps
JOIN products p ON p.id = ps.product_id
JOIN sales s ON s.id = ps.sale_id
WHERE s.created_at BETWEEN $1 AND $2
  AND s.sale_status_desc = 'COMPLETED'
GROUP BY p.name
HAVING SUM(ps.quantity) > 0
ORDER BY ((SUM(ps.total_price) / SUM(ps.quantity)) - AVG(ps.base_price) * $3 / 100)
         / NULLIF(SUM(ps.total_price) / SUM(ps.quantity), 0) ASC NULLS LAST
LIMIT $4`

// Margin returns (price - cost) / price * 100 rounded to 2 digits, or 0
// when the price is 0.
func Margin(avgPrice, avgCost any) float64 {
	price := Normalize(avgPrice)
	return Percent(price-Normalize(avgCost), price, 2)
}

// LowMarginProducts lists products with the thinnest estimated margin.
var LowMarginProducts = Report[LowMarginRequest]{
	ID:          "low-margin-products",
	Description: "Products with the lowest estimated margin (cost_pct of list price, default 60)",
	Defaults: func() LowMarginRequest {
		return LowMarginRequest{Limit: Limit{Limit: DefaultLimit}, CostPct: DefaultCostPct}
	},
	Key: func(p LowMarginRequest) []any {
		return []any{p.StartTime(), p.EndTime(), p.CostPct, p.Limit.Limit}
	},
	Run: func(ctx context.Context, q database.Querier, p LowMarginRequest) (Result, error) {
		rows, err := q.Query(ctx, lowMarginProductsSQL, p.StartTime(), p.EndTime(), p.CostPct, p.Limit.Limit)
		if err != nil {
			return Result{}, err
		}
		out := make([]MarginProduct, 0, len(rows))
		for _, r := range rows {
			out = append(out, MarginProduct{
				ProductName:   text(r["product_name"]),
				AvgPrice:      Normalize(r["avg_price"]),
				AvgCost:       Normalize(r["avg_cost"]),
				MarginPercent: Margin(r["avg_price"], r["avg_cost"]),
				TotalSold:     Normalize(r["total_sold"]),
				TotalRevenue:  Normalize(r["total_revenue"]),
			})
		}
		return Result{Data: out, Params: CostPctParams{CostPct: p.CostPct}}, nil
	},
}
