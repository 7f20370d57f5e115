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

// Variation precision per report.
const (
	kpiVariationPlaces     int32 = 2
	summaryVariationPlaces int32 = 1
)

// EstimatedProfitRate is the share of revenue reported as estimated profit.
const EstimatedProfitRate = 0.25

// previousWindow returns the comparison window that ends the day before
// start and spans the same length as start..end.
func previousWindow(start, end time.Time) (time.Time, time.Time) {
	prevEnd := start.AddDate(0, 0, -1)
	return prevEnd.Add(-end.Sub(start)), prevEnd
}

// KPIRequest is a period plus an optional explicit comparison window.
type KPIRequest struct {
	Period
	PrevStart string `query:"prev_start,prevStart" validate:"required_with=PrevEnd,omitempty,reportdate"`
	PrevEnd   string `query:"prev_end,prevEnd" validate:"required_with=PrevStart,omitempty,reportdate,notbefore=PrevStart"`
}

// PreviousBounds returns the comparison window, explicit or derived.
func (p KPIRequest) PreviousBounds() (time.Time, time.Time) {
	if p.PrevStart == "" || p.PrevEnd == "" {
		return previousWindow(p.Bounds())
	}
	prevStart := Period{Start: p.PrevStart, End: p.PrevEnd}
	return prevStart.Bounds()
}

// KPIs is the data of the kpis report.
type KPIs struct {
	TotalSales     int64   `json:"total_sales"`
	TotalRevenue   float64 `json:"total_revenue"`
	AvgTicket      float64 `json:"avg_ticket"`
	TotalCustomers int64   `json:"total_customers"`
	SalesGrowth    float64 `json:"sales_growth"`
}

// KPIParams echoes the resolved windows.
type KPIParams struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	PrevStart string `json:"prev_start"`
	PrevEnd   string `json:"prev_end"`
}

const kpiCurrentSQL = `
SELECT
  COUNT(*) AS total_sales,
  SUM(total_amount) AS total_revenue,
  ROUND(AVG(total_amount)::numeric, 2) AS avg_ticket,
  COUNT(DISTINCT customer_id) AS total_customers
FROM sales
WHERE created_at BETWEEN $1 AND $2`

const kpiPreviousSQL = `
SELECT SUM(total_amount) AS previous_revenue
FROM sales
WHERE created_at BETWEEN $1 AND $2`

// DashboardKPIs reports headline totals and revenue growth against a
// previous window.
var DashboardKPIs = Report[KPIRequest]{
	ID:          "kpis",
	Description: "Headline KPIs with revenue growth against a previous window (prev_start/prev_end)",
	Key: func(p KPIRequest) []any {
		prevStart, prevEnd := p.PreviousBounds()
		return []any{p.StartTime(), p.EndTime(), prevStart, prevEnd}
	},
	Run: func(ctx context.Context, q database.Querier, p KPIRequest) (Result, error) {
		start, end := p.Bounds()
		prevStart, prevEnd := p.PreviousBounds()

		current, err := q.Query(ctx, kpiCurrentSQL, start, end)
		if err != nil {
			return Result{}, err
		}
		previous, err := q.Query(ctx, kpiPreviousSQL, prevStart, prevEnd)
		if err != nil {
			return Result{}, err
		}

		cur := firstRow(current)
		return Result{
			Data: KPIs{
				TotalSales:     NormalizeInt(cur["total_sales"]),
				TotalRevenue:   money(cur["total_revenue"]),
				AvgTicket:      Normalize(cur["avg_ticket"]),
				TotalCustomers: NormalizeInt(cur["total_customers"]),
				SalesGrowth:    Variation(cur["total_revenue"], firstRow(previous)["previous_revenue"], kpiVariationPlaces),
			},
			Params: KPIParams{
				Start:     formatDate(start),
				End:       formatDate(end),
				PrevStart: formatDate(prevStart),
				PrevEnd:   formatDate(prevEnd),
			},
		}, nil
	},
}

// SummaryTotals is one side of the summary comparison.
type SummaryTotals struct {
	TotalSales   float64 `json:"total_sales"`
	TotalRevenue float64 `json:"total_revenue"`
	AvgTicket    float64 `json:"avg_ticket"`
}

// SummaryProduct is one of the best sellers by quantity.
type SummaryProduct struct {
	ProductName   string  `json:"product_name"`
	TotalQuantity float64 `json:"total_quantity"`
	TotalRevenue  float64 `json:"total_revenue"`
}

// SummaryChannel is one of the channels with the highest revenue.
type SummaryChannel struct {
	ChannelName  string  `json:"channel_name"`
	TotalSales   int64   `json:"total_sales"`
	TotalRevenue float64 `json:"total_revenue"`
}

// Summary is the data of the summary report.
type Summary struct {
	Totals      SummaryTotals    `json:"totals"`
	Previous    SummaryTotals    `json:"previous"`
	Variations  SummaryTotals    `json:"variations"`
	TopProducts []SummaryProduct `json:"top_products"`
	TopChannels []SummaryChannel `json:"top_channels"`
}

// summaryTopN bounds both summary lists.
const summaryTopN = 5

// One scan over both windows; $3..$4 is the previous window.
const summarySQL = `
SELECT
  COUNT(*) FILTER (WHERE s.created_at BETWEEN $1 AND $2) AS curr_sales,
  COUNT(*) FILTER (WHERE s.created_at BETWEEN $3 AND $4) AS prev_sales,
  SUM(s.total_amount) FILTER (WHERE s.created_at BETWEEN $1 AND $2) AS curr_rev,
  SUM(s.total_amount) FILTER (WHERE s.created_at BETWEEN $3 AND $4) AS prev_rev,
  ROUND((AVG(s.total_amount) FILTER (WHERE s.created_at BETWEEN $1 AND $2))::numeric, 2) AS curr_ticket,
  ROUND((AVG(s.total_amount) FILTER (WHERE s.created_at BETWEEN $3 AND $4))::numeric, 2) AS prev_ticket
FROM sales s
WHERE s.created_at BETWEEN $3 AND $2`

const summaryTopProductsSQL = `
SELECT
  p.name AS product_name,
  SUM(ps.quantity) AS total_quantity,
  ROUND(SUM(ps.total_price)::numeric, 2) AS total_revenue
FROM product_sales ps
JOIN products p ON p.id = ps.product_id
JOIN sales s ON s.id = ps.sale_id
WHERE s.created_at BETWEEN $1 AND $2
GROUP BY p.name
ORDER BY total_quantity DESC
LIMIT $3`

const summaryTopChannelsSQL = `
SELECT
  c.name AS channel_name,
  COUNT(s.id) AS total_sales,
  ROUND(SUM(s.total_amount)::numeric, 2) AS total_revenue
FROM sales s
JOIN channels c ON c.id = s.channel_id
WHERE s.created_at BETWEEN $1 AND $2
GROUP BY c.name
ORDER BY total_revenue DESC NULLS LAST
LIMIT $3`

// DashboardSummary compares the period with the equal-length window
// before it and lists the top five products and channels of the period.
var DashboardSummary = Report[PeriodRequest]{
	ID:          "summary",
	Description: "Totals and variations against the previous window, with top 5 products and channels",
	Key:         periodKey,
	Run: func(ctx context.Context, q database.Querier, p PeriodRequest) (Result, error) {
		start, end := p.Bounds()
		prevStart, prevEnd := previousWindow(start, end)

		rows, err := q.Query(ctx, summarySQL, start, end, prevStart, prevEnd)
		if err != nil {
			return Result{}, err
		}
		summary := mapSummary(firstRow(rows))

		products, err := q.Query(ctx, summaryTopProductsSQL, start, end, summaryTopN)
		if err != nil {
			return Result{}, err
		}
		summary.TopProducts = make([]SummaryProduct, 0, len(products))
		for _, r := range products {
			summary.TopProducts = append(summary.TopProducts, SummaryProduct{
				ProductName:   text(r["product_name"]),
				TotalQuantity: Normalize(r["total_quantity"]),
				TotalRevenue:  money(r["total_revenue"]),
			})
		}

		channels, err := q.Query(ctx, summaryTopChannelsSQL, start, end, summaryTopN)
		if err != nil {
			return Result{}, err
		}
		summary.TopChannels = make([]SummaryChannel, 0, len(channels))
		for _, r := range channels {
			summary.TopChannels = append(summary.TopChannels, SummaryChannel{
				ChannelName:  text(r["channel_name"]),
				TotalSales:   NormalizeInt(r["total_sales"]),
				TotalRevenue: money(r["total_revenue"]),
			})
		}

		return Result{Data: summary}, nil
	},
}

func mapSummary(r database.Row) Summary {
	return Summary{
		Totals: SummaryTotals{
			TotalSales:   Normalize(r["curr_sales"]),
			TotalRevenue: money(r["curr_rev"]),
			AvgTicket:    Normalize(r["curr_ticket"]),
		},
		Previous: SummaryTotals{
			TotalSales:   Normalize(r["prev_sales"]),
			TotalRevenue: money(r["prev_rev"]),
			AvgTicket:    Normalize(r["prev_ticket"]),
		},
		Variations: SummaryTotals{
			TotalSales:   Variation(r["curr_sales"], r["prev_sales"], summaryVariationPlaces),
			TotalRevenue: Variation(r["curr_rev"], r["prev_rev"], summaryVariationPlaces),
			AvgTicket:    Variation(r["curr_ticket"], r["prev_ticket"], summaryVariationPlaces),
		},
	}
}

// FinancialOverview is the data of the financial-overview report.
type FinancialOverview struct {
	TotalOrders     int64   `json:"total_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
	AvgTicket       float64 `json:"avg_ticket"`
	EstimatedProfit float64 `json:"estimated_profit"`
}

const financialOverviewSQL = `
SELECT
  COUNT(s.id) AS total_orders,
  ROUND(SUM(s.total_amount)::numeric, 2) AS total_revenue,
  ROUND(AVG(s.total_amount)::numeric, 2) AS avg_ticket,
  ROUND(SUM(s.total_amount * $4)::numeric, 2) AS estimated_profit
FROM sales s
WHERE s.created_at BETWEEN $1 AND $2
  AND s.sale_status_desc = 'COMPLETED'
  AND ($3::int IS NULL OR s.channel_id = $3)`

// Financial reports completed-order revenue and estimated profit.
var Financial = Report[ChannelRequest]{
	ID:          "financial-overview",
	Description: "Completed-order revenue, average ticket and estimated profit",
	Key:         channelKey,
	Run: func(ctx context.Context, q database.Querier, p ChannelRequest) (Result, error) {
		rows, err := q.Query(ctx, financialOverviewSQL, p.StartTime(), p.EndTime(), p.channelArg(), EstimatedProfitRate)
		if err != nil {
			return Result{}, err
		}
		r := firstRow(rows)
		return Result{Data: FinancialOverview{
			TotalOrders:     NormalizeInt(r["total_orders"]),
			TotalRevenue:    Normalize(r["total_revenue"]),
			AvgTicket:       Normalize(r["avg_ticket"]),
			EstimatedProfit: Normalize(r["estimated_profit"]),
		}}, nil
	},
}
