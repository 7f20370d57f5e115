// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package analytics

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/salesboard/internal/database"
)

// Time buckets are chosen from fixed templates; the bucket name never
// reaches the SQL text from the request.
var timelineSQL = map[string]string{
	"day":   bucketedSalesSQL("day", "COUNT(*)"),
	"month": bucketedSalesSQL("month", "COUNT(*)"),
}

var salesTrendSQL = map[string]string{
	"day":   bucketedSalesSQL("day", "COUNT(DISTINCT s.id)"),
	"week":  bucketedSalesSQL("week", "COUNT(DISTINCT s.id)"),
	"month": bucketedSalesSQL("month", "COUNT(DISTINCT s.id)"),
}

func bucketedSalesSQL(bucket, count string) string {
	return `
SELECT
  DATE_TRUNC('` + bucket + `', s.created_at) AS period,
  ` + count + ` AS total_sales,
  SUM(s.total_amount) AS total_revenue
FROM sales s
WHERE s.created_at BETWEEN $1 AND $2
GROUP BY 1
ORDER BY 1`
}

// TimelineRequest selects a day or month bucket.
type TimelineRequest struct {
	Period
	GroupBy string `query:"groupBy,group_by" validate:"oneof=day month"`
}

// TimelinePoint is one bucket of the timeline report.
type TimelinePoint struct {
	Period       string  `json:"period"`
	TotalSales   int64   `json:"total_sales"`
	TotalRevenue float64 `json:"total_revenue"`
}

// Timeline buckets sales by day or month.
var Timeline = Report[TimelineRequest]{
	ID:          "timeline",
	Description: "Sales count and revenue per day or month (groupBy=day|month)",
	Defaults:    func() TimelineRequest { return TimelineRequest{GroupBy: "day"} },
	Key: func(p TimelineRequest) []any {
		return []any{p.StartTime(), p.EndTime(), p.GroupBy}
	},
	Run: func(ctx context.Context, q database.Querier, p TimelineRequest) (Result, error) {
		rows, err := q.Query(ctx, timelineSQL[p.GroupBy], p.StartTime(), p.EndTime())
		if err != nil {
			return Result{}, err
		}
		out := make([]TimelinePoint, 0, len(rows))
		for _, r := range rows {
			out = append(out, TimelinePoint{
				Period:       formatPeriod(r["period"]),
				TotalSales:   NormalizeInt(r["total_sales"]),
				TotalRevenue: money(r["total_revenue"]),
			})
		}
		return Result{Data: out}, nil
	},
}

// SalesTrendRequest selects a day, week or month bucket.
type SalesTrendRequest struct {
	Period
	Interval string `query:"interval" validate:"oneof=day week month"`
}

// TrendPoint is one bucket of the sales-trend report.
type TrendPoint struct {
	Period                string  `json:"period"`
	TotalSales            int64   `json:"total_sales"`
	TotalRevenue          float64 `json:"total_revenue"`
	TotalRevenueFormatted string  `json:"total_revenue_formatted"`
}

// SalesTrendParams echoes the request.
type SalesTrendParams struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Interval string `json:"interval"`
}

// SalesTrend buckets sales by day, week or month with formatted revenue.
var SalesTrend = Report[SalesTrendRequest]{
	ID:          "sales-trend",
	Description: "Sales and BRL-formatted revenue per day, week or month (interval, default month)",
	Defaults:    func() SalesTrendRequest { return SalesTrendRequest{Interval: "month"} },
	Key: func(p SalesTrendRequest) []any {
		return []any{p.StartTime(), p.EndTime(), p.Interval}
	},
	Run: func(ctx context.Context, q database.Querier, p SalesTrendRequest) (Result, error) {
		rows, err := q.Query(ctx, salesTrendSQL[p.Interval], p.StartTime(), p.EndTime())
		if err != nil {
			return Result{}, err
		}
		out := make([]TrendPoint, 0, len(rows))
		for _, r := range rows {
			revenue := money(r["total_revenue"])
			out = append(out, TrendPoint{
				Period:                formatPeriod(r["period"]),
				TotalSales:            NormalizeInt(r["total_sales"]),
				TotalRevenue:          revenue,
				TotalRevenueFormatted: FormatBRL(revenue),
			})
		}
		return Result{
			Data:   out,
			Params: SalesTrendParams{Start: p.Start, End: p.End, Interval: p.Interval},
		}, nil
	},
}

// FormatBRL renders v as Brazilian reais: "R$ 8.000,00", "-R$ 1,50".
func FormatBRL(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString("R$ ")
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}
