// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package analytics

import (
	"context"

	"github.com/tomtom215/salesboard/internal/database"
)

// GroupByParams echoes the grouping dimension.
type GroupByParams struct {
	GroupBy string `json:"group_by"`
}

// TicketComparisonRequest groups the materialized ticket view.
type TicketComparisonRequest struct {
	Period
	GroupBy string `query:"group_by" validate:"oneof=channel store"`
}

// TicketComparison is one row of avg-ticket-comparison.
type TicketComparison struct {
	GroupName    string  `json:"group_name"`
	TotalSales   int64   `json:"total_sales"`
	TotalRevenue float64 `json:"total_revenue"`
	AvgTicket    float64 `json:"avg_ticket"`
}

var avgTicketComparisonSQL = map[string]string{
	"channel": ticketComparisonSQL("c.name", "JOIN channels c ON c.id = mv.channel_id"),
	"store":   ticketComparisonSQL("st.name", "JOIN stores st ON st.id = mv.store_id"),
}

func ticketComparisonSQL(groupColumn, join string) string {
	return `
SELECT
  ` + groupColumn + ` AS group_name,
  mv.total_sales,
  ROUND(mv.total_revenue::numeric, 2) AS total_revenue,
  ROUND(mv.avg_ticket::numeric, 2) AS avg_ticket
FROM avg_ticket_comparison_mv mv
` + join + `
WHERE mv.last_sale_at BETWEEN $1 AND $2
ORDER BY mv.avg_ticket DESC`
}

// AvgTicketComparison compares average tickets from the materialized view.
var AvgTicketComparison = Report[TicketComparisonRequest]{
	ID:          "avg-ticket-comparison",
	Description: "Average ticket per channel or store from avg_ticket_comparison_mv (group_by, default channel)",
	Defaults:    func() TicketComparisonRequest { return TicketComparisonRequest{GroupBy: "channel"} },
	Key: func(p TicketComparisonRequest) []any {
		return []any{p.StartTime(), p.EndTime(), p.GroupBy}
	},
	Run: func(ctx context.Context, q database.Querier, p TicketComparisonRequest) (Result, error) {
		rows, err := q.Query(ctx, avgTicketComparisonSQL[p.GroupBy], p.StartTime(), p.EndTime())
		if err != nil {
			return Result{}, err
		}
		out := make([]TicketComparison, 0, len(rows))
		for _, r := range rows {
			out = append(out, TicketComparison{
				GroupName:    text(r["group_name"]),
				TotalSales:   NormalizeInt(r["total_sales"]),
				TotalRevenue: Normalize(r["total_revenue"]),
				AvgTicket:    Normalize(r["avg_ticket"]),
			})
		}
		return Result{Data: out, Params: GroupByParams{GroupBy: p.GroupBy}}, nil
	},
}

// AverageTicketRequest groups live sales by store or channel.
type AverageTicketRequest struct {
	Period
	GroupBy string `query:"group_by" validate:"oneof=store channel"`
}

var averageTicketSQL = map[string]string{
	"store":   averageTicketGroupSQL("st.name", "store_name"),
	"channel": averageTicketGroupSQL("ch.name", "channel_name"),
}

func averageTicketGroupSQL(groupColumn, label string) string {
	return `
SELECT
  ` + groupColumn + ` AS ` + label + `,
  COUNT(s.id) AS total_sales,
  ROUND(SUM(s.total_amount)::numeric, 2) AS total_revenue,
  ROUND(AVG(s.total_amount)::numeric, 2) AS avg_ticket
FROM sales s
JOIN stores st ON st.id = s.store_id
JOIN channels ch ON ch.id = s.channel_id
WHERE s.created_at BETWEEN $1 AND $2
GROUP BY ` + groupColumn + `
ORDER BY avg_ticket DESC`
}

// AverageTicket reports the average ticket per store or channel.
var AverageTicket = Report[AverageTicketRequest]{
	ID:          "average-ticket",
	Description: "Average ticket per store or channel (group_by, default store)",
	Defaults:    func() AverageTicketRequest { return AverageTicketRequest{GroupBy: "store"} },
	Key: func(p AverageTicketRequest) []any {
		return []any{p.StartTime(), p.EndTime(), p.GroupBy}
	},
	Run: func(ctx context.Context, q database.Querier, p AverageTicketRequest) (Result, error) {
		rows, err := q.Query(ctx, averageTicketSQL[p.GroupBy], p.StartTime(), p.EndTime())
		if err != nil {
			return Result{}, err
		}

		var data any
		if p.GroupBy == "channel" {
			out := make([]ChannelTicket, 0, len(rows))
			for _, r := range rows {
				out = append(out, ChannelTicket{ChannelName: text(r["channel_name"]), GroupTicket: groupTicket(r)})
			}
			data = out
		} else {
			out := make([]StoreTicket, 0, len(rows))
			for _, r := range rows {
				out = append(out, StoreTicket{StoreName: text(r["store_name"]), GroupTicket: groupTicket(r)})
			}
			data = out
		}
		return Result{Data: data, Params: GroupByParams{GroupBy: p.GroupBy}}, nil
	},
}
