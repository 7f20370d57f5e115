// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package analytics

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/tomtom215/salesboard/internal/database"
)

type recordedQuery struct {
	sql  string
	args []any
	op   string
}

// fakeQuerier returns canned result sets in order and records every call.
type fakeQuerier struct {
	mu      sync.Mutex
	results [][]database.Row
	err     error
	calls   []recordedQuery
}

func (f *fakeQuerier) Query(ctx context.Context, sql string, args ...any) ([]database.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedQuery{sql: sql, args: args, op: database.OperationFromContext(ctx)})
	if f.err != nil {
		return nil, f.err
	}
	if len(f.results) == 0 {
		return nil, nil
	}
	rows := f.results[0]
	f.results = f.results[1:]
	return rows, nil
}

func period(start, end string) Period {
	return Period{Start: start, End: end}
}

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDashboardSummary(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{results: [][]database.Row{
		{{
			"curr_sales": int64(100), "prev_sales": int64(80),
			"curr_rev": "5000", "prev_rev": "4000",
			"curr_ticket": "50", "prev_ticket": "40",
		}},
		{
			{"product_name": "Coxinha", "total_quantity": "320", "total_revenue": "1600.00"},
			{"product_name": "Pastel", "total_quantity": int64(210), "total_revenue": decimal.RequireFromString("1470.504")},
		},
		{
			{"channel_name": "iFood", "total_sales": int64(60), "total_revenue": "3200.00"},
			{"channel_name": "Presencial", "total_sales": "40", "total_revenue": nil},
		},
	}}

	res, err := DashboardSummary.Execute(context.Background(), q, PeriodRequest{period("2025-01-01", "2025-01-31")})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := Summary{
		Totals:     SummaryTotals{TotalSales: 100, TotalRevenue: 5000, AvgTicket: 50},
		Previous:   SummaryTotals{TotalSales: 80, TotalRevenue: 4000, AvgTicket: 40},
		Variations: SummaryTotals{TotalSales: 25, TotalRevenue: 25, AvgTicket: 25},
		TopProducts: []SummaryProduct{
			{ProductName: "Coxinha", TotalQuantity: 320, TotalRevenue: 1600},
			{ProductName: "Pastel", TotalQuantity: 210, TotalRevenue: 1470.5},
		},
		TopChannels: []SummaryChannel{
			{ChannelName: "iFood", TotalSales: 60, TotalRevenue: 3200},
			{ChannelName: "Presencial", TotalSales: 40, TotalRevenue: 0},
		},
	}
	if diff := cmp.Diff(want, res.Data); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}

	if len(q.calls) != 3 {
		t.Fatalf("expected 3 queries, got %d", len(q.calls))
	}
	jan := []any{date("2025-01-01"), date("2025-01-31")}
	wantArgs := [][]any{
		{date("2025-01-01"), date("2025-01-31"), date("2024-12-01"), date("2024-12-31")},
		append(append([]any{}, jan...), summaryTopN),
		append(append([]any{}, jan...), summaryTopN),
	}
	for i, call := range q.calls {
		if diff := cmp.Diff(wantArgs[i], call.args); diff != "" {
			t.Errorf("query %d args mismatch (-want +got):\n%s", i, diff)
		}
		if call.op != "summary" {
			t.Errorf("query %d operation label = %q, want summary", i, call.op)
		}
	}
	if !strings.Contains(q.calls[1].sql, "ORDER BY total_quantity DESC") {
		t.Errorf("top products should rank by quantity:\n%s", q.calls[1].sql)
	}
	if !strings.Contains(q.calls[2].sql, "ORDER BY total_revenue DESC") {
		t.Errorf("top channels should rank by revenue:\n%s", q.calls[2].sql)
	}
}

func TestDashboardSummary_EmptyLists(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{results: [][]database.Row{{{"curr_sales": int64(0), "prev_sales": int64(0)}}}}

	res, err := DashboardSummary.Execute(context.Background(), q, PeriodRequest{period("2025-01-01", "2025-01-31")})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	got := res.Data.(Summary)
	if got.TopProducts == nil || len(got.TopProducts) != 0 {
		t.Errorf("TopProducts = %#v, want empty non-nil slice", got.TopProducts)
	}
	if got.TopChannels == nil || len(got.TopChannels) != 0 {
		t.Errorf("TopChannels = %#v, want empty non-nil slice", got.TopChannels)
	}
}

func TestDashboardSummary_ListQueryFails(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	q := &failAfterQuerier{ok: 1, err: boom, rows: []database.Row{{"curr_sales": int64(1)}}}

	if _, err := DashboardSummary.Execute(context.Background(), q, PeriodRequest{period("2025-01-01", "2025-01-31")}); !errors.Is(err, boom) {
		t.Errorf("Execute() error = %v, want %v", err, boom)
	}
	if q.calls != 2 {
		t.Errorf("queries = %d, want 2 (stop after the failing list query)", q.calls)
	}
}

// failAfterQuerier answers ok queries with rows, then fails.
type failAfterQuerier struct {
	ok    int
	calls int
	rows  []database.Row
	err   error
}

func (f *failAfterQuerier) Query(context.Context, string, ...any) ([]database.Row, error) {
	f.calls++
	if f.calls > f.ok {
		return nil, f.err
	}
	return f.rows, nil
}

func TestDashboardSummary_NoPreviousData(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{results: [][]database.Row{{{
		"curr_sales": int64(3), "prev_sales": int64(0),
		"curr_rev": "90.00", "prev_rev": nil,
		"curr_ticket": "30.00", "prev_ticket": nil,
	}}}}

	res, err := DashboardSummary.Execute(context.Background(), q, PeriodRequest{period("2025-01-01", "2025-01-31")})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	got := res.Data.(Summary)
	if got.Variations != (SummaryTotals{}) {
		t.Errorf("variations against an empty baseline should be zero, got %+v", got.Variations)
	}
	if got.Previous.TotalRevenue != 0 {
		t.Errorf("null previous revenue should normalize to 0, got %v", got.Previous.TotalRevenue)
	}
}

func TestDashboardKPIs(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{results: [][]database.Row{
		{{"total_sales": int64(120), "total_revenue": "6000.004", "avg_ticket": "50.00", "total_customers": int64(45)}},
		{{"previous_revenue": "4500"}},
	}}

	res, err := DashboardKPIs.Execute(context.Background(), q, KPIRequest{Period: period("2025-02-01", "2025-02-28")})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := KPIs{TotalSales: 120, TotalRevenue: 6000, AvgTicket: 50, TotalCustomers: 45, SalesGrowth: 33.33}
	if diff := cmp.Diff(want, res.Data); diff != "" {
		t.Errorf("kpis mismatch (-want +got):\n%s", diff)
	}

	params := res.Params.(KPIParams)
	if params.PrevStart != "2025-01-04" || params.PrevEnd != "2025-01-31" {
		t.Errorf("derived previous window = %s..%s", params.PrevStart, params.PrevEnd)
	}
	if len(q.calls) != 2 {
		t.Fatalf("expected 2 queries, got %d", len(q.calls))
	}
}

func TestDashboardKPIs_ExplicitPreviousWindow(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{results: [][]database.Row{
		{{"total_revenue": "100"}},
		{{"previous_revenue": "0"}},
	}}
	p := KPIRequest{Period: period("2025-02-01", "2025-02-28"), PrevStart: "2024-02-01", PrevEnd: "2024-02-29"}

	res, err := DashboardKPIs.Execute(context.Background(), q, p)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := res.Data.(KPIs).SalesGrowth; got != 0 {
		t.Errorf("growth against zero baseline = %v, want 0", got)
	}
	if diff := cmp.Diff([]any{date("2024-02-01"), date("2024-02-29")}, q.calls[1].args); diff != "" {
		t.Errorf("previous window args (-want +got):\n%s", diff)
	}
	if key := DashboardKPIs.CacheKey(p); key != "kpis|2025-02-01|2025-02-28|2024-02-01|2024-02-29" {
		t.Errorf("CacheKey() = %q", key)
	}
}

func TestLowMarginProducts(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{results: [][]database.Row{{{
		"product_name": "Água 500ml", "avg_price": "5.0", "avg_cost": "3.25",
		"total_sold": "1200", "total_revenue": "6000",
	}}}}

	p := LowMarginProducts.NewParams()
	p.Period = period("2025-01-01", "2025-01-31")

	res, err := LowMarginProducts.Execute(context.Background(), q, p)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := []MarginProduct{{
		ProductName: "Água 500ml", AvgPrice: 5, AvgCost: 3.25, MarginPercent: 35,
		TotalSold: 1200, TotalRevenue: 6000,
	}}
	if diff := cmp.Diff(want, res.Data); diff != "" {
		t.Errorf("low margin mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(CostPctParams{CostPct: 60}, res.Params); diff != "" {
		t.Errorf("params (-want +got):\n%s", diff)
	}
	if got := q.calls[0].args[2]; got != 60.0 {
		t.Errorf("cost_pct bound as %v, want 60", got)
	}
}

func TestMargin(t *testing.T) {
	t.Parallel()

	if got := Margin("5.0", "3.25"); got != 35 {
		t.Errorf("Margin(5, 3.25) = %v, want 35", got)
	}
	if got := Margin(0, 3); got != 0 {
		t.Errorf("Margin with zero price = %v, want 0", got)
	}
	if got := Margin(3, 4); got != -33.33 {
		t.Errorf("Margin(3, 4) = %v, want -33.33", got)
	}
}

func TestCustomerRetention(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{results: [][]database.Row{
		{
			{"customer_id": int64(1), "orders_count": "3", "first_order_date": "2025-01-01", "last_order_date": "2025-01-25"},
			{"customer_id": int64(2), "orders_count": "1", "first_order_date": "2025-01-05", "last_order_date": date("2025-01-10")},
		},
		{{"avg_days": decimal.RequireFromString("8.4999")}},
	}}

	p := CustomerRetention.NewParams()
	p.Period = period("2025-01-01", "2025-01-31")
	p.InactiveDays = 15

	res, err := CustomerRetention.Execute(context.Background(), q, p)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	avg := 8.5
	want := Retention{
		ActiveCustomers:          2,
		ReturningCustomers:       1,
		ChurnedCustomers:         1,
		RetentionRate:            50,
		AverageDaysBetweenOrders: &avg,
	}
	if diff := cmp.Diff(want, res.Data); diff != "" {
		t.Errorf("retention mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(RetentionParams{Start: "2025-01-01", End: "2025-01-31", InactiveDays: 15, MinOrders: 1}, res.Params); diff != "" {
		t.Errorf("params (-want +got):\n%s", diff)
	}
	if len(q.calls) != 2 {
		t.Errorf("expected 2 queries, got %d", len(q.calls))
	}
	if res.Message != "" {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestCustomerRetention_Empty(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{results: [][]database.Row{{}}}
	p := CustomerRetention.NewParams()
	p.Period = period("2025-01-01", "2025-01-31")

	res, err := CustomerRetention.Execute(context.Background(), q, p)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if diff := cmp.Diff(Retention{}, res.Data); diff != "" {
		t.Errorf("empty retention (-want +got):\n%s", diff)
	}
	if res.Message != NoActivityMessage {
		t.Errorf("Message = %q", res.Message)
	}
	if params, ok := res.Params.(RetentionParams); !ok || params.InactiveDays != DefaultInactiveDays {
		t.Errorf("Params = %#v, want echoed defaults", res.Params)
	}
	if len(q.calls) != 1 {
		t.Errorf("expected 1 query, got %d", len(q.calls))
	}
}

func TestCustomerRetention_NoRepeatBuyers(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{results: [][]database.Row{
		{{"orders_count": int64(1), "last_order_date": date("2025-01-30")}},
		{{"avg_days": nil}},
	}}
	p := CustomerRetention.NewParams()
	p.Period = period("2025-01-01", "2025-01-31")

	res, err := CustomerRetention.Execute(context.Background(), q, p)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	got := res.Data.(Retention)
	if got.AverageDaysBetweenOrders != nil {
		t.Errorf("average_days_between_orders should be null, got %v", *got.AverageDaysBetweenOrders)
	}
	if got.RetentionRate != 100 {
		t.Errorf("RetentionRate = %v, want 100", got.RetentionRate)
	}
}

func TestSalesTrend(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{results: [][]database.Row{{
		{"period": time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "total_sales": int64(40), "total_revenue": "8000.00"},
		{"period": "2025-02-01T00:00:00.000Z", "total_sales": "12", "total_revenue": decimal.RequireFromString("1234567.891")},
	}}}

	p := SalesTrend.NewParams()
	p.Period = period("2025-01-01", "2025-02-28")

	res, err := SalesTrend.Execute(context.Background(), q, p)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := []TrendPoint{
		{Period: "2025-01-01", TotalSales: 40, TotalRevenue: 8000, TotalRevenueFormatted: "R$ 8.000,00"},
		{Period: "2025-02-01", TotalSales: 12, TotalRevenue: 1234567.89, TotalRevenueFormatted: "R$ 1.234.567,89"},
	}
	if diff := cmp.Diff(want, res.Data); diff != "" {
		t.Errorf("trend mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(SalesTrendParams{Start: "2025-01-01", End: "2025-02-28", Interval: "month"}, res.Params); diff != "" {
		t.Errorf("params (-want +got):\n%s", diff)
	}
	if !strings.Contains(q.calls[0].sql, "DATE_TRUNC('month'") {
		t.Errorf("default interval should use the month template:\n%s", q.calls[0].sql)
	}
}

func TestTimeline_TemplatePerBucket(t *testing.T) {
	t.Parallel()

	for _, bucket := range []string{"day", "month"} {
		q := &fakeQuerier{}
		p := TimelineRequest{Period: period("2025-01-01", "2025-01-31"), GroupBy: bucket}
		if _, err := Timeline.Execute(context.Background(), q, p); err != nil {
			t.Fatalf("Execute(%s) error = %v", bucket, err)
		}
		if !strings.Contains(q.calls[0].sql, "DATE_TRUNC('"+bucket+"'") {
			t.Errorf("groupBy=%s used wrong template:\n%s", bucket, q.calls[0].sql)
		}
		if len(q.calls[0].args) != 2 {
			t.Errorf("groupBy=%s bound %d args, want 2", bucket, len(q.calls[0].args))
		}
	}
}

func TestFormatBRL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{8000, "R$ 8.000,00"},
		{5000, "R$ 5.000,00"},
		{1500, "R$ 1.500,00"},
		{0, "R$ 0,00"},
		{999.999, "R$ 1.000,00"},
		{12.5, "R$ 12,50"},
		{1234567.891, "R$ 1.234.567,89"},
		{-1.5, "-R$ 1,50"},
	}
	for _, tt := range tests {
		if got := FormatBRL(tt.in); got != tt.want {
			t.Errorf("FormatBRL(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTopProductsByPeriod(t *testing.T) {
	t.Parallel()

	weekday, from, to, channel := 1, 8, 18, 3
	p := ProductsByPeriodRequest{
		Period:        period("2025-01-01", "2025-01-31"),
		ChannelFilter: ChannelFilter{ChannelID: &channel},
		Weekday:       &weekday,
		HourStart:     &from,
		HourEnd:       &to,
	}

	q := &fakeQuerier{results: [][]database.Row{{
		{"product_name": "Água Mineral 500ml", "total_sold": int64(180), "revenue": "900.00"},
	}}}
	res, err := TopProductsByPeriod.Execute(context.Background(), q, p)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if diff := cmp.Diff([]PeriodProductSales{{ProductName: "Água Mineral 500ml", TotalSold: 180, Revenue: 900}}, res.Data); diff != "" {
		t.Errorf("data (-want +got):\n%s", diff)
	}
	wantArgs := []any{date("2025-01-01"), date("2025-01-31"), int64(1), int64(8), int64(18), int64(3)}
	if diff := cmp.Diff(wantArgs, q.calls[0].args); diff != "" {
		t.Errorf("args (-want +got):\n%s", diff)
	}
	if key := TopProductsByPeriod.CacheKey(p); key != "top-products-by-period|2025-01-01|2025-01-31|1|8-18|3" {
		t.Errorf("CacheKey() = %q", key)
	}
}

func TestTopProductsByPeriod_NoFilters(t *testing.T) {
	t.Parallel()

	p := ProductsByPeriodRequest{Period: period("2025-01-01", "2025-01-31")}
	q := &fakeQuerier{}
	res, err := TopProductsByPeriod.Execute(context.Background(), q, p)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	wantArgs := []any{date("2025-01-01"), date("2025-01-31"), nil, nil, nil, nil}
	if diff := cmp.Diff(wantArgs, q.calls[0].args); diff != "" {
		t.Errorf("absent filters should bind NULL (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(ProductsByPeriodParams{Start: "2025-01-01", End: "2025-01-31"}, res.Params); diff != "" {
		t.Errorf("params (-want +got):\n%s", diff)
	}
	if key := TopProductsByPeriod.CacheKey(p); key != "top-products-by-period|2025-01-01|2025-01-31|all|none|all" {
		t.Errorf("CacheKey() = %q", key)
	}
}

func TestTopProductsByPeriod_HourWindowOrder(t *testing.T) {
	t.Parallel()

	from, to := 20, 8
	p := ProductsByPeriodRequest{Period: period("2025-01-01", "2025-01-31"), HourStart: &from, HourEnd: &to}
	if err := TopProductsByPeriod.Validate(p); err == nil {
		t.Error("hour_start after hour_end should be rejected")
	}
	from = 8
	if err := TopProductsByPeriod.Validate(p); err != nil {
		t.Errorf("valid window rejected: %v", err)
	}
}

func TestDeliveryPerformance(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{results: [][]database.Row{{
		{"store": "Loja Norte", "total_deliveries": int64(90), "avg_delivery_time": "38.45", "on_time_deliveries": int64(60)},
		{"store": "Loja Sul", "total_deliveries": int64(0), "avg_delivery_time": nil, "on_time_deliveries": int64(0)},
	}}}

	p := DeliveryPerformance.NewParams()
	p.Period = period("2025-01-01", "2025-01-31")

	res, err := DeliveryPerformance.Execute(context.Background(), q, p)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	want := []DeliveryStats{
		{Store: "Loja Norte", TotalDeliveries: 90, AvgDeliveryTime: 38.45, OnTimeDeliveries: 60, OnTimeRate: 66.7},
		{Store: "Loja Sul"},
	}
	if diff := cmp.Diff(want, res.Data); diff != "" {
		t.Errorf("delivery mismatch (-want +got):\n%s", diff)
	}
	if q.calls[0].args[2] != DefaultTargetMinutes {
		t.Errorf("target_minutes bound as %v", q.calls[0].args[2])
	}
}

func TestAverageTicket_LabelFollowsGrouping(t *testing.T) {
	t.Parallel()

	row := database.Row{"store_name": "Loja Centro", "channel_name": "iFood", "total_sales": "10", "total_revenue": "500.00", "avg_ticket": "50.00"}

	q := &fakeQuerier{results: [][]database.Row{{row}, {row}}}
	p := AverageTicket.NewParams()
	p.Period = period("2025-01-01", "2025-01-31")

	res, err := AverageTicket.Execute(context.Background(), q, p)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	stores, ok := res.Data.([]StoreTicket)
	if !ok || len(stores) != 1 || stores[0].StoreName != "Loja Centro" {
		t.Errorf("store grouping data = %#v", res.Data)
	}

	p.GroupBy = "channel"
	res, err = AverageTicket.Execute(context.Background(), q, p)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	channels, ok := res.Data.([]ChannelTicket)
	if !ok || len(channels) != 1 || channels[0].ChannelName != "iFood" {
		t.Errorf("channel grouping data = %#v", res.Data)
	}
	if !strings.Contains(q.calls[1].sql, "ch.name AS channel_name") {
		t.Errorf("channel grouping used wrong template:\n%s", q.calls[1].sql)
	}
	if diff := cmp.Diff(GroupByParams{GroupBy: "channel"}, res.Params); diff != "" {
		t.Errorf("params (-want +got):\n%s", diff)
	}
}

func TestFinancialOverview_BindsProfitRate(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{results: [][]database.Row{{{
		"total_orders": int64(4), "total_revenue": "400.00", "avg_ticket": "100.00", "estimated_profit": "100.00",
	}}}}
	res, err := Financial.Execute(context.Background(), q, ChannelRequest{Period: period("2025-01-01", "2025-01-31")})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	want := FinancialOverview{TotalOrders: 4, TotalRevenue: 400, AvgTicket: 100, EstimatedProfit: 100}
	if diff := cmp.Diff(want, res.Data); diff != "" {
		t.Errorf("financial mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{date("2025-01-01"), date("2025-01-31"), nil, EstimatedProfitRate}, q.calls[0].args); diff != "" {
		t.Errorf("args (-want +got):\n%s", diff)
	}
}

func TestRankings_NormalizeNumericText(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{results: [][]database.Row{{
		{"store": "Loja Norte", "total_sales": "90", "avg_production_time": "12.5", "avg_delivery_time": "18.2"},
		{"store": "Loja Sul", "total_sales": "70", "avg_production_time": "10.1", "avg_delivery_time": "15.7"},
	}}}

	res, err := StorePerformance.Execute(context.Background(), q, PeriodRequest{period("2025-01-01", "2025-01-31")})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	want := []StoreTimes{
		{Store: "Loja Norte", TotalSales: 90, AvgProductionTime: 12.5, AvgDeliveryTime: 18.2},
		{Store: "Loja Sul", TotalSales: 70, AvgProductionTime: 10.1, AvgDeliveryTime: 15.7},
	}
	if diff := cmp.Diff(want, res.Data); diff != "" {
		t.Errorf("store performance mismatch (-want +got):\n%s", diff)
	}
}

func TestRankings_EmptyResultIsEmptyList(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{}
	res, err := TopCustomers.Execute(context.Background(), q, defaultLimitRequest())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	got, ok := res.Data.([]CustomerSpend)
	if !ok || got == nil || len(got) != 0 {
		t.Errorf("expected non-nil empty slice, got %#v", res.Data)
	}
}

func TestReports_PropagateQueryErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection reset")
	q := &fakeQuerier{err: boom}

	_, err := TopStores.Execute(context.Background(), q, ChannelRequest{Period: period("2025-01-01", "2025-01-31")})
	if !errors.Is(err, boom) {
		t.Errorf("TopStores error = %v, want %v", err, boom)
	}

	q = &fakeQuerier{results: [][]database.Row{{{"orders_count": 2, "last_order_date": date("2025-01-20")}}}, err: nil}
	failing := database.QuerierFunc(func(ctx context.Context, sql string, args ...any) ([]database.Row, error) {
		if strings.Contains(sql, "avg_days") {
			return nil, boom
		}
		return q.Query(ctx, sql, args...)
	})
	p := CustomerRetention.NewParams()
	p.Period = period("2025-01-01", "2025-01-31")
	if _, err := CustomerRetention.Execute(context.Background(), failing, p); !errors.Is(err, boom) {
		t.Errorf("second retention query error = %v, want %v", err, boom)
	}
}

func TestCacheKey_EquivalentDatesCollide(t *testing.T) {
	t.Parallel()

	a := ChannelRequest{Period: period("2025-01-01", "2025-01-31")}
	b := ChannelRequest{Period: period("2025-01-01T00:00:00Z", "2025-01-31T00:00:00Z")}
	if TopProducts.CacheKey(a) != TopProducts.CacheKey(b) {
		t.Errorf("keys differ: %q vs %q", TopProducts.CacheKey(a), TopProducts.CacheKey(b))
	}

	channel := 2
	c := ChannelRequest{Period: a.Period, ChannelFilter: ChannelFilter{ChannelID: &channel}}
	if TopProducts.CacheKey(a) == TopProducts.CacheKey(c) {
		t.Error("channel filter must change the key")
	}
	if TopProducts.CacheKey(a) == TopStores.CacheKey(a) {
		t.Error("report id must namespace the key")
	}
	if want := "top-products|2025-01-01|2025-01-31|all"; TopProducts.CacheKey(a) != want {
		t.Errorf("CacheKey() = %q, want %q", TopProducts.CacheKey(a), want)
	}
}

func TestCatalogue(t *testing.T) {
	t.Parallel()

	reports := Catalogue()
	if len(reports) != 19 {
		t.Errorf("Catalogue() has %d reports, want 19", len(reports))
	}
	seen := make(map[string]bool)
	for _, r := range reports {
		if r.ReportID() == "" || r.Summary() == "" {
			t.Errorf("report %q lacks id or summary", r.ReportID())
		}
		if seen[r.ReportID()] {
			t.Errorf("duplicate report id %q", r.ReportID())
		}
		seen[r.ReportID()] = true
	}
}

func TestPreviousWindow(t *testing.T) {
	t.Parallel()

	start, end := previousWindow(date("2025-01-01"), date("2025-01-31"))
	if !start.Equal(date("2024-12-01")) || !end.Equal(date("2024-12-31")) {
		t.Errorf("previousWindow = %s..%s", start, end)
	}
}

func TestFormatPeriod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want string
	}{
		{time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), "2025-03-03"},
		{"2025-03-15", "2025-03-15"},
		{"2025-03-15T00:00:00.000Z", "2025-03-15"},
		{"2025-03-15 00:00:00", "2025-03-15"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := formatPeriod(tt.in); got != tt.want {
			t.Errorf("formatPeriod(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
