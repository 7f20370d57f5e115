// Salesboard - Sales Analytics REST API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salesboard

package analytics

// Catalogue lists every report in route order.
func Catalogue() []Descriptor {
	return []Descriptor{
		TopProducts,
		TopStores,
		TopChannels,
		TopSubBrands,
		DashboardKPIs,
		Timeline,
		StoreRanking,
		StorePerformance,
		TopCustomers,
		ChannelPerformance,
		SalesTrend,
		Financial,
		DashboardSummary,
		TopProductsByPeriod,
		AvgTicketComparison,
		LowMarginProducts,
		DeliveryPerformance,
		CustomerRetention,
		AverageTicket,
	}
}
