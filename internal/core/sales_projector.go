package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ProjectSales rolls weekly stock forward for every product with sales
// observations. Arrivals come from the derived orders' resolved arrival
// dates mapped onto the calendar; manual stockStart and finalSales values on
// an observation override the projection for that week. Rows are returned
// sorted by product id, then week number.
func (e *Engine) ProjectSales(salesWeeks []SalesWeek, orders []PurchaseOrderDerived, cal *WeekCalendar, params Parameters) []SalesWeekDerived {
	arrivals := arrivalsByProductWeek(orders, cal)

	byProduct := make(map[string][]SalesWeek)
	for _, row := range salesWeeks {
		if row.ProductID == "" {
			continue
		}
		byProduct[row.ProductID] = append(byProduct[row.ProductID], row)
	}
	productIDs := make([]string, 0, len(byProduct))
	for id := range byProduct {
		productIDs = append(productIDs, id)
	}
	sort.Strings(productIDs)

	var derived []SalesWeekDerived
	for _, productID := range productIDs {
		rows := byProduct[productID]
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].WeekNumber < rows[j].WeekNumber })

		projected := make([]SalesWeekDerived, 0, len(rows))
		prevEnd := decimal.Zero
		lastWeek := 0
		for _, row := range rows {
			if len(projected) > 0 && row.WeekNumber == lastWeek {
				// Duplicate observation for a week; the first one wins.
				continue
			}
			lastWeek = row.WeekNumber

			start := prevEnd
			if row.StockStart != nil {
				start = *row.StockStart
			}
			start = start.Add(arrivals[productID][row.WeekNumber])

			sales := decimal.Zero
			switch {
			case row.FinalSales != nil:
				sales = *row.FinalSales
			case row.ActualSales != nil:
				sales = *row.ActualSales
			case row.ForecastSales != nil:
				sales = *row.ForecastSales
			}
			final := decimal.Min(start, sales)
			if final.IsNegative() {
				final = decimal.Zero
			}
			end := start.Sub(final)
			if end.IsNegative() {
				end = decimal.Zero
			}

			d := SalesWeekDerived{
				ProductID:     productID,
				WeekNumber:    row.WeekNumber,
				StockStart:    start,
				Arrivals:      arrivals[productID][row.WeekNumber],
				ActualSales:   valueOrZero(row.ActualSales),
				ForecastSales: valueOrZero(row.ForecastSales),
				FinalSales:    final,
				StockEnd:      end,
			}
			if row.WeekDate != nil {
				wd := dayUTC(*row.WeekDate)
				d.WeekDate = &wd
			} else if date, ok := cal.DateForWeek(row.WeekNumber); ok {
				d.WeekDate = &date
			}
			projected = append(projected, d)
			prevEnd = end
		}

		fillStockWeeks(projected, params.StockWarningWeeks)
		derived = append(derived, projected...)
	}
	return derived
}

// arrivalsByProductWeek buckets derived order quantities by the calendar week
// of their arrival date. Orders whose arrival falls outside the calendar
// contribute nothing.
func arrivalsByProductWeek(orders []PurchaseOrderDerived, cal *WeekCalendar) map[string]map[int]decimal.Decimal {
	arrivals := make(map[string]map[int]decimal.Decimal)
	for _, o := range orders {
		week, ok := cal.WeekForDate(o.ArrivalDate())
		if !ok {
			continue
		}
		if arrivals[o.ProductID] == nil {
			arrivals[o.ProductID] = make(map[int]decimal.Decimal)
		}
		arrivals[o.ProductID][week] = arrivals[o.ProductID][week].Add(o.Quantity)
	}
	return arrivals
}

// fillStockWeeks runs the second, forward-scanning pass over one product's
// projected rows: for row i the cover is the distance to the first week j≥i
// whose stock ends at or below zero, inclusive. A row that is already flat
// (no stock, no sales) has zero cover; a product that never depletes keeps
// nil. The scan is quadratic in the worst case, which is fine at tens of
// products and ~100 weeks.
func fillStockWeeks(rows []SalesWeekDerived, warningWeeks int) {
	for i := range rows {
		if rows[i].StockStart.IsZero() && rows[i].FinalSales.IsZero() && rows[i].StockEnd.IsZero() {
			weeks := 0
			rows[i].StockWeeks = &weeks
			rows[i].LowStock = true
			continue
		}
		for j := i; j < len(rows); j++ {
			if rows[j].StockEnd.LessThanOrEqual(decimal.Zero) {
				weeks := j - i + 1
				rows[i].StockWeeks = &weeks
				rows[i].LowStock = weeks <= warningWeeks
				break
			}
		}
	}
}

func valueOrZero(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}
