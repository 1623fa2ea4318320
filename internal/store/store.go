// Package store is the reference PostgreSQL implementation of the snapshot
// collaborator: it assembles the engine's input from the raw planning tables
// and replaces the derived tables wholesale after each run.
//
// The table layout here exists for the cmd tools and integration tests. A
// production deployment owns its own schema and sync surface; it only needs
// to satisfy app.SnapshotStore.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/progami/ecom-os-sub001/internal/core"
)

// SnapshotStore loads planning input from PostgreSQL and persists derived
// plans back. Safe for concurrent use; all state lives in the pool.
type SnapshotStore struct {
	pool *pgxpool.Pool
}

func NewSnapshotStore(pool *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// LoadSnapshot assembles one consistent engine input from the raw tables.
// All reads share a repeatable-read transaction so concurrent edits cannot
// tear the snapshot. AsOf is stamped with the current UTC time so arrival
// countdowns are live.
func (s *SnapshotStore) LoadSnapshot(ctx context.Context) (*core.Snapshot, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	snapshot := &core.Snapshot{AsOf: time.Now().UTC()}
	if snapshot.Products, err = loadProducts(ctx, tx); err != nil {
		return nil, err
	}
	if snapshot.Parameters, err = loadParameters(ctx, tx); err != nil {
		return nil, err
	}
	if snapshot.PurchaseOrders, err = loadPurchaseOrders(ctx, tx); err != nil {
		return nil, err
	}
	if snapshot.SalesWeeks, err = loadSalesWeeks(ctx, tx); err != nil {
		return nil, err
	}
	if snapshot.CogsAllocations, err = loadCogsAllocations(ctx, tx); err != nil {
		return nil, err
	}
	if snapshot.PLOverrides, err = loadProfitLossOverrides(ctx, tx); err != nil {
		return nil, err
	}
	if snapshot.CashOverrides, err = loadCashFlowOverrides(ctx, tx); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to close snapshot transaction: %w", err)
	}
	return snapshot, nil
}

func loadProducts(ctx context.Context, tx pgx.Tx) ([]core.Product, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, name, sku, selling_price, manufacturing_cost, freight_cost,
		       tariff_rate, tacos_percent, fba_fee, amazon_referral_rate,
		       storage_per_month,
		       production_weeks, source_prep_weeks, ocean_weeks, final_mile_weeks
		FROM products
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []core.Product
	for rows.Next() {
		var p core.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.SKU, &p.SellingPrice, &p.ManufacturingCost,
			&p.FreightCost, &p.TariffRate, &p.TacosPercent, &p.FBAFee, &p.AmazonReferralRate,
			&p.StoragePerMonth,
			&p.ProductionWeeks, &p.SourcePrepWeeks, &p.OceanWeeks, &p.FinalMileWeeks); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}
	return products, nil
}

func loadParameters(ctx context.Context, tx pgx.Tx) ([]core.BusinessParameter, error) {
	rows, err := tx.Query(ctx, `
		SELECT label, value_numeric, value_text
		FROM business_parameters
		ORDER BY label
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query business parameters: %w", err)
	}
	defer rows.Close()

	var params []core.BusinessParameter
	for rows.Next() {
		var bp core.BusinessParameter
		if err := rows.Scan(&bp.Label, &bp.ValueNumeric, &bp.ValueText); err != nil {
			return nil, fmt.Errorf("failed to scan business parameter: %w", err)
		}
		params = append(params, bp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read business parameters: %w", err)
	}
	return params, nil
}

func loadPurchaseOrders(ctx context.Context, tx pgx.Tx) ([]core.PurchaseOrder, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, order_code, product_id, quantity, created_at, po_date,
		       production_start, production_complete, source_departure,
		       port_eta, inbound_eta, available_date,
		       production_weeks, source_prep_weeks, ocean_weeks, final_mile_weeks,
		       manufacturing_cost, freight_cost, tariff_rate
		FROM purchase_orders
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []core.PurchaseOrder
	byID := make(map[string]int)
	for rows.Next() {
		var po core.PurchaseOrder
		if err := rows.Scan(&po.ID, &po.OrderCode, &po.ProductID, &po.Quantity,
			&po.CreatedAt, &po.PODate,
			&po.ProductionStart, &po.ProductionComplete, &po.SourceDeparture,
			&po.PortEta, &po.InboundEta, &po.AvailableDate,
			&po.ProductionWeeksOverride, &po.SourcePrepWeeksOverride,
			&po.OceanWeeksOverride, &po.FinalMileWeeksOverride,
			&po.ManufacturingCostOverride, &po.FreightCostOverride, &po.TariffRateOverride); err != nil {
			return nil, fmt.Errorf("failed to scan purchase order: %w", err)
		}
		byID[po.ID] = len(orders)
		orders = append(orders, po)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read purchase orders: %w", err)
	}

	if err := attachBatches(ctx, tx, orders, byID); err != nil {
		return nil, err
	}
	if err := attachPayments(ctx, tx, orders, byID); err != nil {
		return nil, err
	}
	return orders, nil
}

func attachBatches(ctx context.Context, tx pgx.Tx, orders []core.PurchaseOrder, byID map[string]int) error {
	rows, err := tx.Query(ctx, `
		SELECT order_id, id, product_id, quantity,
		       manufacturing_cost, freight_cost, tariff_rate, tariff_unit_cost
		FROM purchase_order_batches
		ORDER BY order_id, id
	`)
	if err != nil {
		return fmt.Errorf("failed to query order batches: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var b core.PurchaseOrderBatch
		if err := rows.Scan(&orderID, &b.ID, &b.ProductID, &b.Quantity,
			&b.ManufacturingCostOverride, &b.FreightCostOverride,
			&b.TariffRateOverride, &b.TariffUnitCostOverride); err != nil {
			return fmt.Errorf("failed to scan order batch: %w", err)
		}
		if i, ok := byID[orderID]; ok {
			orders[i].Batches = append(orders[i].Batches, b)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read order batches: %w", err)
	}
	return nil
}

func attachPayments(ctx context.Context, tx pgx.Tx, orders []core.PurchaseOrder, byID map[string]int) error {
	rows, err := tx.Query(ctx, `
		SELECT order_id, payment_index, percentage, amount_override,
		       amount_expected, amount_paid, due_date, due_date_source
		FROM purchase_order_payments
		ORDER BY order_id, payment_index
	`)
	if err != nil {
		return fmt.Errorf("failed to query order payments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID, source string
		var p core.PaymentRecord
		if err := rows.Scan(&orderID, &p.Index, &p.Percentage, &p.AmountOverride,
			&p.AmountExpected, &p.AmountPaid, &p.DueDate, &source); err != nil {
			return fmt.Errorf("failed to scan order payment: %w", err)
		}
		p.DueDateSource = core.DueDateSource(source)
		if i, ok := byID[orderID]; ok {
			orders[i].Payments = append(orders[i].Payments, p)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read order payments: %w", err)
	}
	return nil
}

func loadSalesWeeks(ctx context.Context, tx pgx.Tx) ([]core.SalesWeek, error) {
	rows, err := tx.Query(ctx, `
		SELECT product_id, week_number, week_date,
		       stock_start, actual_sales, forecast_sales, final_sales
		FROM sales_weeks
		ORDER BY product_id, week_number
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales weeks: %w", err)
	}
	defer rows.Close()

	var weeks []core.SalesWeek
	for rows.Next() {
		var sw core.SalesWeek
		if err := rows.Scan(&sw.ProductID, &sw.WeekNumber, &sw.WeekDate,
			&sw.StockStart, &sw.ActualSales, &sw.ForecastSales, &sw.FinalSales); err != nil {
			return nil, fmt.Errorf("failed to scan sales week: %w", err)
		}
		weeks = append(weeks, sw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sales weeks: %w", err)
	}
	return weeks, nil
}

func loadCogsAllocations(ctx context.Context, tx pgx.Tx) ([]core.CogsAllocation, error) {
	rows, err := tx.Query(ctx, `
		SELECT product_id, week_number, order_ref, units, unit_cost
		FROM cogs_allocations
		ORDER BY product_id, week_number, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cogs allocations: %w", err)
	}
	defer rows.Close()

	var allocations []core.CogsAllocation
	for rows.Next() {
		var a core.CogsAllocation
		if err := rows.Scan(&a.ProductID, &a.WeekNumber, &a.OrderRef, &a.Units, &a.UnitCost); err != nil {
			return nil, fmt.Errorf("failed to scan cogs allocation: %w", err)
		}
		allocations = append(allocations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cogs allocations: %w", err)
	}
	return allocations, nil
}

func loadProfitLossOverrides(ctx context.Context, tx pgx.Tx) ([]core.ProfitLossOverride, error) {
	rows, err := tx.Query(ctx, `
		SELECT week_number, units, revenue, cogs, amazon_fees, ppc_spend,
		       fixed_costs, total_opex, net_profit, gross_margin
		FROM profit_loss_overrides
		ORDER BY week_number
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query profit and loss overrides: %w", err)
	}
	defer rows.Close()

	var overrides []core.ProfitLossOverride
	for rows.Next() {
		var ov core.ProfitLossOverride
		if err := rows.Scan(&ov.WeekNumber, &ov.Units, &ov.Revenue, &ov.Cogs,
			&ov.AmazonFees, &ov.PPCSpend, &ov.FixedCosts, &ov.TotalOpex,
			&ov.NetProfit, &ov.GrossMargin); err != nil {
			return nil, fmt.Errorf("failed to scan profit and loss override: %w", err)
		}
		overrides = append(overrides, ov)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read profit and loss overrides: %w", err)
	}
	return overrides, nil
}

func loadCashFlowOverrides(ctx context.Context, tx pgx.Tx) ([]core.CashFlowOverride, error) {
	rows, err := tx.Query(ctx, `
		SELECT week_number, amazon_payout, inventory_spend, fixed_costs,
		       net_cash, cash_balance
		FROM cash_flow_overrides
		ORDER BY week_number
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash flow overrides: %w", err)
	}
	defer rows.Close()

	var overrides []core.CashFlowOverride
	for rows.Next() {
		var ov core.CashFlowOverride
		if err := rows.Scan(&ov.WeekNumber, &ov.AmazonPayout, &ov.InventorySpend,
			&ov.FixedCosts, &ov.NetCash, &ov.CashBalance); err != nil {
			return nil, fmt.Errorf("failed to scan cash flow override: %w", err)
		}
		overrides = append(overrides, ov)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cash flow overrides: %w", err)
	}
	return overrides, nil
}
