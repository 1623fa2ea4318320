package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/progami/ecom-os-sub001/internal/core"
)

// ReplaceDerived swaps the derived tables to match the given plan inside one
// transaction, so readers never observe a half-written plan. Each replace
// also appends a row to derived_runs for auditing.
func (s *SnapshotStore) ReplaceDerived(ctx context.Context, plan *core.Plan) error {
	if plan == nil {
		return fmt.Errorf("replace derived: nil plan")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM derived_payment_plan;
		DELETE FROM derived_purchase_orders;
		DELETE FROM derived_product_costs;
		DELETE FROM derived_sales_weeks;
		DELETE FROM derived_profit_loss;
		DELETE FROM derived_profit_loss_periods;
		DELETE FROM derived_cash_flow;
		DELETE FROM derived_cash_flow_periods;
	`)
	if err != nil {
		return fmt.Errorf("failed to clear derived tables: %w", err)
	}

	if err := insertProductCosts(ctx, tx, plan.CostSummaries); err != nil {
		return err
	}
	if err := insertDerivedOrders(ctx, tx, plan.Orders); err != nil {
		return err
	}
	if err := insertDerivedSalesWeeks(ctx, tx, plan.SalesWeeks); err != nil {
		return err
	}
	if err := insertProfitLoss(ctx, tx, plan.ProfitLoss); err != nil {
		return err
	}
	if err := insertCashFlow(ctx, tx, plan.CashFlow); err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO derived_runs (order_count, sales_week_count, statement_week_count)
		VALUES ($1, $2, $3)
	`, len(plan.Orders), len(plan.SalesWeeks), len(plan.ProfitLoss.Weeks))
	if err != nil {
		return fmt.Errorf("failed to record derived run: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit derived plan: %w", err)
	}
	return nil
}

func insertProductCosts(ctx context.Context, tx pgx.Tx, summaries []core.ProductCostSummary) error {
	for _, c := range summaries {
		if _, err := tx.Exec(ctx, `
			INSERT INTO derived_product_costs (
				product_id, name, sku, selling_price,
				manufacturing_cost, freight_cost, tariff_cost, fba_fee, storage_per_month,
				advertising_cost, amazon_referral_fee,
				landed_unit_cost, gross_contribution, gross_margin_percent
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
			c.ProductID, c.Name, c.SKU, c.SellingPrice,
			c.ManufacturingCost, c.FreightCost, c.TariffCost, c.FBAFee, c.StoragePerMonth,
			c.AdvertisingCost, c.AmazonReferralFee,
			c.LandedUnitCost, c.GrossContribution, c.GrossMarginPercent,
		); err != nil {
			return fmt.Errorf("failed to insert cost summary for %s: %w", c.ProductID, err)
		}
	}
	return nil
}

func insertDerivedOrders(ctx context.Context, tx pgx.Tx, orders []core.PurchaseOrderDerived) error {
	for _, o := range orders {
		if _, err := tx.Exec(ctx, `
			INSERT INTO derived_purchase_orders (
				order_id, order_code, product_id, quantity,
				production_start, production_complete, source_departure,
				port_eta, inbound_eta, available_date,
				total_lead_days, weeks_until_arrival,
				manufacturing_unit_cost, freight_unit_cost, tariff_unit_cost, landed_unit_cost,
				manufacturing_total, freight_total, tariff_total,
				supplier_cost_total, planned_po_value,
				paid_amount, paid_percent, remaining_amount, remaining_percent,
				total_planned_amount, total_planned_percent
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			          $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`,
			o.OrderID, o.OrderCode, o.ProductID, o.Quantity,
			o.Schedule.ProductionStart, o.Schedule.ProductionComplete, o.Schedule.SourceDeparture,
			o.Schedule.PortEta, o.Schedule.InboundEta, o.Schedule.AvailableDate,
			o.TotalLeadDays, o.WeeksUntilArrival,
			o.ManufacturingUnitCost, o.FreightUnitCost, o.TariffUnitCost, o.LandedUnitCost,
			o.ManufacturingTotal, o.FreightTotal, o.TariffTotal,
			o.SupplierCostTotal, o.PlannedPOValue,
			o.PaidAmount, o.PaidPercent, o.RemainingAmount, o.RemainingPercent,
			o.TotalPlannedAmount, o.TotalPlannedPercent,
		); err != nil {
			return fmt.Errorf("failed to insert derived order %s: %w", o.OrderID, err)
		}

		for _, item := range o.PaymentPlan {
			if _, err := tx.Exec(ctx, `
				INSERT INTO derived_payment_plan (
					order_id, payment_index, category, label,
					planned_amount, planned_percent, amount_paid,
					due_date, due_date_source
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				o.OrderID, item.Index, string(item.Category), item.Label,
				item.PlannedAmount, item.PlannedPercent, item.AmountPaid,
				item.DueDate, string(item.DueDateSource),
			); err != nil {
				return fmt.Errorf("failed to insert payment plan line %d for %s: %w", item.Index, o.OrderID, err)
			}
		}
	}
	return nil
}

func insertDerivedSalesWeeks(ctx context.Context, tx pgx.Tx, weeks []core.SalesWeekDerived) error {
	for _, w := range weeks {
		if _, err := tx.Exec(ctx, `
			INSERT INTO derived_sales_weeks (
				product_id, week_number, week_date,
				stock_start, arrivals, actual_sales, forecast_sales, final_sales,
				stock_end, stock_weeks, low_stock
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			w.ProductID, w.WeekNumber, w.WeekDate,
			w.StockStart, w.Arrivals, w.ActualSales, w.ForecastSales, w.FinalSales,
			w.StockEnd, w.StockWeeks, w.LowStock,
		); err != nil {
			return fmt.Errorf("failed to insert derived sales week %s/%d: %w", w.ProductID, w.WeekNumber, err)
		}
	}
	return nil
}

func insertProfitLoss(ctx context.Context, tx pgx.Tx, statement core.ProfitLossStatement) error {
	for _, w := range statement.Weeks {
		if _, err := tx.Exec(ctx, `
			INSERT INTO derived_profit_loss (
				week_number, week_date, units, revenue, cogs, gross_profit,
				amazon_fees, ppc_spend, fixed_costs, total_opex, net_profit, gross_margin
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			w.WeekNumber, w.WeekDate, w.Units, w.Revenue, w.Cogs, w.GrossProfit,
			w.AmazonFees, w.PPCSpend, w.FixedCosts, w.TotalOpex, w.NetProfit, w.GrossMargin,
		); err != nil {
			return fmt.Errorf("failed to insert profit and loss week %d: %w", w.WeekNumber, err)
		}
	}
	if err := insertProfitLossPeriods(ctx, tx, "month", statement.Months); err != nil {
		return err
	}
	return insertProfitLossPeriods(ctx, tx, "quarter", statement.Quarters)
}

func insertProfitLossPeriods(ctx context.Context, tx pgx.Tx, granularity string, periods []core.ProfitLossSummary) error {
	for _, p := range periods {
		if _, err := tx.Exec(ctx, `
			INSERT INTO derived_profit_loss_periods (
				granularity, period_key, label, units, revenue, cogs, gross_profit,
				amazon_fees, ppc_spend, fixed_costs, total_opex, net_profit, gross_margin
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			granularity, p.PeriodKey, p.Label, p.Units, p.Revenue, p.Cogs, p.GrossProfit,
			p.AmazonFees, p.PPCSpend, p.FixedCosts, p.TotalOpex, p.NetProfit, p.GrossMargin,
		); err != nil {
			return fmt.Errorf("failed to insert profit and loss %s %s: %w", granularity, p.Label, err)
		}
	}
	return nil
}

func insertCashFlow(ctx context.Context, tx pgx.Tx, statement core.CashFlowStatement) error {
	for _, w := range statement.Weeks {
		if _, err := tx.Exec(ctx, `
			INSERT INTO derived_cash_flow (
				week_number, week_date, amazon_payout, inventory_spend,
				fixed_costs, net_cash, cash_balance
			) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			w.WeekNumber, w.WeekDate, w.AmazonPayout, w.InventorySpend,
			w.FixedCosts, w.NetCash, w.CashBalance,
		); err != nil {
			return fmt.Errorf("failed to insert cash flow week %d: %w", w.WeekNumber, err)
		}
	}
	if err := insertCashFlowPeriods(ctx, tx, "month", statement.Months); err != nil {
		return err
	}
	return insertCashFlowPeriods(ctx, tx, "quarter", statement.Quarters)
}

func insertCashFlowPeriods(ctx context.Context, tx pgx.Tx, granularity string, periods []core.CashFlowSummary) error {
	for _, p := range periods {
		if _, err := tx.Exec(ctx, `
			INSERT INTO derived_cash_flow_periods (
				granularity, period_key, label, amazon_payout, inventory_spend,
				fixed_costs, net_cash, closing_balance
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			granularity, p.PeriodKey, p.Label, p.AmazonPayout, p.InventorySpend,
			p.FixedCosts, p.NetCash, p.ClosingBalance,
		); err != nil {
			return fmt.Errorf("failed to insert cash flow %s %s: %w", granularity, p.Label, err)
		}
	}
	return nil
}
