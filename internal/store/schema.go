package store

import (
	"context"
	"fmt"
)

// EnsureSchema creates the reference tables when they do not exist yet. It
// is idempotent and safe to run on every startup of the cmd tools.
func (s *SnapshotStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create planning tables: %w", err)
	}
	return nil
}

// schemaSQL is the reference layout: raw input tables mirrored from the sync
// surface, plus derived_* tables replaced wholesale on every plan run.
// NUMERIC keeps decimal values exact end to end.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS products (
	id                   TEXT PRIMARY KEY,
	name                 TEXT NOT NULL DEFAULT '',
	sku                  TEXT NOT NULL DEFAULT '',
	selling_price        NUMERIC NOT NULL DEFAULT 0,
	manufacturing_cost   NUMERIC NOT NULL DEFAULT 0,
	freight_cost         NUMERIC NOT NULL DEFAULT 0,
	tariff_rate          NUMERIC NOT NULL DEFAULT 0,
	tacos_percent        NUMERIC NOT NULL DEFAULT 0,
	fba_fee              NUMERIC NOT NULL DEFAULT 0,
	amazon_referral_rate NUMERIC NOT NULL DEFAULT 0,
	storage_per_month    NUMERIC NOT NULL DEFAULT 0,
	production_weeks     NUMERIC,
	source_prep_weeks    NUMERIC,
	ocean_weeks          NUMERIC,
	final_mile_weeks     NUMERIC
);

CREATE TABLE IF NOT EXISTS business_parameters (
	label         TEXT PRIMARY KEY,
	value_numeric NUMERIC,
	value_text    TEXT
);

CREATE TABLE IF NOT EXISTS purchase_orders (
	id                  TEXT PRIMARY KEY,
	order_code          TEXT NOT NULL DEFAULT '',
	product_id          TEXT NOT NULL,
	quantity            NUMERIC NOT NULL DEFAULT 0,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	po_date             DATE,
	production_start    DATE,
	production_complete DATE,
	source_departure    DATE,
	port_eta            DATE,
	inbound_eta         DATE,
	available_date      DATE,
	production_weeks    NUMERIC,
	source_prep_weeks   NUMERIC,
	ocean_weeks         NUMERIC,
	final_mile_weeks    NUMERIC,
	manufacturing_cost  NUMERIC,
	freight_cost        NUMERIC,
	tariff_rate         NUMERIC
);

CREATE TABLE IF NOT EXISTS purchase_order_batches (
	id                 TEXT PRIMARY KEY,
	order_id           TEXT NOT NULL REFERENCES purchase_orders(id) ON DELETE CASCADE,
	product_id         TEXT NOT NULL,
	quantity           NUMERIC NOT NULL DEFAULT 0,
	manufacturing_cost NUMERIC,
	freight_cost       NUMERIC,
	tariff_rate        NUMERIC,
	tariff_unit_cost   NUMERIC
);

CREATE TABLE IF NOT EXISTS purchase_order_payments (
	order_id        TEXT NOT NULL REFERENCES purchase_orders(id) ON DELETE CASCADE,
	payment_index   INT NOT NULL,
	percentage      NUMERIC,
	amount_override NUMERIC,
	amount_expected NUMERIC,
	amount_paid     NUMERIC,
	due_date        DATE,
	due_date_source TEXT NOT NULL DEFAULT 'SYSTEM',
	PRIMARY KEY (order_id, payment_index)
);

CREATE TABLE IF NOT EXISTS sales_weeks (
	product_id     TEXT NOT NULL,
	week_number    INT NOT NULL,
	week_date      DATE,
	stock_start    NUMERIC,
	actual_sales   NUMERIC,
	forecast_sales NUMERIC,
	final_sales    NUMERIC,
	PRIMARY KEY (product_id, week_number)
);

CREATE TABLE IF NOT EXISTS cogs_allocations (
	id          BIGSERIAL PRIMARY KEY,
	product_id  TEXT NOT NULL,
	week_number INT NOT NULL,
	order_ref   TEXT NOT NULL DEFAULT '',
	units       NUMERIC NOT NULL DEFAULT 0,
	unit_cost   NUMERIC NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS profit_loss_overrides (
	week_number  INT PRIMARY KEY,
	units        NUMERIC,
	revenue      NUMERIC,
	cogs         NUMERIC,
	amazon_fees  NUMERIC,
	ppc_spend    NUMERIC,
	fixed_costs  NUMERIC,
	total_opex   NUMERIC,
	net_profit   NUMERIC,
	gross_margin NUMERIC
);

CREATE TABLE IF NOT EXISTS cash_flow_overrides (
	week_number     INT PRIMARY KEY,
	amazon_payout   NUMERIC,
	inventory_spend NUMERIC,
	fixed_costs     NUMERIC,
	net_cash        NUMERIC,
	cash_balance    NUMERIC
);

CREATE TABLE IF NOT EXISTS derived_product_costs (
	product_id           TEXT PRIMARY KEY,
	name                 TEXT NOT NULL DEFAULT '',
	sku                  TEXT NOT NULL DEFAULT '',
	selling_price        NUMERIC NOT NULL DEFAULT 0,
	manufacturing_cost   NUMERIC NOT NULL DEFAULT 0,
	freight_cost         NUMERIC NOT NULL DEFAULT 0,
	tariff_cost          NUMERIC NOT NULL DEFAULT 0,
	fba_fee              NUMERIC NOT NULL DEFAULT 0,
	storage_per_month    NUMERIC NOT NULL DEFAULT 0,
	advertising_cost     NUMERIC NOT NULL DEFAULT 0,
	amazon_referral_fee  NUMERIC NOT NULL DEFAULT 0,
	landed_unit_cost     NUMERIC NOT NULL DEFAULT 0,
	gross_contribution   NUMERIC NOT NULL DEFAULT 0,
	gross_margin_percent NUMERIC NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS derived_purchase_orders (
	order_id                TEXT PRIMARY KEY,
	order_code              TEXT NOT NULL DEFAULT '',
	product_id              TEXT NOT NULL,
	quantity                NUMERIC NOT NULL DEFAULT 0,
	production_start        DATE NOT NULL,
	production_complete     DATE NOT NULL,
	source_departure        DATE NOT NULL,
	port_eta                DATE NOT NULL,
	inbound_eta             DATE NOT NULL,
	available_date          DATE NOT NULL,
	total_lead_days         INT NOT NULL DEFAULT 0,
	weeks_until_arrival     INT,
	manufacturing_unit_cost NUMERIC NOT NULL DEFAULT 0,
	freight_unit_cost       NUMERIC NOT NULL DEFAULT 0,
	tariff_unit_cost        NUMERIC NOT NULL DEFAULT 0,
	landed_unit_cost        NUMERIC NOT NULL DEFAULT 0,
	manufacturing_total     NUMERIC NOT NULL DEFAULT 0,
	freight_total           NUMERIC NOT NULL DEFAULT 0,
	tariff_total            NUMERIC NOT NULL DEFAULT 0,
	supplier_cost_total     NUMERIC NOT NULL DEFAULT 0,
	planned_po_value        NUMERIC NOT NULL DEFAULT 0,
	paid_amount             NUMERIC NOT NULL DEFAULT 0,
	paid_percent            NUMERIC NOT NULL DEFAULT 0,
	remaining_amount        NUMERIC NOT NULL DEFAULT 0,
	remaining_percent       NUMERIC NOT NULL DEFAULT 0,
	total_planned_amount    NUMERIC NOT NULL DEFAULT 0,
	total_planned_percent   NUMERIC NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS derived_payment_plan (
	order_id        TEXT NOT NULL REFERENCES derived_purchase_orders(order_id) ON DELETE CASCADE,
	payment_index   INT NOT NULL,
	category        TEXT NOT NULL,
	label           TEXT NOT NULL,
	planned_amount  NUMERIC NOT NULL DEFAULT 0,
	planned_percent NUMERIC NOT NULL DEFAULT 0,
	amount_paid     NUMERIC,
	due_date        DATE NOT NULL,
	due_date_source TEXT NOT NULL,
	PRIMARY KEY (order_id, payment_index)
);

CREATE TABLE IF NOT EXISTS derived_sales_weeks (
	product_id     TEXT NOT NULL,
	week_number    INT NOT NULL,
	week_date      DATE,
	stock_start    NUMERIC NOT NULL DEFAULT 0,
	arrivals       NUMERIC NOT NULL DEFAULT 0,
	actual_sales   NUMERIC NOT NULL DEFAULT 0,
	forecast_sales NUMERIC NOT NULL DEFAULT 0,
	final_sales    NUMERIC NOT NULL DEFAULT 0,
	stock_end      NUMERIC NOT NULL DEFAULT 0,
	stock_weeks    INT,
	low_stock      BOOLEAN NOT NULL DEFAULT false,
	PRIMARY KEY (product_id, week_number)
);

CREATE TABLE IF NOT EXISTS derived_profit_loss (
	week_number  INT PRIMARY KEY,
	week_date    DATE,
	units        NUMERIC NOT NULL DEFAULT 0,
	revenue      NUMERIC NOT NULL DEFAULT 0,
	cogs         NUMERIC NOT NULL DEFAULT 0,
	gross_profit NUMERIC NOT NULL DEFAULT 0,
	amazon_fees  NUMERIC NOT NULL DEFAULT 0,
	ppc_spend    NUMERIC NOT NULL DEFAULT 0,
	fixed_costs  NUMERIC NOT NULL DEFAULT 0,
	total_opex   NUMERIC NOT NULL DEFAULT 0,
	net_profit   NUMERIC NOT NULL DEFAULT 0,
	gross_margin NUMERIC NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS derived_profit_loss_periods (
	granularity  TEXT NOT NULL,
	period_key   INT NOT NULL,
	label        TEXT NOT NULL,
	units        NUMERIC NOT NULL DEFAULT 0,
	revenue      NUMERIC NOT NULL DEFAULT 0,
	cogs         NUMERIC NOT NULL DEFAULT 0,
	gross_profit NUMERIC NOT NULL DEFAULT 0,
	amazon_fees  NUMERIC NOT NULL DEFAULT 0,
	ppc_spend    NUMERIC NOT NULL DEFAULT 0,
	fixed_costs  NUMERIC NOT NULL DEFAULT 0,
	total_opex   NUMERIC NOT NULL DEFAULT 0,
	net_profit   NUMERIC NOT NULL DEFAULT 0,
	gross_margin NUMERIC NOT NULL DEFAULT 0,
	PRIMARY KEY (granularity, period_key)
);

CREATE TABLE IF NOT EXISTS derived_cash_flow (
	week_number     INT PRIMARY KEY,
	week_date       DATE,
	amazon_payout   NUMERIC NOT NULL DEFAULT 0,
	inventory_spend NUMERIC NOT NULL DEFAULT 0,
	fixed_costs     NUMERIC NOT NULL DEFAULT 0,
	net_cash        NUMERIC NOT NULL DEFAULT 0,
	cash_balance    NUMERIC NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS derived_cash_flow_periods (
	granularity     TEXT NOT NULL,
	period_key      INT NOT NULL,
	label           TEXT NOT NULL,
	amazon_payout   NUMERIC NOT NULL DEFAULT 0,
	inventory_spend NUMERIC NOT NULL DEFAULT 0,
	fixed_costs     NUMERIC NOT NULL DEFAULT 0,
	net_cash        NUMERIC NOT NULL DEFAULT 0,
	closing_balance NUMERIC NOT NULL DEFAULT 0,
	PRIMARY KEY (granularity, period_key)
);

CREATE TABLE IF NOT EXISTS derived_runs (
	id                   BIGSERIAL PRIMARY KEY,
	generated_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	order_count          INT NOT NULL DEFAULT 0,
	sales_week_count     INT NOT NULL DEFAULT 0,
	statement_week_count INT NOT NULL DEFAULT 0
);
`
