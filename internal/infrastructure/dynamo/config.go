package dynamo

// Config holds table and index names for the SKU table.
type Config struct {
	// Table is the SKU table, hash key sku_id (N).
	// Default: "skus"
	Table string

	// WarehouseIndex is the GSI keyed on warehouse_id. Records without a
	// warehouse_id are not indexed.
	// Default: "warehouse_id-index"
	WarehouseIndex string

	// ItemIndex is the GSI keyed on item_id.
	// Default: "item_id-index"
	ItemIndex string
}

// DefaultConfig returns the table layout created by EnsureTable.
func DefaultConfig() Config {
	return Config{
		Table:          "skus",
		WarehouseIndex: "warehouse_id-index",
		ItemIndex:      "item_id-index",
	}
}

func (c *Config) validate() {
	d := DefaultConfig()
	if c.Table == "" {
		c.Table = d.Table
	}
	if c.WarehouseIndex == "" {
		c.WarehouseIndex = d.WarehouseIndex
	}
	if c.ItemIndex == "" {
		c.ItemIndex = d.ItemIndex
	}
}
