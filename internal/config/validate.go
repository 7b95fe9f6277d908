package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("database.max_conns (%d) must be >= min_conns (%d)",
			c.Database.MaxConns, c.Database.MinConns)
	}
	if err := c.Import.validate(); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	return nil
}

func (c *ImportConfig) validate() error {
	if c.MaxBatchRows <= 0 {
		return fmt.Errorf("max_batch_rows must be > 0 (got %d)", c.MaxBatchRows)
	}
	if c.MaxRawBytes <= 0 {
		return fmt.Errorf("max_raw_bytes must be > 0 (got %d)", c.MaxRawBytes)
	}
	if c.MaxRulesPerClan <= 0 {
		return fmt.Errorf("max_rules_per_clan must be > 0 (got %d)", c.MaxRulesPerClan)
	}
	return nil
}
