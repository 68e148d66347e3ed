// Package impl contains the implementation of the application's business logic.
package impl

import "blitzshop/config"

const (
	fallbackPageSize    = 20
	fallbackMaxPageSize = 100
)

// normalizePaging clamps page and pageSize to sane values and returns the
// resulting offset alongside them.
func normalizePaging(cfg *config.Config, page, pageSize int) (normPage, normSize, offset int) {
	defaultSize := fallbackPageSize
	maxSize := fallbackMaxPageSize
	if cfg != nil && cfg.Catalog != nil {
		if cfg.Catalog.DefaultPageSize > 0 {
			defaultSize = cfg.Catalog.DefaultPageSize
		}
		if cfg.Catalog.MaxPageSize > 0 {
			maxSize = cfg.Catalog.MaxPageSize
		}
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}

	return page, pageSize, (page - 1) * pageSize
}
