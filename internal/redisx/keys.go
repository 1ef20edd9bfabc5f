package redisx

import "time"

const (
	// Pending shortage resolution: console:resolution:{resolution_id} -> pending submission JSON
	KeyResolution = "console:resolution:%s"

	// Stock availability cache: console:stock:{store_id}:{item_set} -> check result JSON
	KeyStockCheck = "console:stock:%s:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Category tree cache (single key, whole tree JSON)
	KeyCategoryTree = "console:categories:tree"

	// Table view preferences: console:prefs:{user_id}:{table}
	KeyTablePrefs = "console:prefs:%s:%s"
)

var (
	// A resolution session outliving this is a user who navigated away.
	TTLResolution = 15 * time.Minute

	// Short: the dialog round-trip should not re-hit the backend, stale
	// stock beyond that is the create endpoint's problem.
	TTLStockCheck = 30 * time.Second

	TTLDedup        = 48 * time.Hour
	TTLCategoryTree = 5 * time.Minute
)
