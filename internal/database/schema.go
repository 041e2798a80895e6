package database

const schema = `
CREATE TABLE page_cache (
	url TEXT PRIMARY KEY,
	key TEXT NOT NULL,
	size INTEGER NOT NULL DEFAULT 0,
	status INTEGER NOT NULL DEFAULT 0,
	fetched_at TIMESTAMP NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX idx_page_cache_key ON page_cache(key);
CREATE INDEX idx_page_cache_fetched_at ON page_cache(fetched_at);
`

// migrations contains incremental schema changes applied in order based on
// the current user_version. migrations[0] is empty because version 0 uses
// the base schema.
var migrations = []string{
	"",
}
