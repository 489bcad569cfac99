package coverage

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Open opens a coverage source by file extension: SQLite databases need a
// table name, anything else is read as GeoJSON.
func Open(path, table string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".gpkg":
		if table == "" {
			return nil, fmt.Errorf("a table name is required for SQLite coverage %s", path)
		}
		return OpenSQLite(path, table)
	default:
		return OpenGeoJSON(path)
	}
}
