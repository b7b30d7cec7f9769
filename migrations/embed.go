// migrations содержит SQL-миграции схемы в формате goose.
package migrations

import "embed"

// FS - встроенные файлы миграций.
//
//go:embed *.sql
var FS embed.FS
