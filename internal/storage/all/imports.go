// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete storage backend to run,
// which in turn register their factories with the storage package.
//
// Importing this package makes the following storage kinds available:
//
//   - "mysql"    (popetl/internal/storage/mysql)
//   - "postgres" (popetl/internal/storage/postgres)
//   - "mssql"    (popetl/internal/storage/mssql)
//   - "sqlite"   (popetl/internal/storage/sqlite)
//
// A binary that needs only a subset of backends can import those packages
// directly instead.
package all

import (
	_ "popetl/internal/storage/mssql"
	_ "popetl/internal/storage/mysql"
	_ "popetl/internal/storage/postgres"
	_ "popetl/internal/storage/sqlite"
)
