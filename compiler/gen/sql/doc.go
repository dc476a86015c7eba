// Package sql provides the SQL dialect of the Jennifer generator.
//
// Next to the storage-independent <record>_ease.go client, the dialect
// generates:
//
//	{target}/
//	├── {record}_ease_sql.go  # sql.Table descriptor and New<Record>SQLClient
//	└── ease_sql.go           # SQLClients bundling every record client
//
// The generated descriptors bind the clients to the query executor of the
// github.com/syssam/ease/dialect/sql package.
package sql
