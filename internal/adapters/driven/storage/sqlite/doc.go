// Package sqlite provides a SQLite-based implementation of the chat admin
// store interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. It implements the store
// interfaces through a single database connection:
//
//   - ChatGroupStore: chat group persistence (chat_group_dtl table)
//   - ChatHistoryStore: question/answer exchange persistence (chat_history table)
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.docchat/data/chat.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
