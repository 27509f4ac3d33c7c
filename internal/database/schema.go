package database

import (
	"database/sql"
	"fmt"
)

// Migrate creates the schema for the given driver ("mysql" or "sqlite")
// if it does not exist yet. Statements are idempotent so startup can run
// this unconditionally.
func Migrate(db *sql.DB, driver string) error {
	var stmts []string
	switch driver {
	case "mysql":
		stmts = mysqlSchema
	case "sqlite":
		stmts = sqliteSchema
	default:
		return fmt.Errorf("unsupported driver %q", driver)
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS viewers (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		age INT NOT NULL,
		gender VARCHAR(32) NOT NULL,
		image MEDIUMBLOB NULL,
		image_path VARCHAR(255) NULL
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS sellers (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		age INT NOT NULL,
		gender VARCHAR(32) NOT NULL,
		position VARCHAR(100) NOT NULL DEFAULT '',
		salary DOUBLE NOT NULL DEFAULT 0,
		image MEDIUMBLOB NULL,
		image_path VARCHAR(255) NULL
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		movie_title VARCHAR(255) NOT NULL,
		seat_number VARCHAR(16) NOT NULL,
		purchase_time DATETIME NULL,
		show_time DATETIME NOT NULL
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		viewer_id BIGINT UNSIGNED NOT NULL,
		ticket_id BIGINT UNSIGNED NOT NULL,
		seller_id BIGINT UNSIGNED NOT NULL,
		order_date DATETIME NOT NULL,
		FOREIGN KEY (viewer_id) REFERENCES viewers(id),
		FOREIGN KEY (ticket_id) REFERENCES tickets(id),
		FOREIGN KEY (seller_id) REFERENCES sellers(id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS staff_accounts (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(16) NOT NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 1
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		staff_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (staff_id) REFERENCES staff_accounts(id),
		INDEX idx_refresh_tokens_hash (token_hash)
	) ENGINE=InnoDB`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS viewers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		age INTEGER NOT NULL,
		gender TEXT NOT NULL,
		image BLOB,
		image_path TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS sellers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		age INTEGER NOT NULL,
		gender TEXT NOT NULL,
		position TEXT NOT NULL DEFAULT '',
		salary REAL NOT NULL DEFAULT 0,
		image BLOB,
		image_path TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		movie_title TEXT NOT NULL,
		seat_number TEXT NOT NULL,
		purchase_time DATETIME,
		show_time DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		viewer_id INTEGER NOT NULL REFERENCES viewers(id),
		ticket_id INTEGER NOT NULL REFERENCES tickets(id),
		seller_id INTEGER NOT NULL REFERENCES sellers(id),
		order_date DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS staff_accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		staff_id INTEGER NOT NULL REFERENCES staff_accounts(id),
		token_hash TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_hash ON refresh_tokens(token_hash)`,
}
