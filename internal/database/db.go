package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// schema lists the tables the service needs, in dependency order.  Statements
// are idempotent so Migrate can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS tenants (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		subdomain VARCHAR(63) NOT NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_tenants_subdomain (subdomain)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		tenant_id BIGINT UNSIGNED NOT NULL,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(16) NOT NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email),
		CONSTRAINT fk_users_tenant FOREIGN KEY (tenant_id) REFERENCES tenants(id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_refresh_tokens_hash (token_hash),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users(id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS menu_categories (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		tenant_id BIGINT UNSIGNED NOT NULL,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		color VARCHAR(16) NOT NULL DEFAULT '',
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_menu_categories_tenant_name (tenant_id, name),
		CONSTRAINT fk_menu_categories_tenant FOREIGN KEY (tenant_id) REFERENCES tenants(id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		tenant_id BIGINT UNSIGNED NOT NULL,
		category_id BIGINT UNSIGNED NOT NULL,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		price_cents INT UNSIGNED NOT NULL DEFAULT 0,
		image_url VARCHAR(512) NOT NULL DEFAULT '',
		preparation_time INT NOT NULL DEFAULT 0,
		is_available TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_menu_items_category (category_id),
		CONSTRAINT fk_menu_items_tenant FOREIGN KEY (tenant_id) REFERENCES tenants(id),
		CONSTRAINT fk_menu_items_category FOREIGN KEY (category_id) REFERENCES menu_categories(id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS menu_modifiers (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		tenant_id BIGINT UNSIGNED NOT NULL,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		price_cents INT UNSIGNED NOT NULL DEFAULT 0,
		is_available TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_menu_modifiers_tenant_name (tenant_id, name),
		CONSTRAINT fk_menu_modifiers_tenant FOREIGN KEY (tenant_id) REFERENCES tenants(id)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS menu_item_modifiers (
		menu_item_id BIGINT UNSIGNED NOT NULL,
		modifier_id BIGINT UNSIGNED NOT NULL,
		PRIMARY KEY (menu_item_id, modifier_id),
		CONSTRAINT fk_mim_item FOREIGN KEY (menu_item_id) REFERENCES menu_items(id) ON DELETE CASCADE,
		CONSTRAINT fk_mim_modifier FOREIGN KEY (modifier_id) REFERENCES menu_modifiers(id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
}

// Migrate creates any missing tables.  It is safe to run repeatedly.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
