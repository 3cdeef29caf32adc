package config

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// DSN 生成 MySQL 连接串
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4", d.Username, d.Password, d.Host, d.Name)
}

// ConnectDB 连接数据库
func ConnectDB(cfg DatabaseConfig) (*sql.DB, error) {
	return sql.Open("mysql", cfg.DSN())
}

// InitDB 初始化数据库连接并执行迁移
func InitDB(cfg DatabaseConfig, logger *zap.Logger) (*sql.DB, error) {
	db, err := ConnectDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err = Migrate(db, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("database connected and migrated", zap.String("host", cfg.Host), zap.String("name", cfg.Name))
	return db, nil
}

// Migration 迁移结构
type Migration struct {
	Name string
	SQL  string
}

// Migrate 执行所有未执行的迁移
func Migrate(db *sql.DB, logger *zap.Logger) error {
	// 创建 migrations 表用于跟踪迁移状态
	if err := createMigrationsTable(db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, migration := range Migrations() {
		if err := runMigrationIfNotExists(db, migration, logger); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", migration.Name, err)
		}
	}
	return nil
}

// createMigrationsTable 创建迁移表
func createMigrationsTable(db *sql.DB) error {
	createSQL := `
	CREATE TABLE IF NOT EXISTS migrations (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)
	`
	_, err := db.Exec(createSQL)
	return err
}

// Migrations 获取所有迁移
func Migrations() []Migration {
	return []Migration{
		{
			Name: "001_create_users_table",
			SQL: `
			CREATE TABLE IF NOT EXISTS users (
				id INT AUTO_INCREMENT PRIMARY KEY,
				username VARCHAR(255) NOT NULL UNIQUE,
				password VARCHAR(255) NOT NULL,
				role INT DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
			`,
		},
		{
			Name: "002_create_dose_records_table",
			SQL: `
			CREATE TABLE IF NOT EXISTS dose_records (
				id INT AUTO_INCREMENT PRIMARY KEY,
				user_id INT NOT NULL,
				share_code VARCHAR(32) NOT NULL UNIQUE,
				volume DOUBLE NOT NULL,
				unit VARCHAR(8) NOT NULL,
				application_id VARCHAR(64) NOT NULL,
				concentrate_mode VARCHAR(16) NOT NULL,
				dose_ml DOUBLE NOT NULL,
				dose_drops DOUBLE NOT NULL,
				summary TEXT,
				note VARCHAR(255),
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				INDEX idx_user_id (user_id),
				INDEX idx_application_id (application_id),
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			)
			`,
		},
	}
}

// runMigrationIfNotExists 如果迁移不存在则运行
func runMigrationIfNotExists(db *sql.DB, migration Migration, logger *zap.Logger) error {
	// 检查迁移是否已执行
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM migrations WHERE name = ?", migration.Name).Scan(&count)
	if err != nil {
		return err
	}

	if count > 0 {
		logger.Debug("migration already executed, skipping", zap.String("migration", migration.Name))
		return nil
	}

	logger.Info("running migration", zap.String("migration", migration.Name))
	if _, err := db.Exec(migration.SQL); err != nil {
		return err
	}

	// 记录迁移已执行
	_, err = db.Exec("INSERT INTO migrations (name) VALUES (?)", migration.Name)
	return err
}
