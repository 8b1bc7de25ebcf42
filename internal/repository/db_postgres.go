// Package repository contains the repository layer for the Petition API
package repository

import (
	"fmt"

	"github.com/saveourgreen/petitionapi/internal/config"
	"github.com/saveourgreen/petitionapi/internal/models"
	"github.com/saveourgreen/petitionapi/pkg/utils/zaplogger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SchemaName is the Postgres schema holding all petition tables
var SchemaName = "petition"

// SignatureNotifyChannel is the Postgres NOTIFY channel fired on every
// signature insert, consumed by the publish service.
var SignatureNotifyChannel = "petition_signatures"

// ConnectPostgres connects to a Postgres database and returns a GORM database object
func ConnectPostgres(cfg *config.Config) (*gorm.DB, error) {
	zaplogger.Info(config.SingleLine)
	zaplogger.Info("Initializing Postgres")
	zaplogger.Info(config.SingleLine)

	// Set up GORM logger
	var logLevel logger.LogLevel
	switch cfg.PostgresLogLevel {
	case "silent":
		logLevel = logger.Silent
	case "error":
		logLevel = logger.Error
	case "warn":
		logLevel = logger.Warn
	case "info":
		logLevel = logger.Info
	default:
		logLevel = logger.Warn
	}

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	}

	// Open database connection
	postgresDSN := cfg.PostgresDsn + " search_path=" + SchemaName + ",public"
	db, err := gorm.Open(postgres.Open(postgresDSN), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %v", err)
	}

	zaplogger.Info("  * connected")

	// Create the schema if it doesn't exist
	createSchemaSql := fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", SchemaName)
	if err := db.Exec(createSchemaSql).Error; err != nil {
		return nil, fmt.Errorf("failed to create schema: %v", err)
	}
	zaplogger.Info("  * migrating schema: \"" + SchemaName + "\"")

	// AutoMigrate will create tables and add/modify columns
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %v", err)
	}

	// Install the insert trigger feeding the live count channel
	if err := createSignatureNotifyTrigger(db); err != nil {
		return nil, err
	}
	zaplogger.Info("  * notify trigger installed on " + models.SignaturesTableName)

	return db, nil
}

func autoMigrate(db *gorm.DB) error {
	tables := []struct {
		name  string
		model interface{}
	}{
		{models.AdminCredentialTableName, &models.AdminCredential{}},
		{models.AdminSessionsTableName, &models.AdminSession{}},
		{models.SignaturesTableName, &models.Signature{}},
		{models.SeoSettingsTableName, &models.SeoSettings{}},
	}

	zaplogger.Info("  * migrating tables")
	for _, table := range tables {
		err := db.Table(SchemaName + "." + table.name).AutoMigrate(table.model)
		if err != nil {
			return fmt.Errorf("failed to auto migrate table: %s, err:%v", table.name, err)
		}
		zaplogger.Info("    - \"" + SchemaName + "." + table.name + "\"")
	}

	return nil
}

// createSignatureNotifyTrigger makes every signature insert fire a NOTIFY
// with the new row as JSON, so the publish service can relay it to Redis.
func createSignatureNotifyTrigger(db *gorm.DB) error {
	createFnSql := fmt.Sprintf(`
		CREATE OR REPLACE FUNCTION %s.notify_signature() RETURNS trigger AS $$
		BEGIN
			PERFORM pg_notify('%s', row_to_json(NEW)::text);
			RETURN NEW;
		END;
		$$ LANGUAGE plpgsql`, SchemaName, SignatureNotifyChannel)
	if err := db.Exec(createFnSql).Error; err != nil {
		return fmt.Errorf("failed to create notify function: %v", err)
	}

	dropTriggerSql := fmt.Sprintf("DROP TRIGGER IF EXISTS signatures_notify ON %s.%s",
		SchemaName, models.SignaturesTableName)
	if err := db.Exec(dropTriggerSql).Error; err != nil {
		return fmt.Errorf("failed to drop notify trigger: %v", err)
	}

	createTriggerSql := fmt.Sprintf(`
		CREATE TRIGGER signatures_notify
		AFTER INSERT ON %s.%s
		FOR EACH ROW EXECUTE FUNCTION %s.notify_signature()`,
		SchemaName, models.SignaturesTableName, SchemaName)
	if err := db.Exec(createTriggerSql).Error; err != nil {
		return fmt.Errorf("failed to create notify trigger: %v", err)
	}

	return nil
}
