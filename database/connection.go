package database

import (
	"fmt"

	"picking-app/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
)

// Open connects to the configured database. The driver is selected by
// DB_DRIVER: mysql, postgres, mssql or sqlite.
func Open() (*gorm.DB, error) {
	return OpenDatabaseConnection(config.DBName)
}

func OpenDatabaseConnection(dbName string) (*gorm.DB, error) {
	dialector, err := openDialector(config.DBDriver, dbName)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %w", dbName, err)
	}

	return db, nil
}

func openDialector(driver, dbName string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, dbName)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			config.DBHost, config.DBUser, config.DBPassword, dbName, config.DBPort)
		return postgres.Open(dsn), nil
	case "mssql", "sqlserver":
		dsn := "sqlserver://" + config.DBUser + ":" + config.DBPassword + "@" + config.DBHost + ":" + config.DBPort + "?database=" + dbName
		return sqlserver.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dbName + ".db?_busy_timeout=5000"), nil
	default:
		return nil, fmt.Errorf("unsupported DB driver: %s", driver)
	}
}
