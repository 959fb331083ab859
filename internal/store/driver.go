package store

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DriverFactory turns a DSN into a gorm dialector.
type DriverFactory func(dsn string) gorm.Dialector

// sqlite backs tests and single-node deployments; postgres is the
// production driver.
var driverFactories = map[string]DriverFactory{
	"sqlite":   sqlite.Open,
	"postgres": postgres.Open,
}

// GetDialector resolves the driver name from configuration to a dialector.
func GetDialector(driver, dsn string) (gorm.Dialector, error) {
	factory, ok := driverFactories[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	return factory(dsn), nil
}

// RegisterDriver adds a custom driver, mainly for embedding deployments.
func RegisterDriver(name string, factory DriverFactory) {
	driverFactories[name] = factory
}
