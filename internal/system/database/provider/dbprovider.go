/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package provider provides functionality for managing the ledger database connection.
package provider

import (
	"database/sql"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/asgardeo/edisauth/internal/system/config"
	"github.com/asgardeo/edisauth/internal/system/database/client"
	"github.com/asgardeo/edisauth/internal/system/database/model"
)

const (
	dataSourceTypePostgres = "postgres"
	dataSourceTypeSQLite   = "sqlite"
)

// dbConfig represents the local database configuration.
type dbConfig struct {
	dsn        string
	driverName string
}

// DBProviderInterface defines the interface for getting database clients.
type DBProviderInterface interface {
	GetDBClient() (client.DBClientInterface, error)
	Close() error
}

// DBProvider is the implementation of DBProviderInterface.
type DBProvider struct {
	home       string
	dataSource config.DataSource
	dbClient   client.DBClientInterface
	mu         sync.Mutex
}

// NewDBProvider creates a provider for the given data source. Relative SQLite paths
// are resolved against the home directory.
func NewDBProvider(home string, dataSource config.DataSource) DBProviderInterface {
	return &DBProvider{
		home:       home,
		dataSource: dataSource,
	}
}

// GetDBClient returns the database client, opening the connection on first use.
func (d *DBProvider) GetDBClient() (client.DBClientInterface, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dbClient != nil {
		return d.dbClient, nil
	}

	dbConfig, err := d.getDBConfig()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dbConfig.driverName, dbConfig.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %w", d.dataSource.Name, err)
	}

	// Test the database connection.
	if err := db.Ping(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database %s: %w (close error: %w)", d.dataSource.Name, err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database %s: %w", d.dataSource.Name, err)
	}

	d.dbClient = client.NewDBClient(model.NewDB(db), dbConfig.driverName)
	return d.dbClient, nil
}

// Close closes the database connection if it was opened.
func (d *DBProvider) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dbClient == nil {
		return nil
	}
	err := d.dbClient.Close()
	d.dbClient = nil
	return err
}

// getDBConfig returns the database configuration based on the data source.
func (d *DBProvider) getDBConfig() (dbConfig, error) {
	var cfg dbConfig
	ds := d.dataSource

	switch ds.Type {
	case dataSourceTypePostgres:
		cfg.driverName = dataSourceTypePostgres
		cfg.dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			ds.Hostname, ds.Port, ds.Username, ds.Password, ds.Name, ds.SSLMode)
	case dataSourceTypeSQLite:
		cfg.driverName = dataSourceTypeSQLite
		dbPath := ds.Path
		if !filepath.IsAbs(dbPath) {
			dbPath = path.Join(d.home, dbPath)
		}
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return cfg, fmt.Errorf("failed to create database directory: %w", err)
		}
		options := ds.Options
		if options != "" && options[0] != '?' {
			options = "?" + options
		}
		cfg.dsn = dbPath + options
	default:
		return cfg, fmt.Errorf("unsupported database type: %s", ds.Type)
	}

	return cfg, nil
}
