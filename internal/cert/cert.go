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

// Package cert builds the TLS configuration of the outbound connections.
package cert

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/asgardeo/edisauth/internal/system/config"
)

// GetClientTLSConfig returns the TLS configuration trusting the system roots plus the configured
// CA bundle. It returns nil when no bundle is configured.
func GetClientTLSConfig(cfg *config.Config, currentDirectory string) (*tls.Config, error) {
	if cfg.Security.CAFile == "" {
		return nil, nil
	}

	caFilePath := cfg.Security.CAFile
	if !filepath.IsAbs(caFilePath) {
		caFilePath = filepath.Join(currentDirectory, caFilePath)
	}

	// Check if the CA bundle exists.
	if _, err := os.Stat(caFilePath); os.IsNotExist(err) {
		return nil, errors.New("CA file not found at " + caFilePath)
	}
	pem, err := os.ReadFile(filepath.Clean(caFilePath))
	if err != nil {
		return nil, err
	}

	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificate found in %s", caFilePath)
	}

	return &tls.Config{
		RootCAs:    pool,
		MinVersion: tls.VersionTLS12,
	}, nil
}
