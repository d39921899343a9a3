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

// Package broker reads the holdings and the EDIS authorization status from the broker API.
package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/asgardeo/edisauth/internal/edis/constants"
	"github.com/asgardeo/edisauth/internal/system/config"
	httpservice "github.com/asgardeo/edisauth/internal/system/http"
	"github.com/asgardeo/edisauth/internal/system/log"
)

const (
	loggerComponentName = "BrokerService"
	inquirySuccess      = "success"
)

// BrokerServiceInterface defines the broker calls made around an authorization session.
type BrokerServiceInterface interface {
	// GetHoldings returns the holdings of the account, or an empty list when there are none.
	GetHoldings(ctx context.Context) ([]Holding, error)
	// InquireStatus returns the authorization status of the instrument, or of every
	// instrument for "ALL".
	InquireStatus(ctx context.Context, isin string) (*InquiryResponse, error)
}

// BrokerService implements BrokerServiceInterface over HTTP.
type BrokerService struct {
	httpClient httpservice.HTTPClientInterface
	config     config.BrokerConfig
}

// NewBrokerService creates a new BrokerService.
func NewBrokerService(httpClient httpservice.HTTPClientInterface, cfg config.BrokerConfig) BrokerServiceInterface {
	return &BrokerService{
		httpClient: httpClient,
		config:     cfg,
	}
}

// GetHoldings returns the holdings of the account, or an empty list when there are none.
func (b *BrokerService) GetHoldings(ctx context.Context) ([]Holding, error) {
	logger := log.GetLogger().With(zap.String(log.LoggerKeyComponentName, loggerComponentName))

	body, err := b.get(ctx, b.config.HoldingsURL)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		logger.Warn("No holdings found")
		return []Holding{}, nil
	}

	var holdings []Holding
	if err := json.Unmarshal(body, &holdings); err != nil {
		return nil, fmt.Errorf("failed to decode holdings: %w", err)
	}
	if len(holdings) == 0 {
		logger.Warn("No holdings found")
		return []Holding{}, nil
	}
	logger.Debug("Retrieved holdings", zap.Int("count", len(holdings)))
	return holdings, nil
}

// InquireStatus returns the authorization status of the instrument, or of every instrument for "ALL".
func (b *BrokerService) InquireStatus(ctx context.Context, isin string) (*InquiryResponse, error) {
	endpoint := strings.TrimSuffix(b.config.InquiryURL, "/") + "/" + url.PathEscape(isin)
	body, err := b.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	rows, err := decodeInquiryRows(body)
	if err != nil {
		return nil, err
	}

	resp := &InquiryResponse{Status: inquirySuccess, Data: rows}
	if len(rows) == 1 && isin != constants.StatusInquiryAllISIN {
		resp.Remarks = rows[0].Remarks
	}
	return resp, nil
}

// decodeInquiryRows accepts either a list of rows or a single row.
func decodeInquiryRows(body []byte) ([]InquiryStatus, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return []InquiryStatus{}, nil
	}

	if trimmed[0] == '[' {
		var rows []InquiryStatus
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("failed to decode status inquiry: %w", err)
		}
		return rows, nil
	}

	var row InquiryStatus
	if err := json.Unmarshal(trimmed, &row); err != nil {
		return nil, fmt.Errorf("failed to decode status inquiry: %w", err)
	}
	return []InquiryStatus{row}, nil
}

func (b *BrokerService) get(ctx context.Context, endpoint string) ([]byte, error) {
	logger := log.GetLogger().With(zap.String(log.LoggerKeyComponentName, loggerComponentName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set(constants.HeaderAccessToken, b.config.AccessToken)
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	req.Header.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	if b.config.ClientID != "" {
		req.Header.Set(constants.HeaderClientID, b.config.ClientID)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send HTTP request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Error("Failed to close response body", zap.Error(closeErr))
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from %s: %s", resp.StatusCode, endpoint,
			strings.TrimSpace(string(body)))
	}
	return body, nil
}
