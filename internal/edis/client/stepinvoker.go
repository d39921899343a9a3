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

// Package client implements the calls made to the broker and the depository during an
// EDIS authorization session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/asgardeo/edisauth/internal/edis/constants"
	"github.com/asgardeo/edisauth/internal/edis/formparser"
	"github.com/asgardeo/edisauth/internal/edis/model"
	"github.com/asgardeo/edisauth/internal/system/config"
	httpservice "github.com/asgardeo/edisauth/internal/system/http"
	"github.com/asgardeo/edisauth/internal/system/log"
)

const stepInvokerLoggerComponentName = "StepInvoker"

// ErrNoHiddenFields is returned when a page that must carry the session state has none.
var ErrNoHiddenFields = errors.New("response does not contain any hidden form field")

// StatusError is returned when a remote endpoint answers with a non success status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// StepInvokerInterface defines the five calls of an authorization session.
type StepInvokerInterface interface {
	// RequestForm asks the broker for the authorization form of the holding.
	RequestForm(ctx context.Context, request model.AuthorizationRequest) (model.FormFields, error)
	// VerifySession submits the broker form to the depository.
	VerifySession(ctx context.Context, fields model.FormFields) (model.FormFields, error)
	// VerifyPin submits the depository PIN.
	VerifyPin(ctx context.Context, fields model.FormFields) (model.FormFields, error)
	// VerifyOTP submits the one time code read from the mailbox.
	VerifyOTP(ctx context.Context, fields model.FormFields, code string) (model.FormFields, error)
	// Callback returns the depository result to the broker and returns the response text.
	Callback(ctx context.Context, fields model.FormFields) (string, error)
}

// StepInvoker implements StepInvokerInterface over HTTP.
type StepInvoker struct {
	httpClient httpservice.HTTPClientInterface
	broker     config.BrokerConfig
	depository config.DepositoryConfig
}

// NewStepInvoker creates a new StepInvoker. The same instance is reused by every step
// and every attempt of a run.
func NewStepInvoker(httpClient httpservice.HTTPClientInterface, broker config.BrokerConfig,
	depository config.DepositoryConfig) StepInvokerInterface {
	return &StepInvoker{
		httpClient: httpClient,
		broker:     broker,
		depository: depository,
	}
}

// formRequest is the payload of the broker authorization form request.
type formRequest struct {
	ISIN     string `json:"isin"`
	Quantity int    `json:"qty"`
	Exchange string `json:"exchange"`
	Segment  string `json:"segment"`
	Bulk     bool   `json:"bulk"`
}

// formResponse is the part of the broker form response used by the flow.
type formResponse struct {
	EDISFormHTML string `json:"edisFormHtml"`
}

// RequestForm asks the broker for the authorization form of the holding.
func (s *StepInvoker) RequestForm(ctx context.Context, request model.AuthorizationRequest) (
	model.FormFields, error) {
	payload, err := json.Marshal(formRequest{
		ISIN:     request.ISIN,
		Quantity: request.Quantity,
		Exchange: s.broker.Exchange,
		Segment:  s.broker.Segment,
		Bulk:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.broker.FormURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	req.Header.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	req.Header.Set(constants.HeaderAccessToken, s.broker.AccessToken)
	if s.broker.ClientID != "" {
		req.Header.Set(constants.HeaderClientID, s.broker.ClientID)
	}

	body, err := s.send(req)
	if err != nil {
		return nil, err
	}

	var resp formResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode form response: %w", err)
	}
	if resp.EDISFormHTML == "" {
		return nil, fmt.Errorf("form response does not contain %s", constants.FieldEDISFormHTML)
	}

	fields, err := extractState(resp.EDISFormHTML)
	if err != nil {
		return nil, err
	}
	return formparser.TrimStrayEscapes(fields), nil
}

// VerifySession submits the broker form to the depository.
func (s *StepInvoker) VerifySession(ctx context.Context, fields model.FormFields) (model.FormFields, error) {
	body, err := s.postForm(ctx, s.depository.VerifyDISURL, fields)
	if err != nil {
		return nil, err
	}
	return extractState(string(body))
}

// VerifyPin submits the depository PIN.
func (s *StepInvoker) VerifyPin(ctx context.Context, fields model.FormFields) (model.FormFields, error) {
	payload := fields.Clone(map[string]string{constants.FieldUserPin: s.depository.PIN})
	body, err := s.postForm(ctx, s.depository.VerifyPinURL, payload)
	if err != nil {
		return nil, err
	}
	return extractState(string(body))
}

// VerifyOTP submits the one time code read from the mailbox.
func (s *StepInvoker) VerifyOTP(ctx context.Context, fields model.FormFields, code string) (
	model.FormFields, error) {
	payload := fields.Clone(map[string]string{constants.FieldOTP: code})
	body, err := s.postForm(ctx, s.depository.VerifyOTPURL, payload)
	if err != nil {
		return nil, err
	}
	next, err := extractState(string(body))
	if err != nil {
		return nil, err
	}
	return formparser.UnescapeValues(next), nil
}

// Callback returns the depository result to the broker and returns the response text.
func (s *StepInvoker) Callback(ctx context.Context, fields model.FormFields) (string, error) {
	body, err := s.postForm(ctx, s.broker.CallbackURL, fields)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// postForm submits the fields as an URL encoded form and returns the response body.
func (s *StepInvoker) postForm(ctx context.Context, endpoint string, fields model.FormFields) ([]byte, error) {
	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeForm)
	req.Header.Set(constants.HeaderAuthority, req.URL.Host)

	return s.send(req)
}

// send executes the request and returns the body of a successful response.
func (s *StepInvoker) send(req *http.Request) ([]byte, error) {
	logger := log.GetLogger().With(zap.String(log.LoggerKeyComponentName, stepInvokerLoggerComponentName))

	resp, err := s.httpClient.Do(req)
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

	logger.Debug("Received response", zap.String("url", req.URL.String()), zap.Int("statusCode", resp.StatusCode))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{URL: req.URL.String(), StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// extractState parses the hidden fields of the page and fails when there are none.
func extractState(document string) (model.FormFields, error) {
	fields, err := formparser.ExtractHiddenFields(document)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNoHiddenFields
	}
	return fields, nil
}
