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

// Package runner drives a complete EDIS authorization run over the holdings of the account.
package runner

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/asgardeo/edisauth/internal/broker"
	"github.com/asgardeo/edisauth/internal/edis/constants"
	"github.com/asgardeo/edisauth/internal/edis/flow"
	"github.com/asgardeo/edisauth/internal/edis/model"
	"github.com/asgardeo/edisauth/internal/edis/store"
	"github.com/asgardeo/edisauth/internal/system/error/serviceerror"
	"github.com/asgardeo/edisauth/internal/system/log"
)

const (
	loggerComponentName = "Runner"
	statusHistoryLimit  = 10
)

// StatusReport is the authorization status of an instrument together with the recorded attempts.
type StatusReport struct {
	Inquiry  *broker.InquiryResponse
	Attempts []model.SessionAttempt
}

// RunnerInterface defines the entry points of the agent.
type RunnerInterface interface {
	// Run authorizes every holding in bulk mode and confirms the result with the broker.
	Run(ctx context.Context) *serviceerror.ServiceError
	// AuthorizeHolding authorizes a single holding and confirms the result with the broker.
	AuthorizeHolding(ctx context.Context, request model.AuthorizationRequest) *serviceerror.ServiceError
	// Status returns the broker status of the instrument, or of every instrument for "ALL".
	Status(ctx context.Context, isin string) (*StatusReport, *serviceerror.ServiceError)
}

// Runner implements RunnerInterface.
type Runner struct {
	broker       broker.BrokerServiceInterface
	orchestrator flow.OrchestratorInterface
	ledger       store.LedgerStoreInterface
}

// NewRunner creates a new Runner. The ledger is optional and only feeds the status report.
func NewRunner(brokerService broker.BrokerServiceInterface, orchestrator flow.OrchestratorInterface,
	ledger store.LedgerStoreInterface) RunnerInterface {
	return &Runner{
		broker:       brokerService,
		orchestrator: orchestrator,
		ledger:       ledger,
	}
}

// Run authorizes every holding in bulk mode and confirms the result with the broker.
func (r *Runner) Run(ctx context.Context) *serviceerror.ServiceError {
	logger := log.GetLogger().With(zap.String(log.LoggerKeyComponentName, loggerComponentName))

	holdings, err := r.broker.GetHoldings(ctx)
	if err != nil {
		logger.Error("Failed to retrieve the holdings", zap.Error(err))
		return serviceerror.CustomServiceError(constants.ErrorHoldingsUnavailable, err.Error())
	}
	if len(holdings) == 0 {
		logger.Info("No holdings found, exiting")
		return nil
	}

	// A single session authorizes every holding in bulk mode.
	first := holdings[0]
	logger.Info("Starting EDIS authorization in bulk mode", zap.String(log.LoggerKeyISIN, first.ISIN),
		zap.Int("holdings", len(holdings)))
	request := model.AuthorizationRequest{ISIN: first.ISIN, Quantity: first.TotalQty}
	if svcErr := r.authorize(ctx, logger, request); svcErr != nil {
		return svcErr
	}

	expected := make([]string, 0, len(holdings))
	for _, h := range holdings {
		expected = append(expected, h.ISIN)
	}
	return r.confirm(ctx, logger, constants.StatusInquiryAllISIN, expected)
}

// AuthorizeHolding authorizes a single holding and confirms the result with the broker.
func (r *Runner) AuthorizeHolding(ctx context.Context, request model.AuthorizationRequest) *serviceerror.ServiceError {
	logger := log.GetLogger().With(zap.String(log.LoggerKeyComponentName, loggerComponentName))

	if svcErr := r.authorize(ctx, logger, request); svcErr != nil {
		return svcErr
	}
	return r.confirm(ctx, logger, request.ISIN, []string{request.ISIN})
}

// Status returns the broker status of the instrument, or of every instrument for "ALL".
func (r *Runner) Status(ctx context.Context, isin string) (*StatusReport, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(zap.String(log.LoggerKeyComponentName, loggerComponentName))

	inquiry, err := r.broker.InquireStatus(ctx, isin)
	if err != nil {
		logger.Error("Failed to retrieve the authorization status", zap.String(log.LoggerKeyISIN, isin),
			zap.Error(err))
		return nil, serviceerror.CustomServiceError(constants.ErrorStatusInquiryFailed, err.Error())
	}

	report := &StatusReport{Inquiry: inquiry}
	if r.ledger != nil && isin != constants.StatusInquiryAllISIN {
		attempts, err := r.ledger.ListAttempts(isin, statusHistoryLimit)
		if err != nil {
			logger.Warn("Failed to read the recorded attempts", zap.String(log.LoggerKeyISIN, isin), zap.Error(err))
		} else {
			report.Attempts = attempts
		}
	}
	return report, nil
}

func (r *Runner) authorize(ctx context.Context, logger *zap.Logger,
	request model.AuthorizationRequest) *serviceerror.ServiceError {
	outcome, svcErr := r.orchestrator.Authorize(ctx, request)
	if svcErr != nil {
		logger.Error("EDIS authorization failed", zap.String(log.LoggerKeyISIN, request.ISIN),
			zap.String("code", svcErr.Code), zap.String("error", svcErr.ErrorDescription))
		return svcErr
	}
	logger.Info("EDIS authorization session finished", zap.String(log.LoggerKeyISIN, request.ISIN),
		zap.String("status", string(outcome.Status)), zap.String(log.LoggerKeyAttemptID, outcome.AttemptID),
		zap.Int("attempts", outcome.Attempts))
	return nil
}

// confirm checks that every expected instrument is reported as authorized.
func (r *Runner) confirm(ctx context.Context, logger *zap.Logger, target string,
	expected []string) *serviceerror.ServiceError {
	inquiry, err := r.broker.InquireStatus(ctx, target)
	if err != nil {
		logger.Error("Failed to retrieve the authorization status", zap.Error(err))
		return serviceerror.CustomServiceError(constants.ErrorStatusInquiryFailed, err.Error())
	}
	logger.Info("Status of EDIS", zap.String("status", inquiry.Status), zap.String("remarks", inquiry.Remarks))

	var result *multierror.Error
	statuses := inquiry.StatusByISIN()
	for _, isin := range expected {
		row, ok := statuses[isin]
		if !ok {
			logger.Error("EDIS failed, instrument not found in the status response", zap.String(log.LoggerKeyISIN, isin))
			result = multierror.Append(result, fmt.Errorf("%s: not found in the status response", isin))
			continue
		}
		if row.Status != constants.StatusInquirySuccess {
			logger.Error("EDIS failed", zap.String(log.LoggerKeyISIN, isin), zap.String("status", row.Status),
				zap.String("remarks", row.Remarks))
			result = multierror.Append(result, fmt.Errorf("%s: status %s (%s)", isin, row.Status, row.Remarks))
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return serviceerror.CustomServiceError(constants.ErrorAuthorizationNotConfirmed, err.Error())
	}
	logger.Info("EDIS authorization confirmed", zap.Int("instruments", len(expected)))
	return nil
}
