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

// Package flow drives the EDIS authorization session from the broker form to the broker callback.
package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/asgardeo/edisauth/internal/edis/client"
	"github.com/asgardeo/edisauth/internal/edis/constants"
	"github.com/asgardeo/edisauth/internal/edis/model"
	"github.com/asgardeo/edisauth/internal/edis/otp"
	"github.com/asgardeo/edisauth/internal/edis/store"
	"github.com/asgardeo/edisauth/internal/mailbox"
	"github.com/asgardeo/edisauth/internal/system/clock"
	"github.com/asgardeo/edisauth/internal/system/config"
	"github.com/asgardeo/edisauth/internal/system/error/serviceerror"
	"github.com/asgardeo/edisauth/internal/system/log"
)

const loggerComponentName = "SessionOrchestrator"

// OrchestratorInterface defines the authorization of a holding.
type OrchestratorInterface interface {
	// Authorize runs the authorization session, restarting it from the beginning after a
	// transient failure while the retry budget lasts.
	Authorize(ctx context.Context, request model.AuthorizationRequest) (
		*model.SessionOutcome, *serviceerror.ServiceError)
}

// Orchestrator implements OrchestratorInterface.
type Orchestrator struct {
	invoker           client.StepInvokerInterface
	poller            otp.PollerInterface
	mailbox           mailbox.MailboxInterface
	ledger            store.LedgerStoreInterface
	clock             clock.Clock
	maxRetries        int
	settlementDelay   time.Duration
	deleteMaxAttempts int
	successMarker     string
	newAttemptID      func() string
	newBackOff        func() backoff.BackOff
}

// NewOrchestrator creates a new Orchestrator. The ledger is optional.
func NewOrchestrator(invoker client.StepInvokerInterface, poller otp.PollerInterface,
	mb mailbox.MailboxInterface, ledger store.LedgerStoreInterface, clk clock.Clock,
	flow config.FlowConfig) OrchestratorInterface {
	maxRetries := flow.SessionMaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	deleteMaxAttempts := flow.DeleteMaxAttempts
	if deleteMaxAttempts < 1 {
		deleteMaxAttempts = 1
	}
	return &Orchestrator{
		invoker:           invoker,
		poller:            poller,
		mailbox:           mb,
		ledger:            ledger,
		clock:             clk,
		maxRetries:        maxRetries,
		settlementDelay:   flow.SettlementDelay(),
		deleteMaxAttempts: deleteMaxAttempts,
		successMarker:     flow.SuccessMarker,
		newAttemptID:      uuid.NewString,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
}

// Authorize runs the authorization session, restarting it from the beginning after a
// transient failure while the retry budget lasts. A fatal failure ends the session at once.
func (o *Orchestrator) Authorize(ctx context.Context, request model.AuthorizationRequest) (
	*model.SessionOutcome, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(zap.String(log.LoggerKeyComponentName, loggerComponentName),
		zap.String(log.LoggerKeyISIN, request.ISIN))

	if strings.TrimSpace(request.ISIN) == "" || request.Quantity <= 0 {
		logger.Error("Invalid authorization request", zap.Int("quantity", request.Quantity))
		return nil, serviceerror.CustomServiceError(constants.ErrorInvalidRequest,
			fmt.Sprintf("Invalid holding %q with quantity %d", request.ISIN, request.Quantity))
	}

	attempts := o.maxRetries + 1
	var lastErr *serviceerror.ServiceError
	for n := 1; n <= attempts; n++ {
		if err := ctx.Err(); err != nil {
			logger.Error("Authorization session cancelled", zap.Error(err))
			return nil, serviceerror.CustomServiceError(constants.ErrorSessionRetriesExhausted,
				fmt.Sprintf("Session cancelled after %d attempts: %v", n-1, err))
		}

		outcome, svcErr := o.runAttempt(ctx, request, n)
		if svcErr == nil {
			return outcome, nil
		}
		if svcErr.IsFatal() {
			return nil, svcErr
		}

		lastErr = svcErr
		logger.Warn("Session attempt failed", zap.Int("attempt", n), zap.Int("remaining", attempts-n),
			zap.String("code", svcErr.Code), zap.String("error", svcErr.ErrorDescription))
	}

	logger.Error("Authorization session failed on every attempt", zap.Int("attempts", attempts))
	return nil, serviceerror.CustomServiceError(constants.ErrorSessionRetriesExhausted,
		fmt.Sprintf("Session failed after %d attempts, last error: %s", attempts, lastErr.ErrorDescription))
}

// session tracks the state of a single attempt.
type session struct {
	attemptID string
	state     model.SessionState
	logger    *zap.Logger
}

func (s *session) transition(next model.SessionState) {
	s.logger.Info("Session state changed", zap.String("from", string(s.state)),
		zap.String(log.LoggerKeyState, string(next)))
	s.state = next
}

// runAttempt makes one pass through the five steps.
func (o *Orchestrator) runAttempt(ctx context.Context, request model.AuthorizationRequest, number int) (
	outcome *model.SessionOutcome, svcErr *serviceerror.ServiceError) {
	s := &session{
		attemptID: o.newAttemptID(),
		state:     model.SessionStateInit,
	}
	s.logger = log.GetLogger().With(zap.String(log.LoggerKeyComponentName, loggerComponentName),
		zap.String(log.LoggerKeyISIN, request.ISIN), zap.String(log.LoggerKeyAttemptID, s.attemptID))
	s.logger.Info("Starting session attempt", zap.Int("attempt", number), zap.Int("quantity", request.Quantity))

	startedAt := o.clock.Now()
	defer func() {
		record := model.SessionAttempt{
			AttemptID:  s.attemptID,
			ISIN:       request.ISIN,
			Quantity:   request.Quantity,
			Number:     number,
			FinalState: s.state,
			StartedAt:  startedAt,
			EndedAt:    o.clock.Now(),
		}
		if svcErr != nil {
			record.FinalState = model.SessionStateFailed
			record.ErrorCode = svcErr.Code
			s.logger.Error("Session attempt ended with an error", zap.String("state", string(s.state)),
				zap.String("code", svcErr.Code), zap.String("error", svcErr.ErrorDescription))
		}
		o.recordAttempt(s.logger, record)
	}()

	fields, err := o.invoker.RequestForm(ctx, request)
	if err != nil {
		return nil, stepError(constants.ErrorFormRequestFailed, err)
	}
	s.transition(model.SessionStateFormObtained)

	fields, err = o.invoker.VerifySession(ctx, fields)
	if err != nil {
		return nil, stepError(constants.ErrorSessionVerificationFailed, err)
	}
	s.transition(model.SessionStateSessionVerified)

	fields, err = o.invoker.VerifyPin(ctx, fields)
	if err != nil {
		return nil, stepError(constants.ErrorPinVerificationFailed, err)
	}
	s.transition(model.SessionStatePinVerified)

	s.logger.Info("Waiting for the depository to send the OTP", zap.Duration("delay", o.settlementDelay))
	if err := o.clock.Sleep(ctx, o.settlementDelay); err != nil {
		return nil, stepError(constants.ErrorSettlementWaitInterrupted, err)
	}
	s.transition(model.SessionStateAwaitingOTP)

	code, pollErr := o.poller.PollForCode(ctx)
	if pollErr != nil {
		return nil, pollErr
	}
	s.logger.Debug("Submitting the OTP", zap.String("otp", log.MaskString(code.Value)))
	o.markConsumed(s.logger, code.MessageID, s.attemptID, request.ISIN)

	fields, err = o.invoker.VerifyOTP(ctx, fields, code.Value)
	if err != nil {
		return nil, stepError(constants.ErrorOTPVerificationFailed, err)
	}
	s.transition(model.SessionStateOTPVerified)

	text, err := o.invoker.Callback(ctx, fields)
	if err != nil {
		return nil, stepError(constants.ErrorCallbackFailed, err)
	}

	if !strings.Contains(text, o.successMarker) {
		// The broker may already have applied the authorization, so the session is not retried.
		s.logger.Error("Callback response does not confirm the authorization",
			zap.String("marker", o.successMarker))
		s.transition(model.SessionStateCallbackIncomplete)
		return &model.SessionOutcome{
			Status:    model.SessionStatusIncomplete,
			AttemptID: s.attemptID,
			Attempts:  number,
		}, nil
	}
	s.transition(model.SessionStateCallbackComplete)
	s.logger.Info("EDIS authorization completed")

	o.deleteMessage(ctx, s.logger, code.MessageID)
	return &model.SessionOutcome{
		Status:    model.SessionStatusComplete,
		AttemptID: s.attemptID,
		Attempts:  number,
	}, nil
}

// deleteMessage removes the consumed OTP message, retrying independently of the session.
// A failure is logged and does not change the outcome.
func (o *Orchestrator) deleteMessage(ctx context.Context, logger *zap.Logger, messageID string) {
	operation := func() error {
		err := o.mailbox.DeleteMessage(ctx, messageID)
		if errors.Is(err, mailbox.ErrMessageNotFound) {
			return backoff.Permanent(err)
		}
		return err
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(o.newBackOff(), uint64(o.deleteMaxAttempts-1)), ctx)
	notify := func(err error, next time.Duration) {
		logger.Warn("Failed to delete the OTP message, retrying", zap.String("messageId", messageID),
			zap.Duration("after", next), zap.Error(err))
	}

	err := backoff.RetryNotify(operation, policy, notify)
	switch {
	case err == nil:
		logger.Info("Deleted the OTP message", zap.String("messageId", messageID))
	case errors.Is(err, mailbox.ErrMessageNotFound):
		logger.Info("OTP message was already removed", zap.String("messageId", messageID))
	default:
		logger.Warn("OTP message was left in the mailbox", zap.String("messageId", messageID), zap.Error(err))
	}
}

func (o *Orchestrator) markConsumed(logger *zap.Logger, messageID, attemptID, isin string) {
	if o.ledger == nil {
		return
	}
	if err := o.ledger.MarkMessageConsumed(messageID, attemptID, isin, o.clock.Now()); err != nil {
		logger.Warn("Failed to record the consumed OTP message", zap.String("messageId", messageID),
			zap.Error(err))
	}
}

func (o *Orchestrator) recordAttempt(logger *zap.Logger, attempt model.SessionAttempt) {
	if o.ledger == nil {
		return
	}
	if err := o.ledger.RecordAttempt(attempt); err != nil {
		logger.Warn("Failed to record the session attempt", zap.Error(err))
	}
}

func stepError(base serviceerror.ServiceError, err error) *serviceerror.ServiceError {
	return serviceerror.CustomServiceError(base, fmt.Sprintf("%s: %v", base.ErrorDescription, err))
}
