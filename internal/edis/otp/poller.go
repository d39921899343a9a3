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

// Package otp polls the mailbox for the one time code sent by the depository.
package otp

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/asgardeo/edisauth/internal/edis/constants"
	"github.com/asgardeo/edisauth/internal/edis/model"
	"github.com/asgardeo/edisauth/internal/edis/store"
	"github.com/asgardeo/edisauth/internal/mailbox"
	"github.com/asgardeo/edisauth/internal/system/clock"
	"github.com/asgardeo/edisauth/internal/system/error/serviceerror"
	"github.com/asgardeo/edisauth/internal/system/log"
)

const loggerComponentName = "OTPPoller"

var codePattern = regexp.MustCompile(fmt.Sprintf(`\d{%d}`, constants.OTPCodeLength))

// PollerInterface defines the lookup of the one time code.
type PollerInterface interface {
	// PollForCode returns the first code found within the retry budget.
	PollForCode(ctx context.Context) (*model.OneTimeCode, *serviceerror.ServiceError)
}

// Poller implements PollerInterface over a mailbox.
type Poller struct {
	mailbox    mailbox.MailboxInterface
	ledger     store.LedgerStoreInterface
	clock      clock.Clock
	filter     mailbox.Filter
	maxRetries int
	interval   time.Duration
}

// NewPoller creates a poller making at most maxRetries+1 lookups spaced by the interval.
// The ledger is optional; when set, messages already consumed by an earlier attempt are ignored.
func NewPoller(mb mailbox.MailboxInterface, ledger store.LedgerStoreInterface, clk clock.Clock,
	filter mailbox.Filter, maxRetries int, interval time.Duration) PollerInterface {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Poller{
		mailbox:    mb,
		ledger:     ledger,
		clock:      clk,
		filter:     filter,
		maxRetries: maxRetries,
		interval:   interval,
	}
}

// PollForCode returns the first code found within the retry budget. Lookup failures count as
// an empty mailbox. Exhausting the budget is fatal.
func (p *Poller) PollForCode(ctx context.Context) (*model.OneTimeCode, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(zap.String(log.LoggerKeyComponentName, loggerComponentName))

	attempts := p.maxRetries + 1
	for i := 1; i <= attempts; i++ {
		if code := p.lookup(ctx, logger, i); code != nil {
			logger.Info("Found the OTP message", zap.String("messageId", code.MessageID), zap.Int("poll", i))
			return code, nil
		}

		if i == attempts {
			break
		}
		logger.Debug("OTP not available yet, waiting", zap.Int("poll", i), zap.Duration("interval", p.interval))
		if err := p.clock.Sleep(ctx, p.interval); err != nil {
			logger.Error("OTP polling interrupted", zap.Error(err))
			return nil, serviceerror.CustomServiceError(constants.ErrorOTPNotReceived,
				fmt.Sprintf("OTP polling interrupted after %d lookups: %v", i, err))
		}
	}

	logger.Error("Failed to read the OTP from the mailbox, giving up", zap.Int("lookups", attempts))
	return nil, serviceerror.CustomServiceError(constants.ErrorOTPNotReceived,
		fmt.Sprintf("No OTP message was found after %d lookups", attempts))
}

// lookup makes a single mailbox lookup and returns nil when no usable code was found.
func (p *Poller) lookup(ctx context.Context, logger *zap.Logger, poll int) *model.OneTimeCode {
	msg, err := p.mailbox.FindLatestMatching(ctx, p.filter)
	if err != nil {
		logger.Warn("Failed to read the mailbox", zap.Int("poll", poll), zap.Error(err))
		return nil
	}
	if msg == nil {
		logger.Warn("No OTP message found", zap.Int("poll", poll))
		return nil
	}

	if p.ledger != nil {
		consumed, err := p.ledger.IsMessageConsumed(msg.ID)
		if err != nil {
			logger.Warn("Failed to check the consumed messages", zap.String("messageId", msg.ID), zap.Error(err))
		} else if consumed {
			logger.Debug("Ignoring an already consumed OTP message", zap.String("messageId", msg.ID))
			return nil
		}
	}

	value := codePattern.FindString(msg.Snippet)
	if value == "" {
		logger.Warn("OTP message does not contain a code", zap.String("messageId", msg.ID))
		return nil
	}
	return &model.OneTimeCode{Value: value, MessageID: msg.ID}
}
