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

// Package store persists the consumed OTP messages and the audit trail of the session attempts.
package store

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/asgardeo/edisauth/internal/edis/model"
	"github.com/asgardeo/edisauth/internal/system/database/provider"
	"github.com/asgardeo/edisauth/internal/system/log"
)

const loggerComponentName = "LedgerStore"

// LedgerStoreInterface defines the ledger operations used by the authorization flow.
type LedgerStoreInterface interface {
	InitSchema() error
	IsMessageConsumed(messageID string) (bool, error)
	MarkMessageConsumed(messageID, attemptID, isin string, consumedAt time.Time) error
	RecordAttempt(attempt model.SessionAttempt) error
	ListAttempts(isin string, limit int) ([]model.SessionAttempt, error)
}

// LedgerStore implements LedgerStoreInterface over the ledger database.
type LedgerStore struct {
	DBProvider provider.DBProviderInterface
}

// NewLedgerStore creates a new instance of LedgerStore.
func NewLedgerStore(dbProvider provider.DBProviderInterface) LedgerStoreInterface {
	return &LedgerStore{
		DBProvider: dbProvider,
	}
}

// InitSchema creates the ledger tables when they do not exist.
func (s *LedgerStore) InitSchema() error {
	dbClient, err := s.DBProvider.GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	if _, err := dbClient.Execute(QueryCreateOTPMessageTable); err != nil {
		return fmt.Errorf("failed to create the OTP message table: %w", err)
	}
	if _, err := dbClient.Execute(QueryCreateSessionAttemptTable); err != nil {
		return fmt.Errorf("failed to create the session attempt table: %w", err)
	}
	return nil
}

// IsMessageConsumed reports whether the OTP carried by the message was already submitted.
func (s *LedgerStore) IsMessageConsumed(messageID string) (bool, error) {
	dbClient, err := s.DBProvider.GetDBClient()
	if err != nil {
		return false, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(QueryGetConsumedMessage, messageID)
	if err != nil {
		return false, fmt.Errorf("error while looking up the consumed message: %w", err)
	}
	return len(results) > 0, nil
}

// MarkMessageConsumed records that the OTP carried by the message was submitted. Marking the
// same message twice is a no-op.
func (s *LedgerStore) MarkMessageConsumed(messageID, attemptID, isin string, consumedAt time.Time) error {
	dbClient, err := s.DBProvider.GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	if _, err := dbClient.Execute(QueryInsertConsumedMessage, messageID, attemptID, isin, consumedAt.UTC()); err != nil {
		return fmt.Errorf("failed to record the consumed message: %w", err)
	}
	return nil
}

// RecordAttempt stores the audit record of a session attempt.
func (s *LedgerStore) RecordAttempt(attempt model.SessionAttempt) error {
	logger := log.GetLogger().With(zap.String(log.LoggerKeyComponentName, loggerComponentName))

	dbClient, err := s.DBProvider.GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	rows, err := dbClient.Execute(QueryInsertSessionAttempt, attempt.AttemptID, attempt.ISIN, attempt.Quantity,
		attempt.Number, string(attempt.FinalState), attempt.ErrorCode, attempt.StartedAt.UTC(), attempt.EndedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record the session attempt: %w", err)
	}
	logger.Debug("Recorded session attempt", zap.String(log.LoggerKeyAttemptID, attempt.AttemptID),
		zap.Int64("rows", rows))
	return nil
}

// ListAttempts returns the latest attempts of the instrument, newest first.
func (s *LedgerStore) ListAttempts(isin string, limit int) ([]model.SessionAttempt, error) {
	dbClient, err := s.DBProvider.GetDBClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(QueryListSessionAttempts, isin, limit)
	if err != nil {
		return nil, fmt.Errorf("error while retrieving the session attempts: %w", err)
	}

	attempts := make([]model.SessionAttempt, 0, len(results))
	for _, row := range results {
		attempt, err := buildAttemptFromResultRow(row)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}
	return attempts, nil
}

func buildAttemptFromResultRow(row map[string]interface{}) (model.SessionAttempt, error) {
	var attempt model.SessionAttempt
	var err error

	attempt.AttemptID = toString(row["attempt_id"])
	attempt.ISIN = toString(row["isin"])
	attempt.FinalState = model.SessionState(toString(row["final_state"]))
	attempt.ErrorCode = toString(row["error_code"])

	if attempt.Quantity, err = toInt(row["quantity"]); err != nil {
		return attempt, fmt.Errorf("failed to parse quantity: %w", err)
	}
	if attempt.Number, err = toInt(row["attempt_number"]); err != nil {
		return attempt, fmt.Errorf("failed to parse attempt number: %w", err)
	}
	if attempt.StartedAt, err = toTime(row["started_at"]); err != nil {
		return attempt, fmt.Errorf("failed to parse start time: %w", err)
	}
	if attempt.EndedAt, err = toTime(row["ended_at"]); err != nil {
		return attempt, fmt.Errorf("failed to parse end time: %w", err)
	}
	return attempt, nil
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}

func toInt(v interface{}) (int, error) {
	switch val := v.(type) {
	case int64:
		return int(val), nil
	case int:
		return val, nil
	case float64:
		return int(val), nil
	case string:
		return strconv.Atoi(val)
	case []byte:
		return strconv.Atoi(string(val))
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

// Layouts used by the drivers when a timestamp comes back as text.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func toTime(v interface{}) (time.Time, error) {
	var text string
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case string:
		text = val
	case []byte:
		text = string(val)
	default:
		return time.Time{}, fmt.Errorf("unexpected type %T", v)
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format %q", text)
}
