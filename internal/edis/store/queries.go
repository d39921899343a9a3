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

package store

import dbmodel "github.com/asgardeo/edisauth/internal/system/database/model"

var (
	// QueryCreateOTPMessageTable creates the table of the consumed OTP messages.
	QueryCreateOTPMessageTable = dbmodel.DBQuery{
		ID: "EDQ-LEDGER-01",
		Query: "CREATE TABLE IF NOT EXISTS OTP_MESSAGE (" +
			"MESSAGE_ID VARCHAR(255) PRIMARY KEY, " +
			"ATTEMPT_ID VARCHAR(36) NOT NULL, " +
			"ISIN VARCHAR(12) NOT NULL, " +
			"CONSUMED_AT TIMESTAMP NOT NULL)",
	}
	// QueryCreateSessionAttemptTable creates the table of the session attempts.
	QueryCreateSessionAttemptTable = dbmodel.DBQuery{
		ID: "EDQ-LEDGER-02",
		Query: "CREATE TABLE IF NOT EXISTS SESSION_ATTEMPT (" +
			"ATTEMPT_ID VARCHAR(36) PRIMARY KEY, " +
			"ISIN VARCHAR(12) NOT NULL, " +
			"QUANTITY INTEGER NOT NULL, " +
			"ATTEMPT_NUMBER INTEGER NOT NULL, " +
			"FINAL_STATE VARCHAR(32) NOT NULL, " +
			"ERROR_CODE VARCHAR(16), " +
			"STARTED_AT TIMESTAMP NOT NULL, " +
			"ENDED_AT TIMESTAMP NOT NULL)",
	}
	// QueryGetConsumedMessage looks up a consumed OTP message.
	QueryGetConsumedMessage = dbmodel.DBQuery{
		ID:    "EDQ-LEDGER-03",
		Query: "SELECT MESSAGE_ID FROM OTP_MESSAGE WHERE MESSAGE_ID = $1",
	}
	// QueryInsertConsumedMessage records a consumed OTP message.
	QueryInsertConsumedMessage = dbmodel.DBQuery{
		ID: "EDQ-LEDGER-04",
		Query: "INSERT INTO OTP_MESSAGE (MESSAGE_ID, ATTEMPT_ID, ISIN, CONSUMED_AT) VALUES ($1, $2, $3, $4) " +
			"ON CONFLICT (MESSAGE_ID) DO NOTHING",
	}
	// QueryInsertSessionAttempt records a finished session attempt.
	QueryInsertSessionAttempt = dbmodel.DBQuery{
		ID: "EDQ-LEDGER-05",
		Query: "INSERT INTO SESSION_ATTEMPT (ATTEMPT_ID, ISIN, QUANTITY, ATTEMPT_NUMBER, FINAL_STATE, ERROR_CODE, " +
			"STARTED_AT, ENDED_AT) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
	}
	// QueryListSessionAttempts returns the latest attempts of an instrument.
	QueryListSessionAttempts = dbmodel.DBQuery{
		ID: "EDQ-LEDGER-06",
		Query: "SELECT ATTEMPT_ID, ISIN, QUANTITY, ATTEMPT_NUMBER, FINAL_STATE, ERROR_CODE, STARTED_AT, ENDED_AT " +
			"FROM SESSION_ATTEMPT WHERE ISIN = $1 ORDER BY STARTED_AT DESC LIMIT $2",
	}
)
