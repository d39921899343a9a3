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

package config

// Environment variables holding the secrets consumed by the agent.
const (
	EnvAccessToken = "DHAN_ACCESS_TOKEN"
	EnvClientID    = "DHAN_CLIENT_ID"
	EnvPIN         = "DHAN_TPIN"
)

// Default broker endpoints.
const (
	DefaultBrokerFormURL     = "https://api.dhan.co/edis/form"
	DefaultBrokerCallbackURL = "https://txn.dhan.co/txnws/ReturnUrl/edis"
	DefaultBrokerHoldingsURL = "https://api.dhan.co/holdings"
	DefaultBrokerInquiryURL  = "https://api.dhan.co/edis/inquire"
	DefaultExchange          = "NSE"
	DefaultSegment           = "EQ"
)

// Default depository endpoints.
const (
	DefaultVerifyDISURL = "https://edis.cdslindia.com/eDIS/VerifyDIS/"
	DefaultVerifyPinURL = "https://edis.cdslindia.com/EDIS/VerifyPin"
	DefaultVerifyOTPURL = "https://edis.cdslindia.com/EDIS/VerifyOTP"
)

// Default mailbox settings.
const (
	DefaultMailboxUserID   = "me"
	DefaultMailboxLabel    = "INBOX"
	DefaultOTPSender       = "edis@cdslindia.co.in"
	DefaultOTPSubject      = "Transaction OTP"
	DefaultCredentialsFile = "repository/conf/credentials.json"
	DefaultTokenFile       = "repository/conf/token.json"
)

// Default flow settings.
const (
	DefaultSessionMaxRetries      = 5
	DefaultOTPMaxRetries          = 5
	DefaultSettlementDelaySeconds = 60
	DefaultPollIntervalSeconds    = 15
	DefaultHTTPTimeoutSeconds     = 30
	DefaultDeleteMaxAttempts      = 3
	DefaultSuccessMarker          = "Your EDIS is Complete."
)

// Default ledger data source.
const (
	DefaultLedgerType = "sqlite"
	DefaultLedgerPath = "repository/database/ledger.db"
)
