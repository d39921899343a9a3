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

// Package model defines the data structures exchanged by the EDIS authorization flow.
package model

import "time"

// AuthorizationRequest identifies the holding to authorize for a session.
type AuthorizationRequest struct {
	ISIN     string
	Quantity int
}

// FormFields holds the hidden form fields returned by a remote endpoint. The values are
// echoed back verbatim on the next call and are never interpreted by the flow.
type FormFields map[string]string

// Clone returns a copy of the fields merged with the given additions.
func (f FormFields) Clone(additions map[string]string) FormFields {
	out := make(FormFields, len(f)+len(additions))
	for k, v := range f {
		out[k] = v
	}
	for k, v := range additions {
		out[k] = v
	}
	return out
}

// OneTimeCode is the OTP read from the mailbox together with the message that carried it.
type OneTimeCode struct {
	Value     string
	MessageID string
}

// SessionState is a state of the authorization session state machine.
type SessionState string

const (
	// SessionStateInit is the state before the first call of an attempt.
	SessionStateInit SessionState = "INIT"
	// SessionStateFormObtained is reached when the broker returned the authorization form.
	SessionStateFormObtained SessionState = "FORM_OBTAINED"
	// SessionStateSessionVerified is reached when the depository accepted the form.
	SessionStateSessionVerified SessionState = "SESSION_VERIFIED"
	// SessionStatePinVerified is reached when the depository accepted the PIN.
	SessionStatePinVerified SessionState = "PIN_VERIFIED"
	// SessionStateAwaitingOTP is reached after the settlement delay while the OTP is polled.
	SessionStateAwaitingOTP SessionState = "AWAITING_OTP"
	// SessionStateOTPVerified is reached when the depository accepted the OTP.
	SessionStateOTPVerified SessionState = "OTP_VERIFIED"
	// SessionStateCallbackComplete is the successful terminal state.
	SessionStateCallbackComplete SessionState = "CALLBACK_COMPLETE"
	// SessionStateCallbackIncomplete is reached when the callback succeeded without the success marker.
	SessionStateCallbackIncomplete SessionState = "CALLBACK_INCOMPLETE"
	// SessionStateFailed is the state of an attempt that ended with an error.
	SessionStateFailed SessionState = "FAILED"
)

// SessionStatus is the final disposition of an authorization session.
type SessionStatus string

const (
	// SessionStatusComplete denotes a session that reached the success marker.
	SessionStatusComplete SessionStatus = "COMPLETE"
	// SessionStatusIncomplete denotes a session whose callback lacked the success marker.
	SessionStatusIncomplete SessionStatus = "INCOMPLETE"
)

// SessionOutcome is the result of a session that did not fail.
type SessionOutcome struct {
	Status    SessionStatus
	AttemptID string
	Attempts  int
}

// SessionAttempt is the audit record of one pass through the flow.
type SessionAttempt struct {
	AttemptID  string
	ISIN       string
	Quantity   int
	Number     int
	FinalState SessionState
	ErrorCode  string
	StartedAt  time.Time
	EndedAt    time.Time
}
