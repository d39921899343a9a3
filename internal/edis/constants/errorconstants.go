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

package constants

import "github.com/asgardeo/edisauth/internal/system/error/serviceerror"

// Transient errors end the current session attempt only.
var (
	// ErrorFormRequestFailed is the error returned when the broker authorization form could not be obtained.
	ErrorFormRequestFailed = serviceerror.ServiceError{
		Type:             serviceerror.TransientErrorType,
		Code:             "EDIS-1001",
		Error:            "Form request failed",
		ErrorDescription: "The broker did not return the authorization form",
	}
	// ErrorSessionVerificationFailed is the error returned when the depository rejected the form.
	ErrorSessionVerificationFailed = serviceerror.ServiceError{
		Type:             serviceerror.TransientErrorType,
		Code:             "EDIS-1002",
		Error:            "Session verification failed",
		ErrorDescription: "The depository did not accept the authorization form",
	}
	// ErrorPinVerificationFailed is the error returned when the depository rejected the PIN.
	ErrorPinVerificationFailed = serviceerror.ServiceError{
		Type:             serviceerror.TransientErrorType,
		Code:             "EDIS-1003",
		Error:            "PIN verification failed",
		ErrorDescription: "The depository did not accept the PIN",
	}
	// ErrorOTPVerificationFailed is the error returned when the depository rejected the OTP.
	ErrorOTPVerificationFailed = serviceerror.ServiceError{
		Type:             serviceerror.TransientErrorType,
		Code:             "EDIS-1004",
		Error:            "OTP verification failed",
		ErrorDescription: "The depository did not accept the OTP",
	}
	// ErrorCallbackFailed is the error returned when the broker callback failed.
	ErrorCallbackFailed = serviceerror.ServiceError{
		Type:             serviceerror.TransientErrorType,
		Code:             "EDIS-1005",
		Error:            "Callback failed",
		ErrorDescription: "The broker callback did not succeed",
	}
	// ErrorSettlementWaitInterrupted is the error returned when the settlement delay was interrupted.
	ErrorSettlementWaitInterrupted = serviceerror.ServiceError{
		Type:             serviceerror.TransientErrorType,
		Code:             "EDIS-1006",
		Error:            "Settlement wait interrupted",
		ErrorDescription: "The wait before the OTP lookup was interrupted",
	}
)

// Fatal errors end the run.
var (
	// ErrorOTPNotReceived is the error returned when the OTP did not arrive within the poll budget.
	ErrorOTPNotReceived = serviceerror.ServiceError{
		Type:             serviceerror.FatalErrorType,
		Code:             "EDIS-5001",
		Error:            "OTP not received",
		ErrorDescription: "No OTP message was found in the mailbox within the allowed attempts",
	}
	// ErrorSessionRetriesExhausted is the error returned when every session attempt failed.
	ErrorSessionRetriesExhausted = serviceerror.ServiceError{
		Type:             serviceerror.FatalErrorType,
		Code:             "EDIS-5002",
		Error:            "Session retries exhausted",
		ErrorDescription: "The authorization session failed on every attempt",
	}
	// ErrorInvalidRequest is the error returned when the authorization request is invalid.
	ErrorInvalidRequest = serviceerror.ServiceError{
		Type:             serviceerror.FatalErrorType,
		Code:             "EDIS-5003",
		Error:            "Invalid request",
		ErrorDescription: "The ISIN must be set and the quantity must be positive",
	}
	// ErrorHoldingsUnavailable is the error returned when the holdings could not be read.
	ErrorHoldingsUnavailable = serviceerror.ServiceError{
		Type:             serviceerror.FatalErrorType,
		Code:             "EDIS-5004",
		Error:            "Holdings unavailable",
		ErrorDescription: "The holdings could not be retrieved from the broker",
	}
	// ErrorStatusInquiryFailed is the error returned when the status inquiry failed.
	ErrorStatusInquiryFailed = serviceerror.ServiceError{
		Type:             serviceerror.FatalErrorType,
		Code:             "EDIS-5005",
		Error:            "Status inquiry failed",
		ErrorDescription: "The authorization status could not be retrieved from the broker",
	}
	// ErrorAuthorizationNotConfirmed is the error returned when a holding is not confirmed by the inquiry.
	ErrorAuthorizationNotConfirmed = serviceerror.ServiceError{
		Type:             serviceerror.FatalErrorType,
		Code:             "EDIS-5006",
		Error:            "Authorization not confirmed",
		ErrorDescription: "One or more holdings are not authorized",
	}
)
