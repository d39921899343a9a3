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

// Package serviceerror defines the error structures for the service layer.
package serviceerror

// ServiceErrorType defines the type of service error.
type ServiceErrorType string

const (
	// TransientErrorType denotes a failure that ends the current session attempt only.
	TransientErrorType ServiceErrorType = "transient_error"
	// FatalErrorType denotes a failure that ends the whole run.
	FatalErrorType ServiceErrorType = "fatal_error"
)

// ServiceError defines a generic error structure that can be used across the service layer.
type ServiceError struct {
	Code             string           `json:"code"`
	Type             ServiceErrorType `json:"type"`
	Error            string           `json:"error"`
	ErrorDescription string           `json:"error_description,omitempty"`
}

// IsFatal reports whether the error must end the run.
func (e *ServiceError) IsFatal() bool {
	return e.Type == FatalErrorType
}

// CustomServiceError returns a copy of the given service error with the provided description.
func CustomServiceError(svcError ServiceError, errorDesc string) *ServiceError {
	err := svcError
	err.ErrorDescription = errorDesc
	return &err
}
