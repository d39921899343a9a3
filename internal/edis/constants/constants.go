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

// Package constants defines the constants used by the EDIS authorization flow.
package constants

// Form and payload field names.
const (
	FieldEDISFormHTML = "edisFormHtml"
	FieldUserPin      = "userPin"
	FieldOTP          = "OTP"
)

// Header names and values.
const (
	HeaderAccessToken    = "access-token"
	HeaderClientID       = "client-id"
	HeaderAuthority      = "authority"
	HeaderContentType    = "Content-Type"
	HeaderAccept         = "Accept"
	ContentTypeJSON      = "application/json"
	ContentTypeForm      = "application/x-www-form-urlencoded"
	StatusInquiryAllISIN = "ALL"
	StatusInquirySuccess = "SUCCESS"
)

// OTPCodeLength is the number of digits of the depository OTP.
const OTPCodeLength = 6
