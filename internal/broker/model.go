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

package broker

// Holding is a security held in the demat account.
type Holding struct {
	Exchange      string  `json:"exchange"`
	TradingSymbol string  `json:"tradingSymbol"`
	SecurityID    string  `json:"securityId"`
	ISIN          string  `json:"isin"`
	TotalQty      int     `json:"totalQty"`
	DPQty         int     `json:"dpQty"`
	AvailableQty  int     `json:"availableQty"`
	AvgCostPrice  float64 `json:"avgCostPrice"`
}

// InquiryStatus is the authorization status of a single instrument.
type InquiryStatus struct {
	ClientID    string `json:"clientId"`
	ISIN        string `json:"isin"`
	TotalQty    int    `json:"totalQty"`
	ApprovedQty int    `json:"aprvdQty"`
	Status      string `json:"status"`
	Remarks     string `json:"remarks"`
}

// InquiryResponse is the result of an authorization status inquiry.
type InquiryResponse struct {
	Status  string
	Remarks string
	Data    []InquiryStatus
}

// StatusByISIN indexes the inquiry rows by instrument.
func (r *InquiryResponse) StatusByISIN() map[string]InquiryStatus {
	out := make(map[string]InquiryStatus, len(r.Data))
	for _, row := range r.Data {
		out[row.ISIN] = row
	}
	return out
}
