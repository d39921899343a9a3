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

// Package brokermock provides a mock implementation of the broker service.
package brokermock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/asgardeo/edisauth/internal/broker"
)

// BrokerServiceInterfaceMock is a mock implementation of broker.BrokerServiceInterface.
type BrokerServiceInterfaceMock struct {
	mock.Mock
}

// NewBrokerServiceInterfaceMock creates a new mock and registers the expectation assertions.
func NewBrokerServiceInterfaceMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *BrokerServiceInterfaceMock {
	m := &BrokerServiceInterfaceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// GetHoldings mocks the GetHoldings method.
func (m *BrokerServiceInterfaceMock) GetHoldings(ctx context.Context) ([]broker.Holding, error) {
	ret := m.Called(ctx)

	var holdings []broker.Holding
	if v := ret.Get(0); v != nil {
		holdings = v.([]broker.Holding)
	}
	return holdings, ret.Error(1)
}

// InquireStatus mocks the InquireStatus method.
func (m *BrokerServiceInterfaceMock) InquireStatus(ctx context.Context, isin string) (
	*broker.InquiryResponse, error) {
	ret := m.Called(ctx, isin)

	var resp *broker.InquiryResponse
	if v := ret.Get(0); v != nil {
		resp = v.(*broker.InquiryResponse)
	}
	return resp, ret.Error(1)
}
