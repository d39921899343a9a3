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

// Package storemock provides a mock implementation of the ledger store.
package storemock

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/asgardeo/edisauth/internal/edis/model"
)

// LedgerStoreInterfaceMock is a mock implementation of store.LedgerStoreInterface.
type LedgerStoreInterfaceMock struct {
	mock.Mock
}

// NewLedgerStoreInterfaceMock creates a new mock and registers the expectation assertions.
func NewLedgerStoreInterfaceMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *LedgerStoreInterfaceMock {
	m := &LedgerStoreInterfaceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// InitSchema mocks the InitSchema method.
func (m *LedgerStoreInterfaceMock) InitSchema() error {
	ret := m.Called()
	return ret.Error(0)
}

// IsMessageConsumed mocks the IsMessageConsumed method.
func (m *LedgerStoreInterfaceMock) IsMessageConsumed(messageID string) (bool, error) {
	ret := m.Called(messageID)
	return ret.Bool(0), ret.Error(1)
}

// MarkMessageConsumed mocks the MarkMessageConsumed method.
func (m *LedgerStoreInterfaceMock) MarkMessageConsumed(messageID, attemptID, isin string,
	consumedAt time.Time) error {
	ret := m.Called(messageID, attemptID, isin, consumedAt)
	return ret.Error(0)
}

// RecordAttempt mocks the RecordAttempt method.
func (m *LedgerStoreInterfaceMock) RecordAttempt(attempt model.SessionAttempt) error {
	ret := m.Called(attempt)
	return ret.Error(0)
}

// ListAttempts mocks the ListAttempts method.
func (m *LedgerStoreInterfaceMock) ListAttempts(isin string, limit int) ([]model.SessionAttempt, error) {
	ret := m.Called(isin, limit)

	var attempts []model.SessionAttempt
	if v := ret.Get(0); v != nil {
		attempts = v.([]model.SessionAttempt)
	}
	return attempts, ret.Error(1)
}
