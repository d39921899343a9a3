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

// Package mailboxmock provides a mock implementation of the mailbox.
package mailboxmock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/asgardeo/edisauth/internal/mailbox"
)

// MailboxInterfaceMock is a mock implementation of mailbox.MailboxInterface.
type MailboxInterfaceMock struct {
	mock.Mock
}

// NewMailboxInterfaceMock creates a new mock and registers the expectation assertions.
func NewMailboxInterfaceMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *MailboxInterfaceMock {
	m := &MailboxInterfaceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// FindLatestMatching mocks the FindLatestMatching method.
func (m *MailboxInterfaceMock) FindLatestMatching(ctx context.Context, filter mailbox.Filter) (
	*mailbox.MessageSummary, error) {
	ret := m.Called(ctx, filter)

	var msg *mailbox.MessageSummary
	if v := ret.Get(0); v != nil {
		msg = v.(*mailbox.MessageSummary)
	}
	return msg, ret.Error(1)
}

// DeleteMessage mocks the DeleteMessage method.
func (m *MailboxInterfaceMock) DeleteMessage(ctx context.Context, messageID string) error {
	ret := m.Called(ctx, messageID)
	return ret.Error(0)
}
