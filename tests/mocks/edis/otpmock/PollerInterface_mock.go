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

// Package otpmock provides a mock implementation of the OTP poller.
package otpmock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/asgardeo/edisauth/internal/edis/model"
	"github.com/asgardeo/edisauth/internal/system/error/serviceerror"
)

// PollerInterfaceMock is a mock implementation of otp.PollerInterface.
type PollerInterfaceMock struct {
	mock.Mock
}

// NewPollerInterfaceMock creates a new mock and registers the expectation assertions.
func NewPollerInterfaceMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *PollerInterfaceMock {
	m := &PollerInterfaceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// PollForCode mocks the PollForCode method.
func (m *PollerInterfaceMock) PollForCode(ctx context.Context) (*model.OneTimeCode, *serviceerror.ServiceError) {
	ret := m.Called(ctx)

	var code *model.OneTimeCode
	if v := ret.Get(0); v != nil {
		code = v.(*model.OneTimeCode)
	}
	var svcErr *serviceerror.ServiceError
	if v := ret.Get(1); v != nil {
		svcErr = v.(*serviceerror.ServiceError)
	}
	return code, svcErr
}
