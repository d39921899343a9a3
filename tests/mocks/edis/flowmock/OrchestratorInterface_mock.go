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

// Package flowmock provides a mock implementation of the session orchestrator.
package flowmock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/asgardeo/edisauth/internal/edis/model"
	"github.com/asgardeo/edisauth/internal/system/error/serviceerror"
)

// OrchestratorInterfaceMock is a mock implementation of flow.OrchestratorInterface.
type OrchestratorInterfaceMock struct {
	mock.Mock
}

// NewOrchestratorInterfaceMock creates a new mock and registers the expectation assertions.
func NewOrchestratorInterfaceMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrchestratorInterfaceMock {
	m := &OrchestratorInterfaceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Authorize mocks the Authorize method.
func (m *OrchestratorInterfaceMock) Authorize(ctx context.Context, request model.AuthorizationRequest) (
	*model.SessionOutcome, *serviceerror.ServiceError) {
	ret := m.Called(ctx, request)

	var outcome *model.SessionOutcome
	if v := ret.Get(0); v != nil {
		outcome = v.(*model.SessionOutcome)
	}
	var svcErr *serviceerror.ServiceError
	if v := ret.Get(1); v != nil {
		svcErr = v.(*serviceerror.ServiceError)
	}
	return outcome, svcErr
}
