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

// Package clientmock provides a mock implementation of the step invoker.
package clientmock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/asgardeo/edisauth/internal/edis/model"
)

// StepInvokerInterfaceMock is a mock implementation of client.StepInvokerInterface.
type StepInvokerInterfaceMock struct {
	mock.Mock
}

// NewStepInvokerInterfaceMock creates a new mock and registers the expectation assertions.
func NewStepInvokerInterfaceMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *StepInvokerInterfaceMock {
	m := &StepInvokerInterfaceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func fieldsResult(ret mock.Arguments) (model.FormFields, error) {
	var fields model.FormFields
	if v := ret.Get(0); v != nil {
		fields = v.(model.FormFields)
	}
	return fields, ret.Error(1)
}

// RequestForm mocks the RequestForm method.
func (m *StepInvokerInterfaceMock) RequestForm(ctx context.Context, request model.AuthorizationRequest) (
	model.FormFields, error) {
	return fieldsResult(m.Called(ctx, request))
}

// VerifySession mocks the VerifySession method.
func (m *StepInvokerInterfaceMock) VerifySession(ctx context.Context, fields model.FormFields) (
	model.FormFields, error) {
	return fieldsResult(m.Called(ctx, fields))
}

// VerifyPin mocks the VerifyPin method.
func (m *StepInvokerInterfaceMock) VerifyPin(ctx context.Context, fields model.FormFields) (
	model.FormFields, error) {
	return fieldsResult(m.Called(ctx, fields))
}

// VerifyOTP mocks the VerifyOTP method.
func (m *StepInvokerInterfaceMock) VerifyOTP(ctx context.Context, fields model.FormFields, code string) (
	model.FormFields, error) {
	return fieldsResult(m.Called(ctx, fields, code))
}

// Callback mocks the Callback method.
func (m *StepInvokerInterfaceMock) Callback(ctx context.Context, fields model.FormFields) (string, error) {
	ret := m.Called(ctx, fields)
	return ret.String(0), ret.Error(1)
}
