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

// Package providermock provides a mock implementation of the database provider.
package providermock

import (
	"github.com/stretchr/testify/mock"

	"github.com/asgardeo/edisauth/internal/system/database/client"
)

// DBProviderInterfaceMock is a mock implementation of provider.DBProviderInterface.
type DBProviderInterfaceMock struct {
	mock.Mock
}

// NewDBProviderInterfaceMock creates a new mock and registers the expectation assertions.
func NewDBProviderInterfaceMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *DBProviderInterfaceMock {
	m := &DBProviderInterfaceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// GetDBClient mocks the GetDBClient method.
func (m *DBProviderInterfaceMock) GetDBClient() (client.DBClientInterface, error) {
	ret := m.Called()

	var dbClient client.DBClientInterface
	if v := ret.Get(0); v != nil {
		dbClient = v.(client.DBClientInterface)
	}
	return dbClient, ret.Error(1)
}

// Close mocks the Close method.
func (m *DBProviderInterfaceMock) Close() error {
	ret := m.Called()
	return ret.Error(0)
}
