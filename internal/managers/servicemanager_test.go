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

package managers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/edisauth/internal/system/config"
)

const (
	testCredentials = `{"installed":{"client_id":"client","client_secret":"secret",` +
		`"token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["http://localhost"]}}`
	testToken = `{"access_token":"access","token_type":"Bearer","refresh_token":"refresh",` +
		`"expiry":"2099-01-01T00:00:00Z"}`
)

type ServiceManagerTestSuite struct {
	suite.Suite
	home string
	cfg  *config.Config
}

func TestServiceManagerSuite(t *testing.T) {
	suite.Run(t, new(ServiceManagerTestSuite))
}

func (suite *ServiceManagerTestSuite) SetupTest() {
	suite.home = suite.T().TempDir()
	suite.cfg = &config.Config{
		Broker:     config.BrokerConfig{AccessToken: "token", ClientID: "1100000001"},
		Depository: config.DepositoryConfig{PIN: "123456"},
		Mailbox: config.MailboxConfig{
			UserID:          "me",
			CredentialsFile: "credentials.json",
			TokenFile:       "token.json",
		},
		Flow: config.FlowConfig{HTTPTimeoutSeconds: 30, SuccessMarker: "Your EDIS is Complete."},
		Database: config.DatabaseConfig{
			Ledger: config.DataSource{Type: "sqlite", Path: "repository/database/ledger.db"},
		},
	}
}

func (suite *ServiceManagerTestSuite) writeMailboxFiles() {
	suite.Require().NoError(os.WriteFile(filepath.Join(suite.home, "credentials.json"), []byte(testCredentials), 0o600))
	suite.Require().NoError(os.WriteFile(filepath.Join(suite.home, "token.json"), []byte(testToken), 0o600))
}

func (suite *ServiceManagerTestSuite) TestRegisterServices() {
	suite.writeMailboxFiles()
	sm := NewServiceManager(suite.cfg, suite.home)

	err := sm.RegisterServices(context.Background())

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), sm.GetRunner())
	assert.FileExists(suite.T(), filepath.Join(suite.home, "repository/database/ledger.db"))
	assert.NoError(suite.T(), sm.Close())
}

func (suite *ServiceManagerTestSuite) TestRegisterServicesWithoutLedger() {
	suite.writeMailboxFiles()
	suite.cfg.Database.Ledger = config.DataSource{Type: "oracle"}
	sm := NewServiceManager(suite.cfg, suite.home)

	assert.NoError(suite.T(), sm.RegisterServices(context.Background()))
	assert.NotNil(suite.T(), sm.GetRunner())
	assert.NoError(suite.T(), sm.Close())
}

func (suite *ServiceManagerTestSuite) TestRegisterServicesMissingSecrets() {
	suite.cfg.Broker.AccessToken = ""
	err := NewServiceManager(suite.cfg, suite.home).RegisterServices(context.Background())
	assert.Contains(suite.T(), err.Error(), config.EnvAccessToken)

	suite.cfg.Broker.AccessToken = "token"
	suite.cfg.Depository.PIN = ""
	err = NewServiceManager(suite.cfg, suite.home).RegisterServices(context.Background())
	assert.Contains(suite.T(), err.Error(), config.EnvPIN)
}

func (suite *ServiceManagerTestSuite) TestRegisterServicesMissingMailboxToken() {
	suite.Require().NoError(os.WriteFile(filepath.Join(suite.home, "credentials.json"), []byte(testCredentials), 0o600))
	sm := NewServiceManager(suite.cfg, suite.home)

	err := sm.RegisterServices(context.Background())

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "failed to read mailbox token")
	assert.Nil(suite.T(), sm.GetRunner())
	assert.NoError(suite.T(), sm.Close())
}

func (suite *ServiceManagerTestSuite) TestRegisterServicesInvalidCAFile() {
	suite.writeMailboxFiles()
	suite.cfg.Security.CAFile = "missing-ca.pem"

	err := NewServiceManager(suite.cfg, suite.home).RegisterServices(context.Background())

	assert.Contains(suite.T(), err.Error(), "failed to load the TLS configuration")
}

func (suite *ServiceManagerTestSuite) TestRegisterReportingServices() {
	sm := NewServiceManager(suite.cfg, suite.home)

	assert.NoError(suite.T(), sm.RegisterReportingServices())
	assert.NotNil(suite.T(), sm.GetRunner())
	assert.NoError(suite.T(), sm.Close())
}

func (suite *ServiceManagerTestSuite) TestRegisterReportingServicesMissingToken() {
	suite.cfg.Broker.AccessToken = ""

	err := NewServiceManager(suite.cfg, suite.home).RegisterReportingServices()

	assert.Contains(suite.T(), err.Error(), config.EnvAccessToken)
}

func (suite *ServiceManagerTestSuite) TestCloseWithoutRegistration() {
	assert.NoError(suite.T(), NewServiceManager(suite.cfg, suite.home).Close())
}
