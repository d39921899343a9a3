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

package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

const testResourceDir = "../../../tests/resources"

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	suite.T().Setenv(EnvAccessToken, "")
	suite.T().Setenv(EnvClientID, "")
	suite.T().Setenv(EnvPIN, "")
}

func (suite *ConfigTestSuite) getFilePath(filename string) string {
	return filepath.Join(testResourceDir, filename)
}

func (suite *ConfigTestSuite) TestLoadConfigValid() {
	cfg, err := LoadConfig(suite.getFilePath("deployment.yaml"))

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), cfg)

	// Values from the file.
	assert.Equal(suite.T(), "https://broker.example.com/edis/form", cfg.Broker.FormURL)
	assert.Equal(suite.T(), "https://broker.example.com/edis/callback", cfg.Broker.CallbackURL)
	assert.Equal(suite.T(), "file-token", cfg.Broker.AccessToken)
	assert.Equal(suite.T(), "1000000001", cfg.Broker.ClientID)
	assert.Equal(suite.T(), "https://depository.example.com/VerifyDIS/", cfg.Depository.VerifyDISURL)
	assert.Equal(suite.T(), "123456", cfg.Depository.PIN)
	assert.Equal(suite.T(), "otp@depository.example.com", cfg.Mailbox.Sender)
	assert.Equal(suite.T(), 2, cfg.Flow.SessionMaxRetries)
	assert.Equal(suite.T(), 3, cfg.Flow.OTPMaxRetries)
	assert.Equal(suite.T(), 5*time.Second, cfg.Flow.SettlementDelay())
	assert.Equal(suite.T(), "postgres", cfg.Database.Ledger.Type)
	assert.Equal(suite.T(), 5432, cfg.Database.Ledger.Port)

	// Defaults for the values missing in the file.
	assert.Equal(suite.T(), DefaultBrokerHoldingsURL, cfg.Broker.HoldingsURL)
	assert.Equal(suite.T(), DefaultExchange, cfg.Broker.Exchange)
	assert.Equal(suite.T(), DefaultSegment, cfg.Broker.Segment)
	assert.Equal(suite.T(), DefaultVerifyPinURL, cfg.Depository.VerifyPinURL)
	assert.Equal(suite.T(), DefaultVerifyOTPURL, cfg.Depository.VerifyOTPURL)
	assert.Equal(suite.T(), DefaultOTPSubject, cfg.Mailbox.Subject)
	assert.Equal(suite.T(), DefaultMailboxLabel, cfg.Mailbox.Label)
	assert.Equal(suite.T(), 15*time.Second, cfg.Flow.PollInterval())
	assert.Equal(suite.T(), 30*time.Second, cfg.Flow.HTTPTimeout())
	assert.Equal(suite.T(), DefaultDeleteMaxAttempts, cfg.Flow.DeleteMaxAttempts)
	assert.Equal(suite.T(), DefaultSuccessMarker, cfg.Flow.SuccessMarker)
}

func (suite *ConfigTestSuite) TestLoadConfigSecretsFromEnvironment() {
	suite.T().Setenv(EnvAccessToken, "env-token")
	suite.T().Setenv(EnvClientID, "2000000002")
	suite.T().Setenv(EnvPIN, "654321")

	cfg, err := LoadConfig(suite.getFilePath("deployment.yaml"))

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "env-token", cfg.Broker.AccessToken)
	assert.Equal(suite.T(), "2000000002", cfg.Broker.ClientID)
	assert.Equal(suite.T(), "654321", cfg.Depository.PIN)
}

func (suite *ConfigTestSuite) TestLoadConfigFileNotFound() {
	cfg, err := LoadConfig(suite.getFilePath("non_existent_config.yaml"))

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), cfg)
	assert.Contains(suite.T(), err.Error(), "no such file or directory")
}

func (suite *ConfigTestSuite) TestLoadConfigInvalidYAML() {
	cfg, err := LoadConfig(suite.getFilePath("invalid_deployment.yaml"))

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), cfg)
}
