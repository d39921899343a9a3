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

// Package config provides structures and functions for loading the agent configurations.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/asgardeo/edisauth/internal/system/log"

	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"
)

// BrokerConfig holds the broker API configuration details.
type BrokerConfig struct {
	FormURL     string `yaml:"form_url"`
	CallbackURL string `yaml:"callback_url"`
	HoldingsURL string `yaml:"holdings_url"`
	InquiryURL  string `yaml:"inquiry_url"`
	Exchange    string `yaml:"exchange"`
	Segment     string `yaml:"segment"`
	AccessToken string `yaml:"access_token"`
	ClientID    string `yaml:"client_id"`
}

// DepositoryConfig holds the depository endpoint configuration details.
type DepositoryConfig struct {
	VerifyDISURL string `yaml:"verify_dis_url"`
	VerifyPinURL string `yaml:"verify_pin_url"`
	VerifyOTPURL string `yaml:"verify_otp_url"`
	PIN          string `yaml:"pin"`
}

// MailboxConfig holds the mailbox configuration used to read the OTP messages.
type MailboxConfig struct {
	UserID          string `yaml:"user_id"`
	Label           string `yaml:"label"`
	Sender          string `yaml:"sender"`
	Subject         string `yaml:"subject"`
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
}

// FlowConfig holds the configuration details of the authorization flow.
type FlowConfig struct {
	SessionMaxRetries      int    `yaml:"session_max_retries"`
	OTPMaxRetries          int    `yaml:"otp_max_retries"`
	SettlementDelaySeconds int    `yaml:"settlement_delay_seconds"`
	PollIntervalSeconds    int    `yaml:"poll_interval_seconds"`
	HTTPTimeoutSeconds     int    `yaml:"http_timeout_seconds"`
	DeleteMaxAttempts      int    `yaml:"delete_max_attempts"`
	SuccessMarker          string `yaml:"success_marker"`
}

// SecurityConfig holds the TLS settings of the outbound connections.
type SecurityConfig struct {
	CAFile string `yaml:"ca_file"`
}

// DataSource holds the individual database connection details.
type DataSource struct {
	Type     string `yaml:"type"`
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	Path     string `yaml:"path"`
	Options  string `yaml:"options"`
}

// DatabaseConfig holds the database configuration details.
type DatabaseConfig struct {
	Ledger DataSource `yaml:"ledger"`
}

// Config holds the complete configuration details of the agent.
type Config struct {
	Broker     BrokerConfig     `yaml:"broker"`
	Depository DepositoryConfig `yaml:"depository"`
	Mailbox    MailboxConfig    `yaml:"mailbox"`
	Flow       FlowConfig       `yaml:"flow"`
	Database   DatabaseConfig   `yaml:"database"`
	Security   SecurityConfig   `yaml:"security"`
}

// LoadConfig loads the configurations from the specified YAML file, applies the default
// values and the secrets sourced from the environment.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	path = filepath.Clean(path)

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if ferr := file.Close(); ferr != nil {
			log.GetLogger().Error("Failed to close config file", zap.Error(ferr))
		}
	}()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	cfg.applyEnvironment()
	return &cfg, nil
}

// SettlementDelay returns the wait between PIN verification and the OTP lookup.
func (f FlowConfig) SettlementDelay() time.Duration {
	return time.Duration(f.SettlementDelaySeconds) * time.Second
}

// PollInterval returns the wait between two mailbox lookups.
func (f FlowConfig) PollInterval() time.Duration {
	return time.Duration(f.PollIntervalSeconds) * time.Second
}

// HTTPTimeout returns the timeout applied to each outbound HTTP request.
func (f FlowConfig) HTTPTimeout() time.Duration {
	return time.Duration(f.HTTPTimeoutSeconds) * time.Second
}

// applyDefaults fills every unset value with its default.
func (c *Config) applyDefaults() {
	setDefault(&c.Broker.FormURL, DefaultBrokerFormURL)
	setDefault(&c.Broker.CallbackURL, DefaultBrokerCallbackURL)
	setDefault(&c.Broker.HoldingsURL, DefaultBrokerHoldingsURL)
	setDefault(&c.Broker.InquiryURL, DefaultBrokerInquiryURL)
	setDefault(&c.Broker.Exchange, DefaultExchange)
	setDefault(&c.Broker.Segment, DefaultSegment)

	setDefault(&c.Depository.VerifyDISURL, DefaultVerifyDISURL)
	setDefault(&c.Depository.VerifyPinURL, DefaultVerifyPinURL)
	setDefault(&c.Depository.VerifyOTPURL, DefaultVerifyOTPURL)

	setDefault(&c.Mailbox.UserID, DefaultMailboxUserID)
	setDefault(&c.Mailbox.Label, DefaultMailboxLabel)
	setDefault(&c.Mailbox.Sender, DefaultOTPSender)
	setDefault(&c.Mailbox.Subject, DefaultOTPSubject)
	setDefault(&c.Mailbox.CredentialsFile, DefaultCredentialsFile)
	setDefault(&c.Mailbox.TokenFile, DefaultTokenFile)

	setDefaultInt(&c.Flow.SessionMaxRetries, DefaultSessionMaxRetries)
	setDefaultInt(&c.Flow.OTPMaxRetries, DefaultOTPMaxRetries)
	setDefaultInt(&c.Flow.SettlementDelaySeconds, DefaultSettlementDelaySeconds)
	setDefaultInt(&c.Flow.PollIntervalSeconds, DefaultPollIntervalSeconds)
	setDefaultInt(&c.Flow.HTTPTimeoutSeconds, DefaultHTTPTimeoutSeconds)
	setDefaultInt(&c.Flow.DeleteMaxAttempts, DefaultDeleteMaxAttempts)
	setDefault(&c.Flow.SuccessMarker, DefaultSuccessMarker)

	setDefault(&c.Database.Ledger.Type, DefaultLedgerType)
	setDefault(&c.Database.Ledger.Path, DefaultLedgerPath)
}

// applyEnvironment overrides the secrets with the values found in the environment.
func (c *Config) applyEnvironment() {
	if v := os.Getenv(EnvAccessToken); v != "" {
		c.Broker.AccessToken = v
	}
	if v := os.Getenv(EnvClientID); v != "" {
		c.Broker.ClientID = v
	}
	if v := os.Getenv(EnvPIN); v != "" {
		c.Depository.PIN = v
	}
}

func setDefault(target *string, value string) {
	if *target == "" {
		*target = value
	}
}

// setDefaultInt treats zero as unset. Retry budgets are disabled with a negative value.
func setDefaultInt(target *int, value int) {
	if *target == 0 {
		*target = value
	}
}
