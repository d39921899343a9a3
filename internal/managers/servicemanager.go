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

// Package managers assembles the services of the agent from the configuration.
package managers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/asgardeo/edisauth/internal/broker"
	"github.com/asgardeo/edisauth/internal/cert"
	"github.com/asgardeo/edisauth/internal/edis/client"
	"github.com/asgardeo/edisauth/internal/edis/flow"
	"github.com/asgardeo/edisauth/internal/edis/otp"
	"github.com/asgardeo/edisauth/internal/edis/runner"
	"github.com/asgardeo/edisauth/internal/edis/store"
	"github.com/asgardeo/edisauth/internal/mailbox"
	"github.com/asgardeo/edisauth/internal/system/clock"
	"github.com/asgardeo/edisauth/internal/system/config"
	"github.com/asgardeo/edisauth/internal/system/database/provider"
	httpservice "github.com/asgardeo/edisauth/internal/system/http"
	"github.com/asgardeo/edisauth/internal/system/log"
)

const loggerComponentName = "ServiceManager"

// ServiceManagerInterface defines the assembly of the agent services.
type ServiceManagerInterface interface {
	// RegisterServices builds every service needed to run an authorization.
	RegisterServices(ctx context.Context) error
	// RegisterReportingServices builds the services needed to report the authorization status.
	RegisterReportingServices() error
	// GetRunner returns the runner built by the last registration.
	GetRunner() runner.RunnerInterface
	// Close releases the resources held by the services.
	Close() error
}

// ServiceManager implements ServiceManagerInterface.
type ServiceManager struct {
	config     *config.Config
	home       string
	clock      clock.Clock
	dbProvider provider.DBProviderInterface
	runner     runner.RunnerInterface
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(cfg *config.Config, home string) ServiceManagerInterface {
	return &ServiceManager{
		config: cfg,
		home:   home,
		clock:  clock.Real(),
	}
}

// RegisterServices builds every service needed to run an authorization.
func (sm *ServiceManager) RegisterServices(ctx context.Context) error {
	if sm.config.Broker.AccessToken == "" {
		return fmt.Errorf("broker access token is not set, export %s", config.EnvAccessToken)
	}
	if sm.config.Depository.PIN == "" {
		return fmt.Errorf("depository PIN is not set, export %s", config.EnvPIN)
	}

	httpClient, err := sm.newHTTPClient()
	if err != nil {
		return err
	}
	ledger := sm.initLedger()

	mb, err := mailbox.NewGmailMailbox(ctx, sm.home, sm.config.Mailbox)
	if err != nil {
		return err
	}
	filter := mailbox.Filter{
		Sender:     sm.config.Mailbox.Sender,
		Subject:    sm.config.Mailbox.Subject,
		Label:      sm.config.Mailbox.Label,
		UnreadOnly: true,
	}
	poller := otp.NewPoller(mb, ledger, sm.clock, filter, sm.config.Flow.OTPMaxRetries,
		sm.config.Flow.PollInterval())

	invoker := client.NewStepInvoker(httpClient, sm.config.Broker, sm.config.Depository)
	orchestrator := flow.NewOrchestrator(invoker, poller, mb, ledger, sm.clock, sm.config.Flow)

	sm.runner = runner.NewRunner(broker.NewBrokerService(httpClient, sm.config.Broker), orchestrator, ledger)
	return nil
}

// RegisterReportingServices builds the services needed to report the authorization status.
func (sm *ServiceManager) RegisterReportingServices() error {
	if sm.config.Broker.AccessToken == "" {
		return fmt.Errorf("broker access token is not set, export %s", config.EnvAccessToken)
	}

	httpClient, err := sm.newHTTPClient()
	if err != nil {
		return err
	}
	sm.runner = runner.NewRunner(broker.NewBrokerService(httpClient, sm.config.Broker), nil, sm.initLedger())
	return nil
}

// GetRunner returns the runner built by the last registration.
func (sm *ServiceManager) GetRunner() runner.RunnerInterface {
	return sm.runner
}

// Close releases the resources held by the services.
func (sm *ServiceManager) Close() error {
	if sm.dbProvider == nil {
		return nil
	}
	return sm.dbProvider.Close()
}

func (sm *ServiceManager) newHTTPClient() (httpservice.HTTPClientInterface, error) {
	tlsConfig, err := cert.GetClientTLSConfig(sm.config, sm.home)
	if err != nil {
		return nil, fmt.Errorf("failed to load the TLS configuration: %w", err)
	}

	httpClient := &http.Client{Timeout: sm.config.Flow.HTTPTimeout()}
	if tlsConfig != nil {
		transport, ok := http.DefaultTransport.(*http.Transport)
		if !ok {
			return nil, errors.New("unexpected default HTTP transport")
		}
		transport = transport.Clone()
		transport.TLSClientConfig = tlsConfig
		httpClient.Transport = transport
	}
	return httpservice.NewHTTPClientWithConfig(httpClient), nil
}

// initLedger opens the ledger. The agent runs without it when the database is unavailable.
func (sm *ServiceManager) initLedger() store.LedgerStoreInterface {
	logger := log.GetLogger().With(zap.String(log.LoggerKeyComponentName, loggerComponentName))

	if sm.dbProvider == nil {
		sm.dbProvider = provider.NewDBProvider(sm.home, sm.config.Database.Ledger)
	}
	ledger := store.NewLedgerStore(sm.dbProvider)
	if err := ledger.InitSchema(); err != nil {
		logger.Warn("Ledger is unavailable, consumed OTP messages will not be tracked", zap.Error(err))
		return nil
	}
	return ledger
}
