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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/asgardeo/edisauth/internal/edis/constants"
	"github.com/asgardeo/edisauth/internal/edis/model"
	"github.com/asgardeo/edisauth/internal/edis/runner"
	"github.com/asgardeo/edisauth/internal/managers"
	"github.com/asgardeo/edisauth/internal/system/config"
	"github.com/asgardeo/edisauth/internal/system/error/serviceerror"
	"github.com/asgardeo/edisauth/internal/system/log"
)

const configFile = "repository/conf/deployment.yaml"

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	home string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "edisauth",
		Short: "Authorizes the EDIS of the demat holdings",
		Long: "Runs the EDIS authorization session for the holdings of the account and confirms\n" +
			"the result with the broker.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(cmd.Context(), opts, true, func(r runner.RunnerInterface) *serviceerror.ServiceError {
				return r.Run(cmd.Context())
			})
		},
	}
	cmd.PersistentFlags().StringVar(&opts.home, "home", "", "Path to the agent home directory")

	cmd.AddCommand(newAuthorizeCommand(opts), newStatusCommand(opts))
	return cmd
}

func newAuthorizeCommand(opts *rootOptions) *cobra.Command {
	var isin string
	var quantity int

	cmd := &cobra.Command{
		Use:   "authorize",
		Short: "Authorizes a single holding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if quantity <= 0 {
				return fmt.Errorf("invalid quantity %d, it must be positive", quantity)
			}
			request := model.AuthorizationRequest{ISIN: strings.ToUpper(strings.TrimSpace(isin)), Quantity: quantity}
			return withServices(cmd.Context(), opts, true, func(r runner.RunnerInterface) *serviceerror.ServiceError {
				return r.AuthorizeHolding(cmd.Context(), request)
			})
		},
	}
	cmd.Flags().StringVar(&isin, "isin", "", "ISIN of the holding")
	cmd.Flags().IntVar(&quantity, "qty", 0, "Quantity to authorize")
	_ = cmd.MarkFlagRequired("isin")
	_ = cmd.MarkFlagRequired("qty")
	return cmd
}

func newStatusCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status [isin]",
		Short: "Shows the EDIS authorization status",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			isin := constants.StatusInquiryAllISIN
			if len(args) == 1 {
				isin = strings.ToUpper(strings.TrimSpace(args[0]))
			}
			return withServices(cmd.Context(), opts, false, func(r runner.RunnerInterface) *serviceerror.ServiceError {
				report, svcErr := r.Status(cmd.Context(), isin)
				if svcErr != nil {
					return svcErr
				}
				printStatus(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}
}

// withServices loads the configuration, builds the services and runs the action.
func withServices(ctx context.Context, opts *rootOptions, authorize bool,
	action func(runner.RunnerInterface) *serviceerror.ServiceError) error {
	logger := log.GetLogger()

	home, err := resolveHome(logger, opts.home)
	if err != nil {
		return err
	}
	cfg, err := config.LoadConfig(filepath.Join(home, configFile))
	if err != nil {
		return fmt.Errorf("failed to load configurations: %w", err)
	}

	serviceManager := managers.NewServiceManager(cfg, home)
	defer func() {
		if closeErr := serviceManager.Close(); closeErr != nil {
			logger.Error("Failed to close the services", zap.Error(closeErr))
		}
	}()

	if authorize {
		err = serviceManager.RegisterServices(ctx)
	} else {
		err = serviceManager.RegisterReportingServices()
	}
	if err != nil {
		return fmt.Errorf("failed to register the services: %w", err)
	}

	if svcErr := action(serviceManager.GetRunner()); svcErr != nil {
		return toError(svcErr)
	}
	return nil
}

// resolveHome returns the home directory from the flag, defaulting to the working directory.
func resolveHome(logger *zap.Logger, flagValue string) (string, error) {
	if flagValue != "" {
		logger.Debug("Using home from command line argument", zap.String("home", flagValue))
		return flagValue, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	return dir, nil
}

func toError(svcErr *serviceerror.ServiceError) error {
	return errors.New(svcErr.Code + " " + svcErr.Error + ": " + svcErr.ErrorDescription)
}

func printStatus(out io.Writer, report *runner.StatusReport) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Status: %s %s\n\n", report.Inquiry.Status, report.Inquiry.Remarks)
	_, _ = fmt.Fprintln(w, "ISIN\tSTATUS\tTOTAL\tAPPROVED\tREMARKS")
	for _, row := range report.Inquiry.Data {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", row.ISIN, row.Status, row.TotalQty, row.ApprovedQty, row.Remarks)
	}

	if len(report.Attempts) > 0 {
		_, _ = fmt.Fprintln(w, "\nATTEMPT\tNUMBER\tSTATE\tERROR\tSTARTED\tDURATION")
		for _, a := range report.Attempts {
			_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n", a.AttemptID, a.Number, a.FinalState, a.ErrorCode,
				a.StartedAt.Format(time.RFC3339), a.EndedAt.Sub(a.StartedAt).Round(time.Second))
		}
	}
	_ = w.Flush()
}
