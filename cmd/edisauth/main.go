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

// Package main is the entry point of the EDIS authorization agent.
package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/asgardeo/edisauth/internal/system/log"
)

func main() {
	// Initialize the logger.
	if err := log.InitLogger(); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()
	logger := log.GetLogger()

	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		logger.Fatal("EDIS authorization agent failed", zap.Error(err))
	}
}
