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

package mailbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/asgardeo/edisauth/internal/system/config"
	"github.com/asgardeo/edisauth/internal/system/log"
)

const loggerComponentName = "Mailbox"

// MailboxInterface defines the mailbox operations used by the OTP poller.
type MailboxInterface interface {
	// FindLatestMatching returns the newest message matching the filter, or nil when there is none.
	FindLatestMatching(ctx context.Context, filter Filter) (*MessageSummary, error)
	// DeleteMessage permanently removes the message.
	DeleteMessage(ctx context.Context, messageID string) error
}

// GmailMailbox implements MailboxInterface over the Gmail API.
type GmailMailbox struct {
	service *gmail.Service
	userID  string
}

// NewGmailMailbox creates a mailbox authorized with the stored OAuth client credentials and
// token. Relative file paths are resolved against the home directory.
func NewGmailMailbox(ctx context.Context, home string, cfg config.MailboxConfig) (MailboxInterface, error) {
	credentialsFile := resolvePath(home, cfg.CredentialsFile)
	tokenFile := resolvePath(home, cfg.TokenFile)

	credentials, err := os.ReadFile(filepath.Clean(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read client credentials: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(credentials, gmail.MailGoogleComScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client credentials: %w", err)
	}

	token, err := readToken(tokenFile)
	if err != nil {
		return nil, err
	}

	tokenSource := &persistingTokenSource{
		base: oauthConfig.TokenSource(ctx, token),
		path: tokenFile,
		last: token.AccessToken,
	}
	return NewGmailMailboxWithOptions(ctx, cfg.UserID,
		option.WithTokenSource(oauth2.ReuseTokenSource(token, tokenSource)))
}

// NewGmailMailboxWithOptions creates a mailbox from explicit client options.
func NewGmailMailboxWithOptions(ctx context.Context, userID string,
	opts ...option.ClientOption) (MailboxInterface, error) {
	service, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mailbox service: %w", err)
	}
	return &GmailMailbox{service: service, userID: userID}, nil
}

// FindLatestMatching returns the newest message matching the filter, or nil when there is none.
func (m *GmailMailbox) FindLatestMatching(ctx context.Context, filter Filter) (*MessageSummary, error) {
	logger := log.GetLogger().With(zap.String(log.LoggerKeyComponentName, loggerComponentName))

	call := m.service.Users.Messages.List(m.userID).Q(filter.Query()).MaxResults(1).Context(ctx)
	if filter.Label != "" {
		call = call.LabelIds(filter.Label)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	if len(resp.Messages) == 0 {
		logger.Debug("No message matches the filter", zap.String("query", filter.Query()))
		return nil, nil
	}

	msg, err := m.service.Users.Messages.Get(m.userID, resp.Messages[0].Id).
		Format("metadata").MetadataHeaders("From", "Subject").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read message %s: %w", resp.Messages[0].Id, err)
	}
	return &MessageSummary{ID: msg.Id, Snippet: msg.Snippet}, nil
}

// DeleteMessage permanently removes the message.
func (m *GmailMailbox) DeleteMessage(ctx context.Context, messageID string) error {
	err := m.service.Users.Messages.Delete(m.userID, messageID).Context(ctx).Do()
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
		return ErrMessageNotFound
	}
	return fmt.Errorf("failed to delete message %s: %w", messageID, err)
}

// persistingTokenSource writes the token back to the token file whenever it is refreshed.
type persistingTokenSource struct {
	base oauth2.TokenSource
	path string
	mu   sync.Mutex
	last string
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := p.base.Token()
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if token.AccessToken != p.last {
		p.last = token.AccessToken
		if err := writeToken(p.path, token); err != nil {
			log.GetLogger().Warn("Failed to store the refreshed mailbox token",
				zap.String(log.LoggerKeyComponentName, loggerComponentName), zap.Error(err))
		}
	}
	return token, nil
}

func readToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read mailbox token: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse mailbox token: %w", err)
	}
	return &token, nil
}

func writeToken(path string, token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func resolvePath(home, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(home, p)
}
