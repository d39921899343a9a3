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
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/asgardeo/edisauth/internal/system/config"
)

const (
	messagesPath = "/gmail/v1/users/me/messages"
	messagePath  = "/gmail/v1/users/me/messages/msg-1"
)

type MailboxTestSuite struct {
	suite.Suite
	server  *httptest.Server
	mux     *http.ServeMux
	mailbox MailboxInterface
}

func TestMailboxSuite(t *testing.T) {
	suite.Run(t, new(MailboxTestSuite))
}

func (suite *MailboxTestSuite) SetupTest() {
	suite.mux = http.NewServeMux()
	suite.server = httptest.NewServer(suite.mux)

	mb, err := NewGmailMailboxWithOptions(context.Background(), "me",
		option.WithEndpoint(suite.server.URL+"/"), option.WithHTTPClient(suite.server.Client()))
	suite.Require().NoError(err)
	suite.mailbox = mb
}

func (suite *MailboxTestSuite) TearDownTest() {
	suite.server.Close()
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (suite *MailboxTestSuite) TestFilterQuery() {
	filter := Filter{Sender: "edis@cdslindia.co.in", Subject: "Transaction OTP", UnreadOnly: true}
	assert.Equal(suite.T(), "from:edis@cdslindia.co.in is:unread subject:Transaction OTP", filter.Query())

	filter.UnreadOnly = false
	assert.Equal(suite.T(), "from:edis@cdslindia.co.in subject:Transaction OTP", filter.Query())
	assert.Equal(suite.T(), "", Filter{}.Query())
}

func (suite *MailboxTestSuite) TestFindLatestMatching() {
	suite.mux.HandleFunc(messagesPath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(suite.T(), http.MethodGet, r.Method)
		assert.Equal(suite.T(), "from:otp@example.com is:unread subject:Transaction OTP", r.URL.Query().Get("q"))
		assert.Equal(suite.T(), "1", r.URL.Query().Get("maxResults"))
		assert.Equal(suite.T(), "INBOX", r.URL.Query().Get("labelIds"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"messages":           []map[string]string{{"id": "msg-1", "threadId": "thread-1"}},
			"resultSizeEstimate": 1,
		})
	})
	suite.mux.HandleFunc(messagePath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(suite.T(), http.MethodGet, r.Method)
		writeJSON(w, http.StatusOK, map[string]string{
			"id":      "msg-1",
			"snippet": "482913 is the OTP for your transaction",
		})
	})

	msg, err := suite.mailbox.FindLatestMatching(context.Background(), Filter{
		Sender: "otp@example.com", Subject: "Transaction OTP", Label: "INBOX", UnreadOnly: true,
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), &MessageSummary{ID: "msg-1", Snippet: "482913 is the OTP for your transaction"}, msg)
}

func (suite *MailboxTestSuite) TestFindLatestMatchingEmpty() {
	suite.mux.HandleFunc(messagesPath, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"resultSizeEstimate": 0})
	})

	msg, err := suite.mailbox.FindLatestMatching(context.Background(), Filter{Sender: "otp@example.com"})

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), msg)
}

func (suite *MailboxTestSuite) TestFindLatestMatchingListError() {
	suite.mux.HandleFunc(messagesPath, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": map[string]interface{}{"code": 500, "message": "backend error"},
		})
	})

	msg, err := suite.mailbox.FindLatestMatching(context.Background(), Filter{Sender: "otp@example.com"})

	assert.Nil(suite.T(), msg)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "failed to list messages")
}

func (suite *MailboxTestSuite) TestDeleteMessage() {
	deleted := false
	suite.mux.HandleFunc(messagePath, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(suite.T(), http.MethodDelete, r.Method)
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	})

	err := suite.mailbox.DeleteMessage(context.Background(), "msg-1")

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), deleted)
}

func (suite *MailboxTestSuite) TestDeleteMessageNotFound() {
	suite.mux.HandleFunc(messagePath, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"error": map[string]interface{}{"code": 404, "message": "Requested entity was not found."},
		})
	})

	err := suite.mailbox.DeleteMessage(context.Background(), "msg-1")

	assert.ErrorIs(suite.T(), err, ErrMessageNotFound)
}

func (suite *MailboxTestSuite) TestDeleteMessageServerError() {
	suite.mux.HandleFunc(messagePath, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"error": map[string]interface{}{"code": 503, "message": "unavailable"},
		})
	})

	err := suite.mailbox.DeleteMessage(context.Background(), "msg-1")

	assert.Error(suite.T(), err)
	assert.NotErrorIs(suite.T(), err, ErrMessageNotFound)
}

func (suite *MailboxTestSuite) TestNewGmailMailboxFromFiles() {
	home := suite.T().TempDir()
	credentials := `{"installed":{"client_id":"client","client_secret":"secret",` +
		`"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token",` +
		`"redirect_uris":["http://localhost"]}}`
	suite.Require().NoError(os.WriteFile(filepath.Join(home, "credentials.json"), []byte(credentials), 0o600))
	suite.Require().NoError(writeToken(filepath.Join(home, "token.json"), &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour),
	}))

	mb, err := NewGmailMailbox(context.Background(), home, config.MailboxConfig{
		UserID: "me", CredentialsFile: "credentials.json", TokenFile: "token.json",
	})

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), mb)
}

func (suite *MailboxTestSuite) TestNewGmailMailboxMissingToken() {
	home := suite.T().TempDir()
	credentials := `{"installed":{"client_id":"client","client_secret":"secret",` +
		`"token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["http://localhost"]}}`
	suite.Require().NoError(os.WriteFile(filepath.Join(home, "credentials.json"), []byte(credentials), 0o600))

	mb, err := NewGmailMailbox(context.Background(), home, config.MailboxConfig{
		UserID: "me", CredentialsFile: "credentials.json", TokenFile: "token.json",
	})

	assert.Nil(suite.T(), mb)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "failed to read mailbox token")
}

func (suite *MailboxTestSuite) TestNewGmailMailboxMissingCredentials() {
	mb, err := NewGmailMailbox(context.Background(), suite.T().TempDir(), config.MailboxConfig{
		UserID: "me", CredentialsFile: "credentials.json", TokenFile: "token.json",
	})

	assert.Nil(suite.T(), mb)
	assert.Contains(suite.T(), err.Error(), "failed to read client credentials")
}

func (suite *MailboxTestSuite) TestPersistingTokenSourceStoresRefreshedToken() {
	path := filepath.Join(suite.T().TempDir(), "token.json")
	source := &persistingTokenSource{
		base: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "refreshed", RefreshToken: "refresh"}),
		path: path,
		last: "stale",
	}

	token, err := source.Token()
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "refreshed", token.AccessToken)

	stored, err := readToken(path)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "refreshed", stored.AccessToken)
	assert.Equal(suite.T(), "refresh", stored.RefreshToken)
}

func (suite *MailboxTestSuite) TestPersistingTokenSourceSkipsUnchangedToken() {
	path := filepath.Join(suite.T().TempDir(), "token.json")
	source := &persistingTokenSource{
		base: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "same"}),
		path: path,
		last: "same",
	}

	_, err := source.Token()
	assert.NoError(suite.T(), err)

	_, statErr := os.Stat(path)
	assert.True(suite.T(), os.IsNotExist(statErr))
}
