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

package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/edisauth/internal/edis/model"
	"github.com/asgardeo/edisauth/internal/system/config"
	httpservice "github.com/asgardeo/edisauth/internal/system/http"
)

const (
	testAccessToken = "test-access-token"
	testClientID    = "1100000001"
	testPIN         = "246810"
)

type StepInvokerTestSuite struct {
	suite.Suite
	server  *httptest.Server
	mux     *http.ServeMux
	invoker StepInvokerInterface
}

func TestStepInvokerSuite(t *testing.T) {
	suite.Run(t, new(StepInvokerTestSuite))
}

func (suite *StepInvokerTestSuite) SetupTest() {
	suite.mux = http.NewServeMux()
	suite.server = httptest.NewServer(suite.mux)
	suite.invoker = NewStepInvoker(httpservice.NewHTTPClient(),
		config.BrokerConfig{
			FormURL:     suite.server.URL + "/edis/form",
			CallbackURL: suite.server.URL + "/ReturnUrl/edis",
			Exchange:    "NSE",
			Segment:     "EQ",
			AccessToken: testAccessToken,
			ClientID:    testClientID,
		},
		config.DepositoryConfig{
			VerifyDISURL: suite.server.URL + "/eDIS/VerifyDIS/",
			VerifyPinURL: suite.server.URL + "/EDIS/VerifyPin",
			VerifyOTPURL: suite.server.URL + "/EDIS/VerifyOTP",
			PIN:          testPIN,
		})
}

func (suite *StepInvokerTestSuite) TearDownTest() {
	suite.server.Close()
}

// readForm parses the URL encoded body of a depository request.
func (suite *StepInvokerTestSuite) readForm(r *http.Request) url.Values {
	assert.Equal(suite.T(), http.MethodPost, r.Method)
	assert.Equal(suite.T(), "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
	body, err := io.ReadAll(r.Body)
	assert.NoError(suite.T(), err)
	values, err := url.ParseQuery(string(body))
	assert.NoError(suite.T(), err)
	return values
}

func (suite *StepInvokerTestSuite) TestRequestFormSuccess() {
	suite.mux.HandleFunc("/edis/form", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(suite.T(), http.MethodPost, r.Method)
		assert.Equal(suite.T(), "application/json", r.Header.Get("Content-Type"))
		assert.Equal(suite.T(), testAccessToken, r.Header.Get("access-token"))
		assert.Equal(suite.T(), testClientID, r.Header.Get("client-id"))

		var payload map[string]interface{}
		assert.NoError(suite.T(), json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(suite.T(), "INE002A01018", payload["isin"])
		assert.Equal(suite.T(), float64(10), payload["qty"])
		assert.Equal(suite.T(), "NSE", payload["exchange"])
		assert.Equal(suite.T(), "EQ", payload["segment"])
		assert.Equal(suite.T(), true, payload["bulk"])

		_ = json.NewEncoder(w).Encode(map[string]string{
			"edisFormHtml": `<form name="frmDIS"><input type="hidden" name="DPId" value="83000">` +
				`<input type="hidden" name="TransDtls" value="eyJhbGciOi\"></form>`,
		})
	})

	fields, err := suite.invoker.RequestForm(context.Background(),
		model.AuthorizationRequest{ISIN: "INE002A01018", Quantity: 10})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), model.FormFields{"DPId": "83000", "TransDtls": "eyJhbGciOi"}, fields)
}

func (suite *StepInvokerTestSuite) TestRequestFormStatusError() {
	suite.mux.HandleFunc("/edis/form", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorCode":"DH-901"}`, http.StatusUnauthorized)
	})

	fields, err := suite.invoker.RequestForm(context.Background(),
		model.AuthorizationRequest{ISIN: "INE002A01018", Quantity: 10})

	assert.Nil(suite.T(), fields)
	var statusErr *StatusError
	assert.True(suite.T(), errors.As(err, &statusErr))
	assert.Equal(suite.T(), http.StatusUnauthorized, statusErr.StatusCode)
	assert.Contains(suite.T(), statusErr.Body, "DH-901")
}

func (suite *StepInvokerTestSuite) TestRequestFormMissingHTML() {
	suite.mux.HandleFunc("/edis/form", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success"}`))
	})

	_, err := suite.invoker.RequestForm(context.Background(),
		model.AuthorizationRequest{ISIN: "INE002A01018", Quantity: 10})

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "edisFormHtml")
}

func (suite *StepInvokerTestSuite) TestRequestFormInvalidJSON() {
	suite.mux.HandleFunc("/edis/form", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	})

	_, err := suite.invoker.RequestForm(context.Background(),
		model.AuthorizationRequest{ISIN: "INE002A01018", Quantity: 10})

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "failed to decode form response")
}

func (suite *StepInvokerTestSuite) TestVerifySessionPostsPriorFields() {
	suite.mux.HandleFunc("/eDIS/VerifyDIS/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(suite.T(), r.Host, r.Header.Get("authority"))
		values := suite.readForm(r)
		assert.Equal(suite.T(), "83000", values.Get("DPId"))
		assert.Equal(suite.T(), "eyJhbGciOi", values.Get("TransDtls"))
		_, _ = w.Write([]byte(`<input type="hidden" name="TxnId" value="t-1"><input type="password" name="userPin">`))
	})

	fields, err := suite.invoker.VerifySession(context.Background(),
		model.FormFields{"DPId": "83000", "TransDtls": "eyJhbGciOi"})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), model.FormFields{"TxnId": "t-1"}, fields)
}

func (suite *StepInvokerTestSuite) TestVerifySessionWithoutHiddenFields() {
	suite.mux.HandleFunc("/eDIS/VerifyDIS/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>Session expired</body></html>`))
	})

	_, err := suite.invoker.VerifySession(context.Background(), model.FormFields{"DPId": "83000"})

	assert.ErrorIs(suite.T(), err, ErrNoHiddenFields)
}

func (suite *StepInvokerTestSuite) TestVerifyPinAddsPin() {
	suite.mux.HandleFunc("/EDIS/VerifyPin", func(w http.ResponseWriter, r *http.Request) {
		values := suite.readForm(r)
		assert.Equal(suite.T(), testPIN, values.Get("userPin"))
		assert.Equal(suite.T(), "t-1", values.Get("TxnId"))
		_, _ = w.Write([]byte(`<input type="hidden" name="OtpTxn" value="o-1">`))
	})

	prior := model.FormFields{"TxnId": "t-1"}
	fields, err := suite.invoker.VerifyPin(context.Background(), prior)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), model.FormFields{"OtpTxn": "o-1"}, fields)
	assert.NotContains(suite.T(), prior, "userPin")
}

func (suite *StepInvokerTestSuite) TestVerifyPinStatusError() {
	suite.mux.HandleFunc("/EDIS/VerifyPin", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := suite.invoker.VerifyPin(context.Background(), model.FormFields{"TxnId": "t-1"})

	var statusErr *StatusError
	assert.True(suite.T(), errors.As(err, &statusErr))
	assert.Equal(suite.T(), http.StatusInternalServerError, statusErr.StatusCode)
}

func (suite *StepInvokerTestSuite) TestVerifyOTPAddsCodeAndDecodesEntities() {
	suite.mux.HandleFunc("/EDIS/VerifyOTP", func(w http.ResponseWriter, r *http.Request) {
		values := suite.readForm(r)
		assert.Equal(suite.T(), "482913", values.Get("OTP"))
		assert.Equal(suite.T(), "o-1", values.Get("OtpTxn"))
		_, _ = w.Write([]byte(`<input type="hidden" name="trandDtls" value="a&amp;amp;b&amp;#x2F;c">`))
	})

	fields, err := suite.invoker.VerifyOTP(context.Background(), model.FormFields{"OtpTxn": "o-1"}, "482913")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "a&b/c", fields["trandDtls"])
}

func (suite *StepInvokerTestSuite) TestCallbackReturnsText() {
	suite.mux.HandleFunc("/ReturnUrl/edis", func(w http.ResponseWriter, r *http.Request) {
		values := suite.readForm(r)
		assert.Equal(suite.T(), "a&b/c", values.Get("trandDtls"))
		_, _ = w.Write([]byte(`<html><body><h3>Your EDIS is Complete.</h3></body></html>`))
	})

	text, err := suite.invoker.Callback(context.Background(), model.FormFields{"trandDtls": "a&b/c"})

	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), text, "Your EDIS is Complete.")
}

func (suite *StepInvokerTestSuite) TestCallbackStatusError() {
	suite.mux.HandleFunc("/ReturnUrl/edis", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	text, err := suite.invoker.Callback(context.Background(), model.FormFields{"a": "b"})

	assert.Empty(suite.T(), text)
	var statusErr *StatusError
	assert.True(suite.T(), errors.As(err, &statusErr))
	assert.Equal(suite.T(), http.StatusBadGateway, statusErr.StatusCode)
}

func (suite *StepInvokerTestSuite) TestTransportError() {
	suite.server.Close()

	_, err := suite.invoker.VerifySession(context.Background(), model.FormFields{"a": "b"})

	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "failed to send HTTP request")
}
