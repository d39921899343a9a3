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

// Package formparser extracts the hidden form state carried by the HTML pages of the
// broker and the depository.
package formparser

import (
	"fmt"
	"html"
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/asgardeo/edisauth/internal/edis/model"
)

const inputTypeHidden = "hidden"

// ExtractHiddenFields parses the HTML document and returns the name and value of every
// input element of type hidden. Inputs without a type attribute are text inputs and are
// skipped, as are hidden inputs without a name. A missing value yields an empty string.
func ExtractHiddenFields(document string) (model.FormFields, error) {
	root, err := nethtml.Parse(strings.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML document: %w", err)
	}

	fields := make(model.FormFields)
	var walk func(n *nethtml.Node)
	walk = func(n *nethtml.Node) {
		if n.Type == nethtml.ElementNode && n.DataAtom == atom.Input {
			collectHiddenInput(n, fields)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return fields, nil
}

// collectHiddenInput adds the input node to the fields when it is a named hidden input.
func collectHiddenInput(n *nethtml.Node, fields model.FormFields) {
	var inputType, name, value string
	var hasName bool
	for _, attr := range n.Attr {
		switch attr.Key {
		case "type":
			inputType = attr.Val
		case "name":
			name, hasName = attr.Val, true
		case "value":
			value = attr.Val
		}
	}

	if !strings.EqualFold(strings.TrimSpace(inputType), inputTypeHidden) || !hasName || name == "" {
		return
	}
	fields[name] = value
}

// TrimStrayEscapes removes the trailing backslashes the broker occasionally leaves at the
// end of a field value.
func TrimStrayEscapes(fields model.FormFields) model.FormFields {
	out := make(model.FormFields, len(fields))
	for k, v := range fields {
		out[k] = strings.TrimRight(v, "\\")
	}
	return out
}

// UnescapeValues decodes the HTML entities left in the field values after parsing, such as
// the double encoded characters returned by the OTP verification page.
func UnescapeValues(fields model.FormFields) model.FormFields {
	out := make(model.FormFields, len(fields))
	for k, v := range fields {
		out[k] = html.UnescapeString(v)
	}
	return out
}
