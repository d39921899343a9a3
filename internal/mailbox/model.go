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

// Package mailbox reads and deletes the messages carrying the one time codes.
package mailbox

import (
	"errors"
	"strings"
)

// ErrMessageNotFound is returned when the message to delete no longer exists.
var ErrMessageNotFound = errors.New("message not found")

// MessageSummary is the part of a mailbox message used to extract a one time code.
type MessageSummary struct {
	ID      string
	Snippet string
}

// Filter selects the messages looked up in the mailbox.
type Filter struct {
	Sender     string
	Subject    string
	Label      string
	UnreadOnly bool
}

// Query renders the filter in the mailbox search syntax.
func (f Filter) Query() string {
	terms := make([]string, 0, 3)
	if f.Sender != "" {
		terms = append(terms, "from:"+f.Sender)
	}
	if f.UnreadOnly {
		terms = append(terms, "is:unread")
	}
	if f.Subject != "" {
		terms = append(terms, "subject:"+f.Subject)
	}
	return strings.Join(terms, " ")
}
