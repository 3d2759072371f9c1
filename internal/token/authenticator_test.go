/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package token

import (
	"testing"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseBearerHeaderP5 covers the P5 header-parse table directly.
func TestParseBearerHeaderP5(t *testing.T) {
	cases := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc", "abc", false},
		{"abc", "", true},
		{"My abc", "", true},
		{"", "", true},
		{"Bearer", "", true},
		{"Bearer abc def", "", true},
	}
	for _, c := range cases {
		got, err := ParseBearerHeader(c.header)
		if c.wantErr {
			require.Error(t, err, c.header)
			continue
		}
		require.NoError(t, err, c.header)
		assert.Equal(t, c.want, got)
	}
}

func TestValidateRejectsUnknownKid(t *testing.T) {
	auth := New(Config{
		Keys:      map[string][]byte{"key-1": make([]byte, 32)},
		Issuers:   []string{"boxer.sneaksanddata.com"},
		Audiences: []string{"boxer.sneaksanddata.com"},
	}, nil)

	encrypter, err := jose.NewEncrypter(jose.A256GCM, jose.Recipient{Algorithm: jose.DIRECT, Key: make([]byte, 32), KeyID: "key-2"}, nil)
	require.NoError(t, err)
	obj, err := encrypter.Encrypt([]byte(`{}`))
	require.NoError(t, err)
	raw, err := obj.CompactSerialize()
	require.NoError(t, err)

	_, err = auth.Validate(raw)
	require.Error(t, err)
}
