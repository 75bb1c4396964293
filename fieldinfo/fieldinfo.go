// Copyright 2023 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fieldinfo looks up field mnemonic metadata from a field catalog
// service over HTTP. It is a convenience for validating requested fields
// before submitting them to the vendor session; the session itself is not
// involved.
package fieldinfo

import (
	"context"
	"net/url"
	"runtime"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/iterator"
)

type contextKey int

const (
	clientContextKey contextKey = iota
)

// URL is the default base URL of the catalog server. It may be overwritten
// in tests before creating a new client.
var URL = "https://catalog.stockparfait.com/api/v1"

// Client for querying the field catalog.
type Client struct {
	baseURL string
	apiKey  string
}

// GetClient extracts the Client from the context, if any.
func GetClient(ctx context.Context) *Client {
	c, ok := ctx.Value(clientContextKey).(*Client)
	if !ok {
		return nil
	}
	return c
}

// UseClient creates a new client based on the API key and injects it into
// the context.
func UseClient(ctx context.Context, apiKey string) context.Context {
	return context.WithValue(ctx, clientContextKey, &Client{baseURL: URL, apiKey: apiKey})
}

// FieldInfo is the catalog metadata of one field mnemonic.
type FieldInfo struct {
	Mnemonic    string `json:"mnemonic"`
	DataType    string `json:"data_type"`
	IsArray     bool   `json:"is_array"`
	Description string `json:"description"`
}

// fieldPage is the format of a single catalog response.
type fieldPage struct {
	Field FieldInfo `json:"field"`
}

// Lookup fetches the catalog metadata for one field mnemonic.
func Lookup(ctx context.Context, field string) (*FieldInfo, error) {
	client := GetClient(ctx)
	if client == nil {
		return nil, errors.Reason("no client in context")
	}
	uri := client.baseURL + "/fields/" + url.PathEscape(field) + ".json"
	query := make(url.Values)
	query["api_key"] = []string{client.apiKey}
	var page fieldPage
	if err := fetch.FetchJSON(ctx, uri, &page, query, nil); err != nil {
		return nil, errors.Annotate(err, "failed to fetch field '%s'", field)
	}
	return &page.Field, nil
}

// lookupResult pairs one LookupAll fan-out result with its error.
type lookupResult struct {
	field string
	info  *FieldInfo
	err   error
}

// LookupAll fetches catalog metadata for all the fields in parallel. It
// fails if any single lookup fails.
func LookupAll(ctx context.Context, fields []string) (map[string]*FieldInfo, error) {
	f := func(field string) lookupResult {
		info, err := Lookup(ctx, field)
		return lookupResult{field: field, info: info, err: err}
	}
	pm := iterator.ParallelMap(ctx, 2*runtime.NumCPU(), iterator.FromSlice(fields), f)
	results := iterator.Reduce[lookupResult, []lookupResult](pm, []lookupResult{},
		func(r lookupResult, rs []lookupResult) []lookupResult {
			return append(rs, r)
		})
	infos := make(map[string]*FieldInfo)
	for _, r := range results {
		if r.err != nil {
			return nil, errors.Annotate(r.err, "failed to look up '%s'", r.field)
		}
		infos[r.field] = r.info
	}
	return infos, nil
}
