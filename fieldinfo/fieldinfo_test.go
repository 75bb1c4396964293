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

package fieldinfo

import (
	"context"
	"testing"

	"github.com/stockparfait/fetch"
	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFieldInfo(t *testing.T) {
	t.Parallel()

	Convey("Catalog lookups work correctly", t, func() {
		server := testutil.NewTestServer()
		defer server.Close()

		testKey := "testkey"
		ctx := fetch.UseClient(context.Background(), server.Client())
		URL = server.URL() + "/api/v1"
		ctx = UseClient(ctx, testKey)

		pxLast := `{"field": {
  "mnemonic": "PX_LAST",
  "data_type": "Float64",
  "is_array": false,
  "description": "Last price"
}}`

		Convey("Lookup fetches one field", func() {
			server.ResponseBody = []string{pxLast}
			info, err := Lookup(ctx, "PX_LAST")
			So(err, ShouldBeNil)
			So(info, ShouldResemble, &FieldInfo{
				Mnemonic:    "PX_LAST",
				DataType:    "Float64",
				IsArray:     false,
				Description: "Last price",
			})
			So(server.RequestPath, ShouldEqual, "/api/v1/fields/PX_LAST.json")
			So(server.RequestQuery["api_key"], ShouldResemble, []string{testKey})
		})

		Convey("Lookup requires a client in context", func() {
			_, err := Lookup(context.Background(), "PX_LAST")
			So(err, ShouldNotBeNil)
		})

		Convey("LookupAll keys the result by mnemonic", func() {
			server.ResponseBody = []string{pxLast}
			infos, err := LookupAll(ctx, []string{"PX_LAST"})
			So(err, ShouldBeNil)
			So(len(infos), ShouldEqual, 1)
			So(infos["PX_LAST"].DataType, ShouldEqual, "Float64")
		})

		Convey("LookupAll fails when any lookup fails", func() {
			server.ResponseBody = []string{`not JSON`}
			_, err := LookupAll(ctx, []string{"PX_LAST"})
			So(err, ShouldNotBeNil)
		})
	})
}
