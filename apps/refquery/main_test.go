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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stockparfait/logging"
	"github.com/stockparfait/refdata/blp"

	. "github.com/smartystreets/goconvey/convey"
)

func writeReplay(path string, events ...blp.Event) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return blp.WriteEvents(f, events)
}

func TestMain(t *testing.T) {
	t.Parallel()

	tmpdir, tmpdirErr := os.MkdirTemp("", "test_refquery")
	defer os.RemoveAll(tmpdir)

	Convey("Setup succeeded", t, func() {
		So(tmpdirErr, ShouldBeNil)
	})

	Convey("parseFlags", t, func() {
		Convey("with valid arguments", func() {
			flags, err := parseFlags([]string{
				"-replay", "path/to/events.json", "-mode", "ref",
				"-tickers", "IBM US Equity,MSFT US Equity",
				"-fields", "PX_LAST", "-timeout", "5s",
				"-csv", "-log-level", "warning"})
			So(err, ShouldBeNil)
			So(flags.Replay, ShouldEqual, "path/to/events.json")
			So(flags.Mode, ShouldEqual, "ref")
			So(flags.Tickers, ShouldResemble,
				[]string{"IBM US Equity", "MSFT US Equity"})
			So(flags.Fields, ShouldResemble, []string{"PX_LAST"})
			So(flags.Timeout, ShouldEqual, 5*time.Second)
			So(flags.CSV, ShouldBeTrue)
			So(flags.LogLevel, ShouldEqual, logging.Warning)
		})

		Convey("with missing required arguments", func() {
			_, err := parseFlags([]string{"-tickers", "IBM US Equity"})
			So(err, ShouldNotBeNil)
			_, err = parseFlags([]string{"-replay", "events.json"})
			So(err, ShouldNotBeNil)
		})

		Convey("with an unknown mode", func() {
			_, err := parseFlags([]string{"-replay", "events.json",
				"-tickers", "IBM US Equity", "-mode", "stream"})
			So(err, ShouldNotBeNil)
		})

		Convey("check-fields requires a config", func() {
			_, err := parseFlags([]string{"-replay", "events.json",
				"-tickers", "IBM US Equity", "-check-fields"})
			So(err, ShouldNotBeNil)
		})
	})

	Convey("parseConfig", t, func() {
		confPath := filepath.Join(tmpdir, "catalog.toml")
		So(os.WriteFile(confPath, []byte(`
key = "secret"
url = "http://localhost:8080/api/v1"
`), 0644), ShouldBeNil)
		c, err := parseConfig(confPath)
		So(err, ShouldBeNil)
		So(c, ShouldResemble, &Config{Key: "secret", URL: "http://localhost:8080/api/v1"})
	})

	Convey("shape works", t, func() {
		ctx := context.Background()

		Convey("history mode", func() {
			replay := filepath.Join(tmpdir, "history.json")
			So(writeReplay(replay,
				blp.TestPartial(blp.TestHistoryMessage("IBM US Equity",
					[]string{"PX_LAST"}, [][]any{
						{"2023-04-17", 128.3},
						{"2023-04-18", 127.8},
					})),
				blp.TestResponse(blp.TestHistoryMessage("MSFT US Equity",
					[]string{"PX_LAST"}, [][]any{
						{"2023-04-17", 288.4},
						{"2023-04-18", 288.8},
					})),
			), ShouldBeNil)

			flags, err := parseFlags([]string{"-replay", replay,
				"-mode", "history", "-tickers", "IBM US Equity,MSFT US Equity",
				"-fields", "PX_LAST", "-start", "2023-04-17", "-csv"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(run(ctx, flags, &buf), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
date,IBM US Equity,MSFT US Equity
2023-04-17,128.3,288.4
2023-04-18,127.8,288.8
`)
		})

		Convey("ref mode", func() {
			replay := filepath.Join(tmpdir, "ref.json")
			So(writeReplay(replay,
				blp.TestResponse(blp.TestReferenceMessage("",
					[]string{"NAME", "PX_LAST"},
					blp.RefValues{Ticker: "IBM US Equity", Values: map[string]any{
						"NAME":    "International Business Machines",
						"PX_LAST": 128.3,
					}})),
			), ShouldBeNil)

			flags, err := parseFlags([]string{"-replay", replay,
				"-mode", "ref", "-tickers", "IBM US Equity",
				"-fields", "NAME,PX_LAST", "-csv"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(run(ctx, flags, &buf), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
field,IBM US Equity
NAME,International Business Machines
PX_LAST,128.3
`)
		})

		Convey("bars mode in text format", func() {
			replay := filepath.Join(tmpdir, "bars.json")
			So(writeReplay(replay,
				blp.TestResponse(blp.TestBarMessage([][]any{
					{"2023-04-17T09:30:00", 128.0, 128.4, 127.9, 128.2, 1000},
				})),
			), ShouldBeNil)

			flags, err := parseFlags([]string{"-replay", replay,
				"-mode", "bars", "-tickers", "IBM US Equity",
				"-start", "2023-04-17T09:30:00", "-end", "2023-04-17T16:00:00"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(run(ctx, flags, &buf), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
               time |  open |  high |   low | close | volume
------------------- | ----- | ----- | ----- | ----- | ------
2023-04-17T09:30:00 |   128 | 128.4 | 127.9 | 128.2 |   1000
`)
		})

		Convey("missing replay file fails", func() {
			flags, err := parseFlags([]string{"-replay",
				filepath.Join(tmpdir, "no-such.json"),
				"-mode", "ref", "-tickers", "IBM US Equity", "-fields", "NAME"})
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(run(ctx, flags, &buf), ShouldNotBeNil)
		})
	})
}
