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

// Command refquery shapes a recorded vendor event stream into a table. The
// stream is a JSON file of events as captured with the raw passthrough call,
// replayed through a scripted session and pivoted according to the selected
// call style. With -check-fields it also validates the requested field
// mnemonics against the field catalog.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"strings"
	"time"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
	"github.com/stockparfait/refdata/blp"
	"github.com/stockparfait/refdata/conn"
	"github.com/stockparfait/refdata/dates"
	"github.com/stockparfait/refdata/fieldinfo"
	"github.com/stockparfait/refdata/frame"

	toml "github.com/pelletier/go-toml/v2"
)

type Flags struct {
	Replay      string // path to the recorded event stream (required)
	Mode        string // history, ref, refhist or bars
	Tickers     []string
	Fields      []string
	Start       string // YYYYMMDD or YYYY-MM-DD; bars: YYYY-MM-DDTHH:MM:SS
	End         string
	Timeout     time.Duration // refhist terminal wait
	CSV         bool          // dump CSV format; default: text
	CheckFields bool          // validate fields against the catalog
	Config      string        // path to TOML config, required by -check-fields
	LogLevel    logging.Level
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	var tickers, fields string
	fs := flag.NewFlagSet("refquery", flag.ExitOnError)
	fs.StringVar(&flags.Replay, "replay", "", "recorded event stream to shape (required)")
	fs.StringVar(&flags.Mode, "mode", "history",
		"call style: history, ref, refhist or bars")
	fs.StringVar(&tickers, "tickers", "", "comma-separated tickers (required)")
	fs.StringVar(&fields, "fields", "", "comma-separated fields; unused by bars")
	fs.StringVar(&flags.Start, "start", "", "start date or datetime")
	fs.StringVar(&flags.End, "end", "", "end date or datetime")
	fs.DurationVar(&flags.Timeout, "timeout", 2*time.Second,
		"terminal wait of the refhist style")
	fs.BoolVar(&flags.CSV, "csv", false, "print table in CSV format; default: text")
	fs.BoolVar(&flags.CheckFields, "check-fields", false,
		"validate fields against the field catalog")
	fs.StringVar(&flags.Config, "conf", "", "path to TOML config with the catalog key")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if flags.Replay == "" {
		return nil, errors.Reason("missing required -replay argument")
	}
	if tickers == "" {
		return nil, errors.Reason("missing required -tickers argument")
	}
	flags.Tickers = strings.Split(tickers, ",")
	if fields != "" {
		flags.Fields = strings.Split(fields, ",")
	}
	switch flags.Mode {
	case "history", "ref", "refhist", "bars":
	default:
		return nil, errors.Reason(
			"-mode must be one of history, ref, refhist or bars, got '%s'", flags.Mode)
	}
	if flags.CheckFields && flags.Config == "" {
		return nil, errors.Reason("-check-fields requires -conf")
	}
	return &flags, nil
}

// Config is the TOML config schema for the field catalog.
type Config struct {
	Key string `toml:"key"` // user key for the field catalog
	URL string `toml:"url"` // optional base URL override
}

func parseConfig(filePath string) (*Config, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open config file %s", filePath)
	}
	defer f.Close()

	d := toml.NewDecoder(f)
	var c Config
	if err := d.Decode(&c); err != nil {
		return nil, errors.Annotate(err, "failed to read config file %s", filePath)
	}
	return &c, nil
}

// checkFields validates the requested fields against the catalog and fails
// on any unknown mnemonic.
func checkFields(ctx context.Context, flags *Flags) error {
	config, err := parseConfig(flags.Config)
	if err != nil {
		return errors.Annotate(err, "failed to parse config")
	}
	if config.URL != "" {
		fieldinfo.URL = config.URL
	}
	ctx = fieldinfo.UseClient(ctx, config.Key)
	infos, err := fieldinfo.LookupAll(ctx, flags.Fields)
	if err != nil {
		return errors.Annotate(err, "field check failed")
	}
	for _, f := range flags.Fields {
		info := infos[f]
		logging.Infof(ctx, "%s: %s array=%v - %s",
			info.Mnemonic, info.DataType, info.IsArray, info.Description)
	}
	return nil
}

// shape replays the recorded events through the selected call style and
// writes the resulting table to w.
func shape(ctx context.Context, flags *Flags, w io.Writer) error {
	f, err := os.Open(flags.Replay)
	if err != nil {
		return errors.Annotate(err, "failed to open replay file %s", flags.Replay)
	}
	defer f.Close()
	events, err := blp.ReadEvents(f)
	if err != nil {
		return errors.Annotate(err, "failed to read replay file %s", flags.Replay)
	}

	session := blp.NewScriptedSession(events...)
	c, err := conn.New(ctx, conn.Config{
		Dial: func(ctx context.Context) (blp.Session, error) { return session, nil },
	})
	if err != nil {
		return errors.Annotate(err, "failed to create connection")
	}
	defer c.Close()

	var res *frame.Frame
	switch flags.Mode {
	case "history":
		var start, end dates.Date
		if start, err = dates.ParseDate(flags.Start); err != nil {
			return errors.Annotate(err, "invalid -start")
		}
		if flags.End != "" {
			if end, err = dates.ParseDate(flags.End); err != nil {
				return errors.Annotate(err, "invalid -end")
			}
		}
		res, err = c.History(ctx, conn.HistoryRequest{
			Tickers: flags.Tickers,
			Fields:  flags.Fields,
			Start:   start,
			End:     end,
		})
	case "ref":
		res, err = c.Reference(ctx, conn.ReferenceRequest{
			Tickers: flags.Tickers,
			Fields:  flags.Fields,
		})
	case "refhist":
		var start, end dates.Date
		if start, err = dates.ParseDate(flags.Start); err != nil {
			return errors.Annotate(err, "invalid -start")
		}
		if end, err = dates.ParseDate(flags.End); err != nil {
			return errors.Annotate(err, "invalid -end")
		}
		res, err = c.ReferenceHistory(ctx, conn.ReferenceHistoryRequest{
			Tickers: flags.Tickers,
			Fields:  flags.Fields,
			Start:   start,
			End:     end,
			Timeout: flags.Timeout,
		})
	case "bars":
		var start, end dates.Time
		if start, err = dates.ParseTime(flags.Start); err != nil {
			return errors.Annotate(err, "invalid -start")
		}
		if end, err = dates.ParseTime(flags.End); err != nil {
			return errors.Annotate(err, "invalid -end")
		}
		res, err = c.IntradayBars(ctx, conn.BarsRequest{
			Ticker: flags.Tickers[0],
			Start:  start,
			End:    end,
		})
	}
	if err != nil {
		return errors.Annotate(err, "%s call failed", flags.Mode)
	}

	if flags.CSV {
		err = res.WriteCSV(w, frame.Params{})
	} else {
		err = res.WriteText(w, frame.Params{})
	}
	return errors.Annotate(err, "failed to write table")
}

func run(ctx context.Context, flags *Flags, w io.Writer) error {
	if flags.CheckFields {
		if err := checkFields(ctx, flags); err != nil {
			return err
		}
	}
	return shape(ctx, flags, w)
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	if err := run(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
