package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/heartcheck/internal/config"
	"github.com/okian/heartcheck/internal/domain/form"
	"github.com/okian/heartcheck/internal/domain/prediction"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := SetupLogging(io.Discard, false); err != nil {
		panic(err)
	}
}

func TestParseArgs(t *testing.T) {
	Convey("Given a command line", t, func() {
		var stdout, stderr bytes.Buffer

		Convey("When only defaults are used", func() {
			cfg, err := ParseArgs(nil, &stdout, &stderr)

			Convey("Then the default endpoint and no fields are set", func() {
				So(err, ShouldBeNil)
				So(cfg.Endpoint, ShouldEqual, config.DefaultPredictURL)
				So(cfg.Timeout, ShouldEqual, time.Duration(0))
				So(cfg.Values, ShouldBeEmpty)
			})
		})

		Convey("When fields and options are given", func() {
			cfg, err := ParseArgs([]string{
				"-preset", "sample-1", "-age", "55", "-Thal", "3",
				"-endpoint", "http://localhost:5001/predict", "-timeout", "2s", "-json",
			}, &stdout, &stderr)

			Convey("Then only the given fields are recorded", func() {
				So(err, ShouldBeNil)
				So(cfg.Preset, ShouldEqual, "sample-1")
				So(cfg.Values, ShouldResemble, map[form.Field]string{
					form.FieldAge:  "55",
					form.FieldThal: "3",
				})
				So(cfg.Timeout, ShouldEqual, 2*time.Second)
				So(cfg.JSON, ShouldBeTrue)
			})
		})

		Convey("When an empty value is given explicitly", func() {
			cfg, err := ParseArgs([]string{"-SC", ""}, &stdout, &stderr)

			Convey("Then it is kept so validation can reject it", func() {
				So(err, ShouldBeNil)
				v, ok := cfg.Values[form.FieldCholesterol]
				So(ok, ShouldBeTrue)
				So(v, ShouldBeEmpty)
			})
		})

		Convey("When an unknown flag is given", func() {
			_, err := ParseArgs([]string{"-weight", "80"}, &stdout, &stderr)

			Convey("Then parsing fails", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When -h is given", func() {
			_, err := ParseArgs([]string{"-h"}, &stdout, &stderr)

			Convey("Then usage is printed", func() {
				So(errors.Is(err, flag.ErrHelp), ShouldBeTrue)
				So(stderr.String(), ShouldContainSubstring, "Usage:")
			})
		})

		Convey("When positional arguments are given", func() {
			_, err := ParseArgs([]string{"extra"}, &stdout, &stderr)

			Convey("Then they are refused", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestShowHelp(t *testing.T) {
	Convey("Given the help text", t, func() {
		var buf bytes.Buffer
		ShowHelp(&buf)

		Convey("Then every field and its options are listed", func() {
			for _, f := range form.Order {
				So(buf.String(), ShouldContainSubstring, "-"+string(f)+"\n")
			}
			So(buf.String(), ShouldContainSubstring, "0=Female, 1=Male")
			So(buf.String(), ShouldContainSubstring, "sample-1, sample-2")
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a prediction endpoint", t, func() {
		var (
			calls  atomic.Int32
			failed atomic.Bool
			got    atomic.Value
		)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			var req prediction.Request
			_ = json.NewDecoder(r.Body).Decode(&req)
			got.Store(req.InputData)
			if failed.Load() {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = io.WriteString(w, `{"error":"model not loaded"}`)
				return
			}
			_, _ = io.WriteString(w, `{"prediction":"`+prediction.TextUnhealthy+`"}`)
		}))
		defer srv.Close()

		var stdout, stderr bytes.Buffer
		cfg := &Config{
			Endpoint: srv.URL,
			Preset:   form.PresetSample2,
			Values:   map[form.Field]string{},
			Stdout:   &stdout,
			Stderr:   &stderr,
		}
		ctx := context.Background()

		Convey("When a preset is submitted with an override", func() {
			cfg.Values[form.FieldAge] = "55"
			code := Run(ctx, cfg)

			Convey("Then the result is printed", func() {
				So(code, ShouldEqual, ExitOK)
				So(stdout.String(), ShouldEqual, prediction.TextUnhealthy+" (unhealthy)\n")
				So(got.Load(), ShouldResemble, []float64{55, 0, 0, 112, 149, 0, 1, 125, 0, 1.6, 1, 0, 2})
			})
		})

		Convey("When JSON output is requested", func() {
			cfg.JSON = true
			code := Run(ctx, cfg)

			Convey("Then a JSON object is printed", func() {
				So(code, ShouldEqual, ExitOK)
				var out Result
				So(json.Unmarshal(stdout.Bytes(), &out), ShouldBeNil)
				So(out.Outcome, ShouldEqual, "unhealthy")
			})
		})

		Convey("When a field is missing", func() {
			cfg.Preset = ""
			cfg.Values[form.FieldAge] = "40"
			code := Run(ctx, cfg)

			Convey("Then the missing fields are reported and nothing is sent", func() {
				So(code, ShouldEqual, ExitValidation)
				So(stderr.String(), ShouldContainSubstring, "-MHR: "+form.MsgRequired)
				So(stderr.String(), ShouldNotContainSubstring, "-age:")
				So(calls.Load(), ShouldEqual, 0)
			})
		})

		Convey("When an option is out of range", func() {
			cfg.Values[form.FieldVessels] = "4"
			code := Run(ctx, cfg)

			Convey("Then the form is refused", func() {
				So(code, ShouldEqual, ExitValidation)
				So(stderr.String(), ShouldContainSubstring, "invalid form")
			})
		})

		Convey("When the preset is unknown", func() {
			cfg.Preset = "sample-3"
			So(Run(ctx, cfg), ShouldEqual, ExitValidation)
		})

		Convey("When the endpoint fails", func() {
			failed.Store(true)
			code := Run(ctx, cfg)

			Convey("Then one error notification is printed", func() {
				So(code, ShouldEqual, ExitFailure)
				So(stderr.String(), ShouldStartWith, "error: Error: ")
				So(stderr.String(), ShouldContainSubstring, "model not loaded")
				So(stdout.String(), ShouldBeEmpty)
			})
		})

		Convey("When help is requested", func() {
			cfg.Help = true
			code := Run(ctx, cfg)

			Convey("Then usage goes to stdout and nothing is sent", func() {
				So(code, ShouldEqual, ExitOK)
				So(stdout.String(), ShouldContainSubstring, "Usage:")
				So(calls.Load(), ShouldEqual, 0)
			})
		})
	})
}
