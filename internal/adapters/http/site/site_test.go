package site

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	service "github.com/okian/heartcheck/internal/app"
	"github.com/okian/heartcheck/internal/domain/form"
	"github.com/okian/heartcheck/internal/domain/prediction"
	"github.com/okian/heartcheck/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}

func sampleValues() url.Values {
	rec, _ := form.Preset(form.PresetSample1)
	v := url.Values{}
	for _, f := range form.Order {
		v.Set(string(f), rec.Value(f))
	}
	return v
}

func post(mux *http.ServeMux, v url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(v.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func get(mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestSiteHandler(t *testing.T) {
	Convey("Given a site backed by a prediction endpoint", t, func() {
		var (
			calls  atomic.Int32
			status atomic.Int32
		)
		status.Store(http.StatusOK)
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(int(status.Load()))
			if status.Load() != http.StatusOK {
				_, _ = io.WriteString(w, `{"error":"model not loaded"}`)
				return
			}
			_, _ = io.WriteString(w, `{"prediction":"`+prediction.TextHealthy+`"}`)
		}))
		defer backend.Close()

		svc := service.New(service.WithPredictURL(backend.URL))
		So(svc.Start(context.Background()), ShouldBeNil)
		mux := http.NewServeMux()
		Register(context.Background(), mux, svc)

		Convey("When the form is requested", func() {
			w := get(mux, "/")

			Convey("Then all thirteen fields render with defaults", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				body := w.Body.String()
				for _, f := range form.Order {
					So(body, ShouldContainSubstring, `name="`+string(f)+`"`)
				}
				So(body, ShouldContainSubstring, `title="Enter your age"`)
				So(body, ShouldNotContainSubstring, "Result")
				So(body, ShouldNotContainSubstring, `name="previous"`)
			})
		})

		Convey("When a preset is requested", func() {
			w := get(mux, "/?preset=sample-2")

			Convey("Then its values are filled in", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `value="71"`)
				So(w.Body.String(), ShouldContainSubstring, `value="1.6"`)
			})
		})

		Convey("When an unknown preset is requested", func() {
			w := get(mux, "/?preset=sample-9")

			Convey("Then a warning is shown over a blank form", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(w.Body.String(), ShouldContainSubstring, "unknown preset")
				So(w.Body.String(), ShouldContainSubstring, "toast-warning")
			})
		})

		Convey("When a complete form is submitted", func() {
			w := post(mux, sampleValues())

			Convey("Then the healthy panel is shown", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(calls.Load(), ShouldEqual, 1)
				So(w.Body.String(), ShouldContainSubstring, "result-healthy")
				So(w.Body.String(), ShouldContainSubstring, "This Person has Healthy Heart")
				So(w.Body.String(), ShouldNotContainSubstring, "result-unhealthy")
			})

			Convey("And the prediction is carried for the next submit", func() {
				So(w.Body.String(), ShouldContainSubstring, `name="previous" value="`+prediction.TextHealthy+`"`)
			})
		})

		Convey("When a field is left blank", func() {
			v := sampleValues()
			v.Set(string(form.FieldAge), "")
			w := post(mux, v)

			Convey("Then the inline error is shown and nothing is sent", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(w.Body.String(), ShouldContainSubstring, form.MsgRequired)
				So(w.Body.String(), ShouldContainSubstring, "has-error")
				So(calls.Load(), ShouldEqual, 0)
			})

			Convey("And the other values are kept", func() {
				So(w.Body.String(), ShouldContainSubstring, `value="268"`)
			})
		})

		Convey("When the endpoint fails after a previous result", func() {
			status.Store(http.StatusInternalServerError)
			v := sampleValues()
			v.Set(previousField, prediction.TextUnhealthy)
			w := post(mux, v)

			Convey("Then one error toast is shown and the old result stays", func() {
				So(w.Code, ShouldEqual, http.StatusBadGateway)
				body := w.Body.String()
				So(strings.Count(body, "toast-error"), ShouldEqual, 1)
				So(body, ShouldContainSubstring, "Error: ")
				So(body, ShouldContainSubstring, "model not loaded")
				So(body, ShouldContainSubstring, "result-unhealthy")
			})
		})

		Convey("When a categorical value is out of range", func() {
			v := sampleValues()
			v.Set(string(form.FieldThal), "7")
			w := post(mux, v)

			Convey("Then the form is refused", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(calls.Load(), ShouldEqual, 0)
			})
		})

		Convey("When assets are requested", func() {
			js := get(mux, "/static/app.js")
			css := get(mux, "/static/app.css")

			Convey("Then they are served from the embedded files", func() {
				So(js.Code, ShouldEqual, http.StatusOK)
				So(js.Body.String(), ShouldContainSubstring, "acceptKey")
				So(css.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When an unknown path is requested", func() {
			w := get(mux, "/some-asset")

			Convey("Then it is not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the method is not supported", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/", nil))

			Convey("Then it is refused", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		Convey("Then registering panics", func() {
			So(func() {
				Register(context.Background(), nil, nil)
			}, ShouldPanic)
		})
	})
}
