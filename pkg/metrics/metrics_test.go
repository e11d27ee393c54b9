package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func metricValue(m prometheus.Metric) float64 {
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		return -1
	}
	if out.Counter != nil {
		return out.GetCounter().GetValue()
	}
	return out.GetGauge().GetValue()
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "heartcheck")
				So(manager.subsystem, ShouldEqual, "form")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options are applied", func() {
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.subsystem, ShouldEqual, "test_subsystem")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
			})

			Convey("And metric names carry the namespace", func() {
				manager.submissions.WithLabelValues("displayed").Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := []string{}
				for _, mf := range families {
					names = append(names, mf.GetName())
				}
				So(names, ShouldContain, "test_namespace_test_subsystem_submissions_total")
			})
		})

		Convey("When empty options are passed", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "heartcheck")
				So(manager.histogramBuckets, ShouldNotBeEmpty)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording submissions", func() {
			before := metricValue(globalManager.submissions.WithLabelValues("displayed"))
			RecordSubmission("displayed")

			Convey("Then the counter increases", func() {
				So(metricValue(globalManager.submissions.WithLabelValues("displayed")), ShouldEqual, before+1)
			})
		})

		Convey("When tracking in-flight requests", func() {
			before := metricValue(globalManager.inFlight)
			IncInFlight()
			So(metricValue(globalManager.inFlight), ShouldEqual, before+1)
			DecInFlight()

			Convey("Then the gauge returns to its previous value", func() {
				So(metricValue(globalManager.inFlight), ShouldEqual, before)
			})
		})

		Convey("When recording prediction results", func() {
			So(func() {
				RecordPrediction("healthy")
				RecordPredictionLatency(12.5)
				RecordPredictionError("transport")
				RecordValidationFailure("age")
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP and system metrics", func() {
			So(func() {
				RecordHTTPRequest("predict", "POST", "200")
				RecordHTTPRequestDuration("predict", "POST", "200", 3)
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("predict", "POST", "client_error")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(8)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("Then the registry is exposed", func() {
			So(GetRegistry(), ShouldNotBeNil)
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(families, ShouldNotBeEmpty)
		})
	})
}
