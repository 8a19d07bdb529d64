package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording domain metrics", func() {
			Convey("Then the helpers should not panic", func() {
				So(func() {
					RecordDocumentExtracted("submission")
					RecordExtractionError()
					RecordDocumentPages(3)
					RecordItemsSegmented(5)
					RecordSplitStrategy("separator-token")
					RecordAlignmentWarning()
					RecordItemScored()
					RecordDegradedScore()
					RecordScoringLatency(12.5)
					RecordJobStarted()
					RecordJobCompleted()
					RecordJobErrored()
					UpdateActiveJobs(1)
					RecordEventPublished("progress")
					RecordEventDropped()
					UpdateSubscribers(2)
					RecordHTTPRequest("assessments", "POST", "202")
					RecordHTTPRequestDuration("assessments", "POST", "202", 3.5)
					RecordErrorByComponent("scoring", "degraded")
					RecordErrorByEndpoint("assessments", "POST", "client_error")
					UpdateSystemMemoryUsage(1024)
					UpdateSystemGoroutineCount(10)
				}, ShouldNotPanic)
			})
		})

		Convey("When fetching the registry", func() {
			Convey("Then it should not be nil", func() {
				So(GetRegistry(), ShouldNotBeNil)
			})
		})
	})
}
