package config_test

import (
	"testing"
	"time"

	"github.com/okian/viva/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.MarkerLabel, convey.ShouldEqual, "Question")
			convey.So(cfg.MaxUploadBytes, convey.ShouldEqual, int64(20<<20))
			convey.So(cfg.JobBufferSize, convey.ShouldEqual, 256)
			convey.So(cfg.LLMModel, convey.ShouldEqual, "gpt-4o-mini")
			convey.So(cfg.LLMTimeout(), convey.ShouldEqual, 120*time.Second)
			convey.So(cfg.LLMTemperature, convey.ShouldEqual, 0.2)
		})
	})
}
