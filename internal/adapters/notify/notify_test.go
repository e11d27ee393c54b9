package notify_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/okian/heartcheck/internal/adapters/notify"
	"github.com/okian/heartcheck/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFlash(t *testing.T) {
	Convey("Given a flash collector", t, func() {
		ctx := context.Background()
		f := notify.NewFlash(3)

		Convey("When notifications arrive", func() {
			f.Notify(ctx, "Error: one", notify.LevelError)
			f.Notify(ctx, "loaded", notify.LevelInfo)

			Convey("Then they are kept in order", func() {
				So(f.Messages(), ShouldResemble, []notify.Message{
					{Text: "Error: one", Level: notify.LevelError},
					{Text: "loaded", Level: notify.LevelInfo},
				})
			})
		})

		Convey("When more than the limit arrive", func() {
			for _, m := range []string{"a", "b", "c", "d"} {
				f.Notify(ctx, m, notify.LevelWarning)
			}

			Convey("Then the oldest are dropped", func() {
				msgs := f.Messages()
				So(msgs, ShouldHaveLength, 3)
				So(msgs[0].Text, ShouldEqual, "b")
				So(msgs[2].Text, ShouldEqual, "d")
			})
		})

		Convey("Then an empty collector has no messages", func() {
			So(f.Messages(), ShouldBeEmpty)
		})
	})
}

func TestLogAndMulti(t *testing.T) {
	Convey("Given a log notifier behind a fan-out", t, func() {
		var buf bytes.Buffer
		So(logger.Init(logger.WithOutput(&buf)), ShouldBeNil)
		flash := notify.NewFlash(0)
		m := notify.Multi{notify.NewLog(logger.Get()), flash, nil}

		Convey("When notifying", func() {
			m.Notify(context.Background(), "Error: endpoint down", notify.LevelError)

			Convey("Then every notifier receives it", func() {
				So(buf.String(), ShouldContainSubstring, "Error: endpoint down")
				So(buf.String(), ShouldContainSubstring, "level=ERROR")
				So(flash.Messages(), ShouldHaveLength, 1)
			})
		})
	})
}

func TestWriter(t *testing.T) {
	Convey("Given a writer notifier", t, func() {
		var buf bytes.Buffer
		w := notify.NewWriter(&buf)

		Convey("When notifying twice", func() {
			w.Notify(context.Background(), "Error: timeout", notify.LevelError)
			w.Notify(context.Background(), "retrying", notify.LevelInfo)

			Convey("Then one line per message is written", func() {
				So(buf.String(), ShouldEqual, "error: Error: timeout\ninfo: retrying\n")
			})
		})
	})
}
