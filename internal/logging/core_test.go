package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/httpkit/internal/logging"
	mock_logging "github.com/oshokin/httpkit/internal/logging/mocks"
)

// TestNewCore_RoutesEntries tests tag and priority mapping of zap entries.
func TestNewCore_RoutesEntries(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var written []string

	sink := mock_logging.NewMockSink(ctrl)
	sink.EXPECT().IsLoggable(gomock.Any(), gomock.Any()).Return(true).AnyTimes()
	sink.EXPECT().Println(gomock.Any(), gomock.Any(), gomock.Any()).
		Do(func(priority logging.Priority, tag, msg string) {
			written = append(written, priority.String()+"/"+tag+": "+msg)
		}).
		Times(4)

	log := zap.New(logging.NewCore(sink, nil))

	log.Named("httpkit").Named("http").Named("wire").Debug("<< HTTP/1.1 200 OK")
	log.Named("httpkit.http.headers").Info("headers", zap.Int("count", 3))
	log.Named("com.example.service.DownloadWorker").Warn("slow")
	log.Error("failed")

	assert.Len(t, written, 4)
	assert.Equal(t, "D/HttpClientWire: << HTTP/1.1 200 OK", written[0])
	assert.Contains(t, written[1], "I/HttpClientHeader: headers ")
	assert.Contains(t, written[1], `"count"`)
	assert.Equal(t, "W/DownloadWorker: slow", written[2])
	assert.Equal(t, "E/null: failed", written[3])
}

// TestNewCore_WithFields tests that context fields are encoded after the message.
func TestNewCore_WithFields(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var msg string

	sink := mock_logging.NewMockSink(ctrl)
	sink.EXPECT().IsLoggable(logging.TagClient, logging.Info).Return(true)
	sink.EXPECT().Println(logging.Info, logging.TagClient, gomock.Any()).
		Do(func(_ logging.Priority, _, m string) { msg = m })

	zap.New(logging.NewCore(sink, nil)).
		Named("httpkit.exec").
		With(zap.String("route", "example.com:443")).
		Info("leased")

	assert.Contains(t, msg, "leased ")
	assert.Contains(t, msg, "example.com:443")
}

// TestNewCore_RespectsSinkAndEnabler tests both filtering layers.
func TestNewCore_RespectsSinkAndEnabler(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := mock_logging.NewMockSink(ctrl)
	sink.EXPECT().IsLoggable(logging.TagClient, logging.Warn).Return(false)

	log := zap.New(logging.NewCore(sink, zapcore.WarnLevel)).Named("httpkit.pool")
	log.Info("filtered by the enabler")
	log.Warn("filtered by the sink")
}

// TestNewCore_RecoversSinkPanic tests that a panicking sink is reported under the handler tag.
func TestNewCore_RecoversSinkPanic(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var reported string

	sink := mock_logging.NewMockSink(ctrl)
	sink.EXPECT().IsLoggable(logging.TagClient, logging.Info).Return(true)

	gomock.InOrder(
		sink.EXPECT().Println(logging.Info, logging.TagClient, "boom").Do(func(logging.Priority, string, string) {
			panic("sink unavailable")
		}),
		sink.EXPECT().Println(logging.Error, logging.TagLogHandler, gomock.Any()).
			Do(func(_ logging.Priority, _, m string) { reported = m }),
	)

	assert.NotPanics(t, func() {
		zap.New(logging.NewCore(sink, nil)).Named("httpkit.pool").Info("boom")
	})
	assert.Equal(t, "Error logging message.\nsink unavailable", reported)
}
