package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/oshokin/httpkit/internal/logging"
	mock_logging "github.com/oshokin/httpkit/internal/logging/mocks"
)

// TestNewFactory_NilSink tests that a sink is required.
func TestNewFactory_NilSink(t *testing.T) {
	t.Parallel()

	factory, err := logging.NewFactory(nil)
	require.ErrorIs(t, err, logging.ErrNilSink)
	assert.Nil(t, factory)
}

// TestFactory_GetLogger tests that loggers are shared per tag.
func TestFactory_GetLogger(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := mock_logging.NewMockSink(ctrl)

	factory, err := logging.NewFactory(sink)
	require.NoError(t, err)
	assert.Equal(t, sink, factory.Sink())

	wire := factory.GetLogger(logging.WireLoggerName)
	assert.Equal(t, logging.TagWire, wire.Tag())
	assert.Same(t, wire, factory.GetLogger(logging.WireLoggerName))

	pool := factory.GetLogger("httpkit.transport.pool")
	exec := factory.GetLogger("httpkit.exec")
	assert.Equal(t, logging.TagClient, pool.Tag())
	assert.Same(t, pool, exec)
	assert.NotSame(t, wire, pool)
}

// TestFactory_LoggerWritesToSink tests that enabled messages reach the sink and disabled ones do not.
func TestFactory_LoggerWritesToSink(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := mock_logging.NewMockSink(ctrl)
	sink.EXPECT().IsLoggable(logging.TagHeaders, logging.Debug).Return(true)
	sink.EXPECT().Println(logging.Debug, logging.TagHeaders, ">> GET /index HTTP/1.1")
	sink.EXPECT().IsLoggable(logging.TagHeaders, logging.Verbose).Return(false)

	factory, err := logging.NewFactory(sink)
	require.NoError(t, err)

	headers := factory.GetLogger(logging.HeadersLoggerName)
	headers.Debug(">> {} {} {}", "GET", "/index", "HTTP/1.1")
	headers.Trace("never written {}", 1)
}

// TestDefaultFactory tests replacement of the process-wide factory.
func TestDefaultFactory(t *testing.T) { //nolint:paralleltest // Mutates the process-wide factory.
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	builtIn := logging.DefaultFactory()
	require.NotNil(t, builtIn)
	assert.Same(t, builtIn, logging.DefaultFactory())

	custom, err := logging.NewFactory(mock_logging.NewMockSink(ctrl))
	require.NoError(t, err)

	logging.SetDefaultFactory(custom)
	assert.Same(t, custom, logging.DefaultFactory())

	logging.SetDefaultFactory(nil)
	assert.NotSame(t, custom, logging.DefaultFactory())
}
