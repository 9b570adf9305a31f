package shell_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"

	"github.com/balebuild/bale/internal/adapters/shell"
	"github.com/balebuild/bale/internal/core/ports/mocks"
)

func newRunner(t *testing.T) (*shell.Runner, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	return shell.NewRunner(log), log
}

func TestRun_Success(t *testing.T) {
	runner, log := newRunner(t)
	log.EXPECT().Debug("sh: hello").Times(1)

	err := runner.Run(context.Background(), []string{"sh", "-c", "echo hello"})
	require.NoError(t, err)
}

func TestRun_Failure(t *testing.T) {
	runner, log := newRunner(t)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()

	err := runner.Run(context.Background(), []string{"sh", "-c", "echo oops; exit 3"})
	require.Error(t, err)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Equal(t, 3, zErr.Metadata()["exit_code"])
	assert.Equal(t, "sh", zErr.Metadata()["tool"])
}

func TestRun_MissingTool(t *testing.T) {
	runner, _ := newRunner(t)

	err := runner.Run(context.Background(), []string{"definitely-not-a-tool-on-this-system"})
	require.Error(t, err)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Equal(t, -1, zErr.Metadata()["exit_code"])
}

func TestRun_EmptyCommand(t *testing.T) {
	runner, _ := newRunner(t)
	assert.NoError(t, runner.Run(context.Background(), nil))
}

func TestRun_ContextCancellation(t *testing.T) {
	runner, log := newRunner(t)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runner.Run(ctx, []string{"sh", "-c", "sleep 10"})
	require.Error(t, err)
}
