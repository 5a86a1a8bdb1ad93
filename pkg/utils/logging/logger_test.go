package logging_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/namer/pkg/utils/logging"
)

func TestLevels(t *testing.T) {
	testCases := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"debug", true, true, true},
		{"info", false, true, true},
		{"warn", false, false, true},
		{"WARNING", false, false, true},
		{"error", false, false, false},
		{"bogus", false, true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := logging.New(tc.level, buf)

			logger.Debug("debug line")
			logger.Info("info line")
			logger.Warn("warn line")
			logger.Error("error line")

			out := buf.String()
			check := func(want bool, s string) {
				if want {
					gt.S(t, out).Contains(s)
				} else {
					gt.S(t, out).NotContains(s)
				}
			}
			check(tc.wantDebug, "debug line")
			check(tc.wantInfo, "info line")
			check(tc.wantWarn, "warn line")
			gt.S(t, out).Contains("error line")
		})
	}
}

func TestContextCarriesLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.New("info", buf).With("component", "favorites")
	ctx := logging.With(context.Background(), logger)

	got := logging.From(ctx)
	gt.Equal(t, got, logger)

	got.Info("namespace switched")
	gt.S(t, buf.String()).Contains("namespace switched")
	gt.S(t, buf.String()).Contains("favorites")
}

func TestFromFallsBackToDefault(t *testing.T) {
	original := logging.Default()
	defer logging.SetDefault(original)

	buf := &bytes.Buffer{}
	custom := logging.New("warn", buf)
	logging.SetDefault(custom)

	got := logging.From(context.Background())
	gt.Equal(t, got, custom)
	got.Warn("from default")
	gt.S(t, buf.String()).Contains("from default")
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "namer.log")

	logger, closer, err := logging.Open("info", path)
	gt.NoError(t, err)
	logger.Info("written to file")
	gt.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	gt.NoError(t, err)
	gt.S(t, string(data)).Contains("written to file")
}

func TestOpenStandardStreams(t *testing.T) {
	for _, output := range []string{"", "stderr", "stdout", "-"} {
		logger, closer, err := logging.Open("info", output)
		gt.NoError(t, err)
		gt.V(t, logger).NotNil()
		gt.NoError(t, closer.Close())
	}
}

func TestErrAttr(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.New("info", buf)

	err := goerr.New("backend unavailable", goerr.V("handle", "KnitCraft.io"))
	logger.Warn("analysis degraded", logging.ErrAttr(err))

	gt.S(t, buf.String()).Contains("backend unavailable")
}
