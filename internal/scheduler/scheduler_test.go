package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) Refresh() error {
	r.calls.Add(1)
	return r.err
}

func TestScheduler_RefreshesPeriodically(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	r := &countingRefresher{}

	s := New(20*time.Millisecond, r, logger)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return r.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestScheduler_LogsRefreshErrors(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	r := &countingRefresher{err: errors.New("stopped")}

	s := New(20*time.Millisecond, r, logger)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		for _, e := range hook.AllEntries() {
			if e.Level == logrus.WarnLevel && e.Message == "dashboard refresh failed" {
				return true
			}
		}
		return false
	}, 2*time.Second, 5*time.Millisecond)
}

func TestScheduler_RejectsNonPositiveInterval(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	s := New(0, &countingRefresher{}, logger)
	assert.Error(t, s.Start())
}
