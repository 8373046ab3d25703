package findings

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ReportNumbersFindings(t *testing.T) {
	c := NewCollector()
	c.Add(New(KindStructural, "a", "first problem"))
	c.Add(New(KindExternal, "b", "second problem"))

	var buf bytes.Buffer
	n, err := c.Report(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	out := buf.String()
	assert.Contains(t, out, "------ check results ------")
	assert.Contains(t, out, "2 errors found checking examples")
	assert.Contains(t, out, "1. [structural] first problem")
	assert.Contains(t, out, "2. [external] second problem")
}

func TestCollector_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	n, err := NewCollector().Report(&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Contains(t, buf.String(), "0 errors found")
}

func TestCollector_ReportTwice(t *testing.T) {
	c := NewCollector()
	_, err := c.Report(&bytes.Buffer{})
	require.NoError(t, err)

	_, err = c.Report(&bytes.Buffer{})
	assert.ErrorIs(t, err, ErrAlreadyReported)
}

func TestCollector_AddAfterReportPanics(t *testing.T) {
	c := NewCollector()
	_, err := c.Report(&bytes.Buffer{})
	require.NoError(t, err)

	assert.Panics(t, func() {
		c.Add(New(KindStructural, "x", "late"))
	})
}

func TestCollector_ConcurrentAdd(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				c.Add(Newf(KindBusiness, "dir", "finding %d-%d", i, j))
			}
		}(i)
	}
	wg.Wait()

	all := c.Findings()
	require.Len(t, all, 1000)

	seen := make(map[string]bool, len(all))
	for _, f := range all {
		assert.False(t, seen[f.Message], "duplicate finding %s", f.Message)
		seen[f.Message] = true
	}
	assert.True(t, seen[fmt.Sprintf("finding %d-%d", 49, 19)])
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(0))
	assert.Equal(t, 7, ExitCode(7))
	assert.Equal(t, 255, ExitCode(255))
	assert.Equal(t, 255, ExitCode(1000))
}
