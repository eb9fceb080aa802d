package timeline_test

import (
	"testing"
	"time"

	"codeberg.org/mutker/powergym/internal/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendRetainsMostRecent(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	for _, capacity := range []int{1, 3, timeline.SimulatedCapacity, timeline.HardwareCapacity} {
		for n := 0; n <= 2*capacity+1; n++ {
			tl := timeline.New(capacity)
			for i := 0; i < n; i++ {
				tl.Append(float64(i), base.Add(time.Duration(i)*time.Second))
			}

			samples := tl.Samples()
			require.Len(t, samples, min(n, capacity), "capacity=%d n=%d", capacity, n)

			first := n - len(samples)
			for i, p := range samples {
				assert.Equal(t, float64(first+i), p.TotalPower)
				assert.Equal(t, base.Add(time.Duration(first+i)*time.Second), p.Timestamp)
			}
		}
	}
}

func TestOutOfOrderTimestampsKeepInsertionOrder(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	tl := timeline.New(5)

	tl.Append(10, base.Add(2*time.Second))
	tl.Append(20, base)
	tl.Append(30, base.Add(time.Second))

	assert.Equal(t, []float64{10, 20, 30}, timeline.Values(tl.Samples()))
}

func TestSamplesIsACopy(t *testing.T) {
	tl := timeline.New(2)
	tl.Append(100, time.Now())

	samples := tl.Samples()
	samples[0].TotalPower = -1

	assert.Equal(t, 100.0, tl.Samples()[0].TotalPower)
}

func TestResetAndCapacity(t *testing.T) {
	tl := timeline.New(0)
	assert.Equal(t, 1, tl.Capacity(), "capacity is at least one")

	tl = timeline.New(timeline.SimulatedCapacity)
	for i := 0; i < 15; i++ {
		tl.Append(float64(i), time.Now())
	}
	assert.Equal(t, timeline.SimulatedCapacity, tl.Len())

	tl.Reset()
	assert.Zero(t, tl.Len())
	assert.Empty(t, tl.Samples())
	assert.Equal(t, timeline.SimulatedCapacity, tl.Capacity())
}

func TestLabels(t *testing.T) {
	tl := timeline.New(3)
	tl.Append(0, time.Date(2025, 3, 1, 9, 5, 7, 0, time.UTC))
	tl.Append(250, time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC))

	assert.Equal(t, []string{"09:05:07", "09:30:00"}, timeline.Labels(tl.Samples(), timeline.LabelLayoutSeconds))
	assert.Equal(t, []string{"09:05", "09:30"}, timeline.Labels(tl.Samples(), timeline.LabelLayoutMinutes))
}
