package timeline

import "time"

const (
	// SimulatedCapacity is the window kept for simulated equipment
	SimulatedCapacity = 10
	// HardwareCapacity is the window kept for live hardware
	HardwareCapacity = 30

	LabelLayoutSeconds = "15:04:05"
	LabelLayoutMinutes = "15:04"
)

// Point is one sampled total power value
type Point struct {
	Timestamp  time.Time `json:"timestamp"`
	TotalPower float64   `json:"watts"`
}

// Timeline is a bounded FIFO of power samples. Points are kept in insertion
// order; once the window is full each append drops the oldest point.
type Timeline struct {
	points   []Point
	capacity int
}

func New(capacity int) *Timeline {
	if capacity < 1 {
		capacity = 1
	}

	return &Timeline{
		points:   make([]Point, 0, capacity+1),
		capacity: capacity,
	}
}

func (t *Timeline) Append(totalPower float64, timestamp time.Time) {
	t.points = append(t.points, Point{Timestamp: timestamp, TotalPower: totalPower})
	if len(t.points) > t.capacity {
		t.points = t.points[1:]
	}
}

// Samples returns a copy of the window, oldest first
func (t *Timeline) Samples() []Point {
	out := make([]Point, len(t.points))
	copy(out, t.points)
	return out
}

func (t *Timeline) Len() int {
	return len(t.points)
}

func (t *Timeline) Capacity() int {
	return t.capacity
}

func (t *Timeline) Reset() {
	t.points = make([]Point, 0, t.capacity+1)
}

// Labels formats each point's timestamp for a chart axis
func Labels(points []Point, layout string) []string {
	labels := make([]string, len(points))
	for i, p := range points {
		labels[i] = p.Timestamp.Format(layout)
	}
	return labels
}

// Values returns the power series in window order
func Values(points []Point) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.TotalPower
	}
	return values
}
