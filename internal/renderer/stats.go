package renderer

import "fmt"

// statsWindow is how many frames the rolling averages cover.
const statsWindow = 30

// FrameStats keeps a rolling window of frame times and draw-call counts for
// the window-title telemetry.
type FrameStats struct {
	times     [statsWindow]float64 // seconds
	drawCalls [statsWindow]int
	next      int
	filled    int
}

// Add records one frame.
func (s *FrameStats) Add(frameTime float64, drawCalls int) {
	s.times[s.next] = frameTime
	s.drawCalls[s.next] = drawCalls
	s.next = (s.next + 1) % statsWindow
	if s.filled < statsWindow {
		s.filled++
	}
}

// AvgFrameTime returns the mean frame time in seconds over the window.
func (s *FrameStats) AvgFrameTime() float64 {
	if s.filled == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < s.filled; i++ {
		sum += s.times[i]
	}
	return sum / float64(s.filled)
}

// FPS returns the rolling average frames per second.
func (s *FrameStats) FPS() float64 {
	avg := s.AvgFrameTime()
	if avg <= 0 {
		return 0
	}
	return 1.0 / avg
}

// AvgDrawCalls returns the mean draw-call count over the window.
func (s *FrameStats) AvgDrawCalls() float64 {
	if s.filled == 0 {
		return 0
	}
	var sum int
	for i := 0; i < s.filled; i++ {
		sum += s.drawCalls[i]
	}
	return float64(sum) / float64(s.filled)
}

// Summary formats the telemetry line shown in the window title.
func (s *FrameStats) Summary() string {
	return fmt.Sprintf("%.0f fps | %.2f ms | %.0f draws",
		s.FPS(), s.AvgFrameTime()*1000, s.AvgDrawCalls())
}
