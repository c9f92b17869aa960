package menu

import "time"

var epoch = time.Now()

// Tick returns monotonic milliseconds since the package was loaded.
func Tick() float64 {
	return float64(time.Since(epoch).Nanoseconds()) / 1e6
}
