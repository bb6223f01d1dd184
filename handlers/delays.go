package handlers

import "time"

// The three cooperative-delay tiers named in spec §5. Real firmware yields
// to the scheduler at these points; the goroutine equivalent is a plain
// time.Sleep, matching the teacher's measureWorker/gpioIRQWorker use of
// time.Timer instead of a custom scheduler.
const (
	shortDelayMS  = 5
	mediumDelayMS = 10
	longDelayMS   = 40
)

func cooperativeSleep(ms int) { time.Sleep(time.Duration(ms) * time.Millisecond) }
