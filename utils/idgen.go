package utils

import (
	"fmt"
	"sync"
	"time"
)

// IDGenerator generates unique record IDs using a snowflake-like scheme:
// timestamp (41 bits) | machine (10 bits) | sequence (12 bits).
type IDGenerator struct {
	mu        sync.Mutex
	lastTime  int64
	sequence  int64
	machineID int64
}

// NewIDGenerator creates a new ID generator with machine ID 0.
func NewIDGenerator() *IDGenerator {
	return NewIDGeneratorWithMachine(0)
}

// NewIDGeneratorWithMachine creates a new ID generator with a specific machine ID.
func NewIDGeneratorWithMachine(machineID int64) *IDGenerator {
	return &IDGenerator{
		machineID: machineID & 0x3FF,
	}
}

// Generate generates a unique ID.
func (g *IDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UnixMilli()

	if now == g.lastTime {
		g.sequence++
		if g.sequence >= 4096 {
			for now <= g.lastTime {
				time.Sleep(time.Microsecond * 100)
				now = time.Now().UnixMilli()
			}
			g.sequence = 0
		}
	} else {
		g.sequence = 0
	}

	g.lastTime = now

	id := (now << 22) | (g.machineID << 12) | g.sequence

	return fmt.Sprintf("%d", id)
}

// GenerateWithPrefix generates a unique ID with a prefix.
func (g *IDGenerator) GenerateWithPrefix(prefix string) string {
	return prefix + "_" + g.Generate()
}
