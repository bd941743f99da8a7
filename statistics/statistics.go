package statistics

import (
	"fmt"
	"sync"
)

type statisticsData struct {
	dataMap map[string]int

	mutex sync.Mutex
}

var stats *statisticsData

func Init() {
	stats = &statisticsData{
		dataMap: make(map[string]int),
	}
}

func Set(key string, value int) {
	stats.mutex.Lock()
	defer stats.mutex.Unlock()

	stats.dataMap[key] = value
}

func Change(key string, value int) {
	stats.mutex.Lock()
	defer stats.mutex.Unlock()

	stats.dataMap[key] += value
}

func Get(key string) int {
	stats.mutex.Lock()
	defer stats.mutex.Unlock()

	return stats.dataMap[key]
}

// Snapshot copies the counters for reporting endpoints.
func Snapshot() map[string]int {
	stats.mutex.Lock()
	defer stats.mutex.Unlock()

	out := make(map[string]int, len(stats.dataMap))
	for key, value := range stats.dataMap {
		out[key] = value
	}
	return out
}

func Display() string {
	stats.mutex.Lock()
	defer stats.mutex.Unlock()

	result := "Statistics results are:\n"
	for key, value := range stats.dataMap {
		result += fmt.Sprintf("Number of %s is %d\n", key, value)
	}

	return result
}
