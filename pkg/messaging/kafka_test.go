package messaging

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Search events are published from per-request goroutines, so writer
// creation must be safe under concurrency (run with -race).
func TestGetWriter_ConcurrentAccess(t *testing.T) {
	kp := NewKafkaProducer([]string{"localhost:9092"})
	defer kp.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				kp.getWriter(SearchEventsTopic)
				kp.getWriter(fmt.Sprintf("topic-%d", i%3))
			}
		}(i)
	}
	wg.Wait()

	kp.mu.Lock()
	defer kp.mu.Unlock()
	assert.Len(t, kp.writers, 4)
}

func TestGetWriter_ReusesWriterPerTopic(t *testing.T) {
	kp := NewKafkaProducer([]string{"localhost:9092"})
	defer kp.Close()

	first := kp.getWriter(SearchEventsTopic)
	second := kp.getWriter(SearchEventsTopic)
	other := kp.getWriter("other_topic")

	assert.Same(t, first, second)
	assert.NotSame(t, first, other)
	assert.Equal(t, SearchEventsTopic, first.Topic)
}
