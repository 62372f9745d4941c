package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Example_basicUsage demonstrates basic metrics configuration.
func Example_basicUsage() {
	// Create a separate registry for this test
	testRegistry := prometheus.NewRegistry()
	registry := NewRegistry(testRegistry)

	// Example of accessing metrics
	registry.JobsSubmitted.WithLabelValues("test_pool").Add(10)
	registry.JobsCompleted.WithLabelValues("test_pool").Add(8)
	registry.JobsRejected.WithLabelValues("test_pool").Add(2)

	fmt.Println("Metrics updated successfully")

	// Output:
	// Metrics updated successfully
}

// Example_customRegistry demonstrates using a custom Prometheus registry.
func Example_customRegistry() {
	// Create a custom registry
	customRegistry := prometheus.NewRegistry()

	config := Config{
		Enabled:  true,
		Registry: customRegistry,
	}

	registry := NewRegistry(config.Registry)

	registry.ScheduleRuns.WithLabelValues("reports").Add(3)
	registry.PoolWorkers.WithLabelValues("reports_pool").Set(4)

	fmt.Printf("Custom registry enabled: %v\n", config.Enabled)

	// Output:
	// Custom registry enabled: true
}
