package model

// Objective groups related metrics for display. Purely descriptive;
// aggregation math never looks at it.
type Objective struct {
	ID   string
	Name string
}

// MetricDefinition describes a trackable quantity.
type MetricDefinition struct {
	ID          string
	Name        string
	Description string
	ObjectiveID string
}
