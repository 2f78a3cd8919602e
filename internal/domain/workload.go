package domain

// WorkloadSnapshot is a point-in-time workload figure for one employee.
// It is recomputed per request and never persisted or cached.
type WorkloadSnapshot struct {
	EmployeeID       string
	Name             string
	Position         string
	Department       *string
	Specializations  []string
	Active           bool
	ActiveTickets    int
	CompletedTickets int
	TotalHoursLogged float64
}

// Recommendation pairs an employee workload with a suitability score.
// Reasons are appended in factor evaluation order.
type Recommendation struct {
	WorkloadSnapshot
	Score   int
	Reasons []string
}
