package phase

import "fmt"

// Result is the outcome of a single verification check.
type Result struct {
	Check string
	Err   error
}

// Report collects verification results across phases so a failed check
// does not stop the remaining ones from running.
type Report struct {
	results []Result
}

// Pass records a successful check.
func (r *Report) Pass(check string) {
	r.results = append(r.results, Result{Check: check})
}

// Fail records a failed check.
func (r *Report) Fail(check, format string, args ...interface{}) {
	r.results = append(r.results, Result{Check: check, Err: fmt.Errorf(format, args...)})
}

// Results returns the recorded checks in order.
func (r *Report) Results() []Result {
	return r.results
}

// Failed is true when any check failed.
func (r *Report) Failed() bool {
	for _, res := range r.results {
		if res.Err != nil {
			return true
		}
	}
	return false
}
