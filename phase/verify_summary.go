package phase

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// VerifySummary prints the collected verification results and fails the
// run when any check failed.
type VerifySummary struct {
	GenericPhase
	Report *Report
}

// Title for the phase
func (p *VerifySummary) Title() string {
	return "Verification summary"
}

// Run the phase
func (p *VerifySummary) Run(_ context.Context) error {
	failed := 0
	for _, res := range p.Report.Results() {
		if res.Err == nil {
			log.Infof("%s %s", Colorize.Green("PASS").String(), res.Check)
		} else {
			failed++
			log.Errorf("%s %s: %s", Colorize.Red("FAIL").String(), res.Check, res.Err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(p.Report.Results()))
	}

	log.Infof("all %d checks passed", len(p.Report.Results()))
	return nil
}
