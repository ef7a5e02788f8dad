package triage

import (
	"fmt"
	"strings"
)

// EmailDraft is the pre-filled referral e-mail derived from an evaluation.
// Sending it is the caller's business; this package only assembles text.
type EmailDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ComposeSummary renders the entered parameters and the evaluation outcome
// as plain text. Output is fully determined by its inputs.
func ComposeSummary(req EvaluationRequest, eval *Evaluation) string {
	var b strings.Builder

	b.WriteString("Lower GI referral triage summary\n")
	b.WriteString("\nParameters entered:\n")
	writeParam(&b, "Age", req.Age)
	writeParam(&b, "FIT result", req.FITValue)
	writeParam(&b, "Frail/elderly", req.FrailElderly)
	writeParam(&b, "Anaemia", req.AnaemiaPresent)
	writeParam(&b, "Imaging within 12 months", req.RecentImaging)
	writeParam(&b, "WHO performance status", req.WHOPerformanceStatus)

	b.WriteString("\nPathways:\n")
	for _, r := range eval.Results {
		fmt.Fprintf(&b, "  %s: %s\n", r.RuleLabel, r.OutcomeText)
		for _, t := range r.Trace {
			fmt.Fprintf(&b, "    - %s\n", t)
		}
	}

	if eval.Merged != nil {
		fmt.Fprintf(&b, "\nCombined recommendation: %s\n", eval.Merged.OutcomeText)
	} else {
		fmt.Fprintf(&b, "\nRecommendation: %s\n", eval.Results[0].OutcomeText)
	}

	missing := collectMissing(eval)
	if len(missing) > 0 {
		fmt.Fprintf(&b, "\nStill required: %s\n", strings.Join(missing, ", "))
	}
	notes := collectNotes(eval)
	for _, n := range notes {
		fmt.Fprintf(&b, "Note: %s\n", n)
	}

	return b.String()
}

// ComposeReferralEmail derives a draft referral e-mail from the evaluation.
func ComposeReferralEmail(req EvaluationRequest, eval *Evaluation) EmailDraft {
	outcome := eval.Results[0].OutcomeText
	if eval.Merged != nil {
		outcome = eval.Merged.OutcomeText
	}
	return EmailDraft{
		Subject: fmt.Sprintf("Lower GI referral: %s", outcome),
		Body:    ComposeSummary(req, eval),
	}
}

func writeParam(b *strings.Builder, label, raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "not entered"
	}
	fmt.Fprintf(b, "  %s: %s\n", label, raw)
}

func collectMissing(eval *Evaluation) []string {
	if eval.Merged != nil {
		return eval.Merged.MissingFields
	}
	return eval.Results[0].MissingFields
}

func collectNotes(eval *Evaluation) []string {
	if eval.Merged != nil {
		return eval.Merged.Notes
	}
	return eval.Results[0].Notes
}
