package triage

import (
	"sort"
	"strings"
)

// MergedEmptyOutcome marks a merged result whose constituents contributed
// no procedures at all. It is never the empty string.
const MergedEmptyOutcome = "—"

// RuleLabelSeparator joins constituent rule labels. It must never appear
// inside a label itself.
const RuleLabelSeparator = " | "

// Merge combines per-pathway decision results into a single recommendation.
// Missing fields, trace entries and notes are set-unioned in first-seen
// order. If any constituent escalates, the merged outcome is that
// escalation and procedure merging is skipped entirely. Otherwise the
// constituents' canonical procedures are deduplicated, dominated
// procedures suppressed, and the survivors ordered by descending priority
// (label order breaking ties).
func Merge(results []DecisionResult) *MergedDecisionResult {
	if len(results) == 0 {
		return nil
	}

	m := &MergedDecisionResult{Results: results}

	labels := make([]string, 0, len(results))
	for _, r := range results {
		labels = append(labels, r.RuleLabel)
		m.MissingFields = unionInto(m.MissingFields, r.MissingFields)
		m.Trace = unionInto(m.Trace, r.Trace)
		m.Notes = unionInto(m.Notes, r.Notes)
	}
	m.RuleLabel = strings.Join(labels, RuleLabelSeparator)

	// Escalation beats everything: the first escalating constituent's
	// text becomes the merged outcome as-is.
	for _, r := range results {
		if r.Escalated {
			m.OutcomeText = r.OutcomeText
			m.Escalated = true
			return m
		}
	}

	// Deduplicate by label, keeping the highest priority seen.
	best := make(map[string]Procedure)
	for _, r := range results {
		for _, p := range r.Procedures {
			if cur, ok := best[p.Label]; !ok || p.Priority > cur.Priority {
				best[p.Label] = p
			}
		}
	}

	// A colonoscopy supersedes the flexible sigmoidoscopy it would
	// otherwise be staged before.
	if _, ok := best[ProcColonoscopy.Label]; ok {
		delete(best, ProcFlexSig.Label)
	}

	procs := make([]Procedure, 0, len(best))
	for _, p := range best {
		procs = append(procs, p)
	}
	sort.Slice(procs, func(i, j int) bool {
		if procs[i].Priority != procs[j].Priority {
			return procs[i].Priority > procs[j].Priority
		}
		return procs[i].Label < procs[j].Label
	})
	m.Procedures = procs

	if len(procs) == 0 {
		m.OutcomeText = MergedEmptyOutcome
		return m
	}

	parts := make([]string, len(procs))
	for i, p := range procs {
		parts[i] = p.Label
	}
	m.OutcomeText = strings.Join(parts, " + ")
	return m
}

// unionInto appends the entries of src not already present in dst,
// preserving first-seen order.
func unionInto(dst, src []string) []string {
	for _, s := range src {
		seen := false
		for _, d := range dst {
			if d == s {
				seen = true
				break
			}
		}
		if !seen {
			dst = append(dst, s)
		}
	}
	return dst
}
