package triage

import (
	"reflect"
	"testing"
)

func TestMerge_Empty(t *testing.T) {
	if got := Merge(nil); got != nil {
		t.Errorf("Merge(nil) = %+v, want nil", got)
	}
}

func TestMerge_SingleResult(t *testing.T) {
	res := Evaluate(Input{Pathway: PathwayCIBH50To85, Age: fp(60), FITValue: fp(40)})
	m := Merge([]DecisionResult{res})

	if m.OutcomeText != res.OutcomeText {
		t.Errorf("OutcomeText = %q, want %q", m.OutcomeText, res.OutcomeText)
	}
	if m.RuleLabel != res.RuleLabel {
		t.Errorf("RuleLabel = %q, want %q", m.RuleLabel, res.RuleLabel)
	}
	if !reflect.DeepEqual(m.Trace, res.Trace) {
		t.Errorf("Trace = %v, want %v", m.Trace, res.Trace)
	}
}

func TestMerge_OrdersProceduresByPriority(t *testing.T) {
	frailMass := Evaluate(Input{
		Pathway:      PathwayAbdominalMass,
		Age:          fp(80),
		FITValue:     fp(5),
		FrailElderly: TriYes,
	})
	ida := Evaluate(Input{Pathway: PathwayIDAUnder50, Age: fp(40), FITValue: fp(5)})

	m := Merge([]DecisionResult{frailMass, ida})

	want := "Colonoscopy + OGD + CT abdomen and pelvis"
	if m.OutcomeText != want {
		t.Errorf("OutcomeText = %q, want %q", m.OutcomeText, want)
	}
}

func TestMerge_ColonoscopySuppressesFlexSig(t *testing.T) {
	flexSig := Evaluate(Input{
		Pathway:        PathwayRBWithCIBH,
		Age:            fp(40),
		FITValue:       fp(2),
		AnaemiaPresent: TriNo,
	})
	colo := Evaluate(Input{Pathway: PathwayIDAUnder50, Age: fp(40), FITValue: fp(2)})

	m := Merge([]DecisionResult{flexSig, colo})

	if m.OutcomeText != "Colonoscopy + OGD" {
		t.Errorf("OutcomeText = %q, want Colonoscopy + OGD", m.OutcomeText)
	}
	for _, p := range m.Procedures {
		if p.Label == ProcFlexSig.Label {
			t.Error("flexible sigmoidoscopy survived a merge containing colonoscopy")
		}
	}
}

func TestMerge_EscalationWins(t *testing.T) {
	colo := Evaluate(Input{Pathway: PathwayCIBH50To85, Age: fp(60), FITValue: fp(400)})
	lesion := Evaluate(Input{Pathway: PathwayAnalRectalLesion})

	m := Merge([]DecisionResult{colo, lesion})

	if m.OutcomeText != OutcomeFaceToFace {
		t.Errorf("OutcomeText = %q, want %q", m.OutcomeText, OutcomeFaceToFace)
	}
	if !m.Escalated {
		t.Error("Escalated = false, want true")
	}
	if len(m.Procedures) != 0 {
		t.Errorf("Procedures = %v, want none when escalated", m.Procedures)
	}
}

func TestMerge_EscalationUsesFirstEscalatedText(t *testing.T) {
	imaging := Evaluate(Input{Pathway: PathwayCIBH50To85, Age: fp(60), FITValue: fp(40), RecentImaging: TriYes})
	lesion := Evaluate(Input{Pathway: PathwayAnalRectalLesion})

	m := Merge([]DecisionResult{imaging, lesion})
	if m.OutcomeText != OutcomeRecentImaging {
		t.Errorf("OutcomeText = %q, want first escalated text %q", m.OutcomeText, OutcomeRecentImaging)
	}
}

func TestMerge_UnionsMissingFieldsInFirstSeenOrder(t *testing.T) {
	a := Evaluate(Input{Pathway: PathwayRBWithCIBH})
	b := Evaluate(Input{Pathway: PathwayAbdominalMass})

	m := Merge([]DecisionResult{a, b})

	want := []string{FieldAge, FieldFITValue, FieldAnaemia, FieldFrail}
	if !reflect.DeepEqual(m.MissingFields, want) {
		t.Errorf("MissingFields = %v, want %v", m.MissingFields, want)
	}
}

func TestMerge_DeduplicatesByLabelKeepingMaxPriority(t *testing.T) {
	a := DecisionResult{
		RuleLabel:  "A",
		Procedures: []Procedure{{Label: "Colonoscopy", Priority: 80}},
	}
	b := DecisionResult{
		RuleLabel:  "B",
		Procedures: []Procedure{{Label: "Colonoscopy", Priority: 5}},
	}

	m := Merge([]DecisionResult{b, a})

	if len(m.Procedures) != 1 {
		t.Fatalf("Procedures = %v, want one entry", m.Procedures)
	}
	if m.Procedures[0].Priority != 80 {
		t.Errorf("Priority = %d, want 80", m.Procedures[0].Priority)
	}
}

func TestMerge_NoProcedures_PlaceholderOutcome(t *testing.T) {
	a := Evaluate(Input{Pathway: PathwayCIBH50To85, Age: fp(60)})
	b := Evaluate(Input{Pathway: PathwayWeightLoss50To85, Age: fp(60)})

	m := Merge([]DecisionResult{a, b})

	if m.OutcomeText != MergedEmptyOutcome {
		t.Errorf("OutcomeText = %q, want %q", m.OutcomeText, MergedEmptyOutcome)
	}
}

func TestMerge_RuleLabelJoin(t *testing.T) {
	a := Evaluate(Input{Pathway: PathwayCIBH50To85, Age: fp(60), FITValue: fp(40)})
	b := Evaluate(Input{Pathway: PathwayWeightLoss50To85, Age: fp(60), FITValue: fp(40)})

	m := Merge([]DecisionResult{a, b})

	want := "Change in bowel habit 50-85" + RuleLabelSeparator + "Weight loss 50-85"
	if m.RuleLabel != want {
		t.Errorf("RuleLabel = %q, want %q", m.RuleLabel, want)
	}
}
