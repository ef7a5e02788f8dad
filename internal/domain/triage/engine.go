package triage

import "fmt"

// Outcome texts shared across rule sets.
const (
	OutcomeFaceToFace    = "Arrange face-to-face clinic assessment"
	OutcomeRecentImaging = "Arrange face-to-face appointment to review recent imaging"
	OutcomeNeedsFIT      = "Needs FIT result"
	OutcomeNeedsAnaemia  = "Needs anaemia status"
	OutcomeFITLow        = "Follow local FIT <10 guidance"
	OutcomeNotCovered    = "This selection is not covered by this guidance; use clinical judgement"
)

// outcome is the structured form of a rule firing: the text the UI shows,
// the canonical procedures the merge engine works on, and whether the
// outcome escalates to a face-to-face assessment.
type outcome struct {
	Text       string
	Procedures []Procedure
	Escalated  bool
}

var (
	outColonoscopy     = outcome{Text: "Colonoscopy", Procedures: []Procedure{ProcColonoscopy}}
	outCTColonography  = outcome{Text: "CT colonography", Procedures: []Procedure{ProcCTColonography}}
	outCTAbdomenPelvis = outcome{Text: "CT abdomen and pelvis", Procedures: []Procedure{ProcCTAbdomenPelvis}}
	outTaggedCT        = outcome{Text: "CT with oral contrast (tagged CT)", Procedures: []Procedure{ProcTaggedCT}}
	outColonoscopyOGD  = outcome{Text: "Colonoscopy + OGD", Procedures: []Procedure{ProcColonoscopy, ProcOGD}}
	outCTCOGD          = outcome{Text: "CT colonography + OGD", Procedures: []Procedure{ProcCTColonography, ProcOGD}}
	outCTCThorax       = outcome{Text: "CT colonography + CT thorax", Procedures: []Procedure{ProcCTColonography, ProcCTThorax}}
	outCTTAP           = outcome{Text: "CT thorax, abdomen and pelvis", Procedures: []Procedure{ProcCTThoraxAbdoPelvis}}
	outFlexSig         = outcome{Text: "Flexible sigmoidoscopy", Procedures: []Procedure{ProcFlexSig}}
	outFlexSigThenColo = outcome{Text: "Flexible sigmoidoscopy; if normal, proceed to colonoscopy", Procedures: []Procedure{ProcFlexSig}}
	outFaceToFace      = outcome{Text: OutcomeFaceToFace, Escalated: true}
	outNeedsFIT        = outcome{Text: OutcomeNeedsFIT}
	outNeedsAnaemia    = outcome{Text: OutcomeNeedsAnaemia}
	outFITLow          = outcome{Text: OutcomeFITLow}
	outNotCovered      = outcome{Text: OutcomeNotCovered}
)

// ageExpectation is the age range a pathway assumes. Entering an age
// outside it does not change the outcome, only adds a supplementary note.
type ageExpectation struct {
	InRange func(age float64) bool
	Desc    string
}

// pathwaySpec is one row of the dispatch table: which fields the pathway
// requires, the age range it assumes, and the rule set that decides the
// outcome.
type pathwaySpec struct {
	Label        string
	NeedsAge     bool
	NeedsFIT     bool
	NeedsFrail   bool
	NeedsAnaemia bool
	ExpectedAge  *ageExpectation
	Decide       func(in Input, band Band, res *DecisionResult)
}

var pathwayTable = map[Pathway]pathwaySpec{
	PathwayAbdominalMass: {
		Label:      "Abdominal mass",
		NeedsAge:   true,
		NeedsFIT:   true,
		NeedsFrail: true,
		Decide:     decideAbdominalMass,
	},
	PathwayAnalRectalLesion: {
		Label:  "Anal or rectal mass/lesion",
		Decide: decideAnalRectalLesion,
	},
	PathwayCIBH50To85: {
		Label:       "Change in bowel habit 50-85",
		NeedsAge:    true,
		NeedsFIT:    true,
		ExpectedAge: &ageExpectation{InRange: func(a float64) bool { return a >= 50 && a <= 85 }, Desc: "50-85"},
		Decide: bandDecider("Change in bowel habit 50-85", map[Band]outcome{
			BandLow:  outFITLow,
			BandMid:  outCTColonography,
			BandHigh: outColonoscopy,
		}),
	},
	PathwayCIBHOver85: {
		Label:       "Change in bowel habit >85",
		NeedsAge:    true,
		NeedsFIT:    true,
		ExpectedAge: &ageExpectation{InRange: func(a float64) bool { return a > 85 }, Desc: ">85"},
		Decide: bandDecider("Change in bowel habit >85", map[Band]outcome{
			BandLow:  outFITLow,
			BandMid:  outTaggedCT,
			BandHigh: outColonoscopy,
		}),
	},
	PathwayIDAOver50: {
		Label:       "Iron-deficiency anaemia >50",
		NeedsAge:    true,
		NeedsFIT:    true,
		ExpectedAge: &ageExpectation{InRange: func(a float64) bool { return a > 50 }, Desc: ">50"},
		Decide: bandDecider("Iron-deficiency anaemia >50", map[Band]outcome{
			BandLow:  outCTCOGD,
			BandMid:  outCTCOGD,
			BandHigh: outColonoscopyOGD,
		}),
	},
	PathwayIDAUnder50: {
		Label:       "Iron-deficiency anaemia <50",
		NeedsAge:    true,
		NeedsFIT:    true,
		ExpectedAge: &ageExpectation{InRange: func(a float64) bool { return a < 50 }, Desc: "<50"},
		Decide:      decideIDAUnder50,
	},
	PathwayRBWithCIBH: {
		Label:        "Rectal bleeding with CIBH <50",
		NeedsAge:     true,
		NeedsFIT:     true,
		NeedsAnaemia: true,
		ExpectedAge:  &ageExpectation{InRange: func(a float64) bool { return a < 50 }, Desc: "<50"},
		Decide:       decideRectalBleeding,
	},
	PathwayWeightLoss50To85: {
		Label:       "Weight loss 50-85",
		NeedsAge:    true,
		NeedsFIT:    true,
		ExpectedAge: &ageExpectation{InRange: func(a float64) bool { return a >= 50 && a <= 85 }, Desc: "50-85"},
		Decide: bandDecider("Weight loss 50-85", map[Band]outcome{
			BandLow:  outFITLow,
			BandMid:  outCTCThorax,
			BandHigh: outColonoscopy,
		}),
	},
	PathwayWeightLossOther: {
		Label:       "Weight loss <50 or >85",
		NeedsAge:    true,
		NeedsFIT:    true,
		ExpectedAge: &ageExpectation{InRange: func(a float64) bool { return a < 50 || a > 85 }, Desc: "<50 or >85"},
		Decide: bandDecider("Weight loss <50 or >85", map[Band]outcome{
			BandLow:  outFITLow,
			BandMid:  outCTTAP,
			BandHigh: outColonoscopy,
		}),
	},
}

// Evaluate maps one pathway selection plus the shared clinical fields to a
// decision result. It is total: every input, including an all-absent one,
// produces a structurally valid result, with gaps reported through
// MissingFields and placeholder outcomes rather than errors.
func Evaluate(in Input) DecisionResult {
	res := DecisionResult{
		Pathway:       in.Pathway,
		MissingFields: []string{},
		Trace:         []string{},
	}

	spec, known := pathwayTable[in.Pathway]

	// Missing-field detection runs first and never blocks the rest of the
	// evaluation. Canonical order: pathway, age, fit_value, then the
	// pathway-specific flag.
	if in.Pathway == "" {
		res.addMissing(FieldPathway)
	}
	if known {
		if spec.NeedsAge && in.Age == nil {
			res.addMissing(FieldAge)
		}
		if spec.NeedsFIT && in.FITValue == nil {
			res.addMissing(FieldFITValue)
		}
		if spec.NeedsFrail && in.FrailElderly == TriUnknown {
			res.addMissing(FieldFrail)
		}
		if spec.NeedsAnaemia && in.AnaemiaPresent == TriUnknown {
			res.addMissing(FieldAnaemia)
		}
	}

	res.Band = ClassifyBand(in.FITValue)

	// Recent imaging short-circuits before any pathway rule runs. The
	// trace carries only the override entry in this case.
	if in.RecentImaging == TriYes {
		res.RuleLabel = "Recent imaging override"
		res.applyOutcome(outcome{Text: OutcomeRecentImaging, Escalated: true})
		res.addTrace("Imaging within the last 12 months: arrange a face-to-face appointment to review the existing imaging; pathway rules not applied")
		return res
	}

	if !known {
		res.RuleLabel = "Not covered"
		res.applyOutcome(outNotCovered)
		res.addTrace("No recognised pathway selected: outcome cannot be derived from the referral criteria")
	} else {
		res.RuleLabel = spec.Label
		spec.Decide(in, res.Band, &res)
		if spec.ExpectedAge != nil && in.Age != nil && !spec.ExpectedAge.InRange(*in.Age) {
			res.addNote(fmt.Sprintf("Entered age %g is outside the range this pathway assumes (%s)", *in.Age, spec.ExpectedAge.Desc))
		}
	}

	// The WHO override always runs last and beats every pathway-specific
	// outcome. Only the recent-imaging short-circuit above precedes it.
	if in.WHOPerformanceStatus != nil && *in.WHOPerformanceStatus >= 3 {
		res.applyOutcome(outFaceToFace)
		res.addTrace(fmt.Sprintf("WHO performance status %d: face-to-face assessment overrides the pathway outcome", *in.WHOPerformanceStatus))
	}

	return res
}

func (r *DecisionResult) applyOutcome(o outcome) {
	r.OutcomeText = o.Text
	r.Escalated = o.Escalated
	if len(o.Procedures) == 0 {
		r.Procedures = nil
		return
	}
	r.Procedures = append([]Procedure(nil), o.Procedures...)
}

// bandDecider builds a rule set that is a pure band -> outcome lookup.
// A missing FIT result yields the needs-FIT placeholder.
func bandDecider(label string, table map[Band]outcome) func(Input, Band, *DecisionResult) {
	return func(in Input, band Band, res *DecisionResult) {
		if band == BandNone {
			res.applyOutcome(outNeedsFIT)
			res.addTrace(label + ": no FIT result entered, outcome pending")
			return
		}
		o := table[band]
		res.applyOutcome(o)
		res.addTrace(fmt.Sprintf("%s: FIT %s maps to %s", label, band, o.Text))
	}
}

func decideAbdominalMass(in Input, band Band, res *DecisionResult) {
	if in.FrailElderly == TriYes {
		res.applyOutcome(outCTAbdomenPelvis)
		res.addTrace("Abdominal mass: frail or elderly patient, CT abdomen and pelvis regardless of FIT result")
		return
	}
	bandDecider("Abdominal mass", map[Band]outcome{
		BandLow:  outCTAbdomenPelvis,
		BandMid:  outCTColonography,
		BandHigh: outColonoscopy,
	})(in, band, res)
}

func decideAnalRectalLesion(in Input, band Band, res *DecisionResult) {
	res.applyOutcome(outFaceToFace)
	res.addTrace("Anal or rectal mass/lesion: face-to-face assessment in all cases")
}

func decideIDAUnder50(in Input, band Band, res *DecisionResult) {
	// The under-50 IDA rule set does not branch on the FIT band.
	res.applyOutcome(outColonoscopyOGD)
	res.addTrace("Iron-deficiency anaemia <50: colonoscopy and OGD for any FIT result")
}

func decideRectalBleeding(in Input, band Band, res *DecisionResult) {
	const label = "Rectal bleeding with CIBH <50"
	switch in.AnaemiaPresent {
	case TriYes:
		res.applyOutcome(outColonoscopy)
		res.addTrace(label + ": anaemia present, colonoscopy regardless of FIT result")
	case TriNo:
		switch band {
		case BandNone:
			res.applyOutcome(outNeedsFIT)
			res.addTrace(label + ": no anaemia, no FIT result entered, outcome pending")
		case BandLow:
			res.applyOutcome(outFlexSig)
			res.addTrace(label + ": no anaemia and FIT <10 maps to flexible sigmoidoscopy")
		default:
			res.applyOutcome(outFlexSigThenColo)
			res.addTrace(fmt.Sprintf("%s: no anaemia and FIT %s maps to flexible sigmoidoscopy, escalating to colonoscopy if normal", label, band))
		}
	default:
		res.applyOutcome(outNeedsAnaemia)
		res.addTrace(label + ": anaemia status not recorded, outcome pending")
	}
}
