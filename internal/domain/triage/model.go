package triage

// Pathway identifies which referral rule set applies.
type Pathway string

const (
	PathwayAbdominalMass    Pathway = "abdominal_mass"
	PathwayAnalRectalLesion Pathway = "anal_rectal_lesion"
	PathwayCIBH50To85       Pathway = "cibh_50_85"
	PathwayCIBHOver85       Pathway = "cibh_over_85"
	PathwayIDAOver50        Pathway = "ida_over_50"
	PathwayIDAUnder50       Pathway = "ida_under_50"
	PathwayRBWithCIBH       Pathway = "rectal_bleeding_cibh_under_50"
	PathwayWeightLoss50To85 Pathway = "weight_loss_50_85"
	PathwayWeightLossOther  Pathway = "weight_loss_under_50_over_85"
)

// PathwayInfo is a catalogue entry for UI pathway selection.
type PathwayInfo struct {
	ID    Pathway `json:"id"`
	Label string  `json:"label"`
}

// Pathways returns the selectable pathway catalogue in display order.
func Pathways() []PathwayInfo {
	return []PathwayInfo{
		{PathwayAbdominalMass, "Abdominal mass"},
		{PathwayAnalRectalLesion, "Anal or rectal mass/lesion"},
		{PathwayCIBH50To85, "Change in bowel habit, age 50-85"},
		{PathwayCIBHOver85, "Change in bowel habit, age >85"},
		{PathwayIDAOver50, "Iron-deficiency anaemia, age >50"},
		{PathwayIDAUnder50, "Iron-deficiency anaemia, age <50"},
		{PathwayRBWithCIBH, "Rectal bleeding with change in bowel habit, age <50"},
		{PathwayWeightLoss50To85, "Weight loss, age 50-85"},
		{PathwayWeightLossOther, "Weight loss, age <50 or >85"},
	}
}

// TriState is a yes/no answer that may not have been supplied yet.
// "Explicitly no" and "not answered" behave differently in several rules,
// so the zero value is Unknown rather than false.
type TriState string

const (
	TriUnknown TriState = ""
	TriYes     TriState = "yes"
	TriNo      TriState = "no"
)

// Band is the ordinal range a FIT result falls into.
type Band string

const (
	BandNone Band = ""
	BandLow  Band = "<10"
	BandMid  Band = "10-100"
	BandHigh Band = ">100"
)

// Procedure is a canonical investigation with a fixed merge priority.
// Labels are stable strings; priority is only used for ordering and
// never re-derived from the label.
type Procedure struct {
	Label    string `json:"label"`
	Priority int    `json:"priority"`
}

// Canonical procedures, highest merge priority first.
var (
	ProcColonoscopy        = Procedure{Label: "Colonoscopy", Priority: 80}
	ProcOGD                = Procedure{Label: "OGD", Priority: 70}
	ProcCTColonography     = Procedure{Label: "CT colonography", Priority: 60}
	ProcCTAbdomenPelvis    = Procedure{Label: "CT abdomen and pelvis", Priority: 50}
	ProcCTThoraxAbdoPelvis = Procedure{Label: "CT thorax, abdomen and pelvis", Priority: 40}
	ProcCTThorax           = Procedure{Label: "CT thorax", Priority: 30}
	ProcTaggedCT           = Procedure{Label: "CT with oral contrast (tagged CT)", Priority: 20}
	ProcFlexSig            = Procedure{Label: "Flexible sigmoidoscopy", Priority: 10}
)

// Input is one evaluation's input record. Optional numeric fields use
// pointers so that "absent" stays distinct from zero.
type Input struct {
	Pathway              Pathway  `json:"pathway"`
	Age                  *float64 `json:"age,omitempty"`
	FITValue             *float64 `json:"fit_value,omitempty"`
	FrailElderly         TriState `json:"frail_elderly,omitempty"`
	AnaemiaPresent       TriState `json:"anaemia_present,omitempty"`
	RecentImaging        TriState `json:"recent_imaging_12m,omitempty"`
	WHOPerformanceStatus *int     `json:"who_performance_status,omitempty"`
}

// DecisionResult is the fully-populated outcome of one Evaluate call.
// It is a value: created fresh per evaluation and never mutated after
// return.
type DecisionResult struct {
	Pathway       Pathway     `json:"pathway"`
	MissingFields []string    `json:"missing_fields"`
	Band          Band        `json:"band,omitempty"`
	OutcomeText   string      `json:"outcome_text"`
	RuleLabel     string      `json:"rule_label"`
	Trace         []string    `json:"trace"`
	Notes         []string    `json:"notes,omitempty"`
	Procedures    []Procedure `json:"procedures,omitempty"`
	Escalated     bool        `json:"escalated"`
}

// MergedDecisionResult combines the results of several selected pathways.
type MergedDecisionResult struct {
	Results       []DecisionResult `json:"results"`
	OutcomeText   string           `json:"outcome_text"`
	RuleLabel     string           `json:"rule_label"`
	MissingFields []string         `json:"missing_fields"`
	Trace         []string         `json:"trace"`
	Notes         []string         `json:"notes,omitempty"`
	Procedures    []Procedure      `json:"procedures,omitempty"`
	Escalated     bool             `json:"escalated"`
}

// Canonical missing-field names, in the order detection reports them.
const (
	FieldPathway  = "pathway"
	FieldAge      = "age"
	FieldFITValue = "fit_value"
	FieldFrail    = "frail_elderly"
	FieldAnaemia  = "anaemia_status"
)

func (r *DecisionResult) addMissing(field string) {
	for _, f := range r.MissingFields {
		if f == field {
			return
		}
	}
	r.MissingFields = append(r.MissingFields, field)
}

func (r *DecisionResult) addTrace(entry string) {
	r.Trace = append(r.Trace, entry)
}

func (r *DecisionResult) addNote(note string) {
	r.Notes = append(r.Notes, note)
}
