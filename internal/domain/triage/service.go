package triage

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EvaluationRequest carries the raw form values as the UI collected them.
// Numeric fields arrive as strings; normalization happens here so that a
// garbage value can never poison a band comparison downstream.
type EvaluationRequest struct {
	Pathways             []string `json:"pathways"`
	Age                  string   `json:"age"`
	FITValue             string   `json:"fit_value"`
	FrailElderly         string   `json:"frail_elderly"`
	AnaemiaPresent       string   `json:"anaemia_present"`
	RecentImaging        string   `json:"recent_imaging_12m"`
	WHOPerformanceStatus string   `json:"who_performance_status"`
}

// Evaluation is the full response for one evaluate call: one result per
// selected pathway, plus the merged result when two or more pathways were
// selected.
type Evaluation struct {
	ID      uuid.UUID             `json:"id"`
	Results []DecisionResult      `json:"results"`
	Merged  *MergedDecisionResult `json:"merged,omitempty"`
}

type Service struct {
	logger zerolog.Logger
}

func NewService(logger zerolog.Logger) *Service {
	return &Service{logger: logger}
}

// Evaluate normalizes the raw request, runs the rule engine once per
// selected pathway in selection order, and merges when more than one
// pathway was selected. It cannot fail: incomplete input degrades into
// missing-field reporting and placeholder outcomes.
func (s *Service) Evaluate(ctx context.Context, req EvaluationRequest) *Evaluation {
	shared := Input{
		Age:                  parseOptionalNumber(req.Age),
		FITValue:             parseOptionalNumber(req.FITValue),
		FrailElderly:         ParseTriState(req.FrailElderly),
		AnaemiaPresent:       ParseTriState(req.AnaemiaPresent),
		RecentImaging:        ParseTriState(req.RecentImaging),
		WHOPerformanceStatus: parseWHOStatus(req.WHOPerformanceStatus),
	}

	pathways := req.Pathways
	if len(pathways) == 0 {
		// No selection still evaluates: the result reports the missing
		// pathway and the not-covered outcome.
		pathways = []string{""}
	}

	eval := &Evaluation{
		ID:      uuid.New(),
		Results: make([]DecisionResult, 0, len(pathways)),
	}
	for _, p := range pathways {
		in := shared
		in.Pathway = Pathway(strings.TrimSpace(p))
		eval.Results = append(eval.Results, Evaluate(in))
	}
	if len(eval.Results) > 1 {
		eval.Merged = Merge(eval.Results)
	}

	outcome := eval.Results[0].OutcomeText
	if eval.Merged != nil {
		outcome = eval.Merged.OutcomeText
	}
	s.logger.Info().
		Str("evaluation_id", eval.ID.String()).
		Strs("pathways", pathways).
		Str("outcome", outcome).
		Msg("referral evaluated")

	return eval
}

// Summary renders the evaluation as an indented plain-text clinical
// summary suitable for pasting into a referral.
func (s *Service) Summary(ctx context.Context, req EvaluationRequest) (*Evaluation, string) {
	eval := s.Evaluate(ctx, req)
	return eval, ComposeSummary(req, eval)
}

// ReferralEmail renders the evaluation as a pre-filled e-mail draft.
func (s *Service) ReferralEmail(ctx context.Context, req EvaluationRequest) (*Evaluation, EmailDraft) {
	eval := s.Evaluate(ctx, req)
	return eval, ComposeReferralEmail(req, eval)
}

// ParseTriState maps a raw form value to a TriState. Anything that is not
// a recognisable yes or no is treated as not-yet-answered.
func ParseTriState(raw string) TriState {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "true", "1":
		return TriYes
	case "no", "n", "false", "0":
		return TriNo
	default:
		return TriUnknown
	}
}

// parseOptionalNumber normalizes a raw numeric form value. Empty,
// unparsable, non-finite and negative values all normalize to absent; the
// engine's fields are non-negative by contract and a NaN must behave
// exactly like a missing value.
func parseOptionalNumber(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil
	}
	return &v
}

// parseWHOStatus parses a WHO performance status. Values outside 0..4 are
// treated as absent.
func parseWHOStatus(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 || v > 4 {
		return nil
	}
	return &v
}
