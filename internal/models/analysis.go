package models

// PartialAnalysis holds what one chunk revealed about the candidate.
type PartialAnalysis struct {
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	SkillsDetected []string `json:"skills_detected"`
}

// ChunkResult is the outcome of analyzing one chunk. Exactly one of Analysis or Err is set.
type ChunkResult struct {
	Index    int
	Analysis *PartialAnalysis
	Err      error
}

func (r ChunkResult) OK() bool {
	return r.Err == nil && r.Analysis != nil
}

type ResumeAnalysis struct {
	ATSScore       int      `json:"ats_score"`
	Summary        string   `json:"summary"`
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	MissingSkills  []string `json:"missing_skills"`
	SuggestedRoles []string `json:"suggested_roles"`
}

// Normalize replaces nil lists with empty ones and clamps the score.
func (a *ResumeAnalysis) Normalize() {
	a.ATSScore = clamp(a.ATSScore, 0, 100)
	a.Strengths = nonNil(a.Strengths)
	a.Weaknesses = nonNil(a.Weaknesses)
	a.MissingSkills = nonNil(a.MissingSkills)
	a.SuggestedRoles = nonNil(a.SuggestedRoles)
}

type SkillAnalysis struct {
	Strengths       []string `json:"strengths"`
	Improvements    []string `json:"improvements"`
	Recommendations []string `json:"recommendations"`
}

type InterviewAnalysis struct {
	OverallScore        int      `json:"overall_score"`
	CommunicationScore  int      `json:"communication_score"`
	TechnicalScore      int      `json:"technical_score"`
	ConfidenceScore     int      `json:"confidence_score"`
	BodyLanguageScore   int      `json:"body_language_score"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	DetailedFeedback    string   `json:"detailed_feedback"`
	Recommendations     []string `json:"recommendations"`
	Verdict             string   `json:"verdict"`
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
