// Package verdict combines the account prediction and the image check into a
// final judgment with a bounded risk score. The combination is pure
// arithmetic over its inputs, so identical inputs always yield identical
// verdicts.
package verdict

import (
	"math"

	"github.com/fraudlens/fraudlens/classify"
	"github.com/fraudlens/fraudlens/imagecheck"
)

// Verdict is the final judgment on an account.
type Verdict string

// Possible verdicts, from worst to best.
const (
	HighRiskFake  Verdict = "High Risk Fake"
	Suspicious    Verdict = "Suspicious"
	NeedsReview   Verdict = "Needs Review"
	LikelyGenuine Verdict = "Likely Genuine"
)

// Result is the combined judgment. RiskScore is always in [0, 100].
type Result struct {
	Verdict   Verdict
	Reasoning string
	RiskScore int
}

// Compute derives the verdict. The account signal carries 60% of the base
// score and the image signal 40%; the verdict branch then adjusts the score
// within its own floor or ceiling. A nil similarity (no image checked)
// stands in as 0.5, a neutral image signal.
func Compute(label classify.Label, confidence float64, status imagecheck.Status, similarity *float64) Result {
	imageSimilarity := 0.5
	if similarity != nil {
		imageSimilarity = *similarity
	}

	accountRisk := confidence
	if label != classify.LabelFake {
		accountRisk = 1.0 - confidence
	}

	imageRisk := 0.0
	if status == imagecheck.StatusReused {
		imageRisk = imageSimilarity
	}

	base := int(math.Round((accountRisk*0.6 + imageRisk*0.4) * 100))

	var result Result
	switch {
	case label == classify.LabelFake && status == imagecheck.StatusReused:
		result = Result{
			Verdict:   HighRiskFake,
			RiskScore: min(100, base+20),
			Reasoning: "Account behavior suggests fake AND profile image appears reused.",
		}
	case label == classify.LabelFake && status == imagecheck.StatusOriginal:
		result = Result{
			Verdict:   Suspicious,
			RiskScore: max(50, base+10),
			Reasoning: "Account behavior suggests fake but profile image appears original.",
		}
	case label == classify.LabelReal && status == imagecheck.StatusOriginal:
		result = Result{
			Verdict:   LikelyGenuine,
			RiskScore: max(0, base-20),
			Reasoning: "Account behavior suggests real AND profile image appears original.",
		}
	case label == classify.LabelReal && status == imagecheck.StatusReused:
		result = Result{
			Verdict:   NeedsReview,
			RiskScore: base + 5,
			Reasoning: "Account behavior suggests real but profile image appears reused.",
		}
	default:
		result = Result{
			Verdict:   NeedsReview,
			RiskScore: base,
			Reasoning: "Unable to determine verdict with available data.",
		}
	}

	result.RiskScore = max(0, min(100, result.RiskScore))
	return result
}
