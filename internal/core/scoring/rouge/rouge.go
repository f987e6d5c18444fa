// Package rouge computes ROUGE-L scores compatible with google-research's
// rouge_score package (default tokenizer, optional Porter stemming).
package rouge

// Score holds precision, recall and their harmonic mean, each in [0, 1].
type Score struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	FMeasure  float64 `json:"fmeasure"`
}

// Scorer tokenizes and scores text pairs.
type Scorer struct {
	stemming bool
}

func NewScorer(stemming bool) *Scorer {
	return &Scorer{stemming: stemming}
}

// RougeL scores prediction against target by longest common subsequence of
// their tokens. Either side tokenizing to nothing yields a zero Score.
func (s *Scorer) RougeL(target, prediction string) Score {
	return ScoreTokens(Tokenize(target, s.stemming), Tokenize(prediction, s.stemming))
}

// ScoreTokens computes ROUGE-L over already tokenized sequences.
func ScoreTokens(targetTokens, predictionTokens []string) Score {
	if len(targetTokens) == 0 || len(predictionTokens) == 0 {
		return Score{}
	}
	lcs := float64(LCSLength(targetTokens, predictionTokens))
	precision := lcs / float64(len(predictionTokens))
	recall := lcs / float64(len(targetTokens))
	return Score{
		Precision: precision,
		Recall:    recall,
		FMeasure:  fMeasure(precision, recall),
	}
}

func fMeasure(precision, recall float64) float64 {
	if precision+recall <= 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}

// LCSLength returns the length of the longest common subsequence of a and b
// using two rolling rows of the dynamic programming table.
func LCSLength(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		curr[0] = 0
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
