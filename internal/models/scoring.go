package models

// ScoreFor computes the compliance-readiness score for a document with the
// given word count. The score saturates at 100 once a document reaches 500
// words.
func ScoreFor(words int) int {
	score := words * 100 / 500
	if score > 100 {
		return 100
	}
	return score
}

// StatusFor maps a compliance score to a document status label.
func StatusFor(score int) string {
	if score > 80 {
		return StatusAudited
	}
	return StatusDraft
}
