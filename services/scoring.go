package services

import "github.com/anjiri1684/learnsphere/models"

// Score compares answers to the questions' correct answers position by
// position. It returns the number of exact matches and the answers to store.
// A test without questions scores 0 and stores no answers. Answer lists of a
// different length are accepted: missing positions never match and extra
// answers are kept but ignored.
func Score(questions []models.Question, answers []string) (int, []string) {
	if len(questions) == 0 {
		return 0, []string{}
	}

	score := 0
	for i, q := range questions {
		if i < len(answers) && answers[i] == q.CorrectAnswer {
			score++
		}
	}

	if answers == nil {
		answers = []string{}
	}
	return score, answers
}
