package models

// CandidateInfo накопленное состояние кандидата по всем этапам интервью.
// Этот же формат сохраняется в постоянное хранилище.
type CandidateInfo struct {
	CandidateID       string   `json:"candidate_id"`
	FirstName         string   `json:"first_name"`
	SecondName        string   `json:"second_name"`
	JobTitle          string   `json:"job_title"`
	Questions         []string `json:"questions"`
	CandidateResponse string   `json:"candidate_response"`
	Scores            []int    `json:"scores"`
	ResponseComments  []string `json:"response_comments"`
	Feedback          string   `json:"feedback"`
}

type ScoreAndComment struct {
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

type ValidationResult struct {
	Scores   []ScoreAndComment `json:"scores"`
	Feedback string            `json:"feedback"`
}

type GeneratedQuestions struct {
	CandidateID string
	Questions   []string
}

// SessionLog краткая запись о завершенной сессии, сохраняется в бакет логов
type SessionLog struct {
	CandidateID string  `json:"candidate_id"`
	JobTitle    string  `json:"job_title"`
	Timestamp   float64 `json:"timestamp"`
	URL         string  `json:"url"`
}

// SplitScores раскладывает пары оценка/комментарий на два параллельных списка
func SplitScores(list []ScoreAndComment) (scores []int, comments []string) {
	scores = make([]int, 0, len(list))
	comments = make([]string, 0, len(list))
	for _, item := range list {
		scores = append(scores, item.Score)
		comments = append(comments, item.Comment)
	}
	return scores, comments
}
