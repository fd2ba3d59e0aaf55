package dto

// FrequentQuestionItemDTO is one row of the weekly frequent-question batch.
type FrequentQuestionItemDTO struct {
	QuestionID uint    `json:"question_id" binding:"required"`
	FinalScore float64 `json:"final_score" binding:"min=0,max=1"`
	ExamType   string  `json:"exam_type" binding:"required"`
}

// FrequentQuestionBatchDTO is the request body of POST /frequent-questions.
type FrequentQuestionBatchDTO struct {
	Questions []FrequentQuestionItemDTO `json:"questions" binding:"required,dive"`
}

// FrequentQuestionBatchResultDTO reports how many rows were actually written;
// unknown question ids are skipped, not counted.
type FrequentQuestionBatchResultDTO struct {
	UpdatedCount int    `json:"updated_count"`
	Message      string `json:"message"`
}
