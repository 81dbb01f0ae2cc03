package gemini

// questionSchema is the shape of a single question in the model's JSON
// response.
type questionSchema struct {
	Question string `json:"question"`
	AnswerA  string `json:"a"`
	AnswerB  string `json:"b"`
	AnswerC  string `json:"c"`
	AnswerD  string `json:"d"`
	Correct  string `json:"correct"`
}

// responseSchema is the top-level shape of the model's JSON response.
type responseSchema struct {
	Questions []questionSchema `json:"questions"`
}

// promptData carries the values substituted into the prompt template.
type promptData struct {
	Topic string
	Count int
}
