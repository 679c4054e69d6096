package models

// Notebook is a shareable note collection. Owner holds the subject id of the
// user who created it; public notebooks are readable by everyone.
type Notebook struct {
	ID      string `json:"id" dynamodbav:"id"`
	Name    string `json:"name" dynamodbav:"name"`
	Owner   string `json:"owner" dynamodbav:"owner"`
	Content string `json:"content" dynamodbav:"content"`
	Public  bool   `json:"public,omitempty" dynamodbav:"public"`
}
