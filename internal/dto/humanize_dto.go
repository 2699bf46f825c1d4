package dto

type HumanizeRequest struct {
	Text  string `json:"text"`
	Level string `json:"level" validate:"omitempty,oneof=lite pro ultra"`
	Style string `json:"style"`
	Model string `json:"model"`
}

type HumanizeResponse struct {
	HumanizedText string   `json:"humanizedText"`
	HumanScore    int      `json:"humanScore"`
	Improvements  []string `json:"improvements"`
	WordsUsed     int      `json:"wordsUsed"`
	Model         string   `json:"model"`
}
