package dto

type DetectRequest struct {
	Text string `json:"text"`
}
