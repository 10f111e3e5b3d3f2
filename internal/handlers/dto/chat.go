package dto

type PostMessageRequest struct {
	TokenAddress string  `json:"tokenAddress" binding:"required"`
	Content      string  `json:"content" binding:"required,min=1,max=1000"`
	Type         string  `json:"type"`
	ReplyToID    *string `json:"replyToId"`
}

type EditMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=1000"`
}

type ModerateMessageRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}
