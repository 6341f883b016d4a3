package requestresponse

// Envelope : общий конверт всех ответов API
type Envelope struct {
	Success bool        `json:"success" example:"true"`
	Code    string      `json:"code" example:"OK"`
	Message string      `json:"message" example:"ok"`
	Data    interface{} `json:"data"`
	TraceID string      `json:"trace_id" example:"0f8c2d1e-4b6a-4c1d-9a57-2f6e7b1c3d44"`
}

// ErrorResponse : конверт ошибки; data содержит сообщения по полям для VALIDATION_ERROR
type ErrorResponse struct {
	Success bool              `json:"success" example:"false"`
	Code    string            `json:"code" example:"UNAUTHORIZED"`
	Message string            `json:"message" example:"invalid credentials"`
	Data    map[string]string `json:"data,omitempty"`
	TraceID string            `json:"trace_id"`
}
