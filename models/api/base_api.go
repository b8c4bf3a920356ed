package apimodels

type Response struct {
	Status  string      `json:"status"`            //результат обработки fail/success
	Message string      `json:"message,omitempty"` //сообщение ошибки
	Data    interface{} `json:"data,omitempty"`    //данные ответа
}

func NewError(message string) Response {
	return Response{
		Status:  "fail",
		Message: message,
	}
}

func NewResponse(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}

// AudioData синтезированная речь ассистента
type AudioData struct {
	AudioBase64 string `json:"assistant_audio_base64,omitempty"`       // аудио в base64
	ContentType string `json:"assistant_audio_content_type,omitempty"` // тип аудио, например audio/mp3
}
