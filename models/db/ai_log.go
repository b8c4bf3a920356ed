package dbmodels

type AiLog struct {
	BaseModel
	SysPromt    string       `comment:"System промт"`
	UserPromt   string       `comment:"User промт"`
	Answer      string       `comment:"Ответ ИИ"`
	SessionID   string       `gorm:"type:varchar(36);index" comment:"Идентификатор сессии"`
	ReqestType  AiReqestType `gorm:"type:varchar(255)" comment:"Тип запроса к ИИ"`
	AiName      AiName       `gorm:"type:varchar(255)" comment:"Название ИИ"`
	DurationSec float64      `comment:"Длительность запроса"`
	Error       string       `comment:"Ошибка запроса"`
}

type AiName string

const (
	AiOpenAIType AiName = "openai"
	AiYaGptType  AiName = "yandexgpt"
)

type AiReqestType string

const (
	AiGenerateQuestionsType AiReqestType = "GenerateQuestions"
	AiCollectorReplyType    AiReqestType = "CollectorReply"
	AiInterviewReplyType    AiReqestType = "InterviewReply"
)
