package dbmodels

type AiLog struct {
	BaseModel
	CandidateID string       `gorm:"type:varchar(64);index" comment:"Идентификатор кандидата"`
	SysPromt    string       `comment:"System промт"`
	UserPromt   string       `comment:"User промт"`
	Answer      string       `comment:"Ответ ИИ"`
	ReqestType  AiReqestType `gorm:"type:varchar(255)" comment:"Тип запроса к ИИ"`
	AiName      AiName       `gorm:"type:varchar(255)" comment:"Название ИИ"`
}

type AiName string

const (
	AiYaGptType  AiName = "yandexgpt"
	AiOpenAIType AiName = "openai"
)

type AiReqestType string

const (
	AiGenerateQuestionsType AiReqestType = "GenerateQuestions"
	AiEvaluateResponseType  AiReqestType = "EvaluateResponse"
	AiValidateScoresType    AiReqestType = "ValidateScores"
)
