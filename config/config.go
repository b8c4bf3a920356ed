package config

import (
	"github.com/gotify/configor"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		Name       string `default:"AI Interview Backend" env:"APP_NAME"`
		ListenAddr string `default:"" env:"APP_HOST"`
		Port       int    `default:"8080"  env:"APP_PORT"`
		BodyLimit  int    `default:"26214400" env:"APP_BODY_LIMIT"` // 25MB, аудио приходит в base64
		LogLevel   string `default:"info" env:"APP_LOG_LEVEL"`
		// тела запроса и ответа в логе обрезаются до этой длины
		LogBodyLimit int `default:"2048" env:"APP_LOG_BODY_LIMIT"`
		// адрес для оповещений об ошибках 5xx, пустой - не отправлять
		ErrNotifyURL string `default:"" env:"APP_ERR_NOTIFY_URL"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"interview" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Auth struct {
		JWTSecret string `default:"" env:"JWT_SECRET"` // пустой секрет - токены не проверяются, user_id берется из запроса
	}
	AI struct {
		TextProvider string `default:"openai" env:"AI_TEXT_PROVIDER"` // openai | yandexgpt
		OpenAI       struct {
			APIKey          string `default:"" env:"OPENAI_API_KEY"`
			BaseURL         string `default:"https://api.openai.com/v1" env:"OPENAI_BASE_URL"`
			Model           string `default:"gpt-4o-mini" env:"OPENAI_MODEL"`
			TranscribeModel string `default:"gpt-4o-mini-transcribe" env:"OPENAI_TRANSCRIBE_MODEL"`
			TTSModel        string `default:"gpt-4o-mini-tts" env:"OPENAI_TTS_MODEL"`
			TTSVoice        string `default:"alloy" env:"OPENAI_TTS_VOICE"`
			TTSFormat       string `default:"mp3" env:"OPENAI_TTS_FORMAT"`
			TimeoutSec      int    `default:"120" env:"OPENAI_TIMEOUT_SEC"`
		}
		YandexGPT struct {
			IAMToken  string `default:"" env:"YANDEX_GPT_IAM_TOKEN"`
			CatalogID string `default:"" env:"YANDEX_GPT_CATALOG_ID"`
		}
		SpeechCacheTTLSec int `default:"21600" env:"AI_SPEECH_CACHE_TTL_SEC"`
	}
	Cache struct {
		QuestionTTLSec      int `default:"7200" env:"CACHE_QUESTION_TTL_SEC"`
		PurgeIntervalSec    int `default:"600" env:"CACHE_PURGE_INTERVAL_SEC"`
		SessionLockWaitMsec int `default:"3000" env:"SESSION_LOCK_WAIT_MSEC"`
	}
	S3 struct {
		Enabled         *bool  `default:"false" env:"S3_ENABLED"`
		Endpoint        string `default:"127.0.0.1:9000" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		BucketName      string `default:"interview-voice" env:"S3_BUCKET_NAME"`
	}
	Swagger struct {
		FilePath string `default:"./docs/swagger.json" env:"SWAGGER_FILE_PATH"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Debug(".env файл не найден, используются переменные окружения")
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
