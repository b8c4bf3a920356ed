package initializers

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"interview-prep-backend/config"
	"interview-prep-backend/fiberlog"
	aihandler "interview-prep-backend/lib/ai"
	collectorhandler "interview-prep-backend/lib/collector"
	xlsexport "interview-prep-backend/lib/export/xls"
	interviewhandler "interview-prep-backend/lib/interview"
	questioncache "interview-prep-backend/lib/question-cache"
	purgeworker "interview-prep-backend/lib/question-cache/purge-worker"
	transcripthandler "interview-prep-backend/lib/transcript"
	"interview-prep-backend/lib/utils/metrics"
	"interview-prep-backend/lib/voice"
	voicehub "interview-prep-backend/lib/voice/hub"
)

var LoggerConfig *fiberlog.Config

// порядок важен: обработчики берут зависимости из Instance уже созданных
func InitAllServices(ctx context.Context) {
	config.InitConfig()
	LoggerConfig = InitLogger()
	InitDBConnection()
	metrics.InitMetrics()
	InitS3(ctx)
	xlsexport.NewHandler()
	aihandler.NewHandler()
	transcripthandler.NewHandler()

	cache := questioncache.New(questioncache.WithTTL(time.Duration(config.Conf.Cache.QuestionTTLSec) * time.Second))
	interviewhandler.NewHandler(cache)
	collectorhandler.NewHandler()

	voicehub.Init()
	voice.NewHandler()

	initWorkers(ctx, cache)
	log.WithField("app", config.Conf.App.Name).Info("Сервисы инициализированы")
}

func initWorkers(ctx context.Context, cache *questioncache.Cache) {
	// Задача очистки просроченных списков вопросов
	purgeworker.StartWorker(ctx, cache, time.Duration(config.Conf.Cache.PurgeIntervalSec)*time.Second)
}
