package main

import (
	"github.com/AyanDgr8/wa-api-back/controller"
	"github.com/AyanDgr8/wa-api-back/dao"
	"github.com/AyanDgr8/wa-api-back/metrics"
	"github.com/AyanDgr8/wa-api-back/reconcile"
	"github.com/AyanDgr8/wa-api-back/resolver"
	"github.com/AyanDgr8/wa-api-back/service"
	"github.com/AyanDgr8/wa-api-back/util"
	"github.com/AyanDgr8/wa-api-back/wa"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		zap.S().Info("No .env file loaded: ", err)
	}
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	//create db client
	dbClient, err := dao.GetClient(util.GetEnv("DB_PATH", "delivery.db"))
	if err != nil {
		zap.L().Fatal("Error opening db", zap.Error(err))
	}

	messageDao := dao.NewMessageDao(dbClient)
	timelineDao := dao.NewTimelineDao(dbClient)

	metrics.Init()

	//create reconciliation pipeline
	engine := reconcile.NewEngine(resolver.NewResolver(messageDao), messageDao, timelineDao)

	relay := wa.NewRelay(util.GetEnvAsInt("EVENT_BUFFER", 100))

	srv := service.NewService(
		relay,
		engine,
		messageDao,
		timelineDao,
		util.GetEnvAsInt("STATUS_STORE_DAYS", 7),
		util.GetEnv("WEB_HOOK", ""),
		util.GetEnv("RECIPIENT_MASK", `\+?\d{7,15}`),
	)

	//start event stream loops
	relay.Start()
	defer relay.Stop()

	//attach http handlers
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.BodyLimit("8K"))

	bindRoutes(e, srv, relay)

	//start http server
	zap.L().Fatal("Server stopped", zap.Error(e.Start(":"+util.GetEnv("HTTP_PORT", "8080"))))
}

func bindRoutes(e *echo.Echo, srv service.Service, relay wa.Relay) {

	e.POST("/instances/:instance/messages", controller.GetTrackMessageFunc(srv))

	e.POST("/instances/:instance/events/status", controller.GetStatusEventFunc(relay))

	e.POST("/instances/:instance/events/receipt", controller.GetReceiptEventFunc(relay))

	e.GET("/instances/:instance/messages/:externalId/report", controller.GetMessageReportFunc(srv))

	e.GET("/instances/:instance/recipients/report", controller.GetRecipientReportFunc(srv))

	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}
