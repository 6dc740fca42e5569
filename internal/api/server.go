package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"papertrade/docs"
	v1 "papertrade/internal/api/handler/v1"
	"papertrade/internal/api/middleware"
	"papertrade/internal/config"
	"papertrade/internal/events"
	"papertrade/internal/events/kafka"
	"papertrade/internal/oracle"
	"papertrade/internal/repository"
	"papertrade/internal/repository/dao"
	"papertrade/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	accountHandler := s.initAccountHandler(db)
	tradeHandler := s.initTradeHandler(db)
	s.MountHandlers(authHandler, accountHandler, tradeHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	accountDAO := dao.NewAccountDAO(db)
	repo := repository.NewAccountRepository(accountDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initAccountHandler(db *gorm.DB) *v1.AccountHandler {
	accountDAO := dao.NewAccountDAO(db)
	repo := repository.NewAccountRepository(accountDAO)
	svc := service.NewAccountService(repo)
	handler := v1.NewAccountHandler(svc)

	return handler
}

func (s *Server) initTradeHandler(db *gorm.DB) *v1.TradeHandler {
	ledgerRepo := repository.NewLedgerRepository(dao.NewLedgerDAO(db))
	accountRepo := repository.NewAccountRepository(dao.NewAccountDAO(db))
	oracleClient := oracle.NewClient(s.Config.Oracle)

	var publisher events.Publisher = events.NoopPublisher{}
	if len(s.Config.Kafka.Brokers) > 0 {
		publisher = kafka.NewPublisher(s.Config.Kafka.Brokers, s.Config.Kafka.Topic)
	}

	svc := service.NewTradeService(ledgerRepo, accountRepo, oracleClient, publisher)
	handler := v1.NewTradeHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, accountHandler *v1.AccountHandler, tradeHandler *v1.TradeHandler) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	trades := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		trades.GET("/accounts/me", accountHandler.HandleGetMe)
		trades.GET("/quotes/:symbol", tradeHandler.HandleGetQuote)
		trades.POST("/trades/buy", tradeHandler.HandleBuy)
		trades.POST("/trades/sell", tradeHandler.HandleSell)
		trades.GET("/portfolio", tradeHandler.HandleGetPortfolio)
		trades.GET("/transactions", tradeHandler.HandleGetTransactions)
		trades.GET("/ledger/audit", tradeHandler.HandleAuditLedger)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "papertrade API"
	docs.SwaggerInfo.Description = "A paper-money stock-trading API."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
