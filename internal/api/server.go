package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rapirent/smart-campus/docs"
	v1 "github.com/rapirent/smart-campus/internal/api/handler/v1"
	"github.com/rapirent/smart-campus/internal/api/middleware"
	"github.com/rapirent/smart-campus/internal/config"
	"github.com/rapirent/smart-campus/internal/mail"
	"github.com/rapirent/smart-campus/internal/pkg/acctoken"
	"github.com/rapirent/smart-campus/internal/repository"
	"github.com/rapirent/smart-campus/internal/repository/dao"
	"github.com/rapirent/smart-campus/internal/service"
	"github.com/rapirent/smart-campus/internal/storage"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) (*Server, error) {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	store, err := storage.NewImageStore(conf.Uploads.Dir, conf.Uploads.BaseURL)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	groupRepo := repository.NewGroupRepository(dao.NewRoleDAO(db), dao.NewGroupDAO(db))
	stationRepo := repository.NewStationRepository(dao.NewStationDAO(db), dao.NewCategoryDAO(db))
	beaconRepo := repository.NewBeaconRepository(dao.NewBeaconDAO(db))
	rewardRepo := repository.NewRewardRepository(dao.NewRewardDAO(db))
	questionRepo := repository.NewQuestionRepository(dao.NewQuestionDAO(db))
	travelPlanRepo := repository.NewTravelPlanRepository(dao.NewTravelPlanDAO(db))

	var mailer service.Mailer = mail.NopMailer{}
	if conf.SMTP.Enabled {
		mailer = mail.NewSMTPMailer(conf.SMTP)
	} else {
		zap.L().Info("SMTP disabled, account mails are logged only")
	}

	tokens := acctoken.NewGenerator([]byte(conf.API.SecretKey))

	authSvc := service.NewAuthService(userRepo, groupRepo, tokens, mailer, conf.API.BaseURL)
	userSvc := service.NewUserService(userRepo, rewardRepo, stationRepo)
	stationSvc := service.NewStationService(stationRepo, store, conf.Uploads.MaxImagesPerStation)
	beaconSvc := service.NewBeaconService(beaconRepo, stationRepo, userRepo)
	rewardSvc := service.NewRewardService(rewardRepo, store)
	questionSvc := service.NewQuestionService(questionRepo, userRepo)
	travelPlanSvc := service.NewTravelPlanService(travelPlanRepo, store)
	managerSvc := service.NewManagerService(userRepo, groupRepo)

	authHandler := v1.NewAuthHandler(conf.API, authSvc, userSvc)
	appHandler := v1.NewAppHandler(stationSvc, rewardSvc, travelPlanSvc, beaconSvc, questionSvc, userSvc)
	stationHandler := v1.NewStationHandler(stationSvc)
	beaconHandler := v1.NewBeaconHandler(beaconSvc)
	rewardHandler := v1.NewRewardHandler(rewardSvc)
	travelPlanHandler := v1.NewTravelPlanHandler(travelPlanSvc)
	questionHandler := v1.NewQuestionHandler(questionSvc)
	managerHandler := v1.NewManagerHandler(managerSvc)

	s.MountHandlers(
		userSvc,
		authHandler,
		appHandler,
		stationHandler,
		beaconHandler,
		rewardHandler,
		travelPlanHandler,
		questionHandler,
		managerHandler,
	)

	return s, nil
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	userSvc middleware.UserLoader,
	authHandler *v1.AuthHandler,
	appHandler *v1.AppHandler,
	stationHandler *v1.StationHandler,
	beaconHandler *v1.BeaconHandler,
	rewardHandler *v1.RewardHandler,
	travelPlanHandler *v1.TravelPlanHandler,
	questionHandler *v1.QuestionHandler,
	managerHandler *v1.ManagerHandler,
) {
	const basePath = "/api/v1"

	verifyJWT := middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT()

	open := s.Router.Group(basePath)
	{
		open.POST("/signup", authHandler.HandleSignup)
		open.GET("/activate/:userID/:token", authHandler.HandleActivate)
		open.POST("/resend_activation", authHandler.HandleResendActivation)
		open.POST("/login", authHandler.HandleLogin)
		open.POST("/reset_password", authHandler.HandleResetPassword)
		open.POST("/reset_password/confirm", authHandler.HandleConfirmResetPassword)

		open.GET("/get_all_stations", appHandler.HandleGetAllStations)
		open.GET("/get_all_rewards", appHandler.HandleGetAllRewards)
		open.GET("/get_all_travel_plans", appHandler.HandleGetAllTravelPlans)
	}

	app := s.Router.Group(basePath, verifyJWT)
	{
		app.POST("/logout", authHandler.HandleLogout)
		app.POST("/get_linked_stations", appHandler.HandleGetLinkedStations)
		app.GET("/get_unanswered_question", appHandler.HandleGetUnansweredQuestion)
		app.POST("/add_answered_question", appHandler.HandleAddAnsweredQuestion)
		app.POST("/update_user_coins", appHandler.HandleUpdateUserCoins)
		app.POST("/update_user_experience_point", appHandler.HandleUpdateUserExperiencePoint)
		app.POST("/add_user_reward", appHandler.HandleAddUserReward)
		app.POST("/add_user_favorite_stations", appHandler.HandleAddUserFavoriteStation)
		app.POST("/remove_user_favorite_stations", appHandler.HandleRemoveUserFavoriteStation)
	}

	admin := s.Router.Group(basePath+"/admin", verifyJWT, middleware.RequireConsoleAccess(userSvc))
	{
		admin.GET("/stations", stationHandler.HandleListStations)
		admin.POST("/stations", stationHandler.HandleCreateStation)
		admin.GET("/stations/:stationID", stationHandler.HandleGetStation)
		admin.PUT("/stations/:stationID", stationHandler.HandleUpdateStation)
		admin.DELETE("/stations/:stationID", stationHandler.HandleDeleteStation)
		admin.POST("/stations/images/:imageID/primary", stationHandler.HandleSetPrimaryImage)
		admin.DELETE("/stations/images/:imageID", stationHandler.HandleDeleteImage)
		admin.GET("/categories", stationHandler.HandleListCategories)
		admin.POST("/categories", stationHandler.HandleCreateCategory)

		admin.GET("/beacons", beaconHandler.HandleListBeacons)
		admin.POST("/beacons", beaconHandler.HandleCreateBeacon)
		admin.GET("/beacons/:beaconID", beaconHandler.HandleGetBeacon)
		admin.PUT("/beacons/:beaconID", beaconHandler.HandleUpdateBeacon)
		admin.DELETE("/beacons/:beaconID", beaconHandler.HandleDeleteBeacon)

		admin.GET("/rewards", rewardHandler.HandleListRewards)
		admin.POST("/rewards", rewardHandler.HandleCreateReward)
		admin.GET("/rewards/:rewardID", rewardHandler.HandleGetReward)
		admin.PUT("/rewards/:rewardID", rewardHandler.HandleUpdateReward)
		admin.DELETE("/rewards/:rewardID", rewardHandler.HandleDeleteReward)

		admin.GET("/travel_plans", travelPlanHandler.HandleListTravelPlans)
		admin.POST("/travel_plans", travelPlanHandler.HandleCreateTravelPlan)
		admin.GET("/travel_plans/:planID", travelPlanHandler.HandleGetTravelPlan)
		admin.PUT("/travel_plans/:planID", travelPlanHandler.HandleUpdateTravelPlan)
		admin.DELETE("/travel_plans/:planID", travelPlanHandler.HandleDeleteTravelPlan)

		admin.GET("/questions", questionHandler.HandleListQuestions)
		admin.POST("/questions", questionHandler.HandleCreateQuestion)
		admin.GET("/questions/:questionID", questionHandler.HandleGetQuestion)
		admin.PUT("/questions/:questionID", questionHandler.HandleUpdateQuestion)
		admin.DELETE("/questions/:questionID", questionHandler.HandleDeleteQuestion)

		admin.GET("/managers", managerHandler.HandleListManagers)
		admin.POST("/managers", managerHandler.HandleCreateManager)
		admin.GET("/managers/:managerID", managerHandler.HandleGetManager)
		admin.PUT("/managers/:managerID", managerHandler.HandleUpdateManager)
		admin.DELETE("/managers/:managerID", managerHandler.HandleDeleteManager)
		admin.GET("/roles", managerHandler.HandleListRoles)

		admin.GET("/groups", managerHandler.HandleListGroups)
		admin.POST("/groups", managerHandler.HandleCreateGroup)
		admin.DELETE("/groups/:groupID", managerHandler.HandleDeleteGroup)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
	s.Router.Static("/uploads", s.Config.Uploads.Dir)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Smart Campus API"
	docs.SwaggerInfo.Description = "Campus guide backend with an admin console API."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
