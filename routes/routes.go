package routes

import (
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-ionicdose/controllers"
	"go-ionicdose/dilution"
	"go-ionicdose/middleware"
	"go-ionicdose/models"
)

// Deps 路由依赖
type Deps struct {
	DB        *sql.DB // 为空时不注册账号和记录相关路由
	Calc      *dilution.Calculator
	Logger    *zap.Logger
	JWTSecret string
	TokenTTL  time.Duration
}

// SetupRouter 配置所有路由
func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(d.Logger), gin.Recovery())

	dosageController := controllers.NewDosageController(d.Calc)

	// 公共路由
	public := r.Group("/")
	{
		public.GET("/dosage/profiles", dosageController.GetProfiles)
		public.GET("/dosage/calculate", dosageController.CalculateQuery)
		public.POST("/dosage/calculate", dosageController.Calculate)
		public.GET("/dosage/reference", dosageController.GetReferenceTable)
	}

	if d.DB == nil {
		return r
	}

	authController := controllers.NewAuthController(d.DB, d.JWTSecret, d.TokenTTL, d.Logger)
	recordController := controllers.NewRecordController(d.DB, d.Calc, d.Logger)

	{
		// 用户认证相关路由
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
		public.GET("/dosage/share/:code", recordController.GetSharedRecord)
	}

	// 需要认证的路由
	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(d.JWTSecret))
	{
		protected.POST("/dosage/records/save", recordController.SaveDoseRecord)
		protected.GET("/dosage/records", recordController.GetDoseRecords)
		protected.GET("/dosage/record", recordController.GetDoseRecord)
	}

	// 管理员路由
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/dosage/records", recordController.GetAllDoseRecords)
	}

	return r
}
