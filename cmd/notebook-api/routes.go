package main

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/notebook-api/internal/handler"
	"github.com/noah-isme/notebook-api/internal/middleware"
	"github.com/noah-isme/notebook-api/internal/models"
	"github.com/noah-isme/notebook-api/internal/repository"
	"github.com/noah-isme/notebook-api/internal/service"
	"github.com/noah-isme/notebook-api/pkg/config"
)

type dependencies struct {
	auth          *handler.AuthHandler
	grades        *handler.GradeHandler
	studentGrades *handler.StudentGradesHandler
	dashboard     *handler.DashboardHandler
	exports       *handler.ExportHandler
	authService   *service.AuthService
}

func buildDependencies(cfg *config.Config, db *sqlx.DB, cacheSvc *service.CacheService, logr *zap.Logger) dependencies {
	validate := validator.New()

	gradeRepo := repository.NewGradeRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	userRepo := repository.NewUserRepository(db)

	catalog := service.NewGradeTypeCatalog()

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "notebook-api",
		Audience:           []string{"notebook"},
	})

	gradeSvc := service.NewGradeService(gradeRepo, courseRepo, studentRepo, catalog, validate, logr)
	querySvc := service.NewGradeQueryService(gradeRepo, studentRepo, courseRepo, logr)
	overviewSvc := service.NewStudentGradesService(querySvc, gradeRepo, studentRepo, courseRepo, logr)
	homeSvc := service.NewStudentHomeService(service.StudentHomeServiceParams{
		Students:    studentRepo,
		Courses:     courseRepo,
		Grades:      gradeRepo,
		Assignments: assignmentRepo,
		Cache:       cacheSvc,
		Logger:      logr,
		Config:      service.StudentHomeConfig{CacheTTL: cfg.Dashboard.CacheTTL},
	})
	exportSvc := service.NewExportService(courseRepo, gradeRepo, nil, nil, logr)

	return dependencies{
		auth:          handler.NewAuthHandler(authSvc),
		grades:        handler.NewGradeHandler(gradeSvc, catalog),
		studentGrades: handler.NewStudentGradesHandler(overviewSvc),
		dashboard:     handler.NewDashboardHandler(homeSvc),
		exports:       handler.NewExportHandler(exportSvc),
		authService:   authSvc,
	}
}

func registerRoutes(r *gin.Engine, cfg *config.Config, deps dependencies) {
	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", deps.auth.Login)
		auth.POST("/refresh", deps.auth.Refresh)

		protected := auth.Group("")
		protected.Use(middleware.JWT(deps.authService))
		protected.POST("/logout", deps.auth.Logout)
		protected.PUT("/password", deps.auth.ChangePassword)
		protected.GET("/me", deps.auth.Me)
	}

	secured := api.Group("")
	secured.Use(middleware.JWT(deps.authService))

	secured.GET("/grade-types", deps.grades.GradeTypes)

	grades := secured.Group("/grades")
	grades.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher))
	{
		grades.POST("/batch", deps.grades.SaveBatch)
		grades.DELETE("/:id", deps.grades.Delete)
		grades.PATCH("/:id/feedback", deps.grades.UpdateFeedback)
	}

	students := secured.Group("/students")
	{
		students.GET("/:id/grades", middleware.RBAC("ADMIN", "TEACHER", "SELF"), deps.studentGrades.Overview)
		if cfg.Dashboard.Enabled {
			students.GET("/:id/home", middleware.RBAC("ADMIN", "TEACHER", "SELF"), deps.dashboard.StudentHome)
		}
	}

	if cfg.Exports.Enabled {
		exports := secured.Group("/exports")
		exports.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher))
		exports.POST("/grade-sheet", deps.exports.GradeSheet)
	}
}
