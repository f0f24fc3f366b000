package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"placementhub/internal/cache"
	"placementhub/internal/config"
	"placementhub/internal/middleware"
	"placementhub/internal/repository"
	"placementhub/internal/service"
	"placementhub/internal/storage"
)

type HandlerSet struct {
	log  zerolog.Logger
	cfg  *config.AppConfig
	db   *pgxpool.Pool
	rdb  *redis.Client
	stor *storage.ObjectStore

	branches    *repository.BranchRepository
	subjects    *repository.SubjectRepository
	profiles    *service.ProfileService
	leaderboard *service.LeaderboardService
	posts       *service.PostService
	companies   *service.CompanyService
	experiences *service.ExperienceService
	votes       *service.VoteService
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, rdb *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	postRepo := repository.NewPostRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	experienceRepo := repository.NewExperienceRepository(db)
	lbCache := cache.NewLeaderboard(rdb, 0)

	return HandlerSet{
		log:         log,
		cfg:         cfg,
		db:          db,
		rdb:         rdb,
		stor:        store,
		branches:    branchRepo,
		subjects:    subjectRepo,
		profiles:    service.NewProfileService(userRepo, log),
		leaderboard: service.NewLeaderboardService(userRepo, lbCache, log),
		posts:       service.NewPostService(postRepo, userRepo, lbCache, log),
		companies:   service.NewCompanyService(companyRepo, store, log),
		experiences: service.NewExperienceService(experienceRepo, userRepo, lbCache, log),
		votes:       service.NewVoteService(db, postRepo, experienceRepo, userRepo, lbCache, log),
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/health", h.Health)

	router.Use(middleware.Authenticate(h.cfg, h.profiles))

	router.GET("/branches/", h.ListBranches)

	users := router.Group("/users")
	users.POST("/", middleware.RequireAuth(), h.CreateProfile)
	users.GET("/me/", middleware.RequireAuth(), h.CurrentProfile)
	users.GET("/leaderboard/", h.Leaderboard)
	users.GET("/:uid/", h.GetProfile)
	users.PATCH("/:uid/", middleware.RequireAuth(), h.UpdateProfile)

	subjects := router.Group("/subjects")
	subjects.GET("/", h.ListSubjects)
	subjects.POST("/", middleware.RequireAuth(), h.CreateSubject)
	subjects.GET("/:id/", h.GetSubject)
	subjects.GET("/:id/posts/", h.ListSubjectPosts)

	posts := router.Group("/posts")
	posts.GET("/", h.ListPosts)
	posts.POST("/", middleware.RequireAuth(), h.CreatePost)
	posts.GET("/:id/", h.GetPost)
	posts.PATCH("/:id/", middleware.RequireAuth(), h.UpdatePost)
	posts.DELETE("/:id/", middleware.RequireAuth(), h.DeletePost)
	posts.POST("/:id/vote/", middleware.RequireAuth(), h.VotePost)

	companies := router.Group("/companies")
	companies.GET("/", h.ListCompanies)
	companies.POST("/", middleware.RequireAdmin(h.cfg.Auth.AdminEmails), h.CreateCompany)
	companies.GET("/:id/", h.GetCompany)
	companies.GET("/:id/experiences/", h.ListCompanyExperiences)
	companies.POST("/:id/logo/", middleware.RequireAdmin(h.cfg.Auth.AdminEmails), h.UploadCompanyLogo)

	experiences := router.Group("/experiences")
	experiences.GET("/", h.ListExperiences)
	experiences.POST("/", middleware.RequireAuth(), h.CreateExperience)
	experiences.GET("/:id/", h.GetExperience)
	experiences.PATCH("/:id/", middleware.RequireAuth(), h.UpdateExperience)
	experiences.DELETE("/:id/", middleware.RequireAuth(), h.DeleteExperience)
	experiences.POST("/:id/vote/", middleware.RequireAuth(), h.VoteExperience)
}
