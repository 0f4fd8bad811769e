package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/portal-eventos/portal-api/config"
	"github.com/portal-eventos/portal-api/database"
	"github.com/portal-eventos/portal-api/handlers"
	comentario_handlers "github.com/portal-eventos/portal-api/handlers/comentario"
	evento_handlers "github.com/portal-eventos/portal-api/handlers/evento"
	materia_handlers "github.com/portal-eventos/portal-api/handlers/materia"
	professor_handlers "github.com/portal-eventos/portal-api/handlers/professor"
	projeto_handlers "github.com/portal-eventos/portal-api/handlers/projeto"
	usuario_handlers "github.com/portal-eventos/portal-api/handlers/usuario"
	"github.com/portal-eventos/portal-api/services"
	"github.com/portal-eventos/portal-api/utils"
	"github.com/portal-eventos/portal-api/utils/auth"
	"github.com/portal-eventos/portal-api/utils/cache"
	"github.com/portal-eventos/portal-api/utils/middleware"
)

// SetupRoutes attaches the middleware chain and every /api route. redisCache may be
// nil, which disables login brute force protection.
func SetupRoutes(app *fiber.App, store database.Storage, env *config.EnvironmentVariable, redisCache *cache.RedisCache) error {
	hasher, err := auth.NewPasswordHasher(env.PASSWORD_MODE)
	if err != nil {
		return err
	}

	// Initialize brute force protection
	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	} else {
		utils.Default().Warn("Redis not configured, login brute force protection is disabled")
	}

	accountService := services.NewAccountService(store.Users(), hasher)

	userHandler := usuario_handlers.NewUserHandler(store.Users(), accountService, bruteForceProtection)
	eventHandler := evento_handlers.NewEventHandler(store.Events())
	commentHandler := comentario_handlers.NewCommentHandler(store.Comments(), store.Users())
	professorHandler := professor_handlers.NewProfessorHandler(store.Professors(), accountService)
	researchHandler := projeto_handlers.NewResearchProjectHandler(store.ResearchProjects(), store.Professors(), store.Subjects())
	extensionHandler := projeto_handlers.NewExtensionProjectHandler(store.ExtensionProjects(), store.Professors(), store.Subjects())
	subjectHandler := materia_handlers.NewSubjectHandler(store.Subjects())

	// Apply security middleware
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    env.ALLOWED_ORIGINS,
		RateLimitRequests: env.RATE_LIMIT_REQUESTS,
		RateLimitWindow:   time.Minute,
		AccessLog:         env.GO_ENV != "test",
	})

	api := app.Group("/api")

	api.Get("/health", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))
	api.Get("/ping", handlers.Ping(env.PING_MESSAGE))
	api.Get("/demo", handlers.HandleDemo)

	// Login with brute force protection
	api.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), userHandler.Login)

	usuarios := api.Group("/usuarios")
	usuarios.Get("/", userHandler.ListUsers)
	usuarios.Post("/", userHandler.CreateUser)
	usuarios.Put("/:id", userHandler.UpdateUser)
	usuarios.Delete("/:id", userHandler.DeleteUser)

	eventos := api.Group("/eventos")
	eventos.Get("/", eventHandler.ListEvents)
	eventos.Post("/", eventHandler.CreateEvent)
	eventos.Get("/:id", eventHandler.GetEvent)
	eventos.Put("/:id", eventHandler.UpdateEvent)
	eventos.Delete("/:id", eventHandler.DeleteEvent)

	// Comments (nested under events)
	comentarios := eventos.Group("/:eventoId/comentarios")
	comentarios.Get("/", commentHandler.ListComments)
	comentarios.Post("/", commentHandler.CreateComment)
	comentarios.Put("/:comentarioId", commentHandler.UpdateComment)
	comentarios.Delete("/:comentarioId", commentHandler.DeleteComment)

	professores := api.Group("/professores")
	professores.Get("/", professorHandler.ListProfessors)
	professores.Post("/", professorHandler.CreateProfessor)
	professores.Get("/:id", professorHandler.GetProfessor)
	professores.Put("/:id", professorHandler.UpdateProfessor)
	professores.Delete("/:id", professorHandler.DeleteProfessor)

	pesquisa := api.Group("/projetos-pesquisa")
	pesquisa.Get("/", researchHandler.ListProjects)
	pesquisa.Post("/", researchHandler.CreateProject)
	pesquisa.Get("/:id", researchHandler.GetProject)
	pesquisa.Put("/:id", researchHandler.UpdateProject)
	pesquisa.Delete("/:id", researchHandler.DeleteProject)

	extensao := api.Group("/projetos-extensao")
	extensao.Get("/", extensionHandler.ListProjects)
	extensao.Post("/", extensionHandler.CreateProject)
	extensao.Get("/:id", extensionHandler.GetProject)
	extensao.Put("/:id", extensionHandler.UpdateProject)
	extensao.Delete("/:id", extensionHandler.DeleteProject)

	materias := api.Group("/materias")
	materias.Get("/", subjectHandler.ListSubjects)
	materias.Post("/", subjectHandler.CreateSubject)
	materias.Get("/:id", subjectHandler.GetSubject)
	materias.Put("/:id", subjectHandler.UpdateSubject)
	materias.Delete("/:id", subjectHandler.DeleteSubject)

	return nil
}
