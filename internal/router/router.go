package router

import (
	"time"

	"dragonya/internal/auth"
	"dragonya/internal/config"
	"dragonya/internal/handler"
	"dragonya/internal/infra"
	"dragonya/internal/middleware"
	"dragonya/internal/repository"
	"dragonya/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the infrastructure pieces built by the composition root.
type Deps struct {
	DB          *gorm.DB
	Redis       *redis.Client
	Imagenes    *infra.LocalStorage
	Notificador service.Notificador
	// SMTPBreaker is optional; when set /health reports its state.
	SMTPBreaker *infra.CircuitBreaker
}

// Repos are the stores behind the domain services.
type Repos struct {
	Administradores repository.AdministradorRepository
	Estudiantes     repository.EstudianteRepository
	Categorias      repository.CategoriaRepository
	Publicaciones   repository.PublicacionRepository
}

// Routes carries the handlers and per-route middleware mounted by Register.
type Routes struct {
	Administrador *handler.AdministradorHandler
	Estudiantes   *handler.EstudiantesHandler
	Categorias    *handler.CategoriasHandler
	Publicaciones *handler.PublicacionesHandler

	Autenticar  gin.HandlerFunc
	LimiteLogin gin.HandlerFunc
}

// NewRoutes builds services and handlers over repos.
// Dependency graph: Handler ← Service ← Repository
func NewRoutes(cfg *config.Config, repos Repos, notificador service.Notificador, imagenes service.ImageStore) Routes {
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	adminSvc := service.NewAdministradorService(repos.Administradores, hasher, issuer, auth.NuevoTokenUnico, notificador)
	estudianteSvc := service.NewEstudianteService(repos.Estudiantes, hasher, issuer, auth.NuevoTokenUnico, notificador)
	categoriaSvc := service.NewCategoriaService(repos.Categorias)
	publicacionSvc := service.NewPublicacionService(repos.Publicaciones, repos.Estudiantes, repos.Categorias, imagenes)

	return Routes{
		Administrador: handler.NewAdministradorHandler(adminSvc),
		Estudiantes:   handler.NewEstudiantesHandler(estudianteSvc),
		Categorias:    handler.NewCategoriasHandler(categoriaSvc),
		Publicaciones: handler.NewPublicacionesHandler(publicacionSvc, cfg.MaxUploadBytes()),
		Autenticar:    middleware.Authenticate(issuer, repos.Administradores, repos.Estudiantes),
		LimiteLogin:   middleware.LoginRateLimiter(),
	}
}

// Register mounts the account, category and listing routes on r.
func Register(r gin.IRouter, rt Routes) {
	adminH, estudiantesH := rt.Administrador, rt.Estudiantes
	categoriasH, publicacionesH := rt.Categorias, rt.Publicaciones

	r.POST("/administrador/login", rt.LimiteLogin, adminH.Login)
	r.POST("/administrador/recuperar-password", adminH.RecuperarPassword)
	r.GET("/administrador/comprobar-token/:token", adminH.ComprobarToken)
	r.POST("/administrador/nuevo-password/:token", adminH.NuevoPassword)

	r.POST("/login", rt.LimiteLogin, estudiantesH.Login)
	r.POST("/registro", estudiantesH.Registro)
	r.GET("/confirmar/:token", estudiantesH.ConfirmarEmail)
	r.POST("/recuperar-password", estudiantesH.RecuperarPassword)
	r.GET("/comprobar-token/:token", estudiantesH.ComprobarToken)
	r.POST("/nuevo-password/:token", estudiantesH.NuevoPassword)

	autenticado := r.Group("", rt.Autenticar)
	soloAdmin := middleware.RequireAdmin()
	{
		autenticado.GET("/administrador/perfil", soloAdmin, adminH.Perfil)
		autenticado.PATCH("/administrador/actualizar-password", soloAdmin, adminH.ActualizarPassword)
		autenticado.PATCH("/administrador/actualizar-datos", soloAdmin, adminH.ActualizarDatos)

		autenticado.GET("/perfil", estudiantesH.Perfil)
		autenticado.PATCH("/cambiar-password", estudiantesH.CambiarPassword)
		autenticado.PATCH("/actualizar-datos", estudiantesH.ActualizarDatos)

		estudiantes := autenticado.Group("/estudiantes", soloAdmin)
		{
			estudiantes.GET("", estudiantesH.Listar)
			estudiantes.GET("/:email", estudiantesH.BuscarPorEmail)
			estudiantes.PATCH("/:id", estudiantesH.CambiarEstado)
		}

		// Categorías: any authenticated caller reads, the service rejects non-admin creation
		autenticado.POST("/categoria", categoriasH.Crear)
		autenticado.GET("/categoria", categoriasH.Listar)
		autenticado.GET("/categoria/:nombre", categoriasH.ObtenerPorNombre)
		autenticado.PUT("/categoria/:id", soloAdmin, categoriasH.Actualizar)
		autenticado.PATCH("/categoria/:id", soloAdmin, categoriasH.CambiarEstado)

		autenticado.POST("/publicacion", publicacionesH.Crear)
		autenticado.GET("/publicacion", publicacionesH.Listar)
		autenticado.GET("/publicacion/:titulo", publicacionesH.ObtenerPorTitulo)
		autenticado.GET("/publicacion/detalle/:id", publicacionesH.ObtenerDetalle)
		autenticado.PUT("/publicacion/:id", publicacionesH.Actualizar)
		autenticado.PATCH("/publicacion/:id", publicacionesH.CambiarEstado)
		autenticado.PATCH("/publicacion/:id/vendida", publicacionesH.CambiarVendida)
		autenticado.DELETE("/publicacion/:id", publicacionesH.Eliminar)
		autenticado.GET("/publicacion-user", publicacionesH.ListarPorUsuario)
		autenticado.GET("/publicacion-user/:id", publicacionesH.ListarPorUsuario)
	}
}

// New wires all dependencies and returns a configured Gin engine.
func New(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	categoriaRepo := repository.NewCategoriaCache(repository.NewCategoriaRepository(deps.DB), deps.Redis)
	rutas := NewRoutes(cfg, Repos{
		Administradores: repository.NewAdministradorRepository(deps.DB),
		Estudiantes:     repository.NewEstudianteRepository(deps.DB),
		Categorias:      categoriaRepo,
		Publicaciones:   repository.NewPublicacionRepository(deps.DB),
	}, deps.Notificador, deps.Imagenes)

	// Ops
	r.GET("/", handler.Root)
	r.GET("/health", handler.Health(deps.DB, deps.Redis, deps.SMTPBreaker))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static(cfg.UploadBaseURL, deps.Imagenes.Dir())
	r.NoRoute(handler.NoRoute)

	Register(r, rutas)

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
