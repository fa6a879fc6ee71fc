package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"leadgen-api/internal/auth"
	"leadgen-api/internal/metrics"
	"leadgen-api/internal/service"
)

// Deps collects what the HTTP layer needs from the rest of the application.
type Deps struct {
	Users       service.UserService
	Leads       service.LeadService
	Contacts    service.ContactService
	Templates   service.TemplateService
	Research    service.ResearchService
	Resolver    *auth.Resolver
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	Logger      logrus.FieldLogger
	CORSOrigins []string
	// SSLRedirect makes the security middleware redirect plain HTTP requests.
	SSLRedirect bool
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users       service.UserService
	leads       service.LeadService
	contacts    service.ContactService
	templates   service.TemplateService
	research    service.ResearchService
	resolver    *auth.Resolver
	metrics     *metrics.Metrics
	gatherer    prometheus.Gatherer
	log         logrus.FieldLogger
	origins     []string
	sslRedirect bool
}

func NewHandler(deps Deps) *Handler {
	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	registerValidators()
	return &Handler{
		users:       deps.Users,
		leads:       deps.Leads,
		contacts:    deps.Contacts,
		templates:   deps.Templates,
		research:    deps.Research,
		resolver:    deps.Resolver,
		metrics:     deps.Metrics,
		gatherer:    deps.Gatherer,
		log:         log.WithField("component", "http"),
		origins:     deps.CORSOrigins,
		sslRedirect: deps.SSLRedirect,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.observe(), securityHeaders(h.sslRedirect), corsMiddleware(h.origins))

	if h.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	{
		api.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "Lead Generation API", "status": "healthy"})
		})
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().UTC().Format(time.RFC3339)})
		})

		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)
	}

	authed := api.Group("")
	authed.Use(h.authenticate())
	{
		authed.GET("/auth/me", h.me)

		authed.POST("/leads", h.createLead)
		authed.GET("/leads", h.listLeads)
		authed.GET("/leads/stats/summary", h.leadStats)
		authed.POST("/leads/seed", h.seedLeads)
		authed.GET("/leads/:id", h.getLead)
		authed.PUT("/leads/:id", h.updateLead)
		authed.DELETE("/leads/:id", h.deleteLead)

		authed.POST("/contacts", h.createContact)
		authed.GET("/contacts", h.listContacts)
		authed.GET("/contacts/:id", h.getContact)
		authed.PUT("/contacts/:id", h.updateContact)
		authed.DELETE("/contacts/:id", h.deleteContact)

		authed.POST("/templates", h.createTemplate)
		authed.GET("/templates", h.listTemplates)
		authed.GET("/templates/:id", h.getTemplate)
		authed.PUT("/templates/:id", h.updateTemplate)
		authed.DELETE("/templates/:id", h.deleteTemplate)

		authed.POST("/ai/research", h.researchCompany)
		authed.POST("/ai/discover-contacts", h.discoverContacts)
		authed.POST("/ai/generate-email", h.generateEmail)
		authed.GET("/ai/archive", h.listArchive)
		authed.DELETE("/ai/archive", h.purgeArchive)
	}
}
