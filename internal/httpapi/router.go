package httpapi

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"go-linkedin-scraper/internal/metrics"
)

type RouterOptions struct {
	// Gatherer backs GET /metrics; nil disables the route.
	Gatherer prometheus.Gatherer
	// Limiter throttles scrape requests; nil disables throttling.
	Limiter *rate.Limiter
}

// NewRouter mounts the scrape endpoint on both / and /scrape. Any method
// other than POST on those paths gets 405.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger(), gin.CustomRecovery(recovered))

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed, use POST"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	scrape := []gin.HandlerFunc{RateLimit(opts.Limiter), h.Scrape}
	r.POST("/", scrape...)
	r.POST("/scrape", scrape...)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(opts.Gatherer)))
	}
	return r
}

// NewLimiter returns nil when perSecond is zero.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// RateLimit rejects requests beyond the limiter's budget before any browser
// is started.
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many scrape requests, retry later"})
			return
		}
		c.Next()
	}
}

func recovered(c *gin.Context, rec any) {
	log.Printf("❌ Panic while serving %s %s: %v", c.Request.Method, c.Request.URL.Path, rec)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
