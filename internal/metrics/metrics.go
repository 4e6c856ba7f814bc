package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	WsSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_ws_sessions",
		Help: "Current number of live websocket sessions",
	})
	MessagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_total",
		Help: "Total number of chat messages relayed",
	})
	SweepDeletedGroups = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chat_sweep_deleted_groups_total",
		Help: "Total number of chat groups deleted by the retention sweeper",
	})
	HttpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(WsSessions, MessagesTotal, SweepDeletedGroups, HttpRequestsTotal)
}

// GinMiddleware records basic request counts for Prometheus scraping.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		HttpRequestsTotal.With(prometheus.Labels{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		}).Inc()
	}
}
