package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostel_http_requests_total",
		Help: "HTTP requests processed, labelled by method, route and status.",
	}, []string{"method", "route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hostel_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// AssignmentsTotal counts successful room assignments, single and bulk.
	AssignmentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hostel_assignments_total",
		Help: "Room assignments created.",
	})

	// ApplicationsTotal counts accommodation applications by final status.
	ApplicationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hostel_applications_total",
		Help: "Accommodation applications, labelled by lifecycle event.",
	}, []string{"event"})

	// IssuesReportedTotal counts maintenance issues filed.
	IssuesReportedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hostel_maintenance_issues_reported_total",
		Help: "Maintenance issues reported.",
	})
)

// Metrics records per-request counters and latency. Routes are labelled by
// their registered path so path parameters do not explode cardinality.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
