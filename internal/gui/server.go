// A small gin HTTP server exposing the latest planning report.
// The gui sends an empty struct over the runner bridge and the runner
// answers with the most recent report, which the endpoints serialize.
package gui

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/sim"
)

var reportRequestStream chan<- struct{}
var reportStream <-chan *sim.PlanReport
var router *gin.Engine

func registerRoutes() {
	router.GET("/report", func(ctx *gin.Context) {
		reportRequestStream <- struct{}{}
		ctx.JSON(http.StatusOK, <-reportStream)
	})

	router.GET("/violations", func(ctx *gin.Context) {
		reportRequestStream <- struct{}{}
		report := <-reportStream
		ctx.JSON(http.StatusOK, gin.H{
			"violations": report.Violations,
			"feasible":   report.Feasible,
		})
	})

	router.GET("/statistics", func(ctx *gin.Context) {
		reportRequestStream <- struct{}{}
		report := <-reportStream
		ctx.JSON(http.StatusOK, gin.H{
			"counters":     report.Counters,
			"search_stats": report.SearchStats,
			"feasible":     report.Feasible,
		})
	})
}

func SetUp(bridge sim.Bridge) {
	reportStream = bridge.ReportStream
	reportRequestStream = bridge.ReportRequestStream

	router = gin.Default()
	router.Use(cors.Default())

	registerRoutes()
}

func Run(port int) {
	if port <= 0 {
		port = 8080
	}
	router.Run(fmt.Sprintf(":%d", port))
}
