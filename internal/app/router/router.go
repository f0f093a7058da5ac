package router

import (
	"github.com/gin-gonic/gin"

	convhandler "fintools/internal/feature/conversion/transport/handler"
	snaphandler "fintools/internal/feature/snapshot/transport/handler"
	"fintools/internal/platform/http/handler"
)

func NewRouter(resolve *convhandler.ResolveHandler, snapshots *snaphandler.SnapshotHandler,
	checks map[string]handler.Check) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	health := handler.Health(checks)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)

	api := r.Group("/api/v1")
	{
		// ISIN → シンボル変換
		api.POST("/resolve", resolve.Resolve)
		api.GET("/cache", resolve.Cache)

		// シンボル一覧の書き出しと比較
		api.POST("/exports", snapshots.Export)
		api.POST("/compare", snapshots.Compare)
		api.POST("/compare/latest", snapshots.CompareLatest)
		api.GET("/snapshots", snapshots.List)
	}

	return r
}
