package httpapi

import (
	"github.com/gin-gonic/gin"
)

// NewRouter wires every façade route onto a fresh gin engine, grounded on
// Dorafanboy-balance_checker's router.go group layout.
func NewRouter(balances *BalanceHandler) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/", Liveness)
	engine.GET("/status", Status)

	v1 := engine.Group("/v1/balances")
	{
		v1.GET("/coin/:chain/:address", balances.Coin)
		v1.GET("/assets/:chain/:address", balances.Assets)
		v1.GET("/staking/:chain/:address", balances.Staking)
		v1.GET("/tokens/:chain/:address", balances.Tokens)
	}

	return engine
}
