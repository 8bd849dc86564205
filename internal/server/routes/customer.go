package routes

import (
	"github.com/gin-gonic/gin"

	"wozamali-core/internal/handler"
)

func RegisterCustomerRoutes(rg *gin.RouterGroup, collections *handler.CollectionHandler, wallets *handler.WalletHandler) {
	g := rg.Group("/customers/:id")
	// Auth middleware here
	{
		g.GET("/collections", collections.ListByCustomer)
		g.GET("/wallet", wallets.GetWallet)
	}

	rg.GET("/fund/summary", wallets.FundSummary)
}
