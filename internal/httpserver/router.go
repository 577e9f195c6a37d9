package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/truongnx/gearstore/internal/middleware"
)

type Deps struct {
	DB        *gorm.DB
	JWTSecret []byte

	Auth     *AuthHTTP
	Cart     *CartHTTP
	Product  *ProductHTTP
	Taxonomy *TaxonomyHTTP
	Order    *OrderHTTP
	Search   *SearchHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1", middleware.Identify(d.JWTSecret))

	v1.POST("/register", d.Auth.Register)
	v1.POST("/login", d.Auth.Login)
	v1.POST("/logout", d.Auth.Logout)

	v1.GET("/search", d.Search.SearchProducts)

	products := v1.Group("/products")
	products.GET("", d.Product.ListProducts)
	products.GET("/:id", d.Product.GetProduct)

	categories := v1.Group("/categories")
	categories.GET("", d.Taxonomy.ListCategories)
	categories.GET("/:id", d.Taxonomy.GetCategory)

	brands := v1.Group("/brands")
	brands.GET("", d.Taxonomy.ListBrands)
	brands.GET("/:id", d.Taxonomy.GetBrand)

	cart := v1.Group("/cart")
	cart.GET("", d.Cart.GetCart)
	cart.POST("/items", d.Cart.AddItem)
	cart.PATCH("/items/:productId", d.Cart.UpdateItem)
	cart.DELETE("/items/:productId", d.Cart.RemoveItem)
	cart.DELETE("", d.Cart.ClearCart)
	cart.POST("/merge", d.Cart.MergeCart, middleware.RequireLogin(d.JWTSecret))

	v1.POST("/checkout", d.Order.PlaceOrder)

	orders := v1.Group("/orders", middleware.RequireLogin(d.JWTSecret))
	orders.GET("", d.Order.ListMyOrders)
	orders.GET("/:id", d.Order.GetOrder)

	admin := v1.Group("/admin", middleware.AdminOnly(d.JWTSecret))
	admin.POST("/products", d.Product.CreateProduct)
	admin.PATCH("/products/:id", d.Product.PatchProduct)
	admin.DELETE("/products/:id", d.Product.DeactivateProduct)
	admin.POST("/products/:id/restock", d.Product.Restock)
	admin.POST("/categories", d.Taxonomy.CreateCategory)
	admin.PATCH("/categories/:id", d.Taxonomy.UpdateCategory)
	admin.DELETE("/categories/:id", d.Taxonomy.DeactivateCategory)
	admin.POST("/brands", d.Taxonomy.CreateBrand)
	admin.PATCH("/brands/:id", d.Taxonomy.UpdateBrand)
	admin.DELETE("/brands/:id", d.Taxonomy.DeactivateBrand)
	admin.GET("/dashboard", d.Order.Dashboard)
	admin.GET("/orders", d.Order.ListAllOrders)
	admin.PATCH("/orders/:id/status", d.Order.UpdateStatus)
	admin.PATCH("/orders/:id/payment", d.Order.UpdatePayment)
}
