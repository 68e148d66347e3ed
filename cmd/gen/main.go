package main

import (
	"blitzshop/internal/infra/persistence/model"

	"gorm.io/gen"
)

func main() {
	models := []any{
		model.UserModel{},
		model.ProductModel{},
		model.CartItemModel{},
		model.CouponModel{},
		model.CouponUsageModel{},
		model.OrderModel{},
		model.OrderItemModel{},
		model.InvoiceModel{},
		model.ReviewModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}
