package transport

import (
	"github.com/JMPenyaP/fixer-back-end/internal/models"
	"github.com/JMPenyaP/fixer-back-end/internal/service"
)

type MonthSales struct {
	Month      string  `json:"month"`
	TotalSales float64 `json:"total_sales"`
}

type SalesByMonthResponse struct {
	Success      bool         `json:"success"`
	SalesByMonth []MonthSales `json:"sales_by_month"`
}

type OrdersByGenderResponse struct {
	Hombres           int64 `json:"hombres"`
	Mujeres           int64 `json:"mujeres"`
	PrefieroNoDecirlo int64 `json:"prefiero_no_decirlo"`
	Unknown           int64 `json:"unknown"`
}

type BuyerResponse struct {
	User        *models.User `json:"user"`
	TotalOrders int64        `json:"total_orders"`
}

type ProductSalesResponse struct {
	Product   *models.Product `json:"product"`
	TotalSold int64           `json:"total_sold"`
}

type TotalsResponse struct {
	Orders   int64 `json:"orders"`
	Users    int64 `json:"users"`
	Products int64 `json:"products"`
}

func NewSalesByMonthResponse(in []service.MonthlySales) SalesByMonthResponse {
	out := SalesByMonthResponse{Success: true, SalesByMonth: make([]MonthSales, 0, len(in))}
	for _, m := range in {
		out.SalesByMonth = append(out.SalesByMonth, MonthSales{
			Month:      m.MonthName,
			TotalSales: m.TotalSales.InexactFloat64(),
		})
	}
	return out
}

func NewOrdersByGenderResponse(in service.GenderOrders) OrdersByGenderResponse {
	return OrdersByGenderResponse{
		Hombres:           in.Men,
		Mujeres:           in.Women,
		PrefieroNoDecirlo: in.PreferNotToSay,
		Unknown:           in.Unknown,
	}
}

func NewBuyersResponse(in []service.BuyerCount) []BuyerResponse {
	out := make([]BuyerResponse, 0, len(in))
	for _, b := range in {
		out = append(out, BuyerResponse{User: b.User, TotalOrders: b.TotalOrders})
	}
	return out
}

func NewProductSalesResponse(in []service.ProductSales) []ProductSalesResponse {
	out := make([]ProductSalesResponse, 0, len(in))
	for _, p := range in {
		out = append(out, ProductSalesResponse{Product: p.Product, TotalSold: p.TotalSold})
	}
	return out
}

func NewTotalsResponse(in service.Totals) TotalsResponse {
	return TotalsResponse{Orders: in.Orders, Users: in.Users, Products: in.Products}
}
