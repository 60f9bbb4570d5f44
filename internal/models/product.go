package models

import "golang.org/x/text/currency"

type ProductResource struct {
	ProductID   string  `json:"productId"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency,omitempty"`
	Stock       int     `json:"stock"`
}

type Product struct {
	ProductID   string
	Name        string
	Description string
	Price       float64
	Currency    string
	Stock       int
}

func NewProduct(res ProductResource) Product {
	return Product{
		ProductID:   res.ProductID,
		Name:        res.Name,
		Description: res.Description,
		Price:       res.Price,
		Currency:    res.Currency,
		Stock:       res.Stock,
	}
}

func (p Product) InStock() bool { return p.Stock > 0 }

func (p Product) FormattedPrice() string {
	unit := DefaultCurrency
	if p.Currency != "" {
		if parsed, err := currency.ParseISO(p.Currency); err == nil {
			unit = parsed
		}
	}
	return pricePrinter.Sprintf("%v", currency.Symbol(unit.Amount(p.Price)))
}

func (p Product) ToResource() ProductResource {
	return ProductResource{
		ProductID:   p.ProductID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Currency:    p.Currency,
		Stock:       p.Stock,
	}
}
