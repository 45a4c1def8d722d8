package models

// CategoryColumns is the canonical column order of the category sheet
var CategoryColumns = []string{"category_id", "name", "icon"}

// BasicColumns is the canonical column order of the basic product sheet
var BasicColumns = []string{
	"product_id",
	"name",
	"category",
	"sub_category",
	"description",
	"price",
	"image_url",
	"cost",
}

// PipeColumns is the canonical column order of the custom pipe sheet
var PipeColumns = []string{
	"product_id",
	"name",
	"category",
	"price",
	"diameter",
	"length",
	"ptfeGrade",
	"coating",
	"flange",
	"ventHole",
	"grounding",
	"vacuumRated",
	"cost",
}

// Category is a catalog category row
type Category struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Icon       string `json:"icon"`
}

// BasicProduct is the request body for creating or updating a basic product
type BasicProduct struct {
	ProductID   string      `json:"product_id"`
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	SubCategory string      `json:"sub_category"`
	Description string      `json:"description"`
	Price       interface{} `json:"price"`
	ImageURL    string      `json:"image_url"`
	Cost        interface{} `json:"cost"`
}

// PipeProduct is the request body for creating or updating a custom pipe
type PipeProduct struct {
	Price        interface{} `json:"price"`
	Diameter     string      `json:"diameter"`
	Length       string      `json:"length"`
	PtfeGrade    string      `json:"ptfeGrade"`
	Coating      string      `json:"coating"`
	FlangeConfig string      `json:"flangeConfig"`
	VentHole     *bool       `json:"ventHole"`
	Grounding    *bool       `json:"grounding"`
	VacuumRated  *bool       `json:"vacuumRated"`
	Cost         interface{} `json:"cost"`
}

// ProductUpdate is the request body for updating a product of either kind
type ProductUpdate struct {
	ProductID    string      `json:"product_id"`
	Name         *string     `json:"name"`
	Category     string      `json:"category"`
	SubCategory  *string     `json:"sub_category"`
	Description  *string     `json:"description"`
	Price        interface{} `json:"price"`
	ImageURL     *string     `json:"image_url"`
	Cost         interface{} `json:"cost"`
	Diameter     *string     `json:"diameter"`
	Length       *string     `json:"length"`
	PtfeGrade    *string     `json:"ptfeGrade"`
	Coating      *string     `json:"coating"`
	FlangeConfig *string     `json:"flangeConfig"`
	VentHole     *bool       `json:"ventHole"`
	Grounding    *bool       `json:"grounding"`
	VacuumRated  *bool       `json:"vacuumRated"`
}
