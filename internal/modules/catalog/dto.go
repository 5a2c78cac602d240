package catalog

type CreateVenueRequest struct {
	Name        string `json:"name" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Description string `json:"description"`
}

type AddHallRequest struct {
	Name      string  `json:"name" binding:"required"`
	Capacity  int     `json:"capacity" binding:"required"`
	BasePrice float64 `json:"base_price" binding:"required"`
}

type AddFoodRequest struct {
	Name     string  `json:"name" binding:"required"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

type ListQuery struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}
