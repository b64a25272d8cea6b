package model

// Budget caps monthly spending for a category. One entry per category;
// setting a new limit overwrites the old one. A limit of 0 means "no
// budget set", never "zero tolerance".
type Budget struct {
	CategoryID string  `json:"categoryId"`
	Limit      float64 `json:"limit"`
}
