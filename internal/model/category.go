package model

// TransferCategoryName is the reserved category assigned to transfer
// transactions when the caller does not pick one.
const TransferCategoryName = "Transferencia"

// DebtCategoryName is the category conventionally used for debt payments.
const DebtCategoryName = "Deudas"

// Category labels transactions, budgets, and obligations.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// DefaultCategories returns the categories seeded into a fresh profile.
// The set includes the reserved transfer and debt categories.
func DefaultCategories() []Category {
	return []Category{
		{ID: "1", Name: "Alimentación", Color: "#ef4444", Icon: "🍔"},
		{ID: "2", Name: "Vivienda", Color: "#3b82f6", Icon: "🏠"},
		{ID: "3", Name: "Transporte", Color: "#f59e0b", Icon: "🚗"},
		{ID: "4", Name: "Servicios", Color: "#10b981", Icon: "⚡"},
		{ID: "5", Name: "Suscripciones", Color: "#8b5cf6", Icon: "📺"},
		{ID: "6", Name: "Salario", Color: "#22c55e", Icon: "💰"},
		{ID: "7", Name: TransferCategoryName, Color: "#94a3b8", Icon: "🔄"},
		{ID: "8", Name: "Otros", Color: "#64748b", Icon: "📦"},
		{ID: "9", Name: DebtCategoryName, Color: "#6366f1", Icon: "📉"},
	}
}
