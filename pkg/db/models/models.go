package models

import "github.com/google/uuid"

// All lists every persisted model in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Supplier{},
		&Category{},
		&Product{},
		&PurchaseOrder{},
		&PurchaseOrderItem{},
		&Inventory{},
	}
}

func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
