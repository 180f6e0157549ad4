package models

// PartTransactionKind is the fixed variant set of the part ledger.
type PartTransactionKind string

const (
	PartTransactionKindPurchase         PartTransactionKind = "purchase"
	PartTransactionKindBuildConsumption PartTransactionKind = "build_consumption"
	PartTransactionKindLoss             PartTransactionKind = "loss"
)

// ProductTransactionKind is the fixed variant set of the product ledger.
type ProductTransactionKind string

const (
	ProductTransactionKindBuild ProductTransactionKind = "build"
	ProductTransactionKindLoss  ProductTransactionKind = "loss"
	ProductTransactionKindSale  ProductTransactionKind = "sale"
)
