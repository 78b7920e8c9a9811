package types

// Standard record keys in the durable key-value store.
const (
	RecordCart         = "shoppingCart"
	RecordOrderHistory = "orderHistory"
	RecordHandoff      = "cartData"
)

// StandardRecordKeys lists all standard record keys for enumeration.
var StandardRecordKeys = []string{
	RecordCart,
	RecordOrderHistory,
	RecordHandoff,
}
