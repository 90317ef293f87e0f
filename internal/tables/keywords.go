package tables

// Role is the meaning of a table column.
type Role int

const (
	RoleDescription Role = iota
	RoleQuantity
	RoleUnitPrice
	RoleAmount
	RoleUnit
	RoleProductCode
)

// coreRoles decide whether a row is a header; RoleUnit and RoleProductCode only
// enrich items once a header has been found.
var coreRoles = []Role{RoleDescription, RoleQuantity, RoleUnitPrice, RoleAmount}

// allRoles is also the tie-break order when two roles match equally long keywords.
var allRoles = []Role{RoleDescription, RoleQuantity, RoleUnitPrice, RoleAmount, RoleUnit, RoleProductCode}

func (r Role) String() string {
	switch r {
	case RoleDescription:
		return "description"
	case RoleQuantity:
		return "quantity"
	case RoleUnitPrice:
		return "unitPrice"
	case RoleAmount:
		return "amount"
	case RoleUnit:
		return "unit"
	case RoleProductCode:
		return "productCode"
	}
	return "unknown"
}

// roleKeywords holds lower-case header labels in Japanese and English.
var roleKeywords = map[Role][]string{
	RoleDescription: {
		"商品", "品名", "品目", "項目", "内容", "摘要", "明細", "件名",
		"item", "product", "description", "name",
	},
	RoleQuantity: {
		"数量", "数", "個数", "部数", "枚数",
		"qty", "quantity", "pcs",
	},
	RoleUnitPrice: {
		"単価",
		"unit price", "unit cost", "price",
	},
	RoleAmount: {
		"金額", "価格", "小計", "合計", "税抜金額",
		"amount", "total", "subtotal", "total price", "line total",
	},
	RoleUnit: {
		"単位",
		"unit", "uom",
	},
	RoleProductCode: {
		"品番", "型番", "コード", "商品コード",
		"code", "sku", "item no", "part no",
	},
}
