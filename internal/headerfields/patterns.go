package headerfields

import (
	"regexp"

	"github.com/joseph-ayodele/docextract/internal/entity"
)

// candidate is one way of finding a field. value builds the field text from the
// submatches; nil means "first capture group".
type candidate struct {
	re    *regexp.Regexp
	value func(m []string) string
}

type fieldPatterns struct {
	field entity.HeaderField
	// folded candidates run against width-folded text so full-width digits and
	// latin letters match ASCII classes.
	folded     bool
	candidates []candidate
}

func c(expr string) candidate {
	return candidate{re: regexp.MustCompile(expr)}
}

func postalAddress(m []string) string {
	return "〒" + m[1] + " " + m[2]
}

// label separator: optional spaces, a half- or full-width colon, optional spaces.
const sep = `[ \t]*[：:][ \t]*`

// patterns are evaluated per field in declaration order; the first candidate with a
// non-blank value wins.
var patterns = []fieldPatterns{
	{
		field: entity.FieldSubject,
		candidates: []candidate{
			c(`件[ \t]*名` + sep + `([^\n\r]+)`),
			c(`(?:標[ \t]*題|案[ \t]*件[ \t]*名)` + sep + `([^\n\r]+)`),
			c(`(?i)\bsubject` + sep + `([^\n\r]+)`),
		},
	},
	{
		field: entity.FieldDeliveryLocation,
		candidates: []candidate{
			c(`納(?:入|品)場所` + sep + `([^\n\r]+)`),
			c(`(?:受渡|引渡)場所` + sep + `([^\n\r]+)`),
			c(`(?i)\b(?:delivery[ \t]+(?:location|address|place)|ship[ \t]+to)` + sep + `([^\n\r]+)`),
		},
	},
	{
		field: entity.FieldPaymentTerms,
		candidates: []candidate{
			c(`(?:お)?支払(?:い)?(?:条件|方法)?` + sep + `([^\n\r]+)`),
			c(`(?i)\bpayment[ \t]+terms?` + sep + `([^\n\r]+)`),
			c(`(\d+日締[^\n\r]*)`),
			c(`(月末締[^\n\r]*)`),
		},
	},
	{
		field: entity.FieldQuotationValidity,
		candidates: []candidate{
			c(`(?:御)?見積(?:書)?有効期(?:限|間)` + sep + `([^\n\r]+)`),
			c(`有効期(?:限|間)` + sep + `([^\n\r]+)`),
			c(`(?i)\bvalid(?:ity|[ \t]+until)` + sep + `([^\n\r]+)`),
			c(`(\d+[ヶかカケ]月(?:間)?)`),
		},
	},
	{
		field: entity.FieldVendorAddress,
		candidates: []candidate{
			c(`(?:住[ \t]*所|所在地)` + sep + `([^\n\r]+)`),
			c(`(?i)\baddress` + sep + `([^\n\r]+)`),
			{re: regexp.MustCompile(`〒[ \t]*(\d{3}-\d{4})[ \t]*([^\n\r]+)`), value: postalAddress},
			{re: regexp.MustCompile(`〒[ \t]*(\d{7})[ \t]*([^\n\r]+)`), value: postalAddress},
			c(`([^\n\r]*[都道府県][^\n\r]*[市区町村][^\n\r]*)`),
			c(`([^\n\r]*[市区町村][^\n\r]*(?:番地|丁目)[^\n\r]*)`),
			c(`([^\n\r]*[市区町村][^\n\r]*\d+-\d+[^\n\r]*)`),
		},
	},
	{
		field:  entity.FieldVendorPhoneNumber,
		folded: true,
		candidates: []candidate{
			c(`(?:電話(?:番号)?|TEL|Tel|tel|℡)[ \t]*[：:.]?[ \t]*(0\d{1,4}-?\d{1,4}-?\d{3,4})`),
			c(`(?:携帯|(?i:mobile))[ \t]*[：:.]?[ \t]*(0\d{1,4}-?\d{1,4}-?\d{3,4})`),
			c(`(?:FAX|Fax|fax)[ \t]*[：:.]?[ \t]*(0\d{1,4}-?\d{1,4}-?\d{3,4})`),
			c(`(?:^|[^\d-])(0\d{1,4}-\d{1,4}-\d{4})(?:$|[^\d-])`),
			c(`(?:^|\D)(0\d{9,10})(?:$|\D)`),
		},
	},
	{
		field:  entity.FieldVendorEmail,
		folded: true,
		candidates: []candidate{
			c(`(?i)(?:e-?mail|メール(?:アドレス)?)[ \t]*[：:]?[ \t]*([a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,})`),
			c(`([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`),
		},
	},
}

// structuredKeys lists, per field, the keys of AnalysisResult.fields that already
// carry the value in structured form.
var structuredKeys = map[entity.HeaderField][]string{
	entity.FieldSubject:           {"subject", "Subject", "件名"},
	entity.FieldDeliveryLocation:  {"deliveryLocation", "DeliveryLocation", "納入場所"},
	entity.FieldPaymentTerms:      {"paymentTerms", "PaymentTerms", "お支払条件", "paymentTerm", "PaymentTerm"},
	entity.FieldQuotationValidity: {"quotationValidity", "QuotationValidity", "見積有効期限"},
	entity.FieldVendorAddress:     {"vendorAddress", "VendorAddress", "merchantAddress", "MerchantAddress"},
	entity.FieldVendorPhoneNumber: {"vendorPhoneNumber", "VendorPhoneNumber", "merchantPhoneNumber", "MerchantPhoneNumber"},
	entity.FieldVendorEmail:       {"vendorEmail", "VendorEmail", "merchantEmail", "MerchantEmail"},
}
