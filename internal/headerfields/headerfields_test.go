package headerfields

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/docextract/internal/analysis"
	"github.com/joseph-ayodele/docextract/internal/entity"
)

const quoteText = `御見積書
件名：社内報印刷
納入場所：本社3F 総務部
お支払条件：月末締め翌月末払い
見積有効期限：発行日より3ヶ月
〒812-0011 福岡市博多区博多駅前1-2-3
TEL：092-123-4567 FAX：092-123-4568
Email: sales@example.co.jp`

func TestExtract(t *testing.T) {
	got := Extract(quoteText)

	assert.Equal(t, "社内報印刷", got.Subject)
	assert.Equal(t, "本社3F 総務部", got.DeliveryLocation)
	assert.Equal(t, "月末締め翌月末払い", got.PaymentTerms)
	assert.Equal(t, "発行日より3ヶ月", got.QuotationValidity)
	assert.Equal(t, "〒812-0011 福岡市博多区博多駅前1-2-3", got.VendorAddress)
	assert.Equal(t, "092-123-4567", got.VendorPhoneNumber)
	assert.Equal(t, "sales@example.co.jp", got.VendorEmail)
}

func TestExtractFallbackCandidates(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		field entity.HeaderField
		want  string
	}{
		{"payment closing day", "毎月20日締 翌月10日払い", entity.FieldPaymentTerms, "20日締 翌月10日払い"},
		{"validity months", "本見積の有効は1ヶ月とします", entity.FieldQuotationValidity, "1ヶ月"},
		{"english subject", "Subject: Printer toner", entity.FieldSubject, "Printer toner"},
		{"spaced subject label", "件 名 : 名刺作成", entity.FieldSubject, "名刺作成"},
		{"seven digit postal code", "〒8120011 福岡市博多区", entity.FieldVendorAddress, "〒8120011 福岡市博多区"},
		{"prefecture line", "東京都千代田区丸の内1-1", entity.FieldVendorAddress, "東京都千代田区丸の内1-1"},
		{"bare dashed phone", "お問合せ 03-1234-5678 まで", entity.FieldVendorPhoneNumber, "03-1234-5678"},
		{"bare digit phone", "連絡先 09012345678", entity.FieldVendorPhoneNumber, "09012345678"},
		{"full-width phone", "ＴＥＬ：０３－１２３４－５６７８", entity.FieldVendorPhoneNumber, "03-1234-5678"},
		{"mobile label", "携帯 090-1111-2222", entity.FieldVendorPhoneNumber, "090-1111-2222"},
		{"bare email", "連絡は info@example.com へ", entity.FieldVendorEmail, "info@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			assert.Equal(t, tt.want, got.Get(tt.field))
		})
	}
}

func TestPhoneRejectsLongDigitRuns(t *testing.T) {
	got := Extract("注文番号 1234567890123")
	assert.Empty(t, got.VendorPhoneNumber)
}

func TestBlankCaptureFallsThrough(t *testing.T) {
	got := Extract("件名：   \nSubject: Paper")
	assert.Equal(t, "Paper", got.Subject)
}

func TestStructuredFieldWins(t *testing.T) {
	r := &analysis.AnalysisResult{
		Fields: map[string]analysis.Value{"subject": analysis.String("A")},
		Pages:  []analysis.Page{{Lines: []analysis.Line{{Content: "件名：B"}, {Content: "納入場所：倉庫"}}}},
	}
	got := FromResult(r)
	assert.Equal(t, "A", got.Subject)
	assert.Equal(t, "倉庫", got.DeliveryLocation)
}

func TestFromFieldsProviderNames(t *testing.T) {
	fields := map[string]analysis.Value{
		"件名":        analysis.Object(map[string]analysis.Value{"content": analysis.String("年賀状")}),
		"PaymentTerm": analysis.String("Net 30"),
		"vendorEmail": analysis.String(""),
	}
	got := FromFields(fields)
	assert.Equal(t, "年賀状", got.Subject)
	assert.Equal(t, "Net 30", got.PaymentTerms)
	assert.Empty(t, got.VendorEmail)
}

func TestFillLeavesSetFields(t *testing.T) {
	set := entity.HeaderFieldSet{VendorEmail: "keep@example.com"}
	written := Fill(&set, "件名：X\nmail: other@example.com")
	assert.Equal(t, []entity.HeaderField{entity.FieldSubject}, written)
	assert.Equal(t, "keep@example.com", set.VendorEmail)
}

func TestEmptyInputs(t *testing.T) {
	assert.True(t, Extract("").IsEmpty())
	assert.True(t, FromFields(nil).IsEmpty())
	assert.True(t, FromResult(nil).IsEmpty())
	assert.True(t, FromResult(&analysis.AnalysisResult{}).IsEmpty())
}
