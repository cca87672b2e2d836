package compose

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/qiushui-dev/inkseal/internal/model"
)

// 审计信息版式常量（点）
const (
	auditMarginX            = 50
	auditLineHeight         = 12
	auditBaselineFromBottom = 40
	auditHeadingGap         = 8
)

// drawAuditTrail 在最后一页追加审计信息
// 固定底部基线，记录自下而上堆叠，标题位于所有记录之上；
// 每个已签署请求一行，与其域是否全部渲染无关
func drawAuditTrail(pdf *gofpdf.Fpdf, pageHeight float64, signed []*model.SignatureRequest) {
	n := len(signed)
	if n == 0 {
		return
	}

	baseY := pageHeight - auditBaselineFromBottom
	headingY := baseY - float64(n)*auditLineHeight - auditHeadingGap

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(auditMarginX, headingY, "AUDIT TRAIL")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(102, 102, 102)
	for i, request := range signed {
		y := baseY - float64(n-1-i)*auditLineHeight
		line := fmt.Sprintf("%s (%s) - Signed: %s",
			request.Recipient.Name, request.Recipient.Email, formatTimestamp(request.SignedAt))
		pdf.Text(auditMarginX, y, line)
	}
	pdf.SetTextColor(0, 0, 0)
}
