package reports

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rentdesk/rentroll_backend/config"
	"github.com/rentdesk/rentroll_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// RentRollRow is one bill joined with its room and tenant for the export.
type RentRollRow struct {
	BillId      int             `json:"bill_id"`
	RoomName    *string         `json:"room_name"`
	TenantName  *string         `json:"tenant_name"`
	Rent        decimal.Decimal `json:"rent"`
	Water       decimal.Decimal `json:"water"`
	Electricity decimal.Decimal `json:"electricity"`
	AdHocAmount decimal.Decimal `json:"ad_hoc_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Pending     decimal.Decimal `json:"pending"`
	Status      string          `json:"status"`
	CreatedAt   string          `json:"created_at"`
}

func GetRentRollReport(ctx context.Context) ([]*RentRollRow, error) {

	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	sql := `
SELECT
    bills.id AS bill_id,
    rooms.name AS room_name,
    tenants.name AS tenant_name,
    bills.rent,
    bills.water,
    bills.electricity,
    bills.ad_hoc_amount,
    bills.total_amount,
    bills.paid_amount,
    bills.total_amount - bills.paid_amount AS pending,
    bills.status,
    bills.created_at
FROM
    bills
    LEFT JOIN rooms ON rooms.id = bills.room_id
    LEFT JOIN tenants ON tenants.id = bills.tenant_id
WHERE
    bills.owner_id = ?
ORDER BY
    bills.created_at DESC, bills.id DESC;
`

	var records []*RentRollRow
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, ownerId).Scan(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// WriteRentRollExcel renders the rent roll as an xlsx workbook.
func WriteRentRollExcel(ctx context.Context, w io.Writer) error {

	data, err := GetRentRollReport(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	sheet := "Sheet1"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	// Add headers
	f.SetCellValue(sheet, "A1", "Bill")
	f.SetCellValue(sheet, "B1", "Room")
	f.SetCellValue(sheet, "C1", "Tenant")
	f.SetCellValue(sheet, "D1", "Rent")
	f.SetCellValue(sheet, "E1", "Water")
	f.SetCellValue(sheet, "F1", "Electricity")
	f.SetCellValue(sheet, "G1", "AdHoc")
	f.SetCellValue(sheet, "H1", "Total")
	f.SetCellValue(sheet, "I1", "Paid")
	f.SetCellValue(sheet, "J1", "Pending")
	f.SetCellValue(sheet, "K1", "Status")
	f.SetCellValue(sheet, "L1", "Date")

	// Add data
	for i, d := range data {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(sheet, "A"+row, d.BillId)
		f.SetCellValue(sheet, "B"+row, utils.DereferencePtr(d.RoomName, ""))
		f.SetCellValue(sheet, "C"+row, utils.DereferencePtr(d.TenantName, ""))
		f.SetCellValue(sheet, "D"+row, d.Rent.InexactFloat64())
		f.SetCellValue(sheet, "E"+row, d.Water.InexactFloat64())
		f.SetCellValue(sheet, "F"+row, d.Electricity.InexactFloat64())
		f.SetCellValue(sheet, "G"+row, d.AdHocAmount.InexactFloat64())
		f.SetCellValue(sheet, "H"+row, d.TotalAmount.InexactFloat64())
		f.SetCellValue(sheet, "I"+row, d.PaidAmount.InexactFloat64())
		f.SetCellValue(sheet, "J"+row, d.Pending.InexactFloat64())
		f.SetCellValue(sheet, "K"+row, d.Status)
		f.SetCellValue(sheet, "L"+row, d.CreatedAt)
	}

	return f.Write(w)
}
