package ports

import "github.com/jhoicas/stock-laundry/internal/application/dto"

// RestockReportGenerator define el puerto para generar el PDF de reposición de una ubicación.
type RestockReportGenerator interface {
	GenerateRestockPDF(report *dto.RestockReportDTO) ([]byte, error)
}
